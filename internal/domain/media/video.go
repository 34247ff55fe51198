package media

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

const (
	ProviderYouTube = "youtube"
	ProviderVimeo   = "vimeo"
)

var ErrUnsupportedVideoURL = errors.New("unsupported video url")

var (
	youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)
	vimeoIDPattern   = regexp.MustCompile(`^[0-9]+$`)
)

// ParseVideoURL extracts the provider and video id from a YouTube or
// Vimeo link. Only the two providers the exhibits frontend embeds are
// recognized.
func ParseVideoURL(raw string) (provider, id string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", "", ErrUnsupportedVideoURL
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if v := u.Query().Get("v"); youtubeIDPattern.MatchString(v) {
			return ProviderYouTube, v, nil
		}
		// /embed/{id} and /shorts/{id} forms
		if parts := strings.Split(strings.Trim(u.Path, "/"), "/"); len(parts) == 2 {
			if (parts[0] == "embed" || parts[0] == "shorts") && youtubeIDPattern.MatchString(parts[1]) {
				return ProviderYouTube, parts[1], nil
			}
		}
	case "youtu.be":
		if v := strings.Trim(u.Path, "/"); youtubeIDPattern.MatchString(v) {
			return ProviderYouTube, v, nil
		}
	case "vimeo.com", "player.vimeo.com":
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		// vimeo.com/{id} or player.vimeo.com/video/{id}
		last := parts[len(parts)-1]
		if vimeoIDPattern.MatchString(last) {
			return ProviderVimeo, last, nil
		}
	}

	return "", "", ErrUnsupportedVideoURL
}
