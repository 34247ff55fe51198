// Package client is the Go counterpart of the admin dashboard's item
// controller: it loads an exhibit scope's ordered item list, applies
// local move gestures, and persists the resulting full-replacement
// order, publish/suppress toggles, and deletes against the REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrUnauthenticated means the token was missing or rejected; the
	// caller is expected to send the user back through login.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrExhibitNotPublished is the publish precondition: an item can
	// only be published once its parent exhibit is.
	ErrExhibitNotPublished = errors.New("parent exhibit is not published")

	// ErrUpdateInFlight guards against duplicate submissions from one
	// rapid gesture; the first call must finish before the next.
	ErrUpdateInFlight = errors.New("a submission is already in flight")

	ErrUnknownItem = errors.New("unknown item")
)

// Client issues authenticated calls against the exhibits API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// do runs one request and hands back the status and raw body. A 401 is
// surfaced as ErrUnauthenticated regardless of the operation.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("x-access-token", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return resp.StatusCode, raw, ErrUnauthenticated
	}
	return resp.StatusCode, raw, nil
}

// apiError extracts the server's error message for a failed call.
func apiError(status int, raw []byte) error {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return fmt.Errorf("server returned %d: %s", status, body.Error)
	}
	return fmt.Errorf("server returned %d", status)
}

// LockExhibit takes the advisory edit lock on an exhibit.
func (c *Client) LockExhibit(ctx context.Context, exhibitID string) error {
	status, raw, err := c.do(ctx, http.MethodPost, "/exhibits/"+exhibitID+"/lock", nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return apiError(status, raw)
	}
	return nil
}

// UnlockExhibit releases the advisory edit lock.
func (c *Client) UnlockExhibit(ctx context.Context, exhibitID string) error {
	status, raw, err := c.do(ctx, http.MethodDelete, "/exhibits/"+exhibitID+"/lock", nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return apiError(status, raw)
	}
	return nil
}
