package media

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SourceUpload     = "upload"
	SourceRepository = "repository"
	SourceVideo      = "video"
)

const (
	KindImage    = "image"
	KindVideo    = "video"
	KindDocument = "document"
)

// File is one media-library entry: an uploaded file, an object imported
// from a digital repository, or a third-party video reference.
type File struct {
	UUID string `gorm:"type:uuid;primaryKey" json:"uuid"`

	Filename string `gorm:"not null" json:"filename"`
	MimeType string `json:"mime_type"`
	Bytes    int64  `json:"bytes"`
	Sha256   string `gorm:"index" json:"sha256,omitempty"`

	Kind   string `gorm:"not null;index" json:"kind"`
	Source string `gorm:"not null" json:"source"`

	// SourceURI is the repository or video URL the entry came from.
	SourceURI *string `json:"source_uri,omitempty"`

	// Provider and ProviderID are set for video references only.
	Provider   *string `json:"provider,omitempty"`
	ProviderID *string `json:"provider_id,omitempty"`

	// StorageKey is the path under the media directory. Empty for video
	// references, which carry no bytes.
	StorageKey string `json:"storage_key,omitempty"`

	CreatedBy *uint `gorm:"index" json:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.UUID == "" {
		f.UUID = uuid.NewString()
	}
	return nil
}

// KindForMime buckets a sniffed MIME type into the library's kinds.
func KindForMime(mime string) string {
	switch {
	case len(mime) >= 6 && mime[:6] == "image/":
		return KindImage
	case len(mime) >= 6 && mime[:6] == "video/":
		return KindVideo
	default:
		return KindDocument
	}
}
