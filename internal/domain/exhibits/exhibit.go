package exhibits

import (
	"encoding/json"
	"time"

	"exhibits-app/internal/domain/media"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Exhibit is the owning collection for an ordered list of content items.
type Exhibit struct {
	UUID string `gorm:"type:uuid;primaryKey" json:"uuid"`

	Title    string `gorm:"not null" json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	About    string `json:"about,omitempty"`

	BannerID *string     `gorm:"type:uuid" json:"banner_id,omitempty"`
	Banner   *media.File `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"banner,omitempty"`

	Styles json.RawMessage `gorm:"type:jsonb;not null;default:'{}'" json:"styles"`

	IsPublished int `gorm:"not null;default:0" json:"is_published"`

	// OrderVersion is bumped on every successful reorder in any of the
	// exhibit's scopes. The list endpoint returns it and the reorder
	// endpoint may require it, so a stale submission is detectable.
	OrderVersion int64 `gorm:"not null;default:0" json:"order_version"`

	// Advisory edit lock. The server is not a lease authority; a lock
	// older than the configured timeout is reclaimable by anyone.
	LockedByUserID *uint      `gorm:"index" json:"locked_by_user_id,omitempty"`
	LockedAt       *time.Time `json:"locked_at,omitempty"`

	Items []Item `gorm:"foreignKey:ExhibitID;references:UUID;constraint:OnDelete:CASCADE;" json:"items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Exhibit) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == "" {
		e.UUID = uuid.NewString()
	}
	if len(e.Styles) == 0 {
		e.Styles = json.RawMessage("{}")
	}
	return nil
}

// LockedByOther reports whether userID is shut out by a live lock held by
// someone else. Expired locks do not count.
func (e *Exhibit) LockedByOther(userID uint, timeout time.Duration, now time.Time) bool {
	if e.LockedByUserID == nil || e.LockedAt == nil {
		return false
	}
	if *e.LockedByUserID == userID {
		return false
	}
	return now.Sub(*e.LockedAt) < timeout
}
