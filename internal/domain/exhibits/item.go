package exhibits

import (
	"encoding/json"
	"time"

	"exhibits-app/internal/domain/media"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item types. The set is closed and an item's type is immutable after
// creation; changing type means delete and recreate.
const (
	TypeHeading      = "heading"
	TypeItem         = "item"
	TypeGrid         = "grid"
	TypeTimeline     = "timeline"
	TypeGridItem     = "griditem"
	TypeTimelineItem = "timelineitem"
)

func ValidType(t string) bool {
	switch t {
	case TypeHeading, TypeItem, TypeGrid, TypeTimeline, TypeGridItem, TypeTimelineItem:
		return true
	}
	return false
}

// NestedType reports whether t may only live inside a grid or timeline.
func NestedType(t string) bool {
	return t == TypeGridItem || t == TypeTimelineItem
}

// Item is one row in an exhibit's content list: a heading, a standard
// item, a grid or timeline container, or a child of one of those.
type Item struct {
	UUID string `gorm:"type:uuid;primaryKey" json:"uuid"`
	Type string `gorm:"type:text;not null;index" json:"type"`

	ExhibitID  string  `gorm:"type:uuid;not null;index:idx_items_exhibit_order,priority:1" json:"is_member_of_exhibit"`
	GridID     *string `gorm:"type:uuid;index" json:"is_member_of_grid,omitempty"`
	TimelineID *string `gorm:"type:uuid;index" json:"is_member_of_timeline,omitempty"`

	// 1-based position, unique and contiguous within the item's sibling
	// scope (exhibit top level, one grid, or one timeline).
	Order int `gorm:"column:item_order;not null;default:0;index:idx_items_exhibit_order,priority:2" json:"order"`

	IsPublished int `gorm:"not null;default:0" json:"is_published"`

	Title   string `json:"title,omitempty"`
	Text    string `json:"item_text,omitempty"`
	Caption string `json:"caption,omitempty"`

	MediaID *string     `gorm:"type:uuid" json:"media_id,omitempty"`
	Media   *media.File `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"media,omitempty"`

	Styles json.RawMessage `gorm:"type:jsonb;not null;default:'{}'" json:"styles"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.UUID == "" {
		i.UUID = uuid.NewString()
	}
	if len(i.Styles) == 0 {
		i.Styles = json.RawMessage("{}")
	}
	return nil
}

// TopLevel reports whether the item sits in the exhibit's own list rather
// than inside a grid or timeline.
func (i *Item) TopLevel() bool {
	return i.GridID == nil && i.TimelineID == nil
}

// Scope identifies one sibling collection: an exhibit's top-level list,
// or the children of one grid or one timeline within it.
type Scope struct {
	ExhibitID  string
	GridID     string
	TimelineID string
}

// Apply narrows db to the rows belonging to the scope.
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	db = db.Where("exhibit_id = ?", s.ExhibitID)
	switch {
	case s.GridID != "":
		return db.Where("grid_id = ?", s.GridID)
	case s.TimelineID != "":
		return db.Where("timeline_id = ?", s.TimelineID)
	default:
		return db.Where("grid_id IS NULL AND timeline_id IS NULL")
	}
}

// Contains reports whether it belongs to the scope's sibling set.
func (s Scope) Contains(it Item) bool {
	if it.ExhibitID != s.ExhibitID {
		return false
	}
	switch {
	case s.GridID != "":
		return it.GridID != nil && *it.GridID == s.GridID
	case s.TimelineID != "":
		return it.TimelineID != nil && *it.TimelineID == s.TimelineID
	default:
		return it.TopLevel()
	}
}
