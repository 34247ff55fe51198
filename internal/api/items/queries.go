package items

import (
	"exhibits-app/internal/domain/exhibits"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// scopeFromQuery resolves the sibling scope a list request targets: the
// exhibit's top level by default, or one grid/timeline via query params.
func scopeFromQuery(c *gin.Context, exhibitID string) exhibits.Scope {
	return exhibits.Scope{
		ExhibitID:  exhibitID,
		GridID:     c.Query("grid"),
		TimelineID: c.Query("timeline"),
	}
}

func scopeItems(db *gorm.DB, scope exhibits.Scope) ([]exhibits.Item, error) {
	var list []exhibits.Item
	err := scope.Apply(db.Model(&exhibits.Item{})).
		Preload("Media").
		Order("item_order ASC").
		Find(&list).Error
	return list, err
}

func itemInExhibit(db *gorm.DB, exhibitID, itemID string) (exhibits.Item, error) {
	var it exhibits.Item
	err := db.First(&it, "uuid = ? AND exhibit_id = ?", itemID, exhibitID).Error
	return it, err
}

func exhibitByUUID(db *gorm.DB, id string) (exhibits.Exhibit, error) {
	var e exhibits.Exhibit
	err := db.First(&e, "uuid = ?", id).Error
	return e, err
}

// scopeOf recovers the sibling scope an existing item belongs to.
func scopeOf(it exhibits.Item) exhibits.Scope {
	s := exhibits.Scope{ExhibitID: it.ExhibitID}
	if it.GridID != nil {
		s.GridID = *it.GridID
	}
	if it.TimelineID != nil {
		s.TimelineID = *it.TimelineID
	}
	return s
}
