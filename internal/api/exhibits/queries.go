package exhibits

import (
	"errors"

	"exhibits-app/internal/domain/exhibits"

	"gorm.io/gorm"
)

var errPublished = errors.New("published")

func exhibitByUUID(db *gorm.DB, id string) (exhibits.Exhibit, error) {
	var e exhibits.Exhibit
	err := db.First(&e, "uuid = ?", id).Error
	return e, err
}

func itemCount(db *gorm.DB, exhibitID string) int64 {
	var n int64
	db.Model(&exhibits.Item{}).Where("exhibit_id = ?", exhibitID).Count(&n)
	return n
}
