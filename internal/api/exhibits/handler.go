package exhibits

import (
	"net/http"
	"time"

	"exhibits-app/config"
	"exhibits-app/database"
	"exhibits-app/internal/domain/exhibits"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// ------------------------------
// GET /exhibits
// ------------------------------
func ListExhibits(c *gin.Context) {
	var list []exhibits.Exhibit
	err := database.DB.
		Preload("Banner").
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load exhibits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// ------------------------------
// POST /exhibits
// ------------------------------
func CreateExhibit(c *gin.Context) {
	var req CreateExhibitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, ok := mustUserID(c); !ok {
		return
	}

	e := exhibits.Exhibit{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		About:    req.About,
		BannerID: req.BannerID,
		Styles:   req.Styles,
	}
	if err := database.DB.Create(&e).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create exhibit"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"uuid": e.UUID})
}

// ------------------------------
// GET /exhibits/:exhibit_id
// ------------------------------
func GetExhibit(c *gin.Context) {
	id := c.Param("exhibit_id")

	var e exhibits.Exhibit
	err := database.DB.
		Preload("Banner").
		First(&e, "uuid = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exhibit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load exhibit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       e,
		"item_count": itemCount(database.DB, e.UUID),
	})
}

// ------------------------------
// PUT /exhibits/:exhibit_id
// ------------------------------
func UpdateExhibit(c *gin.Context) {
	id := c.Param("exhibit_id")

	var req UpdateExhibitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	e, err := exhibitByUUID(database.DB, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exhibit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load exhibit"})
		return
	}

	if e.LockedByOther(userID, config.EXHIBIT_LOCK_TIMEOUT, time.Now()) {
		c.JSON(http.StatusConflict, gin.H{
			"error":                   "Exhibit is locked by another user",
			"is_locked_by_other_user": true,
			"locked_by_user_id":       e.LockedByUserID,
		})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Subtitle != nil {
		updates["subtitle"] = *req.Subtitle
	}
	if req.About != nil {
		updates["about"] = *req.About
	}
	if req.BannerID != nil {
		updates["banner_id"] = *req.BannerID
	}
	if req.Styles != nil {
		updates["styles"] = req.Styles
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	if err := database.DB.Model(&exhibits.Exhibit{}).
		Where("uuid = ?", id).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update exhibit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ------------------------------
// DELETE /exhibits/:exhibit_id
// ------------------------------
func DeleteExhibit(c *gin.Context) {
	id := c.Param("exhibit_id")

	if _, ok := mustUserID(c); !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		e, err := exhibitByUUID(tx, id)
		if err != nil {
			return err
		}
		if e.IsPublished == 1 {
			return errPublished
		}

		if err := tx.Where("exhibit_id = ?", e.UUID).Delete(&exhibits.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&exhibits.Exhibit{}, "uuid = ?", e.UUID).Error
	})

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exhibit not found"})
			return
		}
		if err == errPublished {
			c.JSON(http.StatusForbidden, gin.H{"error": "Suppress the exhibit before deleting it"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete exhibit"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ------------------------------
// POST /exhibits/:exhibit_id/publish
// ------------------------------
func PublishExhibit(c *gin.Context) {
	id := c.Param("exhibit_id")

	if _, ok := mustUserID(c); !ok {
		return
	}

	res := database.DB.Model(&exhibits.Exhibit{}).
		Where("uuid = ?", id).
		Update("is_published", 1)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish exhibit"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exhibit not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "published"})
}

// ------------------------------
// POST /exhibits/:exhibit_id/suppress
// ------------------------------
// Suppressing an exhibit also suppresses its items, so the rule that a
// published item implies a published exhibit keeps holding.
func SuppressExhibit(c *gin.Context) {
	id := c.Param("exhibit_id")

	if _, ok := mustUserID(c); !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		e, err := exhibitByUUID(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Model(&exhibits.Item{}).
			Where("exhibit_id = ? AND is_published = 1", e.UUID).
			Update("is_published", 0).Error; err != nil {
			return err
		}

		return tx.Model(&exhibits.Exhibit{}).
			Where("uuid = ?", e.UUID).
			Update("is_published", 0).Error
	})

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exhibit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to suppress exhibit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "suppressed"})
}

// ------------------------------
// POST /exhibits/:exhibit_id/lock
// ------------------------------
// Advisory edit lock. A lock held by someone else is honored until it
// goes stale; after that it is silently reclaimed.
func LockExhibit(c *gin.Context) {
	id := c.Param("exhibit_id")

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	e, err := exhibitByUUID(database.DB, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exhibit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load exhibit"})
		return
	}

	now := time.Now()
	if e.LockedByOther(userID, config.EXHIBIT_LOCK_TIMEOUT, now) {
		c.JSON(http.StatusConflict, gin.H{
			"error":                   "Exhibit is locked by another user",
			"is_locked_by_other_user": true,
			"locked_by_user_id":       e.LockedByUserID,
		})
		return
	}

	if err := database.DB.Model(&exhibits.Exhibit{}).
		Where("uuid = ?", id).
		Updates(map[string]interface{}{
			"locked_by_user_id": userID,
			"locked_at":         now,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to lock exhibit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "locked"})
}

// ------------------------------
// DELETE /exhibits/:exhibit_id/lock
// ------------------------------
func UnlockExhibit(c *gin.Context) {
	id := c.Param("exhibit_id")

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	e, err := exhibitByUUID(database.DB, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exhibit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load exhibit"})
		return
	}

	if e.LockedByOther(userID, config.EXHIBIT_LOCK_TIMEOUT, time.Now()) {
		c.JSON(http.StatusConflict, gin.H{
			"error":                   "Exhibit is locked by another user",
			"is_locked_by_other_user": true,
		})
		return
	}

	if err := database.DB.Model(&exhibits.Exhibit{}).
		Where("uuid = ?", id).
		Updates(map[string]interface{}{
			"locked_by_user_id": nil,
			"locked_at":         nil,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlock exhibit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unlocked"})
}
