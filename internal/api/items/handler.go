package items

import (
	"errors"
	"net/http"
	"strconv"

	"exhibits-app/database"
	"exhibits-app/internal/domain/exhibits"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var (
	errTypeMismatch  = errors.New("type mismatch")
	errItemPublished = errors.New("item published")
	errGridNotEmpty  = errors.New("grid not empty")
	errStaleOrder    = errors.New("stale order")
)

// richText allows the markup the exhibit item editor produces.
var richText = bluemonday.UGCPolicy()

// ------------------------------
// GET /exhibits/:exhibit_id/items
// ------------------------------
// Returns the full ordered list for one scope (top level by default,
// ?grid= or ?timeline= for nested lists) plus the exhibit's current
// order version, which a reorder submission may carry back.
func ListItems(c *gin.Context) {
	exhibitID := c.Param("exhibit_id")

	e, err := exhibitByUUID(database.DB, exhibitID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exhibit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load exhibit"})
		return
	}

	list, err := scopeItems(database.DB, scopeFromQuery(c, exhibitID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":          list,
		"order_version": e.OrderVersion,
	})
}

// ------------------------------
// GET /exhibits/:exhibit_id/items/:item_id
// ------------------------------
func GetItem(c *gin.Context) {
	exhibitID := c.Param("exhibit_id")
	itemID := c.Param("item_id")

	var it exhibits.Item
	err := database.DB.
		Preload("Media").
		First(&it, "uuid = ? AND exhibit_id = ?", itemID, exhibitID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": it})
}

// ------------------------------
// POST /exhibits/:exhibit_id/items
// ------------------------------
// New items are appended at the end of their sibling scope.
func CreateItem(c *gin.Context) {
	exhibitID := c.Param("exhibit_id")

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !exhibits.ValidType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown item type"})
		return
	}
	if exhibits.NestedType(req.Type) {
		if req.Type == exhibits.TypeGridItem && req.GridID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "griditem requires is_member_of_grid"})
			return
		}
		if req.Type == exhibits.TypeTimelineItem && req.TimelineID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "timelineitem requires is_member_of_timeline"})
			return
		}
	} else if req.GridID != nil || req.TimelineID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only griditem/timelineitem may have a grid or timeline parent"})
		return
	}

	it := exhibits.Item{
		Type:       req.Type,
		ExhibitID:  exhibitID,
		GridID:     req.GridID,
		TimelineID: req.TimelineID,
		Title:      req.Title,
		Text:       richText.Sanitize(req.Text),
		Caption:    req.Caption,
		MediaID:    req.MediaID,
		Styles:     req.Styles,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := exhibitByUUID(tx, exhibitID); err != nil {
			return err
		}

		// nested items must point at a real container of the right type
		if req.GridID != nil {
			parent, err := itemInExhibit(tx, exhibitID, *req.GridID)
			if err != nil || parent.Type != exhibits.TypeGrid {
				return errTypeMismatch
			}
		}
		if req.TimelineID != nil {
			parent, err := itemInExhibit(tx, exhibitID, *req.TimelineID)
			if err != nil || parent.Type != exhibits.TypeTimeline {
				return errTypeMismatch
			}
		}

		siblings, err := scopeItems(tx, scopeOf(it))
		if err != nil {
			return err
		}
		it.Order = exhibits.NextOrder(siblings)

		return tx.Create(&it).Error
	})

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exhibit not found"})
			return
		}
		if err == errTypeMismatch {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent grid or timeline not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"uuid": it.UUID, "order": it.Order})
}

// ------------------------------
// PUT /exhibits/:exhibit_id/items/:item_id
// ------------------------------
func UpdateItem(c *gin.Context) {
	exhibitID := c.Param("exhibit_id")
	itemID := c.Param("item_id")

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	it, err := itemInExhibit(database.DB, exhibitID, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load item"})
		return
	}

	if req.Type != nil && *req.Type != it.Type {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item type is immutable; delete and recreate instead"})
		return
	}
	if structuralFreeze(it) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Suppress the item before editing it"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Text != nil {
		updates["text"] = richText.Sanitize(*req.Text)
	}
	if req.Caption != nil {
		updates["caption"] = *req.Caption
	}
	if req.MediaID != nil {
		updates["media_id"] = *req.MediaID
	}
	if req.Styles != nil {
		updates["styles"] = req.Styles
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	if err := database.DB.Model(&exhibits.Item{}).
		Where("uuid = ?", it.UUID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// structuralFreeze mirrors the admin UI rule that publishing freezes
// top-level structural edits: published standard items, grids and
// timelines are read-only until suppressed. Headings stay editable.
func structuralFreeze(it exhibits.Item) bool {
	if it.IsPublished != 1 || !it.TopLevel() {
		return false
	}
	return it.Type != exhibits.TypeHeading
}

// ------------------------------
// DELETE /exhibits/:exhibit_id/items/:item_id?type=
// ------------------------------
// The remaining siblings are renumbered so orders stay contiguous.
func DeleteItem(c *gin.Context) {
	exhibitID := c.Param("exhibit_id")
	itemID := c.Param("item_id")
	typeParam := c.Query("type")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		it, err := itemInExhibit(tx, exhibitID, itemID)
		if err != nil {
			return err
		}
		if typeParam != "" && typeParam != it.Type {
			return errTypeMismatch
		}
		if it.IsPublished == 1 {
			return errItemPublished
		}

		if it.Type == exhibits.TypeGrid || it.Type == exhibits.TypeTimeline {
			var children int64
			col := "grid_id"
			if it.Type == exhibits.TypeTimeline {
				col = "timeline_id"
			}
			if err := tx.Model(&exhibits.Item{}).
				Where(col+" = ?", it.UUID).
				Count(&children).Error; err != nil {
				return err
			}
			if children > 0 {
				return errGridNotEmpty
			}
		}

		if err := tx.Delete(&exhibits.Item{}, "uuid = ?", it.UUID).Error; err != nil {
			return err
		}

		remaining, err := scopeItems(tx, scopeOf(it))
		if err != nil {
			return err
		}
		for _, moved := range exhibits.Renumber(remaining) {
			if err := tx.Model(&exhibits.Item{}).
				Where("uuid = ?", moved.UUID).
				Update("item_order", moved.Order).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		switch {
		case err == gorm.ErrRecordNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		case err == errTypeMismatch:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Item type does not match"})
		case err == errItemPublished:
			c.JSON(http.StatusForbidden, gin.H{"error": "Suppress the item before deleting it"})
		case err == errGridNotEmpty:
			c.JSON(http.StatusConflict, gin.H{"error": "Remove the container's items first"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ------------------------------
// POST /exhibits/:exhibit_id/items/:item_id/publish?type=
// ------------------------------
// 200 on success. 204 when the parent exhibit is unpublished: that is
// the precondition-failed signal the frontend turns into a warning, and
// no state changes.
func PublishItem(c *gin.Context) {
	exhibitID := c.Param("exhibit_id")
	itemID := c.Param("item_id")
	typeParam := c.Query("type")

	e, err := exhibitByUUID(database.DB, exhibitID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exhibit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load exhibit"})
		return
	}

	it, err := itemInExhibit(database.DB, exhibitID, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load item"})
		return
	}
	if typeParam != "" && typeParam != it.Type {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item type does not match"})
		return
	}

	if e.IsPublished != 1 {
		c.Status(http.StatusNoContent)
		return
	}

	if err := database.DB.Model(&exhibits.Item{}).
		Where("uuid = ?", it.UUID).
		Update("is_published", 1).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "published"})
}

// ------------------------------
// POST /exhibits/:exhibit_id/items/:item_id/suppress?type=
// ------------------------------
// No precondition; repeat calls are harmless.
func SuppressItem(c *gin.Context) {
	exhibitID := c.Param("exhibit_id")
	itemID := c.Param("item_id")
	typeParam := c.Query("type")

	it, err := itemInExhibit(database.DB, exhibitID, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load item"})
		return
	}
	if typeParam != "" && typeParam != it.Type {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item type does not match"})
		return
	}

	if err := database.DB.Model(&exhibits.Item{}).
		Where("uuid = ?", it.UUID).
		Update("is_published", 0).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to suppress item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "suppressed"})
}

// ------------------------------
// POST /exhibits/:exhibit_id/reorder
// ------------------------------
// Body is the complete new order for one scope: every sibling, numbered
// 1..N. An optional ?order_version= (from the list response) makes the
// submission fail with 409 if someone reordered in between.
func ReorderItems(c *gin.Context) {
	exhibitID := c.Param("exhibit_id")

	var tuples []exhibits.OrderTuple
	if err := c.ShouldBindJSON(&tuples); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var wantVersion *int64
	if raw := c.Query("order_version"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order_version"})
			return
		}
		wantVersion = &v
	}

	var newVersion int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		e, err := exhibitByUUID(tx, exhibitID)
		if err != nil {
			return err
		}
		if wantVersion != nil && *wantVersion != e.OrderVersion {
			return errStaleOrder
		}

		scope, err := exhibits.SubmissionScope(exhibitID, tuples)
		if err != nil {
			return err
		}

		current, err := scopeItems(tx, scope)
		if err != nil {
			return err
		}
		if err := exhibits.ValidateReorder(current, tuples); err != nil {
			return err
		}

		for _, t := range tuples {
			if err := tx.Model(&exhibits.Item{}).
				Where("uuid = ?", t.UUID).
				Update("item_order", t.Order).Error; err != nil {
				return err
			}
		}

		newVersion = e.OrderVersion + 1
		return tx.Model(&exhibits.Exhibit{}).
			Where("uuid = ?", exhibitID).
			Update("order_version", newVersion).Error
	})

	if err != nil {
		switch {
		case err == gorm.ErrRecordNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Exhibit not found"})
		case err == errStaleOrder:
			c.JSON(http.StatusConflict, gin.H{"error": "Order changed since it was loaded"})
		case errors.Is(err, exhibits.ErrReorderEmpty),
			errors.Is(err, exhibits.ErrReorderMixed),
			errors.Is(err, exhibits.ErrReorderPartial),
			errors.Is(err, exhibits.ErrReorderSequence),
			errors.Is(err, exhibits.ErrReorderType):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder items"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok", "order_version": newVersion})
}
