package items

import "encoding/json"

// ---------- requests

type CreateItemRequest struct {
	Type string `json:"type" binding:"required"`

	GridID     *string `json:"is_member_of_grid"`
	TimelineID *string `json:"is_member_of_timeline"`

	Title   string          `json:"title"`
	Text    string          `json:"item_text"`
	Caption string          `json:"caption"`
	MediaID *string         `json:"media_id"`
	Styles  json.RawMessage `json:"styles"`
}

type UpdateItemRequest struct {
	// Type is rejected if present; an item's type is immutable.
	Type *string `json:"type"`

	Title   *string         `json:"title"`
	Text    *string         `json:"item_text"`
	Caption *string         `json:"caption"`
	MediaID *string         `json:"media_id"`
	Styles  json.RawMessage `json:"styles"`
}
