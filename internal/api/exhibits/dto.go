package exhibits

import "encoding/json"

// ---------- requests

type CreateExhibitRequest struct {
	Title    string          `json:"title" binding:"required"`
	Subtitle string          `json:"subtitle"`
	About    string          `json:"about"`
	BannerID *string         `json:"banner_id"`
	Styles   json.RawMessage `json:"styles"`
}

type UpdateExhibitRequest struct {
	Title    *string         `json:"title"`
	Subtitle *string         `json:"subtitle"`
	About    *string         `json:"about"`
	BannerID *string         `json:"banner_id"`
	Styles   json.RawMessage `json:"styles"`
}
