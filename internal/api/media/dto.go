package media

type ImportRepositoryRequest struct {
	URL      string `json:"url" binding:"required"`
	Filename string `json:"filename"`
}

type ImportVideoRequest struct {
	URL   string `json:"url" binding:"required"`
	Title string `json:"title"`
}
