package media

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"exhibits-app/config"
	"exhibits-app/database"
	"exhibits-app/internal/domain/exhibits"
	"exhibits-app/internal/domain/media"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func currentUserID(c *gin.Context) *uint {
	if id := c.GetUint("user_id"); id != 0 {
		return &id
	}
	return nil
}

// ------------------------------
// GET /media
// ------------------------------
func ListMedia(c *gin.Context) {
	var files []media.File
	q := database.DB.Order("created_at DESC")
	if kind := c.Query("kind"); kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if err := q.Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load media"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": files})
}

// ------------------------------
// GET /media/:media_id
// ------------------------------
func GetMedia(c *gin.Context) {
	id := c.Param("media_id")

	var f media.File
	if err := database.DB.First(&f, "uuid = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load media"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": f})
}

// ------------------------------
// POST /media  (multipart upload)
// ------------------------------
func UploadMedia(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file field"})
		return
	}
	if fh.Size > config.MAX_MEDIA_BYTES {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable upload"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, config.MAX_MEDIA_BYTES+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	if int64(len(data)) > config.MAX_MEDIA_BYTES {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	f, existed, err := storeBytes(data, fh.Filename, media.SourceUpload, nil, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"data": f})
}

// ------------------------------
// POST /media/import  (fetch an object from a digital repository)
// ------------------------------
func ImportRepository(c *gin.Context) {
	var req ImportRepositoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := &http.Client{Timeout: config.MEDIA_FETCH_TIMEOUT}
	resp, err := client.Get(req.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch repository object"})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Repository returned %d", resp.StatusCode)})
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, config.MAX_MEDIA_BYTES+1))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to read repository object"})
		return
	}
	if int64(len(data)) > config.MAX_MEDIA_BYTES {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Repository object too large"})
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = filepath.Base(req.URL)
	}

	uri := req.URL
	f, existed, err := storeBytes(data, filename, media.SourceRepository, &uri, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store repository object"})
		return
	}

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"data": f})
}

// ------------------------------
// POST /media/videos  (third-party video reference, no bytes)
// ------------------------------
func ImportVideo(c *gin.Context) {
	var req ImportVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider, videoID, err := media.ParseVideoURL(req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only YouTube and Vimeo URLs are supported"})
		return
	}

	title := req.Title
	if title == "" {
		title = fmt.Sprintf("%s video %s", provider, videoID)
	}

	uri := req.URL
	f := media.File{
		Filename:   title,
		Kind:       media.KindVideo,
		Source:     media.SourceVideo,
		SourceURI:  &uri,
		Provider:   &provider,
		ProviderID: &videoID,
		CreatedBy:  currentUserID(c),
	}
	if err := database.DB.Create(&f).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save video reference"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": f})
}

// ------------------------------
// DELETE /media/:media_id
// ------------------------------
// Refused while any exhibit banner or item still points at the file.
func DeleteMedia(c *gin.Context) {
	id := c.Param("media_id")

	var f media.File
	if err := database.DB.First(&f, "uuid = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load media"})
		return
	}

	var refs int64
	database.DB.Model(&exhibits.Item{}).Where("media_id = ?", f.UUID).Count(&refs)
	var banners int64
	database.DB.Model(&exhibits.Exhibit{}).Where("banner_id = ?", f.UUID).Count(&banners)
	if refs+banners > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Media is still referenced by exhibit content"})
		return
	}

	if err := database.DB.Delete(&media.File{}, "uuid = ?", f.UUID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete media"})
		return
	}

	if f.StorageKey != "" {
		_ = os.Remove(filepath.Join(config.MEDIA_DIR, f.StorageKey))
	}

	c.Status(http.StatusNoContent)
}

// storeBytes writes data under the media directory and records it.
// Content is deduplicated by hash: re-uploading the same bytes returns
// the existing entry.
func storeBytes(data []byte, filename, source string, sourceURI *string, userID *uint) (media.File, bool, error) {
	sum := sha256.Sum256(data)
	hash := fmt.Sprintf("%x", sum[:])

	var existing media.File
	if err := database.DB.First(&existing, "sha256 = ?", hash).Error; err == nil {
		return existing, true, nil
	} else if err != gorm.ErrRecordNotFound {
		return media.File{}, false, err
	}

	mime := mimetype.Detect(data)
	key := filepath.Join(hash[:2], hash+mime.Extension())

	dir := filepath.Join(config.MEDIA_DIR, hash[:2])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return media.File{}, false, err
	}
	if err := os.WriteFile(filepath.Join(config.MEDIA_DIR, key), data, 0o644); err != nil {
		return media.File{}, false, err
	}

	f := media.File{
		Filename:   filename,
		MimeType:   mime.String(),
		Bytes:      int64(len(data)),
		Sha256:     hash,
		Kind:       media.KindForMime(mime.String()),
		Source:     source,
		SourceURI:  sourceURI,
		StorageKey: key,
		CreatedBy:  userID,
	}
	if err := database.DB.Create(&f).Error; err != nil {
		return media.File{}, false, err
	}
	return f, false, nil
}
