package admin

import (
	"net/http"

	"exhibits-app/database"
	"exhibits-app/internal/domain/exhibits"
	"exhibits-app/internal/domain/media"
	"exhibits-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	AuthProvider string `json:"auth_provider"`
}

type AdminStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalExhibits     int64 `json:"total_exhibits"`
	PublishedExhibits int64 `json:"published_exhibits"`
	TotalItems        int64 `json:"total_items"`
	PublishedItems    int64 `json:"published_items"`
	MediaFiles        int64 `json:"media_files"`
}

func ListAllUsers(c *gin.Context) {
	var all []users.User
	if err := database.DB.Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	out := make([]AdminUser, 0, len(all))
	for _, u := range all {
		out = append(out, AdminUser{
			ID:           u.ID,
			Name:         u.Name,
			Lastname:     u.Lastname,
			Email:        u.Email,
			Role:         u.Role,
			AuthProvider: u.AuthProvider,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

func GetStats(c *gin.Context) {
	var stats AdminStats

	database.DB.Model(&users.User{}).Count(&stats.TotalUsers)
	database.DB.Model(&exhibits.Exhibit{}).Count(&stats.TotalExhibits)
	database.DB.Model(&exhibits.Exhibit{}).Where("is_published = 1").Count(&stats.PublishedExhibits)
	database.DB.Model(&exhibits.Item{}).Count(&stats.TotalItems)
	database.DB.Model(&exhibits.Item{}).Where("is_published = 1").Count(&stats.PublishedItems)
	database.DB.Model(&media.File{}).Count(&stats.MediaFiles)

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
