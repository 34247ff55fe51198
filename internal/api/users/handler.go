package users

import (
	"net/http"

	"exhibits-app/database"
	"exhibits-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type UserDTO struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Role     string `json:"role"`
}

// GetCurrentUser backs the frontend's session profile: the response is
// what the UI keeps in sessionStorage as the current user.
func GetCurrentUser(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": UserDTO{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Lastname: user.Lastname,
		Role:     user.Role,
	}})
}
