package routes

import (
	adminapi "exhibits-app/internal/api/admin"
	authapi "exhibits-app/internal/api/auth"
	exhibitsapi "exhibits-app/internal/api/exhibits"
	itemsapi "exhibits-app/internal/api/items"
	mediaapi "exhibits-app/internal/api/media"
	usersapi "exhibits-app/internal/api/users"
	"exhibits-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", usersapi.GetCurrentUser)
	auth.POST("/change-password", authapi.ChangePassword)

	auth.GET("/exhibits", exhibitsapi.ListExhibits)
	auth.POST("/exhibits", exhibitsapi.CreateExhibit)
	auth.GET("/exhibits/:exhibit_id", exhibitsapi.GetExhibit)
	auth.PUT("/exhibits/:exhibit_id", exhibitsapi.UpdateExhibit)
	auth.DELETE("/exhibits/:exhibit_id", exhibitsapi.DeleteExhibit)

	auth.POST("/exhibits/:exhibit_id/publish", exhibitsapi.PublishExhibit)
	auth.POST("/exhibits/:exhibit_id/suppress", exhibitsapi.SuppressExhibit)

	auth.POST("/exhibits/:exhibit_id/lock", exhibitsapi.LockExhibit)
	auth.DELETE("/exhibits/:exhibit_id/lock", exhibitsapi.UnlockExhibit)

	auth.GET("/exhibits/:exhibit_id/items", itemsapi.ListItems)
	auth.POST("/exhibits/:exhibit_id/items", itemsapi.CreateItem)
	auth.GET("/exhibits/:exhibit_id/items/:item_id", itemsapi.GetItem)
	auth.PUT("/exhibits/:exhibit_id/items/:item_id", itemsapi.UpdateItem)
	auth.DELETE("/exhibits/:exhibit_id/items/:item_id", itemsapi.DeleteItem)

	auth.POST("/exhibits/:exhibit_id/items/:item_id/publish", itemsapi.PublishItem)
	auth.POST("/exhibits/:exhibit_id/items/:item_id/suppress", itemsapi.SuppressItem)

	auth.POST("/exhibits/:exhibit_id/reorder", itemsapi.ReorderItems)

	auth.GET("/media", mediaapi.ListMedia)
	auth.POST("/media", mediaapi.UploadMedia)
	auth.POST("/media/import", mediaapi.ImportRepository)
	auth.POST("/media/videos", mediaapi.ImportVideo)
	auth.GET("/media/:media_id", mediaapi.GetMedia)
	auth.DELETE("/media/:media_id", mediaapi.DeleteMedia)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/stats", adminapi.GetStats)
}
