package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AustinQian/EcommerceAPI/auth"
)

// SetupAuthRoutes registers all "/api/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", auth.Register(db))
		authGroup.POST("/login", auth.Login(db))
		authGroup.GET("/verify/:token", auth.VerifyEmail(db))
		authGroup.POST("/reset-request", auth.RequestPasswordReset(db))
		authGroup.POST("/reset-password/:token", auth.ResetPassword(db))
	}
}
