package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AustinQian/EcommerceAPI/models"
)

// GET /api/auth/verify/:token
func VerifyEmail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
			return
		}

		var user models.User
		if err := db.Where("verify_token = ?", token).First(&user).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired verification link"})
			return
		}
		if user.Verified {
			c.JSON(http.StatusOK, gin.H{"message": "Email already verified."})
			return
		}
		if time.Now().After(user.VerifyTokenExpiry) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired verification link"})
			return
		}

		updates := map[string]interface{}{"verified": true, "verify_token": ""}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Email successfully verified."})
	}
}
