package auth

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AustinQian/EcommerceAPI/email"
	"github.com/AustinQian/EcommerceAPI/models"
)

type resetRequestInput struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordInput struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// POST /api/auth/reset-request
func RequestPasswordReset(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input resetRequestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
			return
		}

		token := uuid.NewString()
		updates := map[string]interface{}{
			"reset_token":        token,
			"reset_token_expiry": time.Now().Add(time.Hour),
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reset token"})
			return
		}

		go func(to, token string) {
			if err := email.SendResetEmail(to, token); err != nil {
				log.Printf("reset email to %s failed: %v", to, err)
			}
		}(user.Email, token)

		c.JSON(http.StatusOK, gin.H{"message": "Password reset link sent to your email"})
	}
}

// POST /api/auth/reset-password/:token
func ResetPassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")

		var input resetPasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
			return
		}
		if input.Password != input.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{"error": "New password does not match confirm password"})
			return
		}
		if !validPassword(input.Password) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Password must be at least 8 characters long and include a mix of letters, numbers, and symbols",
			})
			return
		}

		var user models.User
		err := db.Where("reset_token = ? AND reset_token_expiry > ?", token, time.Now()).
			First(&user).Error
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}

		if err := user.SetPassword(input.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		updates := map[string]interface{}{
			"password_hash": user.PasswordHash,
			"reset_token":   "",
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
	}
}
