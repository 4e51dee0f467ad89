package auth

import (
	"log"
	"net/http"
	"regexp"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AustinQian/EcommerceAPI/email"
	"github.com/AustinQian/EcommerceAPI/models"
)

type RegisterInput struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// validPassword requires at least 8 characters with a mix of letters,
// numbers, and symbols.
func validPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLetter && hasDigit && hasSymbol
}

// POST /api/auth/register
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
			return
		}

		if input.Password != input.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
			return
		}
		if !validEmail(input.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
			return
		}
		if !validPassword(input.Password) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Password must be at least 8 characters long and include a mix of letters, numbers, and symbols",
			})
			return
		}

		var count int64
		db.Model(&models.User{}).Where("username = ?", input.Username).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		db.Model(&models.User{}).Where("email = ?", input.Email).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}

		user := models.User{
			Username:          input.Username,
			Email:             input.Email,
			VerifyToken:       uuid.NewString(),
			VerifyTokenExpiry: time.Now().Add(24 * time.Hour),
		}
		if err := user.SetPassword(input.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		// Best effort; the user can request a fresh link if delivery fails.
		go func(to, token string) {
			if err := email.SendVerificationEmail(to, token); err != nil {
				log.Printf("verification email to %s failed: %v", to, err)
			}
		}(user.Email, user.VerifyToken)

		c.JSON(http.StatusCreated, gin.H{
			"message": "User registered successfully. Please verify your email.",
		})
	}
}
