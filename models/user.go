package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	Verified          bool      `json:"verified"`
	VerifyToken       string    `gorm:"index" json:"-"`
	VerifyTokenExpiry time.Time `json:"-"`
	ResetToken        string    `gorm:"index" json:"-"`
	ResetTokenExpiry  time.Time `json:"-"`

	// Loyalty balance, earned at checkout and redeemable against future totals.
	Credits float64 `gorm:"not null;default:0" json:"credits"`

	Carts     []Cart    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders    []Order   `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// SetPassword hashes the plaintext password with bcrypt.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// CreditRate is the fraction of a settled total returned to the buyer as credits.
const CreditRate = 0.01

// AwardCredits credits the user's balance for a settled purchase and returns
// the amount earned.
func (u *User) AwardCredits(tx *gorm.DB, purchaseAmount float64) (float64, error) {
	earned := purchaseAmount * CreditRate
	if err := tx.Model(u).Update("credits", gorm.Expr("credits + ?", earned)).Error; err != nil {
		return 0, err
	}
	u.Credits += earned
	return earned, nil
}
