package models

import "time"

// Coupon is a code-activated percentage discount. Redemption state lives in
// CouponRedemption rows so one user's redemption never locks the code for
// everyone else.
type Coupon struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Code               string    `gorm:"uniqueIndex;not null" json:"code"`
	DiscountPercentage float64   `gorm:"not null" json:"discount_percentage"`
	ExpiresAt          time.Time `json:"expires_at"`
	CreatedAt          time.Time `json:"created_at"`
}

// Expired reports whether the coupon is past its expiry.
func (c *Coupon) Expired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}

// CouponRedemption marks a coupon as used by one user, optionally tied to
// the order it settled.
type CouponRedemption struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CouponID   uint      `gorm:"uniqueIndex:idx_coupon_user;not null" json:"coupon_id"`
	UserID     uint      `gorm:"uniqueIndex:idx_coupon_user;not null" json:"user_id"`
	OrderID    *uint     `json:"order_id,omitempty"`
	RedeemedAt time.Time `json:"redeemed_at"`
}
