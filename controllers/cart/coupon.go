package cartControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AustinQian/EcommerceAPI/middleware"
	"github.com/AustinQian/EcommerceAPI/models"
)

type ApplyCouponInput struct {
	CouponCode string `json:"coupon_code" binding:"required"`
}

type CreateCouponInput struct {
	Code               string  `json:"code" binding:"required"`
	DiscountPercentage float64 `json:"discount_percentage" binding:"required,gt=0,lte=100"`
	ExpiresAt          string  `json:"expires_at"` // RFC3339; empty means no expiry
}

// RedeemCoupon validates a coupon for one user and records the redemption.
// "Used" is scoped to the (coupon, user) pair: the unique index on the
// redemption row is what blocks a second use, so a concurrent double submit
// collapses into ErrCouponAlreadyUsed instead of two redemptions.
func RedeemCoupon(tx *gorm.DB, userID uint, code string) (*models.Coupon, *models.CouponRedemption, error) {
	var coupon models.Coupon
	if err := tx.Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCouponNotFound
		}
		return nil, nil, err
	}
	if coupon.Expired() {
		return nil, nil, ErrCouponExpired
	}

	var count int64
	if err := tx.Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).
		Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if count > 0 {
		return nil, nil, ErrCouponAlreadyUsed
	}

	redemption := models.CouponRedemption{
		CouponID:   coupon.ID,
		UserID:     userID,
		RedeemedAt: time.Now(),
	}
	if err := tx.Create(&redemption).Error; err != nil {
		// Unique (coupon_id, user_id) pair lost a race with another request.
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return nil, nil, ErrCouponAlreadyUsed
		}
		return nil, nil, err
	}
	return &coupon, &redemption, nil
}

// POST /api/cart/apply-coupon
// Previews and locks in a coupon against the open cart total.
func ApplyCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input ApplyCouponInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon code"})
			return
		}

		items, err := ListItems(db, userID, "")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if len(items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": ErrEmptyCart.Error()})
			return
		}

		var total float64
		for _, item := range items {
			unit := item.Price
			if item.DiscountedPrice != nil {
				unit = *item.DiscountedPrice
			}
			total += unit * float64(item.Quantity)
		}

		var coupon *models.Coupon
		err = db.Transaction(func(tx *gorm.DB) error {
			coupon, _, err = RedeemCoupon(tx, userID, input.CouponCode)
			return err
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrCouponNotFound),
				errors.Is(err, ErrCouponExpired),
				errors.Is(err, ErrCouponAlreadyUsed):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply coupon"})
			}
			return
		}

		discount := total * (coupon.DiscountPercentage / 100.0)
		c.JSON(http.StatusOK, gin.H{
			"message":             "Coupon applied successfully",
			"original_total":      total,
			"discount_percentage": coupon.DiscountPercentage,
			"discount_amount":     discount,
			"new_total":           total - discount,
		})
	}
}

// POST /admin/coupons
func CreateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateCouponInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		coupon := models.Coupon{
			Code:               input.Code,
			DiscountPercentage: input.DiscountPercentage,
		}
		if input.ExpiresAt != "" {
			expiresAt, err := time.Parse(time.RFC3339, input.ExpiresAt)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expiration date"})
				return
			}
			coupon.ExpiresAt = expiresAt
		}

		if err := db.Create(&coupon).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create coupon"})
			return
		}
		c.JSON(http.StatusCreated, coupon)
	}
}
