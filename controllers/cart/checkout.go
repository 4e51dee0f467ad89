package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AustinQian/EcommerceAPI/events"
	"github.com/AustinQian/EcommerceAPI/metrics"
	"github.com/AustinQian/EcommerceAPI/middleware"
	"github.com/AustinQian/EcommerceAPI/models"
)

type CheckoutRequest struct {
	CreditsToApply float64 `json:"credits_to_apply"`
	CouponCode     string  `json:"coupon_code"`
}

type CheckoutSummary struct {
	OrderID          uint    `json:"order_id"`
	FinalTotal       float64 `json:"final_total"`
	CreditsUsed      float64 `json:"credits_used"`
	CreditsEarned    float64 `json:"credits_earned"`
	RemainingCredits float64 `json:"remaining_credits"`
}

// Checkout settles the user's open cart in one transaction: validate stock,
// price the cart, apply coupon and credits, decrement stock, clear the cart,
// record the order, and award credits on the final total. Every validation
// runs before any mutation, and any failure rolls the whole settlement back.
func Checkout(db *gorm.DB, userID uint, req CheckoutRequest) (*CheckoutSummary, error) {
	if req.CreditsToApply < 0 {
		return nil, ErrInsufficientCredits
	}

	var summary CheckoutSummary

	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Preload("Items.Product").
			Where("user_id = ? AND checked = ?", userID, false).
			First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		// Price the cart and re-validate stock up front. Stock may have moved
		// since items were added; this is the re-validation point.
		var total float64
		for _, item := range cart.Items {
			if item.Product.Stock < item.Quantity {
				return &InsufficientStockError{
					ProductName: item.Product.Name,
					Available:   item.Product.Stock,
				}
			}
			unit := item.Product.Price
			if item.DiscountedPrice != nil {
				unit = *item.DiscountedPrice
			}
			total += unit * float64(item.Quantity)
		}

		var redemption *models.CouponRedemption
		if req.CouponCode != "" {
			coupon, r, err := RedeemCoupon(tx, userID, req.CouponCode)
			if err != nil {
				return err
			}
			redemption = r
			total -= total * (coupon.DiscountPercentage / 100.0)
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		var applied float64
		if req.CreditsToApply > 0 {
			if user.Credits < req.CreditsToApply {
				return ErrInsufficientCredits
			}
			// Credits may not drive the total negative.
			applied = req.CreditsToApply
			if applied > total {
				applied = total
			}
			// Conditional debit so the balance can never go below zero even
			// under a concurrent spend.
			res := tx.Model(&models.User{}).
				Where("id = ? AND credits >= ?", userID, applied).
				Update("credits", gorm.Expr("credits - ?", applied))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientCredits
			}
			total -= applied
			user.Credits -= applied
		}

		// Commit: conditional decrements close the check-then-act race. A zero
		// RowsAffected means a concurrent checkout won; abort and roll back.
		orderItems := make([]models.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var p models.Product
				tx.Select("name", "stock").First(&p, item.ProductID)
				return &InsufficientStockError{ProductName: p.Name, Available: p.Stock}
			}

			unit := item.Product.Price
			if item.DiscountedPrice != nil {
				unit = *item.DiscountedPrice
			}
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   item.ProductID,
				ProductName: item.Product.Name,
				Price:       unit,
				Quantity:    item.Quantity,
			})
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&cart).Update("checked", true).Error; err != nil {
			return err
		}

		earned, err := user.AwardCredits(tx, total)
		if err != nil {
			return err
		}

		order := models.Order{
			UserID:        userID,
			Items:         orderItems,
			TotalAmount:   total,
			CreditsUsed:   applied,
			CreditsEarned: earned,
			Status:        models.OrderStatusPending,
			CreatedAt:     time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if redemption != nil {
			if err := tx.Model(redemption).Update("order_id", order.ID).Error; err != nil {
				return err
			}
		}

		summary = CheckoutSummary{
			OrderID:          order.ID,
			FinalTotal:       total,
			CreditsUsed:      applied,
			CreditsEarned:    earned,
			RemainingCredits: user.Credits,
		}
		return nil
	})
	if err != nil {
		metrics.CheckoutTotal.WithLabelValues("aborted").Inc()
		return nil, err
	}

	metrics.CheckoutTotal.WithLabelValues("settled").Inc()
	return &summary, nil
}

// POST /api/cart/checkout
func CheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		summary, err := Checkout(db, userID, req)
		if err != nil {
			var stockErr *InsufficientStockError
			switch {
			case errors.Is(err, ErrEmptyCart),
				errors.Is(err, ErrInsufficientCredits),
				errors.Is(err, ErrCouponNotFound),
				errors.Is(err, ErrCouponExpired),
				errors.Is(err, ErrCouponAlreadyUsed),
				errors.As(err, &stockErr):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
			}
			return
		}

		go publishSettled(db, summary)

		c.JSON(http.StatusOK, gin.H{
			"message":           "Checkout successful",
			"order_id":          summary.OrderID,
			"final_total":       summary.FinalTotal,
			"credits_earned":    summary.CreditsEarned,
			"remaining_credits": summary.RemainingCredits,
		})
	}
}

func publishSettled(db *gorm.DB, summary *CheckoutSummary) {
	var order models.Order
	if err := db.Preload("Items").First(&order, summary.OrderID).Error; err != nil {
		return
	}
	payload := events.OrderSettledPayload{
		OrderID:       order.ID,
		UserID:        order.UserID,
		FinalTotal:    order.TotalAmount,
		CreditsUsed:   order.CreditsUsed,
		CreditsEarned: order.CreditsEarned,
	}
	for _, item := range order.Items {
		payload.Items = append(payload.Items, events.OrderItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	events.PublishOrderSettled(payload)
}
