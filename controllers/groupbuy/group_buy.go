package groupbuyControllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AustinQian/EcommerceAPI/middleware"
	"github.com/AustinQian/EcommerceAPI/models"
)

var (
	ErrGroupBuyNotFound = errors.New("group buy not found")
	ErrGroupBuyInactive = errors.New("group buy is no longer active")
	ErrNotEligible      = errors.New("not enough participants to activate discount")
	ErrProductMismatch  = errors.New("this cart item does not match the group buy product")
)

type CreateGroupBuyInput struct {
	ProductID          uint    `json:"product_id" binding:"required"`
	DiscountPercentage float64 `json:"discount_percentage" binding:"required,gt=0,lte=100"`
	MinParticipants    int     `json:"min_participants" binding:"required,min=2"`
}

type ApplyDiscountInput struct {
	GroupBuyID uint `json:"group_buy_id" binding:"required"`
}

// Join adds a user to a group buy. Duplicate joins are suppressed; the
// returned bool is false when the user was already in. Once the counter
// reaches the minimum the group buy becomes eligible for its discount.
func Join(db *gorm.DB, userID uint, link string) (*models.GroupBuy, bool, error) {
	var groupBuy models.GroupBuy
	if err := db.Where("unique_link = ?", link).First(&groupBuy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrGroupBuyNotFound
		}
		return nil, false, err
	}
	if !groupBuy.Active {
		return nil, false, ErrGroupBuyInactive
	}

	var count int64
	if err := db.Model(&models.GroupBuyParticipant{}).
		Where("group_buy_id = ? AND user_id = ?", groupBuy.ID, userID).
		Count(&count).Error; err != nil {
		return nil, false, err
	}
	if count > 0 {
		return &groupBuy, false, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		participant := models.GroupBuyParticipant{
			GroupBuyID: groupBuy.ID,
			UserID:     userID,
			JoinedAt:   time.Now(),
		}
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}
		return tx.Model(&groupBuy).
			Update("current_participants", gorm.Expr("current_participants + 1")).Error
	})
	if err != nil {
		// The unique (group_buy_id, user_id) pair caught a concurrent join.
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return &groupBuy, false, nil
		}
		return nil, false, err
	}

	groupBuy.CurrentParticipants++
	return &groupBuy, true, nil
}

// ApplyDiscount recomputes the matching cart line's price once the group buy
// is eligible. No stock interaction; the discounted price is honored at
// checkout.
func ApplyDiscount(db *gorm.DB, userID, cartID, groupBuyID uint) (float64, float64, error) {
	var groupBuy models.GroupBuy
	if err := db.Preload("Product").First(&groupBuy, groupBuyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrGroupBuyNotFound
		}
		return 0, 0, err
	}
	if !groupBuy.Eligible() {
		return 0, 0, ErrNotEligible
	}

	var cart models.Cart
	err := db.Where("id = ? AND user_id = ? AND checked = ?", cartID, userID, false).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, gorm.ErrRecordNotFound
		}
		return 0, 0, err
	}

	var item models.CartItem
	err = db.Where("cart_id = ? AND product_id = ?", cart.ID, groupBuy.ProductID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, 0, ErrProductMismatch
	}
	if err != nil {
		return 0, 0, err
	}

	original := groupBuy.Product.Price
	discounted := math.Round(original*(1-groupBuy.DiscountPercentage/100.0)*100) / 100
	if err := db.Model(&item).
		Where("cart_id = ? AND product_id = ?", item.CartID, item.ProductID).
		Update("discounted_price", discounted).Error; err != nil {
		return 0, 0, err
	}
	return original, discounted, nil
}

// -------- Handlers --------

// POST /api/groupbuy
func CreateGroupBuy(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateGroupBuyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}

		var product models.Product
		if err := db.First(&product, input.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		groupBuy := models.GroupBuy{
			ProductID:          input.ProductID,
			DiscountPercentage: input.DiscountPercentage,
			MinParticipants:    input.MinParticipants,
			UniqueLink:         models.NewGroupBuyLink(),
			Active:             true,
		}
		if err := db.Create(&groupBuy).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group buy"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":      "Group buy created",
			"group_buy_id": groupBuy.ID,
			"unique_link":  groupBuy.UniqueLink,
		})
	}
}

// GET /api/groupbuy/:link
func GetGroupBuy(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var groupBuy models.GroupBuy
		if err := db.Where("unique_link = ?", c.Param("link")).First(&groupBuy).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrGroupBuyNotFound.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":                   groupBuy.ID,
			"product_id":           groupBuy.ProductID,
			"discount_percentage":  groupBuy.DiscountPercentage,
			"min_participants":     groupBuy.MinParticipants,
			"current_participants": groupBuy.CurrentParticipants,
			"unique_link":          groupBuy.UniqueLink,
			"is_active":            groupBuy.Active,
			"eligible":             groupBuy.Eligible(),
		})
	}
}

// POST /api/groupbuy/join/:link
func JoinGroupBuy(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		groupBuy, joined, err := Join(db, userID, c.Param("link"))
		if err != nil {
			switch {
			case errors.Is(err, ErrGroupBuyNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, ErrGroupBuyInactive):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join group buy"})
			}
			return
		}
		if !joined {
			c.JSON(http.StatusOK, gin.H{"message": "You have already joined this group buy"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":              "Joined group buy successfully",
			"current_participants": groupBuy.CurrentParticipants,
			"eligible":             groupBuy.Eligible(),
		})
	}
}

// POST /api/groupbuy/apply-discount/:cart_id
func ApplyGroupBuyDiscount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		cartID, err := strconv.ParseUint(c.Param("cart_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart_id"})
			return
		}

		var input ApplyDiscountInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing group_buy_id"})
			return
		}

		original, discounted, err := ApplyDiscount(db, userID, uint(cartID), input.GroupBuyID)
		if err != nil {
			switch {
			case errors.Is(err, ErrGroupBuyNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found or not owned by user"})
			case errors.Is(err, ErrNotEligible), errors.Is(err, ErrProductMismatch):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply discount"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":          "Discount applied to cart item",
			"original_price":   original,
			"discounted_price": discounted,
		})
	}
}
