package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AustinQian/EcommerceAPI/middleware"
	"github.com/AustinQian/EcommerceAPI/models"
)

type CartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// EnrichedCartItem is the read projection of a cart line joined with its
// product and category.
type EnrichedCartItem struct {
	CartID          uint     `json:"cart_id"`
	ProductID       uint     `json:"product_id"`
	Quantity        int      `json:"quantity"`
	ProductName     string   `json:"product_name"`
	Price           float64  `json:"price"`
	DiscountedPrice *float64 `json:"discounted_price,omitempty"`
	ImageURL        string   `json:"image_url"`
	Category        string   `json:"category"`
	Stock           int      `json:"stock"`
}

// GetOrCreateOpenCart returns the user's open (unchecked) cart, creating one
// lazily. Settled carts stay behind as history.
func GetOrCreateOpenCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ? AND checked = ?", userID, false).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	cart = models.Cart{UserID: userID}
	if err := db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem puts quantity units of a product into the user's open cart,
// stacking onto an existing line. The cumulative quantity may not exceed the
// product's current stock.
func AddItem(db *gorm.DB, userID, productID uint, quantity int) (*models.CartItem, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	cart, err := GetOrCreateOpenCart(db, userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if product.Stock < quantity {
			return nil, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
		}
		item = models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		}
		if err := db.Create(&item).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		newQuantity := item.Quantity + quantity
		if product.Stock < newQuantity {
			return nil, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
		}
		item.Quantity = newQuantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			return nil, err
		}
	}
	return &item, nil
}

// ListItems returns the open cart's lines enriched with product fields,
// optionally narrowed to one category name. An absent cart reads as empty.
func ListItems(db *gorm.DB, userID uint, category string) ([]EnrichedCartItem, error) {
	var cart models.Cart
	err := db.Where("user_id = ? AND checked = ?", userID, false).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []EnrichedCartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	query := db.Model(&models.CartItem{}).
		Select(`cart_items.cart_id, cart_items.product_id, cart_items.quantity,
			cart_items.discounted_price, products.name AS product_name, products.price,
			products.image_url, products.stock, categories.name AS category`).
		Joins("JOIN products ON products.id = cart_items.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("cart_items.cart_id = ?", cart.ID)
	if category != "" {
		query = query.Where("categories.name = ?", category)
	}

	items := []EnrichedCartItem{}
	if err := query.Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveItem deletes one product line from a cart the user owns.
func RemoveItem(db *gorm.DB, userID, cartID, productID uint) error {
	var cart models.Cart
	if err := db.Where("id = ? AND user_id = ?", cartID, userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartNotFound
		}
		return err
	}

	result := db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// ClearCart drops every line from the user's open cart.
func ClearCart(db *gorm.DB, userID uint) error {
	var cart models.Cart
	if err := db.Where("user_id = ? AND checked = ?", userID, false).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}

// -------- Handlers --------

// POST /api/cart
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := AddItem(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			var stockErr *InsufficientStockError
			switch {
			case errors.Is(err, ErrProductNotFound):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.As(err, &stockErr):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
		})
	}
}

// GET /api/cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		items, err := ListItems(db, userID, c.Query("category"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// DELETE /api/cart/:cart_id/products/:product_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
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
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return
		}

		if err := RemoveItem(db, userID, uint(cartID), uint(productID)); err != nil {
			switch {
			case errors.Is(err, ErrCartNotFound), errors.Is(err, ErrCartItemNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// DELETE /api/cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := ClearCart(db, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
