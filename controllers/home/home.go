package homeControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AustinQian/EcommerceAPI/cache"
	"github.com/AustinQian/EcommerceAPI/models"
)

const (
	homeCacheKey = "home:payload"
	homeCacheTTL = 5 * time.Minute
)

// InvalidateCache drops the cached homepage payload. Called after catalog
// writes so admins see their changes without waiting out the TTL.
func InvalidateCache() {
	cache.Invalidate(homeCacheKey)
}

type HomePayload struct {
	FeaturedProducts []models.Product  `json:"featured_products"`
	Categories       []models.Category `json:"categories"`
	BestSellers      []models.Product  `json:"best_sellers"`
}

// Homepage serves the storefront landing payload: the latest products, top
// categories, and best sellers ranked by units ordered. Cached briefly in
// redis since every visitor hits it.
func Homepage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload HomePayload
		if cache.Get(homeCacheKey, &payload) {
			c.JSON(http.StatusOK, payload)
			return
		}

		if err := db.Order("created_at DESC").Limit(5).
			Find(&payload.FeaturedProducts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load homepage"})
			return
		}
		if err := db.Limit(5).Find(&payload.Categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load homepage"})
			return
		}

		err := db.Model(&models.Product{}).
			Joins("JOIN order_items ON order_items.product_id = products.id").
			Group("products.id").
			Order("SUM(order_items.quantity) DESC").
			Limit(5).
			Find(&payload.BestSellers).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load homepage"})
			return
		}

		_ = cache.Set(homeCacheKey, payload, homeCacheTTL)
		c.JSON(http.StatusOK, payload)
	}
}
