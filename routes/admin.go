package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/AustinQian/EcommerceAPI/controllers/cart"
	productControllers "github.com/AustinQian/EcommerceAPI/controllers/product"
	userControllers "github.com/AustinQian/EcommerceAPI/controllers/user"
	"github.com/AustinQian/EcommerceAPI/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-key
// middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		adminGroup.GET("/users", userControllers.GetAllUsers(db))

		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productControllers.CreateProduct(db))
			productAdmin.PUT("/:id", productControllers.UpdateProduct(db))
			productAdmin.GET("", productControllers.GetProducts(db))
			productAdmin.DELETE("/:id", productControllers.DeleteProduct(db))
		}

		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productControllers.CreateCategory(db))
			categoryAdmin.PUT("/:id", productControllers.UpdateCategory(db))
			categoryAdmin.GET("", productControllers.GetAllCategories(db))
			categoryAdmin.DELETE("/:id", productControllers.DeleteCategory(db))
		}

		adminGroup.POST("/coupons", cartControllers.CreateCoupon(db))
	}
}
