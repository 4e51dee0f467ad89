package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/AustinQian/EcommerceAPI/controllers/cart"
	groupbuyControllers "github.com/AustinQian/EcommerceAPI/controllers/groupbuy"
	orderControllers "github.com/AustinQian/EcommerceAPI/controllers/order"
	productControllers "github.com/AustinQian/EcommerceAPI/controllers/product"
	userControllers "github.com/AustinQian/EcommerceAPI/controllers/user"
	"github.com/AustinQian/EcommerceAPI/middleware"
)

// SetupUserRoutes registers the public catalog endpoints and the
// JWT-protected shopping endpoints.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	api := r.Group("/api")

	// Browsing needs no account.
	api.GET("/products", productControllers.GetProducts(db))
	api.GET("/products/:id", productControllers.GetProductByID(db))
	api.GET("/categories", productControllers.GetAllCategoriesWithProducts(db))
	api.GET("/groupbuy/:link", groupbuyControllers.GetGroupBuy(db))

	protected := api.Group("")
	protected.Use(middleware.ValidateToken)
	{
		protected.GET("/me", userControllers.GetUser(db))

		cartGroup := protected.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(db))
			cartGroup.POST("", cartControllers.UpdateCartItem(db))
			cartGroup.DELETE("", cartControllers.ClearUserCart(db))
			cartGroup.DELETE("/:cart_id/products/:product_id", cartControllers.DeleteCartItem(db))
			cartGroup.POST("/checkout", cartControllers.CheckoutHandler(db))
			cartGroup.POST("/apply-coupon", cartControllers.ApplyCoupon(db))
		}

		groupBuyGroup := protected.Group("/groupbuy")
		{
			groupBuyGroup.POST("", groupbuyControllers.CreateGroupBuy(db))
			groupBuyGroup.POST("/join/:link", groupbuyControllers.JoinGroupBuy(db))
			groupBuyGroup.POST("/apply-discount/:cart_id", groupbuyControllers.ApplyGroupBuyDiscount(db))
		}

		protected.GET("/orders", orderControllers.GetUserOrders(db))
		protected.GET("/orders/:id", orderControllers.GetOrderByID(db))
	}
}
