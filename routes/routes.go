package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	homeControllers "github.com/AustinQian/EcommerceAPI/controllers/home"
	"github.com/AustinQian/EcommerceAPI/metrics"
)

// SetupRoutes is the single entry-point that wires up the public, auth,
// user, and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/", homeControllers.Homepage(db))
	r.GET("/metrics", metrics.Handler())

	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Public catalog + JWT-protected user routes
	SetupUserRoutes(r, db)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, db)
}
