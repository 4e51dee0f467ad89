package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AustinQian/EcommerceAPI/cache"
	"github.com/AustinQian/EcommerceAPI/config"
	"github.com/AustinQian/EcommerceAPI/events"
	"github.com/AustinQian/EcommerceAPI/metrics"
	"github.com/AustinQian/EcommerceAPI/models"
	"github.com/AustinQian/EcommerceAPI/routes"
)

func main() {
	log.Println("Starting application...")

	config.Load()

	db := initDatabase()

	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.CouponRedemption{},
		&models.GroupBuy{},
		&models.GroupBuyParticipant{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	seedCoupons(db)

	cache.Connect()
	events.Connect()
	defer events.Close()

	r := gin.Default()
	r.Use(metrics.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, db)

	port := config.Port()
	log.Printf("Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func initDatabase() *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)
	switch config.DatabaseDriver() {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(config.SQLitePath()), &gorm.Config{})
	default:
		db, err = gorm.Open(postgres.Open(config.DatabaseDSN()), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

// seedCoupons inserts the launch promo codes on first boot.
func seedCoupons(db *gorm.DB) {
	coupons := []models.Coupon{
		{Code: "P1Q8", DiscountPercentage: 15, ExpiresAt: time.Now().AddDate(1, 0, 0)},
		{Code: "ASCX", DiscountPercentage: 10, ExpiresAt: time.Now().AddDate(0, 0, -1)},
	}
	for _, coupon := range coupons {
		var count int64
		db.Model(&models.Coupon{}).Where("code = ?", coupon.Code).Count(&count)
		if count == 0 {
			if err := db.Create(&coupon).Error; err != nil {
				log.Printf("seed coupon %s: %v", coupon.Code, err)
			}
		}
	}
}
