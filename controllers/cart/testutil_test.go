package cartControllers

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AustinQian/EcommerceAPI/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named shared-cache DB so every pooled connection sees the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, credits float64) *models.User {
	t.Helper()

	user := models.User{
		Username: "user-" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@example.com",
		Verified: true,
		Credits:  credits,
	}
	require.NoError(t, user.SetPassword("S3cret!pw"))
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()

	product := models.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func createCoupon(t *testing.T, db *gorm.DB, code string, percent float64, expired bool) *models.Coupon {
	t.Helper()

	expiresAt := time.Now().Add(24 * time.Hour)
	if expired {
		expiresAt = time.Now().Add(-24 * time.Hour)
	}
	coupon := models.Coupon{Code: code, DiscountPercentage: percent, ExpiresAt: expiresAt}
	require.NoError(t, db.Create(&coupon).Error)
	return &coupon
}
