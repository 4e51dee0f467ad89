package cartControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AustinQian/EcommerceAPI/models"
)

func TestCheckoutHappyPath(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)
	shirt := createProduct(t, db, "Shirt", 10, 5)
	cap := createProduct(t, db, "Cap", 20, 1)

	_, err := AddItem(db, user.ID, shirt.ID, 2)
	require.NoError(t, err)
	_, err = AddItem(db, user.ID, cap.ID, 1)
	require.NoError(t, err)

	summary, err := Checkout(db, user.ID, CheckoutRequest{})
	require.NoError(t, err)

	assert.InDelta(t, 40.00, summary.FinalTotal, 0.001)
	assert.Zero(t, summary.CreditsUsed)
	assert.InDelta(t, 0.40, summary.CreditsEarned, 0.001)

	var p models.Product
	require.NoError(t, db.First(&p, shirt.ID).Error)
	assert.Equal(t, 3, p.Stock)
	require.NoError(t, db.First(&p, cap.ID).Error)
	assert.Equal(t, 0, p.Stock)

	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&cart).Error)
	assert.True(t, cart.Checked)

	var itemCount int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount)
	assert.Zero(t, itemCount)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, summary.OrderID).Error)
	assert.Equal(t, user.ID, order.UserID)
	assert.InDelta(t, 40.00, order.TotalAmount, 0.001)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)

	require.NoError(t, db.First(user, user.ID).Error)
	assert.InDelta(t, 0.40, user.Credits, 0.001)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)

	_, err := Checkout(db, user.ID, CheckoutRequest{})
	assert.ErrorIs(t, err, ErrEmptyCart)

	// An open cart with no items counts as empty too.
	cart, err := GetOrCreateOpenCart(db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, cart)

	_, err = Checkout(db, user.ID, CheckoutRequest{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutWithCoupon(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)
	product := createProduct(t, db, "Shirt", 40, 10)
	coupon := createCoupon(t, db, "SAVE15", 15, false)

	_, err := AddItem(db, user.ID, product.ID, 1)
	require.NoError(t, err)

	summary, err := Checkout(db, user.ID, CheckoutRequest{CouponCode: "SAVE15"})
	require.NoError(t, err)
	assert.InDelta(t, 34.00, summary.FinalTotal, 0.001)
	assert.InDelta(t, 0.34, summary.CreditsEarned, 0.001)

	var redemption models.CouponRedemption
	require.NoError(t, db.Where("coupon_id = ? AND user_id = ?", coupon.ID, user.ID).First(&redemption).Error)
	require.NotNil(t, redemption.OrderID)
	assert.Equal(t, summary.OrderID, *redemption.OrderID)
}

func TestCouponSingleUsePerUser(t *testing.T) {
	db := newTestDB(t)
	first := createUser(t, db, 0)
	second := createUser(t, db, 0)
	product := createProduct(t, db, "Shirt", 40, 10)
	createCoupon(t, db, "SAVE15", 15, false)

	_, err := AddItem(db, first.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = Checkout(db, first.ID, CheckoutRequest{CouponCode: "SAVE15"})
	require.NoError(t, err)

	// Same user, fresh cart, same code: rejected.
	_, err = AddItem(db, first.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = Checkout(db, first.ID, CheckoutRequest{CouponCode: "SAVE15"})
	assert.ErrorIs(t, err, ErrCouponAlreadyUsed)

	// A different user can still redeem it.
	_, err = AddItem(db, second.ID, product.ID, 1)
	require.NoError(t, err)
	summary, err := Checkout(db, second.ID, CheckoutRequest{CouponCode: "SAVE15"})
	require.NoError(t, err)
	assert.InDelta(t, 34.00, summary.FinalTotal, 0.001)
}

func TestCheckoutExpiredCoupon(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)
	product := createProduct(t, db, "Shirt", 40, 10)
	createCoupon(t, db, "OLD10", 10, true)

	_, err := AddItem(db, user.ID, product.ID, 1)
	require.NoError(t, err)

	_, err = Checkout(db, user.ID, CheckoutRequest{CouponCode: "OLD10"})
	assert.ErrorIs(t, err, ErrCouponExpired)

	// Nothing settled.
	var p models.Product
	require.NoError(t, db.First(&p, product.ID).Error)
	assert.Equal(t, 10, p.Stock)
}

func TestCheckoutUnknownCoupon(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)
	product := createProduct(t, db, "Shirt", 40, 10)

	_, err := AddItem(db, user.ID, product.ID, 1)
	require.NoError(t, err)

	_, err = Checkout(db, user.ID, CheckoutRequest{CouponCode: "NOPE"})
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestCheckoutCreditsCappedAtTotal(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 100)
	product := createProduct(t, db, "Shirt", 40, 10)

	_, err := AddItem(db, user.ID, product.ID, 1)
	require.NoError(t, err)

	summary, err := Checkout(db, user.ID, CheckoutRequest{CreditsToApply: 50})
	require.NoError(t, err)

	// Only 40 of the requested 50 are consumed; the total never goes negative.
	assert.InDelta(t, 0.00, summary.FinalTotal, 0.001)
	assert.InDelta(t, 40.00, summary.CreditsUsed, 0.001)
	assert.Zero(t, summary.CreditsEarned)

	require.NoError(t, db.First(user, user.ID).Error)
	assert.InDelta(t, 60.00, user.Credits, 0.001)
}

func TestCheckoutInsufficientCredits(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 5)
	product := createProduct(t, db, "Shirt", 40, 10)

	_, err := AddItem(db, user.ID, product.ID, 1)
	require.NoError(t, err)

	_, err = Checkout(db, user.ID, CheckoutRequest{CreditsToApply: 10})
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	// Balance and stock untouched.
	require.NoError(t, db.First(user, user.ID).Error)
	assert.InDelta(t, 5.00, user.Credits, 0.001)

	var p models.Product
	require.NoError(t, db.First(&p, product.ID).Error)
	assert.Equal(t, 10, p.Stock)
}

func TestCheckoutNegativeCreditsRejected(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 100)
	product := createProduct(t, db, "Shirt", 40, 10)

	_, err := AddItem(db, user.ID, product.ID, 1)
	require.NoError(t, err)

	_, err = Checkout(db, user.ID, CheckoutRequest{CreditsToApply: -1})
	assert.ErrorIs(t, err, ErrInsufficientCredits)
}

func TestCheckoutInsufficientStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 20)
	product := createProduct(t, db, "Shirt", 10, 5)
	coupon := createCoupon(t, db, "SAVE15", 15, false)

	_, err := AddItem(db, user.ID, product.ID, 3)
	require.NoError(t, err)

	// Stock drops below the cart quantity after the item was added.
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("stock", 2).Error)

	_, err = Checkout(db, user.ID, CheckoutRequest{CouponCode: "SAVE15", CreditsToApply: 10})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Shirt", stockErr.ProductName)
	assert.Equal(t, 2, stockErr.Available)

	// The whole settlement rolled back: stock, credits, coupon, cart, orders.
	var p models.Product
	require.NoError(t, db.First(&p, product.ID).Error)
	assert.Equal(t, 2, p.Stock)

	require.NoError(t, db.First(user, user.ID).Error)
	assert.InDelta(t, 20.00, user.Credits, 0.001)

	var redemptions int64
	db.Model(&models.CouponRedemption{}).Where("coupon_id = ?", coupon.ID).Count(&redemptions)
	assert.Zero(t, redemptions)

	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&cart).Error)
	assert.False(t, cart.Checked)

	var items int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&items)
	assert.Equal(t, int64(1), items)

	var orders int64
	db.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&orders)
	assert.Zero(t, orders)
}

func TestCheckoutHonorsDiscountedPrice(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)
	product := createProduct(t, db, "Shirt", 50, 10)

	item, err := AddItem(db, user.ID, product.ID, 2)
	require.NoError(t, err)

	discounted := 45.0
	require.NoError(t, db.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", item.CartID, product.ID).
		Update("discounted_price", &discounted).Error)

	summary, err := Checkout(db, user.ID, CheckoutRequest{})
	require.NoError(t, err)
	assert.InDelta(t, 90.00, summary.FinalTotal, 0.001)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, summary.OrderID).Error)
	require.Len(t, order.Items, 1)
	assert.InDelta(t, 45.00, order.Items[0].Price, 0.001)
}

func TestRedeemCouponDirect(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)
	createCoupon(t, db, "SAVE15", 15, false)

	coupon, redemption, err := RedeemCoupon(db, user.ID, "SAVE15")
	require.NoError(t, err)
	assert.Equal(t, 15.0, coupon.DiscountPercentage)
	assert.Equal(t, user.ID, redemption.UserID)
	assert.Nil(t, redemption.OrderID)

	_, _, err = RedeemCoupon(db, user.ID, "SAVE15")
	assert.ErrorIs(t, err, ErrCouponAlreadyUsed)
}
