package cartControllers

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrProductNotFound     = errors.New("product does not exist")
	ErrCartNotFound        = errors.New("cart not found")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrInsufficientCredits = errors.New("not enough credits")
	ErrCouponNotFound      = errors.New("invalid coupon code")
	ErrCouponExpired       = errors.New("this coupon is expired")
	ErrCouponAlreadyUsed   = errors.New("this coupon has already been used")
)

// InsufficientStockError reports which product ran short and how many units
// are still available.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s. Available: %d", e.ProductName, e.Available)
}
