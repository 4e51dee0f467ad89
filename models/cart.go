package models

import "time"

// Cart is a user's pending collection of product quantities. A user has at
// most one open (checked=false) cart; once settled the cart is frozen with
// checked=true and a fresh cart is created on the next add.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Checked   bool       `gorm:"not null;default:false" json:"checked"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// CartItem associates a product and quantity with a cart.
type CartItem struct {
	CartID    uint `gorm:"primaryKey;autoIncrement:false" json:"cart_id"`
	ProductID uint `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Quantity  int  `gorm:"not null;default:1" json:"quantity"`

	// Set when a group-buy discount has been applied to this line.
	DiscountedPrice *float64 `json:"discounted_price,omitempty"`

	Product Product   `gorm:"foreignKey:ProductID" json:"-"`
	AddedAt time.Time `json:"added_at"`
}
