package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
)

// Order records a settled checkout, including how many credits the buyer
// spent and earned on it.
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uint        `gorm:"index;not null" json:"user_id"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount   float64     `gorm:"not null" json:"total_amount"`
	CreditsUsed   float64     `json:"credits_used"`
	CreditsEarned float64     `json:"credits_earned"`
	Status        OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"index" json:"order_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	// Price at purchase time; later catalog edits don't rewrite history.
	Price    float64 `gorm:"not null" json:"price"`
	Quantity int     `gorm:"not null" json:"quantity"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}
