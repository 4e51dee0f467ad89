package models

import "time"

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	ImageURL    string  `json:"image_url"`

	SellerID   uint     `json:"seller_id"`
	CategoryID uint     `gorm:"index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
