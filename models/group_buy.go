package models

import (
	"time"

	"github.com/google/uuid"
)

// GroupBuy is a threshold-triggered collective discount on one product,
// shared via a short unique link. It collects participants and becomes
// eligible once MinParticipants have joined.
type GroupBuy struct {
	ID                  uint    `gorm:"primaryKey" json:"id"`
	ProductID           uint    `gorm:"not null" json:"product_id"`
	Product             Product `gorm:"foreignKey:ProductID" json:"-"`
	DiscountPercentage  float64 `gorm:"not null" json:"discount_percentage"`
	MinParticipants     int     `gorm:"not null;default:2" json:"min_participants"`
	CurrentParticipants int     `gorm:"not null;default:0" json:"current_participants"`
	UniqueLink          string  `gorm:"uniqueIndex;not null" json:"unique_link"`
	Active              bool    `gorm:"not null;default:true" json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
}

// Eligible reports whether enough participants joined for the discount.
func (g *GroupBuy) Eligible() bool {
	return g.CurrentParticipants >= g.MinParticipants
}

// NewGroupBuyLink returns the short shareable slug for a group buy.
func NewGroupBuyLink() string {
	return uuid.NewString()[:8]
}

// GroupBuyParticipant is an append-only join record; the unique pair
// suppresses duplicate joins.
type GroupBuyParticipant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GroupBuyID uint      `gorm:"uniqueIndex:idx_groupbuy_user;not null" json:"group_buy_id"`
	UserID     uint      `gorm:"uniqueIndex:idx_groupbuy_user;not null" json:"user_id"`
	JoinedAt   time.Time `json:"joined_at"`
}
