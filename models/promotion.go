package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion is a discount code. DiscountAmount is a percentage.
type Promotion struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Code           string          `gorm:"uniqueIndex;not null" json:"code"`
	IsActive       bool            `gorm:"not null" json:"isActive"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discountAmount"`
	Orders         []Order         `gorm:"many2many:order_promotions;" json:"orders,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for the Promotion model
func (Promotion) TableName() string {
	return "promotions"
}

// PromotionParams holds the fields needed to build a Promotion
type PromotionParams struct {
	Code           string
	IsActive       bool
	DiscountAmount decimal.Decimal
}

// NewPromotion validates p and builds a Promotion
func NewPromotion(p PromotionParams) (*Promotion, error) {
	if blank(p.Code) {
		return nil, invalid("code", "Code is required")
	}
	if !p.DiscountAmount.IsPositive() {
		return nil, invalid("discountAmount", "DiscountAmount must be a positive number")
	}

	return &Promotion{
		Code:           p.Code,
		IsActive:       p.IsActive,
		DiscountAmount: p.DiscountAmount,
	}, nil
}

// Equal compares code, activity and discount
func (p *Promotion) Equal(other *Promotion) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Code == other.Code &&
		p.IsActive == other.IsActive &&
		p.DiscountAmount.Equal(other.DiscountAmount)
}
