package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRides is the number of rides on a new card
const DefaultRides = 10

// MultiRideCard is a "10-session card" granting a fixed number of rides
type MultiRideCard struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	RemainingRides int             `gorm:"not null;default:10" json:"remainingRides"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Valid          bool            `gorm:"not null" json:"valid"`
	StartDate      time.Time       `gorm:"not null" json:"startDate"`
	EndDate        time.Time       `gorm:"not null" json:"endDate"`
	OrderID        string          `gorm:"not null;index" json:"orderId"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for the MultiRideCard model
func (MultiRideCard) TableName() string {
	return "multi_ride_cards"
}

// MultiRideCardParams holds the fields needed to build a MultiRideCard.
// A zero RemainingRides means DefaultRides.
type MultiRideCardParams struct {
	RemainingRides int
	Price          decimal.Decimal
	Valid          bool
	StartDate      time.Time
	EndDate        time.Time
	OrderID        string
}

// NewMultiRideCard validates p and builds a MultiRideCard
func NewMultiRideCard(p MultiRideCardParams) (*MultiRideCard, error) {
	rides := p.RemainingRides
	if rides == 0 {
		rides = DefaultRides
	}
	if rides < 0 {
		return nil, invalid("remainingRides", "Beurten must be a positive number")
	}
	if !p.Price.IsPositive() {
		return nil, invalid("price", "Price must be a positive number")
	}
	if p.StartDate.IsZero() {
		return nil, invalid("startDate", "StartDate must be a valid date")
	}
	if p.EndDate.IsZero() {
		return nil, invalid("endDate", "EndDate must be a valid date")
	}
	if p.EndDate.Before(p.StartDate) {
		return nil, invalid("endDate", "EndDate cannot be before StartDate")
	}
	if blank(p.OrderID) {
		return nil, invalid("orderId", "Order ID is required")
	}

	return &MultiRideCard{
		RemainingRides: rides,
		Price:          p.Price,
		Valid:          p.Valid,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		OrderID:        p.OrderID,
	}, nil
}

// Equal compares the domain fields of two cards
func (c *MultiRideCard) Equal(other *MultiRideCard) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.RemainingRides == other.RemainingRides &&
		c.Price.Equal(other.Price) &&
		c.Valid == other.Valid &&
		sameInstant(c.StartDate, other.StartDate) &&
		sameInstant(c.EndDate, other.EndDate) &&
		c.OrderID == other.OrderID
}

func (c MultiRideCard) OrderReference() string { return c.OrderID }
