package models

import (
	"time"
)

// Subscription is a time-boxed travel plan for a region
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Region    string    `gorm:"not null" json:"region"`
	Subtype   string    `gorm:"not null" json:"subtype"` // plan length, e.g. "3 Months"
	StartDate time.Time `gorm:"not null" json:"startDate"`
	EndDate   time.Time `gorm:"not null" json:"endDate"`
	OrderID   string    `gorm:"not null;index" json:"orderId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Subscription model
func (Subscription) TableName() string {
	return "subscriptions"
}

// SubscriptionParams holds the fields needed to build a Subscription
type SubscriptionParams struct {
	Region    string
	Subtype   string
	StartDate time.Time
	EndDate   time.Time
	OrderID   string
}

// NewSubscription validates p and builds a Subscription
func NewSubscription(p SubscriptionParams) (*Subscription, error) {
	if blank(p.Region) {
		return nil, invalid("region", "Region is required")
	}
	if blank(p.Subtype) {
		return nil, invalid("subtype", "Subtype is required")
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

	return &Subscription{
		Region:    p.Region,
		Subtype:   p.Subtype,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		OrderID:   p.OrderID,
	}, nil
}

// Equal compares the domain fields of two subscriptions
func (s *Subscription) Equal(other *Subscription) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Region == other.Region &&
		s.Subtype == other.Subtype &&
		sameInstant(s.StartDate, other.StartDate) &&
		sameInstant(s.EndDate, other.EndDate) &&
		s.OrderID == other.OrderID
}

func (s Subscription) OrderReference() string { return s.OrderID }
