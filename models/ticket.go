package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket is a single-ride product
type Ticket struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Date         time.Time       `gorm:"not null" json:"date"` // ride date
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	StartStation string          `gorm:"not null" json:"startStation"`
	EndStation   string          `gorm:"not null" json:"endStation"`
	OrderID      string          `gorm:"not null;index" json:"orderId"` // the owning order's OrderReferentie
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for the Ticket model
func (Ticket) TableName() string {
	return "tickets"
}

// TicketParams holds the fields needed to build a Ticket
type TicketParams struct {
	Date         time.Time
	Price        decimal.Decimal
	StartStation string
	EndStation   string
	OrderID      string
}

// NewTicket validates p and builds a Ticket
func NewTicket(p TicketParams) (*Ticket, error) {
	if p.Date.IsZero() {
		return nil, invalid("date", "Date is required")
	}
	if !p.Price.IsPositive() {
		return nil, invalid("price", "Price must be a positive number")
	}
	if blank(p.StartStation) {
		return nil, invalid("startStation", "StartStation is required")
	}
	if blank(p.EndStation) {
		return nil, invalid("endStation", "Destination Station is required")
	}
	if blank(p.OrderID) {
		return nil, invalid("orderId", "Order ID is required")
	}

	return &Ticket{
		Date:         p.Date,
		Price:        p.Price,
		StartStation: p.StartStation,
		EndStation:   p.EndStation,
		OrderID:      p.OrderID,
	}, nil
}

// Equal compares the domain fields of two tickets
func (t *Ticket) Equal(other *Ticket) bool {
	if t == nil || other == nil {
		return t == other
	}
	return sameInstant(t.Date, other.Date) &&
		t.Price.Equal(other.Price) &&
		t.StartStation == other.StartStation &&
		t.EndStation == other.EndStation &&
		t.OrderID == other.OrderID
}

// OrderReference returns the reference of the checkout that bought the ticket
func (t Ticket) OrderReference() string { return t.OrderID }
