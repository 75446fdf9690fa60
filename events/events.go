// Package events publishes domain events to RabbitMQ.
// Publishing is best effort: callers log failures and carry on.
package events

import (
	"context"
	"time"

	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/shopspring/decimal"
)

// OrderPlacedQueue is the default queue for OrderPlacedEvent
const OrderPlacedQueue = "order.placed"

// OrderPlacedEvent is emitted once per successful checkout
type OrderPlacedEvent struct {
	OrderReferentie string          `json:"orderReferentie"`
	UserID          uint            `json:"userId"`
	OrderIDs        []uint          `json:"orderIds"`
	Products        []string        `json:"products"`
	Total           decimal.Decimal `json:"total"`
	PlacedAt        time.Time       `json:"placedAt"`
}

// NewOrderPlacedEvent summarises the orders of one checkout
func NewOrderPlacedEvent(orders []models.Order) OrderPlacedEvent {
	ev := OrderPlacedEvent{
		OrderIDs: make([]uint, 0, len(orders)),
		Products: make([]string, 0, len(orders)),
		Total:    decimal.Zero,
		PlacedAt: time.Now().UTC(),
	}
	for _, o := range orders {
		ev.OrderReferentie = o.OrderReferentie
		ev.UserID = o.UserID
		ev.OrderIDs = append(ev.OrderIDs, o.ID)
		ev.Products = append(ev.Products, o.Product)
		ev.Total = ev.Total.Add(o.Price)
	}
	return ev
}

// Publisher delivers domain events
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error
	Close() error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(context.Context, OrderPlacedEvent) error { return nil }
func (NoopPublisher) Close() error                                               { return nil }
