package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product labels stored on Order.Product
const (
	ProductTicket           = "Ticket"
	ProductSubscription     = "Subscription"
	ProductMultiRideCard    = "10-Session Card"
	ProductUserRegistration = "User Registration"
)

// Order is the billing record of one purchased line item.
// OrderReferentie is shared with the child product row (its OrderID column)
// and with every other order placed in the same checkout.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderDate       time.Time       `gorm:"not null" json:"orderDate"`
	Product         string          `gorm:"not null" json:"product"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	UserID          uint            `gorm:"not null;index" json:"userId"` // foreign key to users table
	User            User            `gorm:"foreignKey:UserID" json:"user"`
	Promotions      []Promotion     `gorm:"many2many:order_promotions;" json:"promotions"`
	OrderReferentie string          `gorm:"not null;index" json:"orderReferentie"`
	ProductType     string          `gorm:"index:idx_orders_product" json:"productType,omitempty"` // tickets, subscriptions or multi_ride_cards
	ProductID       *uint           `gorm:"index:idx_orders_product" json:"productId,omitempty"`
	Details         datatypes.JSON  `json:"details,omitempty"` // snapshot of the line item as submitted
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderParams holds the fields needed to build an Order
type OrderParams struct {
	OrderDate       time.Time
	Product         string
	Price           decimal.Decimal
	User            *User
	Promotions      []Promotion
	OrderReferentie string
	ProductType     string
	ProductID       *uint
	Details         datatypes.JSON
}

// NewOrder validates p and builds an Order owned by p.User
func NewOrder(p OrderParams) (*Order, error) {
	if p.OrderDate.IsZero() {
		return nil, invalid("orderDate", "Order date must be a valid date")
	}
	if blank(p.Product) {
		return nil, invalid("product", "Product is required")
	}
	if p.Price.IsNegative() {
		return nil, invalid("price", "Price must be a positive number")
	}
	if p.User == nil {
		return nil, invalid("user", "User is required")
	}
	if blank(p.OrderReferentie) {
		return nil, invalid("orderReferentie", "OrderReferentie is required")
	}

	promotions := p.Promotions
	if promotions == nil {
		promotions = []Promotion{}
	}

	return &Order{
		OrderDate:       p.OrderDate,
		Product:         p.Product,
		Price:           p.Price,
		UserID:          p.User.ID,
		User:            *p.User,
		Promotions:      promotions,
		OrderReferentie: p.OrderReferentie,
		ProductType:     p.ProductType,
		ProductID:       p.ProductID,
		Details:         p.Details,
	}, nil
}

// Equal compares the domain fields of two orders, ignoring ID and timestamps
func (o *Order) Equal(other *Order) bool {
	if o == nil || other == nil {
		return o == other
	}
	if !sameInstant(o.OrderDate, other.OrderDate) ||
		o.Product != other.Product ||
		!o.Price.Equal(other.Price) ||
		!o.User.Equal(&other.User) ||
		o.OrderReferentie != other.OrderReferentie ||
		o.ProductType != other.ProductType ||
		!sameProductID(o.ProductID, other.ProductID) {
		return false
	}
	if len(o.Promotions) != len(other.Promotions) {
		return false
	}
	for i := range o.Promotions {
		if !o.Promotions[i].Equal(&other.Promotions[i]) {
			return false
		}
	}
	return true
}

func sameProductID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
