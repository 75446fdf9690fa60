package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/kendall-kelly/transit-pass-api/apperrors"
	"github.com/kendall-kelly/transit-pass-api/models"
	"github.com/shopspring/decimal"
)

// Product type tags accepted in a cart
const (
	TagTicket        = models.ProductTicket
	TagSubscription  = models.ProductSubscription
	TagMultiRideCard = models.ProductMultiRideCard
	TagBeurtenkaart  = "Beurtenkaart"
)

// LineItemRequest is one cart entry as submitted by the client.
// Which fields are used depends on Type.
type LineItemRequest struct {
	Type         string          `json:"type"`
	Price        decimal.Decimal `json:"price"`
	Date         string          `json:"date,omitempty"`
	StartStation string          `json:"startStation,omitempty"`
	EndStation   string          `json:"endStation,omitempty"`
	Region       string          `json:"region,omitempty"`
	Subtype      string          `json:"subtype,omitempty"`
	StartDate    string          `json:"startDate,omitempty"`
	EndDate      string          `json:"endDate,omitempty"`
}

// LineItem is a decoded cart entry: TicketItem, SubscriptionItem or MultiRideCardItem
type LineItem interface {
	Product() string
	BasePrice() decimal.Decimal
	lineItem()
}

type TicketItem struct {
	Date         time.Time
	Price        decimal.Decimal
	StartStation string
	EndStation   string
}

type SubscriptionItem struct {
	Region    string
	Subtype   string
	StartDate time.Time
	EndDate   time.Time
	Price     decimal.Decimal
}

type MultiRideCardItem struct {
	Price     decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
}

func (TicketItem) Product() string        { return TagTicket }
func (SubscriptionItem) Product() string  { return TagSubscription }
func (MultiRideCardItem) Product() string { return TagMultiRideCard }

func (i TicketItem) BasePrice() decimal.Decimal        { return i.Price }
func (i SubscriptionItem) BasePrice() decimal.Decimal  { return i.Price }
func (i MultiRideCardItem) BasePrice() decimal.Decimal { return i.Price }

func (TicketItem) lineItem()        {}
func (SubscriptionItem) lineItem()  {}
func (MultiRideCardItem) lineItem() {}

// planMonths maps a subscription subtype to its length in calendar months
var planMonths = map[string]int{
	"1 month":   1,
	"3 months":  3,
	"6 months":  6,
	"12 months": 12,
	"1 year":    12,
}

// SubscriptionEndDate adds the plan length to start using calendar months,
// so 2025-01-10 plus "3 Months" is 2025-04-10.
func SubscriptionEndDate(start time.Time, subtype string) (time.Time, error) {
	months, ok := planMonths[strings.ToLower(strings.TrimSpace(subtype))]
	if !ok {
		return time.Time{}, apperrors.Validation("Subtype must be one of 1 Month, 3 Months, 6 Months, 12 Months, 1 Year")
	}
	return start.AddDate(0, months, 0), nil
}

// DecodeLineItem validates the type tag of req and converts it to a LineItem.
// checkout is the time of the checkout; it supplies the default start of a card.
func DecodeLineItem(req LineItemRequest, checkout time.Time) (LineItem, error) {
	switch strings.TrimSpace(req.Type) {
	case TagTicket:
		date, err := parseDate("Date", req.Date)
		if err != nil {
			return nil, err
		}
		return TicketItem{
			Date:         date,
			Price:        req.Price,
			StartStation: req.StartStation,
			EndStation:   req.EndStation,
		}, nil

	case TagSubscription:
		start, err := parseDate("StartDate", req.StartDate)
		if err != nil {
			return nil, err
		}
		if req.Price.IsNegative() {
			return nil, apperrors.Validation("Price must be a positive number")
		}
		item := SubscriptionItem{
			Region:    req.Region,
			Subtype:   req.Subtype,
			StartDate: start,
			Price:     req.Price,
		}
		// Missing fields are reported by the Subscription constructor
		if !start.IsZero() && strings.TrimSpace(req.Subtype) != "" {
			if item.EndDate, err = SubscriptionEndDate(start, req.Subtype); err != nil {
				return nil, err
			}
		}
		return item, nil

	case TagMultiRideCard, TagBeurtenkaart:
		start, err := parseDate("StartDate", req.StartDate)
		if err != nil {
			return nil, err
		}
		if start.IsZero() {
			start = startOfDay(checkout)
		}
		end, err := parseDate("EndDate", req.EndDate)
		if err != nil {
			return nil, err
		}
		if end.IsZero() {
			end = start.AddDate(1, 0, 0)
		}
		return MultiRideCardItem{Price: req.Price, StartDate: start, EndDate: end}, nil
	}

	return nil, apperrors.InvalidProductType(req.Type)
}

// parseDate accepts "2006-01-02" or RFC 3339. An empty string yields the zero time.
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.Validation(fmt.Sprintf("%s must be a valid date", field))
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
