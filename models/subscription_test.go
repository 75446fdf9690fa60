package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubscriptionParams() SubscriptionParams {
	return SubscriptionParams{
		Region:    "north",
		Subtype:   "3 Months",
		StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		OrderID:   "ref-1",
	}
}

func TestNewSubscriptionRoundTrip(t *testing.T) {
	p := validSubscriptionParams()
	sub, err := NewSubscription(p)
	require.NoError(t, err)

	assert.Equal(t, "north", sub.Region)
	assert.Equal(t, "3 Months", sub.Subtype)
	assert.True(t, p.StartDate.Equal(sub.StartDate))
	assert.True(t, p.EndDate.Equal(sub.EndDate))
	assert.Equal(t, "ref-1", sub.OrderID)
	assert.Equal(t, "subscriptions", sub.TableName())
}

func TestNewSubscriptionSameDayIsValid(t *testing.T) {
	p := validSubscriptionParams()
	p.EndDate = p.StartDate

	_, err := NewSubscription(p)
	assert.NoError(t, err)
}

func TestNewSubscriptionValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SubscriptionParams)
		message string
	}{
		{"missing region", func(p *SubscriptionParams) { p.Region = "" }, "Region is required"},
		{"missing subtype", func(p *SubscriptionParams) { p.Subtype = "" }, "Subtype is required"},
		{"missing start date", func(p *SubscriptionParams) { p.StartDate = time.Time{} }, "StartDate must be a valid date"},
		{"missing end date", func(p *SubscriptionParams) { p.EndDate = time.Time{} }, "EndDate must be a valid date"},
		{"end before start", func(p *SubscriptionParams) { p.EndDate = p.StartDate.AddDate(0, 0, -1) }, "EndDate cannot be before StartDate"},
		{"missing order id", func(p *SubscriptionParams) { p.OrderID = "" }, "Order ID is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validSubscriptionParams()
			tt.mutate(&p)

			sub, err := NewSubscription(p)
			assert.Nil(t, sub)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestSubscriptionEqual(t *testing.T) {
	a, _ := NewSubscription(validSubscriptionParams())
	b, _ := NewSubscription(validSubscriptionParams())

	assert.True(t, a.Equal(a))
	assert.True(t, a.Equal(b))

	b.Region = "south"
	assert.False(t, a.Equal(b))
}
