package models

import "github.com/shopspring/decimal"

// Prices and discounts are written to JSON as numbers, e.g. "price": 20.5
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
