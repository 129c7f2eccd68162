package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is a single sample of a price series.
type PricePoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
	Date      string          `json:"date"`
}

// PriceRecord is the reference price of one asset. Records are immutable;
// a refresh replaces them wholesale.
type PriceRecord struct {
	Currency     string          `json:"currency"`
	Name         string          `json:"name"`
	Symbol       string          `json:"symbol"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Change24h    decimal.Decimal `json:"change_24h"`
	Change7d     decimal.Decimal `json:"change_7d"`
	Change30d    decimal.Decimal `json:"change_30d"`
	PriceHistory []PricePoint    `json:"price_history"`
	LastUpdated  time.Time       `json:"last_updated"`
}
