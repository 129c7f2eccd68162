package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/util"
)

// All disables a string criterion.
const All = "all"

// Date ranges understood by Criteria.
const (
	Range7d  = "7d"
	Range30d = "30d"
	Range90d = "90d"
)

// Criteria narrows a transaction list. Empty or "all" fields do not
// constrain; every set field must match.
type Criteria struct {
	DateRange string
	Currency  string
	Type      string
	MinValue  decimal.NullDecimal
	MaxValue  decimal.NullDecimal
}

// ParseCriteria builds Criteria from raw form values. Empty bounds are
// unset; a bound that is not a number is rejected.
func ParseCriteria(dateRange, currency, txType, minValue, maxValue string) (Criteria, error) {
	c := Criteria{DateRange: dateRange, Currency: currency, Type: txType}
	var err error
	if c.MinValue, err = parseBound("min_value", minValue); err != nil {
		return Criteria{}, err
	}
	if c.MaxValue, err = parseBound("max_value", maxValue); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

func parseBound(name, raw string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%s %q: %w", name, raw, util.ErrInvalidInput)
	}
	return decimal.NewNullDecimal(v), nil
}

// Cutoff returns the earliest timestamp admitted by the date range. The
// zero time means no cutoff.
func (c Criteria) Cutoff(now time.Time) time.Time {
	const day = 24 * time.Hour
	switch c.DateRange {
	case Range7d:
		return now.Add(-7 * day)
	case Range30d:
		return now.Add(-30 * day)
	case Range90d:
		return now.Add(-90 * day)
	default:
		return time.Time{}
	}
}

// Match reports whether tx satisfies every constraint.
func (c Criteria) Match(tx models.Transaction, now time.Time) bool {
	if set(c.Currency) && tx.Currency != c.Currency {
		return false
	}
	if set(c.Type) && string(tx.Type) != c.Type {
		return false
	}
	if c.MinValue.Valid && tx.FiatValue.LessThan(c.MinValue.Decimal) {
		return false
	}
	if c.MaxValue.Valid && tx.FiatValue.GreaterThan(c.MaxValue.Decimal) {
		return false
	}
	if cutoff := c.Cutoff(now); !cutoff.IsZero() && tx.Timestamp.Before(cutoff) {
		return false
	}
	return true
}

func set(v string) bool {
	return v != "" && v != All
}

// Filter returns the transactions matching c in their original order.
// It does not modify txs.
func Filter(txs []models.Transaction, c Criteria, now time.Time) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if c.Match(tx, now) {
			out = append(out, tx)
		}
	}
	return out
}
