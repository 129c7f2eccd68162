package market

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/util"
)

// Period selects one of the precomputed price changes.
type Period string

const (
	Period24h Period = "24h"
	Period7d  Period = "7d"
	Period30d Period = "30d"
)

// Store is the price reference read model. Records are swapped wholesale
// by Replace, so a reader never sees a half-updated record.
type Store struct {
	mu      sync.RWMutex
	records map[string]models.PriceRecord
	order   []string
}

// NewStore creates a Store holding records.
func NewStore(records []models.PriceRecord) *Store {
	s := &Store{}
	s.Replace(records)
	return s
}

// Replace swaps in a fresh snapshot.
func (s *Store) Replace(records []models.PriceRecord) {
	byCurrency := make(map[string]models.PriceRecord, len(records))
	order := make([]string, 0, len(records))
	for _, r := range records {
		if _, dup := byCurrency[r.Currency]; !dup {
			order = append(order, r.Currency)
		}
		byCurrency[r.Currency] = r
	}

	s.mu.Lock()
	s.records = byCurrency
	s.order = order
	s.mu.Unlock()
}

// Get returns the record of currency.
func (s *Store) Get(currency string) (models.PriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[currency]
	if !ok {
		return models.PriceRecord{}, fmt.Errorf("price for %s: %w", currency, util.ErrUnknownCurrency)
	}
	return r, nil
}

// CurrentPrice returns the latest price of currency.
func (s *Store) CurrentPrice(currency string) (decimal.Decimal, error) {
	r, err := s.Get(currency)
	if err != nil {
		return decimal.Zero, err
	}
	return r.CurrentPrice, nil
}

// History returns the last days points of the series of currency.
// A non-positive days returns the whole series.
func (s *Store) History(currency string, days int) ([]models.PricePoint, error) {
	r, err := s.Get(currency)
	if err != nil {
		return nil, err
	}
	h := r.PriceHistory
	if days > 0 && days < len(h) {
		h = h[len(h)-days:]
	}
	out := make([]models.PricePoint, len(h))
	copy(out, h)
	return out, nil
}

// Change returns the precomputed percentage change of currency over p.
func (s *Store) Change(currency string, p Period) (decimal.Decimal, error) {
	r, err := s.Get(currency)
	if err != nil {
		return decimal.Zero, err
	}
	switch p {
	case Period24h:
		return r.Change24h, nil
	case Period7d:
		return r.Change7d, nil
	case Period30d:
		return r.Change30d, nil
	default:
		return decimal.Zero, fmt.Errorf("period %q: %w", p, util.ErrInvalidInput)
	}
}

// All returns every record in insertion order.
func (s *Store) All() []models.PriceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PriceRecord, 0, len(s.order))
	for _, c := range s.order {
		out = append(out, s.records[c])
	}
	return out
}

// Map returns every record keyed by currency.
func (s *Store) Map() map[string]models.PriceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.PriceRecord, len(s.records))
	for k, v := range s.records {
		out[k] = v
	}
	return out
}
