package market

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"qcrypto-wallet/internal/models"
)

// Ticker periodically refreshes the price store. With simulation off it
// republishes the same prices, so consumers still observe a tick.
type Ticker struct {
	logger     *zap.Logger
	store      *Store
	interval   time.Duration
	simulate   bool
	volatility float64
	rnd        *rand.Rand
	onRefresh  func([]models.PriceRecord)
}

// NewTicker creates a Ticker. onRefresh may be nil.
func NewTicker(logger *zap.Logger, store *Store, interval time.Duration, simulate bool, volatility float64, rnd *rand.Rand, onRefresh func([]models.PriceRecord)) *Ticker {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Ticker{
		logger:     logger.Named("price-ticker"),
		store:      store,
		interval:   interval,
		simulate:   simulate,
		volatility: volatility,
		rnd:        rnd,
		onRefresh:  onRefresh,
	}
}

// Run refreshes prices every interval until ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info("Starting price ticker", zap.Duration("interval", t.interval), zap.Bool("simulate", t.simulate))

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Stopping price ticker")
			return
		case now := <-ticker.C:
			t.Tick(now)
		}
	}
}

// Tick performs a single refresh at now and returns the new snapshot.
func (t *Ticker) Tick(now time.Time) []models.PriceRecord {
	records := t.store.All()
	for i := range records {
		if t.simulate {
			records[i].CurrentPrice = Walk(records[i].CurrentPrice, t.volatility, t.rnd)
		}
		records[i].LastUpdated = now
	}
	t.store.Replace(records)

	t.logger.Debug("Prices refreshed", zap.Int("count", len(records)))
	if t.onRefresh != nil {
		t.onRefresh(records)
	}
	return records
}
