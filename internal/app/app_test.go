package app

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qcrypto-wallet/internal/clipboard"
	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/config"
	"qcrypto-wallet/internal/store/storetest"
)

// newTestApp builds an App on a private in-memory database driven by a manual clock.
func newTestApp(t *testing.T) (*App, *clock.Manual) {
	t.Helper()
	cfg := config.Default()
	cfg.Database.DSN = "file::memory:"
	sched := clock.NewManual(storetest.Now)

	a, err := New(cfg, zap.NewNop(),
		WithScheduler(sched),
		WithClipboard(clipboard.WriterFunc(func(string) error { return nil })),
		WithRand(rand.New(rand.NewSource(7))),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, sched
}

func TestNewSeedsDemoData(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t)

	wallets, err := a.Wallets.List(ctx)
	require.NoError(t, err)
	assert.Len(t, wallets, 3)

	txs, err := a.Ledger.List(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 15)

	positions, err := a.Staking.Positions(ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 4)
}

func TestTickerRevaluesWallets(t *testing.T) {
	ctx := context.Background()
	a, sched := newTestApp(t)

	prices := a.Prices.All()
	for i := range prices {
		if prices[i].Currency == "ETH" {
			prices[i].CurrentPrice = decimal.NewFromInt(3000)
		}
	}
	a.Prices.Replace(prices)
	a.Ticker.Tick(sched.Now())

	eth, err := a.Wallets.Get(ctx, "ETH")
	require.NoError(t, err)
	assert.True(t, eth.EuroValue.Equal(decimal.NewFromInt(375000)), eth.EuroValue.String())
}
