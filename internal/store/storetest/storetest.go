// Package storetest builds throwaway stores for tests.
package storetest

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"qcrypto-wallet/internal/config"
	"qcrypto-wallet/internal/database"
	"qcrypto-wallet/internal/fixtures"
	"qcrypto-wallet/internal/market"
	"qcrypto-wallet/internal/store"
)

// Now is the reference time of seeded data.
var Now = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

// New returns an empty store on a private in-memory database.
func New(t *testing.T) *store.Store {
	t.Helper()
	db, err := database.NewDatabase(config.Database{DSN: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store.New(db)
}

// Prices returns the reference price store with a deterministic history.
func Prices() *market.Store {
	return market.NewStore(fixtures.Prices(Now, 30, 0.02, rand.New(rand.NewSource(1))))
}

// Seeded returns a store loaded with the demo data set at Now.
func Seeded(t *testing.T) (*store.Store, *market.Store) {
	t.Helper()
	st := New(t)
	prices := Prices()
	require.NoError(t, fixtures.Seed(context.Background(), st, prices.Map(), Now))
	return st, prices
}
