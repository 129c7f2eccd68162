package fixtures

import (
	"context"
	"fmt"
	"time"

	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/store"
)

// Seed loads the demo data set into an empty store.
func Seed(ctx context.Context, st *store.Store, prices map[string]models.PriceRecord, now time.Time) error {
	for _, w := range Wallets(prices) {
		w := w
		if err := st.CreateWallet(ctx, &w); err != nil {
			return fmt.Errorf("seed wallets: %w", err)
		}
	}
	txs := Transactions(now)
	// Insert oldest first so insertion order matches chronology.
	for i := len(txs) - 1; i >= 0; i-- {
		if err := st.AppendTransaction(ctx, &txs[i]); err != nil {
			return fmt.Errorf("seed transactions: %w", err)
		}
	}
	for _, p := range StakingPositions(now) {
		p := p
		if err := st.CreatePosition(ctx, &p); err != nil {
			return fmt.Errorf("seed staking positions: %w", err)
		}
	}
	acct := Settlement(now)
	if err := st.SaveSettlement(ctx, &acct); err != nil {
		return fmt.Errorf("seed settlement: %w", err)
	}
	for _, c := range Clients() {
		c := c
		if err := st.CreateClient(ctx, &c); err != nil {
			return fmt.Errorf("seed clients: %w", err)
		}
	}
	for _, u := range Users() {
		u := u
		if err := st.CreateUser(ctx, &u); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}
	return nil
}
