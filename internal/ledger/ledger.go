// Package ledger is the append-only transaction history and its
// filtering and statistics.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/store"
	"qcrypto-wallet/internal/util"
)

// Ledger appends and reads transactions.
type Ledger struct {
	logger *zap.Logger
	store  *store.Store
	sched  clock.Scheduler
}

// New creates a Ledger on st.
func New(logger *zap.Logger, st *store.Store, sched clock.Scheduler) *Ledger {
	return &Ledger{logger: logger.Named("ledger"), store: st, sched: sched}
}

// Append validates and records tx. A missing id or timestamp is filled in.
func (l *Ledger) Append(ctx context.Context, tx *models.Transaction) error {
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("transaction amount %s: %w", tx.Amount, util.ErrInvalidAmount)
	}
	if tx.FiatValue.IsNegative() {
		return fmt.Errorf("transaction fiat value %s: %w", tx.FiatValue, util.ErrInvalidAmount)
	}
	if tx.Currency == "" {
		return fmt.Errorf("transaction currency: %w", util.ErrInvalidInput)
	}
	if tx.UID == "" {
		tx.UID = "tx-" + uuid.NewString()
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = l.sched.Now()
	}
	if tx.Status == "" {
		tx.Status = models.StatusPending
	}
	if err := l.store.AppendTransaction(ctx, tx); err != nil {
		return err
	}
	l.logger.Info("Transaction recorded",
		zap.String("id", tx.UID),
		zap.String("type", string(tx.Type)),
		zap.String("currency", tx.Currency),
		zap.String("amount", tx.Amount.String()),
		zap.String("status", string(tx.Status)))
	return nil
}

// List returns the history newest first.
func (l *Ledger) List(ctx context.Context) ([]models.Transaction, error) {
	return l.store.Transactions(ctx)
}

// Get returns a transaction by id.
func (l *Ledger) Get(ctx context.Context, id string) (*models.Transaction, error) {
	return l.store.Transaction(ctx, id)
}

// Query lists the history narrowed by c at the current time.
func (l *Ledger) Query(ctx context.Context, c Criteria) ([]models.Transaction, error) {
	txs, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(txs, c, l.sched.Now()), nil
}

// Stats computes the statistics of the whole history.
func (l *Ledger) Stats(ctx context.Context) (Statistics, error) {
	txs, err := l.List(ctx)
	if err != nil {
		return Statistics{}, err
	}
	return Stats(txs, l.sched.Now()), nil
}
