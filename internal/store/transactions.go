package store

import (
	"context"

	"github.com/pkg/errors"

	"qcrypto-wallet/internal/models"
)

// AppendTransaction adds a record to the ledger.
func (s *Store) AppendTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := s.conn(ctx).Create(tx).Error; err != nil {
		return errors.Wrap(err, "append transaction "+tx.UID)
	}
	return nil
}

// Transactions returns the ledger newest first; entries sharing a
// timestamp keep reverse insertion order.
func (s *Store) Transactions(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.conn(ctx).Order("timestamp desc").Order("id desc").Find(&txs).Error; err != nil {
		return nil, errors.Wrap(err, "load transactions")
	}
	return txs, nil
}

// Transaction returns a single record by its public id.
func (s *Store) Transaction(ctx context.Context, uid string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.conn(ctx).Where("uid = ?", uid).First(&tx).Error; err != nil {
		return nil, notFound(err, "load transaction "+uid)
	}
	return &tx, nil
}
