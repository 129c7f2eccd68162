package store

import (
	"context"

	"github.com/pkg/errors"

	"qcrypto-wallet/internal/models"
)

// Settlement returns the singleton settlement account.
func (s *Store) Settlement(ctx context.Context) (*models.SettlementAccount, error) {
	var acct models.SettlementAccount
	if err := s.conn(ctx).Order("id asc").First(&acct).Error; err != nil {
		return nil, notFound(err, "load settlement account")
	}
	return &acct, nil
}

// SaveSettlement creates or replaces the settlement account.
func (s *Store) SaveSettlement(ctx context.Context, acct *models.SettlementAccount) error {
	if acct.ID == 0 {
		if existing, err := s.Settlement(ctx); err == nil {
			acct.ID = existing.ID
			acct.CreatedAt = existing.CreatedAt
		}
	}
	if err := s.conn(ctx).Save(acct).Error; err != nil {
		return errors.Wrap(err, "save settlement account")
	}
	return nil
}
