package store

import (
	"context"

	"github.com/pkg/errors"

	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/util"
)

// Positions returns every staking position still held, oldest first.
func (s *Store) Positions(ctx context.Context) ([]models.StakingPosition, error) {
	var positions []models.StakingPosition
	if err := s.conn(ctx).Order("start_date asc").Order("id asc").Find(&positions).Error; err != nil {
		return nil, errors.Wrap(err, "load staking positions")
	}
	return positions, nil
}

// Position returns a held position by its public id.
func (s *Store) Position(ctx context.Context, uid string) (*models.StakingPosition, error) {
	var pos models.StakingPosition
	if err := s.conn(ctx).Where("uid = ?", uid).First(&pos).Error; err != nil {
		return nil, notFound(err, "load staking position "+uid)
	}
	return &pos, nil
}

// CreatePosition persists a new staking position.
func (s *Store) CreatePosition(ctx context.Context, pos *models.StakingPosition) error {
	if err := s.conn(ctx).Create(pos).Error; err != nil {
		return errors.Wrap(err, "create staking position")
	}
	return nil
}

// DeletePosition removes a position from the held set.
func (s *Store) DeletePosition(ctx context.Context, uid string) error {
	res := s.conn(ctx).Where("uid = ?", uid).Delete(&models.StakingPosition{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete staking position "+uid)
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(util.ErrNotFound, "delete staking position "+uid)
	}
	return nil
}
