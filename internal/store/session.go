package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"

	"qcrypto-wallet/internal/models"
)

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	entry := models.SessionEntry{Name: key, Value: value}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return errors.Wrap(err, "set session key "+key)
	}
	return nil
}

// Get returns the value stored under key. ok is false when absent.
func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	var entries []models.SessionEntry
	if err := s.conn(ctx).Where("name = ?", key).Limit(1).Find(&entries).Error; err != nil {
		return "", false, errors.Wrap(err, "get session key "+key)
	}
	if len(entries) == 0 {
		return "", false, nil
	}
	return entries[0].Value, true, nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.conn(ctx).Where("name = ?", key).Delete(&models.SessionEntry{}).Error; err != nil {
		return errors.Wrap(err, "remove session key "+key)
	}
	return nil
}
