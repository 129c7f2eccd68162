// Package store is the session-scoped repository standing in for a
// backend. It is owned by the application root and handed to each engine.
package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"qcrypto-wallet/internal/util"
)

// Store wraps the gorm handle with typed accessors.
type Store struct {
	db *gorm.DB
}

// New creates a Store on an already migrated database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// notFound maps gorm's missing-row error to util.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(util.ErrNotFound, what)
	}
	return errors.Wrap(err, what)
}
