package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcrypto-wallet/internal/config"
	"qcrypto-wallet/internal/models"
)

func TestNewDatabase(t *testing.T) {
	db, err := NewDatabase(config.Database{DSN: "file::memory:"})
	require.NoError(t, err)

	for _, model := range []any{
		&models.WalletAsset{},
		&models.Address{},
		&models.Transaction{},
		&models.StakingPosition{},
		&models.SettlementAccount{},
		&models.SessionEntry{},
		&models.Client{},
		&models.User{},
		&models.Role{},
	} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}
