package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"qcrypto-wallet/internal/config"
	"qcrypto-wallet/internal/models"
)

// NewDatabase opens the session database and performs auto-migration.
func NewDatabase(cfg config.Database) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	// Every new connection to a private in-memory database starts empty.
	if strings.Contains(cfg.DSN, ":memory:") && !strings.Contains(cfg.DSN, "cache=shared") {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates the tables for every persisted model.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.WalletAsset{},
		&models.Address{},
		&models.Transaction{},
		&models.StakingPosition{},
		&models.SettlementAccount{},
		&models.SessionEntry{},
		&models.Client{},
		&models.User{},
		&models.Role{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
