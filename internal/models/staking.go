package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StakingPosition is an amount locked for a fixed period at a fixed APY.
// Unstaking soft-deletes the row.
type StakingPosition struct {
	gorm.Model
	UID            string          `gorm:"uniqueIndex;not null" json:"id"`
	OptionID       string          `json:"option_id"`
	Currency       string          `gorm:"index" json:"currency"`
	AmountStaked   decimal.Decimal `json:"amount_staked"`
	APY            decimal.Decimal `json:"apy"`
	LockPeriod     time.Duration   `json:"lock_period"`
	StartDate      time.Time       `json:"start_date"`
	ExpirationDate time.Time       `json:"expiration_date"`
	EarnedAmount   decimal.Decimal `json:"earned_amount"`
	AutoRenew      bool            `json:"auto_renew"`
}

// StakingOption is an entry of the static staking catalog.
type StakingOption struct {
	ID          string          `json:"id"`
	Currency    string          `json:"currency"`
	Name        string          `json:"name"`
	APY         decimal.Decimal `json:"apy"`
	LockPeriod  time.Duration   `json:"lock_period"`
	MinAmount   decimal.Decimal `json:"min_amount"`
	Description string          `json:"description"`
	RiskLevel   string          `json:"risk_level"`
}
