package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementAccount is the singleton bank account used for fiat settlement.
// A negative balance is a debit against MaxLimit.
type SettlementAccount struct {
	gorm.Model
	Balance       decimal.Decimal `json:"balance"`
	MaxLimit      decimal.Decimal `json:"max_limit"`
	SettlementDue time.Time       `json:"settlement_due"`
	IBAN          string          `json:"iban"`
	BIC           string          `json:"bic"`
	Beneficiary   string          `json:"beneficiary"`
	BankName      string          `json:"bank_name"`
	Currency      string          `json:"currency"`
}
