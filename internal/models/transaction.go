package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType is the kind of ledger entry.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionTrade      TransactionType = "trade"
	TransactionBuy        TransactionType = "buy"
	TransactionSell       TransactionType = "sell"
)

// TransactionStatus is the settlement status of a ledger entry.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusCancelled TransactionStatus = "cancelled"
)

// Transaction is an append-only ledger record.
type Transaction struct {
	gorm.Model
	UID        string            `gorm:"uniqueIndex;not null" json:"id"`
	Type       TransactionType   `gorm:"index" json:"type"`
	Currency   string            `gorm:"index" json:"currency"`
	Amount     decimal.Decimal   `json:"amount"`
	FiatValue  decimal.Decimal   `json:"fiat_value"`
	Timestamp  time.Time         `gorm:"index" json:"timestamp"`
	Status     TransactionStatus `json:"status"`
	TradePair  string            `json:"trade_pair,omitempty"`
	TradePrice decimal.Decimal   `json:"trade_price"`
	Address    string            `json:"address,omitempty"`
	TxHash     string            `json:"tx_hash,omitempty"`
	Notes      string            `json:"notes,omitempty"`
}
