package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletAsset is the holding of a single currency, split across addresses.
// TotalBalance always equals the sum of the address balances.
type WalletAsset struct {
	gorm.Model
	Currency     string          `gorm:"uniqueIndex;not null" json:"currency"`
	Name         string          `json:"name"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	EuroValue    decimal.Decimal `json:"euro_value"`
	Addresses    []Address       `gorm:"foreignKey:WalletID" json:"addresses"`
}

// SumAddresses returns the total balance and fiat value across all addresses.
func (w *WalletAsset) SumAddresses() (balance, euro decimal.Decimal) {
	for _, a := range w.Addresses {
		balance = balance.Add(a.Balance)
		euro = euro.Add(a.EuroValue)
	}
	return balance, euro
}

// Address is a deposit address belonging to a wallet asset.
type Address struct {
	gorm.Model
	WalletID  uint            `gorm:"index" json:"-"`
	UID       string          `gorm:"uniqueIndex;not null" json:"id"`
	Address   string          `gorm:"not null" json:"address"`
	QRData    string          `json:"qr_data"`
	Balance   decimal.Decimal `json:"balance"`
	EuroValue decimal.Decimal `json:"euro_value"`
	Label     string          `json:"label"`
}
