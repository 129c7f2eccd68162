package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/util"
)

func preloadAddresses(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

// Wallets returns all wallet assets with their addresses, in creation order.
func (s *Store) Wallets(ctx context.Context) ([]models.WalletAsset, error) {
	var wallets []models.WalletAsset
	if err := s.conn(ctx).Preload("Addresses", preloadAddresses).Order("id asc").Find(&wallets).Error; err != nil {
		return nil, errors.Wrap(err, "load wallets")
	}
	return wallets, nil
}

// Wallet returns the wallet asset for currency.
func (s *Store) Wallet(ctx context.Context, currency string) (*models.WalletAsset, error) {
	var wallet models.WalletAsset
	err := s.conn(ctx).Preload("Addresses", preloadAddresses).Where("currency = ?", currency).First(&wallet).Error
	if err != nil {
		return nil, notFound(err, "load wallet "+currency)
	}
	return &wallet, nil
}

// CreateWallet persists a new wallet asset. A non-zero TotalBalance must
// match the sum of its address balances; totals are then recomputed from
// the addresses.
func (s *Store) CreateWallet(ctx context.Context, wallet *models.WalletAsset) error {
	balance, euro := wallet.SumAddresses()
	if !wallet.TotalBalance.IsZero() && !wallet.TotalBalance.Equal(balance) {
		return errors.Wrapf(util.ErrInvalidInput, "wallet %s total %s does not match address sum %s",
			wallet.Currency, wallet.TotalBalance, balance)
	}
	wallet.TotalBalance = balance
	wallet.EuroValue = euro

	err := s.conn(ctx).Create(wallet).Error
	if err != nil {
		return errors.Wrap(err, "create wallet "+wallet.Currency)
	}
	return nil
}

// AddAddress appends an address to the wallet of currency and updates the
// wallet totals in the same transaction.
func (s *Store) AddAddress(ctx context.Context, currency string, addr *models.Address) (*models.WalletAsset, error) {
	var wallet models.WalletAsset
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("currency = ?", currency).First(&wallet).Error; err != nil {
			return notFound(err, "load wallet "+currency)
		}
		addr.WalletID = wallet.ID
		if err := tx.Create(addr).Error; err != nil {
			return errors.Wrap(err, "create address")
		}
		return recomputeTotals(tx, &wallet)
	})
	if err != nil {
		return nil, err
	}
	return s.Wallet(ctx, currency)
}

// Revalue rewrites the fiat value of every address and wallet of currency
// at price.
func (s *Store) Revalue(ctx context.Context, currency string, price decimal.Decimal) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet models.WalletAsset
		if err := tx.Where("currency = ?", currency).First(&wallet).Error; err != nil {
			return notFound(err, "load wallet "+currency)
		}
		var addrs []models.Address
		if err := tx.Where("wallet_id = ?", wallet.ID).Find(&addrs).Error; err != nil {
			return errors.Wrap(err, "load addresses")
		}
		for i := range addrs {
			addrs[i].EuroValue = addrs[i].Balance.Mul(price)
			if err := tx.Model(&addrs[i]).Update("euro_value", addrs[i].EuroValue).Error; err != nil {
				return errors.Wrap(err, "revalue address "+addrs[i].UID)
			}
		}
		return recomputeTotals(tx, &wallet)
	})
}

func recomputeTotals(tx *gorm.DB, wallet *models.WalletAsset) error {
	var addrs []models.Address
	if err := tx.Where("wallet_id = ?", wallet.ID).Find(&addrs).Error; err != nil {
		return errors.Wrap(err, "load addresses")
	}
	wallet.Addresses = addrs
	balance, euro := wallet.SumAddresses()
	err := tx.Model(wallet).Updates(map[string]any{
		"total_balance": balance,
		"euro_value":    euro,
	}).Error
	if err != nil {
		return errors.Wrap(err, "update wallet totals")
	}
	wallet.TotalBalance = balance
	wallet.EuroValue = euro
	return nil
}
