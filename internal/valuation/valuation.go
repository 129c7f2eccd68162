// Package valuation converts between crypto and fiat and aggregates
// portfolio figures.
package valuation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/util"
)

// Display precision. The crypto precision also defines the estimated
// value shown to the user before confirming a trade.
const (
	FiatPrecision          int32 = 2
	DefaultCryptoPrecision int32 = 4
)

var cryptoPrecision = map[string]int32{
	"BTC":  8,
	"ETH":  6,
	"AVAX": 4,
}

// fallbackChange30d is used for wallets without a price record.
var fallbackChange30d = decimal.NewFromInt(10)

var hundred = decimal.NewFromInt(100)

// CryptoPrecision returns the number of display decimals for currency.
func CryptoPrecision(currency string) int32 {
	if p, ok := cryptoPrecision[currency]; ok {
		return p
	}
	return DefaultCryptoPrecision
}

// RoundCrypto rounds amount to the display precision of currency.
func RoundCrypto(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(CryptoPrecision(currency))
}

// RoundFiat rounds amount to cents.
func RoundFiat(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(FiatPrecision)
}

// ToCrypto converts a fiat amount to crypto at price.
func ToCrypto(fiat, price decimal.Decimal) (decimal.Decimal, error) {
	if price.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("convert %s at price %s: %w", fiat, price, util.ErrInvalidPrice)
	}
	return fiat.Div(price), nil
}

// ToFiat converts a crypto amount to fiat at price.
func ToFiat(crypto, price decimal.Decimal) decimal.Decimal {
	return crypto.Mul(price)
}

// PortfolioTotal sums the fiat value of every wallet.
func PortfolioTotal(wallets []models.WalletAsset) decimal.Decimal {
	total := decimal.Zero
	for _, w := range wallets {
		total = total.Add(w.EuroValue)
	}
	return total
}

// Weighted30dChange weights each wallet's 30-day price change by its share
// of the portfolio. An empty portfolio has no change.
func Weighted30dChange(wallets []models.WalletAsset, prices map[string]models.PriceRecord) decimal.Decimal {
	total := PortfolioTotal(wallets)
	if total.IsZero() {
		return decimal.Zero
	}

	change := decimal.Zero
	for _, w := range wallets {
		c30 := fallbackChange30d
		if p, ok := prices[w.Currency]; ok {
			c30 = p.Change30d
		}
		change = change.Add(w.EuroValue.Div(total).Mul(c30))
	}
	return change
}

// Change is an absolute and relative change of value.
type Change struct {
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// PortfolioChange returns the weighted 30-day change of the portfolio.
func PortfolioChange(wallets []models.WalletAsset, prices map[string]models.PriceRecord) Change {
	pct := Weighted30dChange(wallets, prices)
	return Change{
		Amount:     PortfolioTotal(wallets).Mul(pct).Div(hundred),
		Percentage: pct,
	}
}

// HistoryPoint is the portfolio value on one day.
type HistoryPoint struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// PortfolioHistory values the current holdings at each of the last days+1
// daily prices, oldest first.
func PortfolioHistory(wallets []models.WalletAsset, prices map[string]models.PriceRecord, days int, now time.Time) []HistoryPoint {
	points := make([]HistoryPoint, 0, days+1)
	for i := 0; i <= days; i++ {
		date := now.Add(-time.Duration(days-i) * 24 * time.Hour).UTC().Format("2006-01-02")
		value := decimal.Zero
		for _, w := range wallets {
			p, ok := prices[w.Currency]
			if !ok {
				continue
			}
			// Series are aligned on their last point.
			idx := len(p.PriceHistory) - 1 - (days - i)
			if idx < 0 || idx >= len(p.PriceHistory) {
				continue
			}
			value = value.Add(w.TotalBalance.Mul(p.PriceHistory[idx].Price))
		}
		points = append(points, HistoryPoint{Date: date, Value: value})
	}
	return points
}

// PercentageChange returns the change from old to new in percent; zero
// when old is zero.
func PercentageChange(old, new decimal.Decimal) decimal.Decimal {
	if old.IsZero() {
		return decimal.Zero
	}
	return new.Sub(old).Div(old).Mul(hundred)
}

// ProfitLoss returns the fiat result of buying amount at buy and selling at sell.
func ProfitLoss(buy, sell, amount decimal.Decimal) decimal.Decimal {
	return sell.Sub(buy).Mul(amount)
}

// ProfitLossPercent returns the relative result of a round trip.
func ProfitLossPercent(buy, sell decimal.Decimal) decimal.Decimal {
	return PercentageChange(buy, sell)
}
