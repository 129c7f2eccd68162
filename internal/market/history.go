package market

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"qcrypto-wallet/internal/models"
)

const day = 24 * time.Hour

// GenerateHistory builds a days+1 point daily series ending at now, where
// each step moves the price by a random fraction in [-volatility, +volatility].
// Prices are rounded to cents.
func GenerateHistory(base decimal.Decimal, days int, volatility float64, now time.Time, rnd *rand.Rand) []models.PricePoint {
	history := make([]models.PricePoint, 0, days+1)
	price := base.InexactFloat64()

	for i := days; i >= 0; i-- {
		change := (rnd.Float64()*2 - 1) * volatility
		price = price * (1 + change)

		ts := now.Add(-time.Duration(i) * day)
		history = append(history, models.PricePoint{
			Timestamp: ts,
			Price:     decimal.NewFromFloat(price).Round(2),
			Date:      ts.UTC().Format("2006-01-02"),
		})
	}
	return history
}

// Walk returns price moved by a random fraction in [-volatility, +volatility].
func Walk(price decimal.Decimal, volatility float64, rnd *rand.Rand) decimal.Decimal {
	change := (rnd.Float64()*2 - 1) * volatility
	return price.Mul(decimal.NewFromFloat(1 + change)).Round(2)
}
