// Package staking implements staking positions: reward projection,
// lock enforcement and the earnings projection.
package staking

import (
	"time"

	"github.com/shopspring/decimal"

	"qcrypto-wallet/internal/models"
)

// Year is the fixed reward year. It never follows the calendar.
const Year = 365 * 24 * time.Hour

const day = 24 * time.Hour

var (
	hundred    = decimal.NewFromInt(100)
	daysInYear = decimal.NewFromInt(365)
	yearNanos  = decimal.NewFromInt(int64(Year))
)

// Status is the display state of a position, derived at read time.
type Status string

const (
	StatusActive   Status = "active"
	StatusMaturing Status = "maturing"
	StatusExpired  Status = "expired"
)

// EstimateReward projects the reward of amount over lock at apy percent.
func EstimateReward(amount, apy decimal.Decimal, lock time.Duration) decimal.Decimal {
	return amount.Mul(apy.Div(hundred)).Mul(decimal.NewFromInt(int64(lock))).Div(yearNanos)
}

// DailyReward is the reward of amount for one day at apy percent.
func DailyReward(amount, apy decimal.Decimal) decimal.Decimal {
	return amount.Mul(apy).Div(hundred).Div(daysInYear)
}

// YearlyReward is the reward of amount for a full year at apy percent.
func YearlyReward(amount, apy decimal.Decimal) decimal.Decimal {
	return amount.Mul(apy).Div(hundred)
}

// CanUnstake reports whether the lock of p has run out at now.
func CanUnstake(p models.StakingPosition, now time.Time) bool {
	return !now.Before(p.ExpirationDate)
}

// TimeRemaining returns the lock time left, zero once expired.
func TimeRemaining(p models.StakingPosition, now time.Time) time.Duration {
	if CanUnstake(p, now) {
		return 0
	}
	return p.ExpirationDate.Sub(now)
}

// StatusOf derives the display status of p. A position expiring within
// threshold is maturing.
func StatusOf(p models.StakingPosition, now time.Time, threshold time.Duration) Status {
	remaining := TimeRemaining(p, now)
	switch {
	case remaining <= 0:
		return StatusExpired
	case remaining <= threshold:
		return StatusMaturing
	default:
		return StatusActive
	}
}

// TotalLockedValue is the fiat value of all staked amounts. Positions
// without a price count as zero.
func TotalLockedValue(positions []models.StakingPosition, prices map[string]models.PriceRecord) decimal.Decimal {
	total := decimal.Zero
	for _, p := range positions {
		price, ok := prices[p.Currency]
		if !ok {
			continue
		}
		total = total.Add(p.AmountStaked.Mul(price.CurrentPrice))
	}
	return total
}

// StakedAmount sums the staked amount of currency.
func StakedAmount(positions []models.StakingPosition, currency string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range positions {
		if p.Currency == currency {
			total = total.Add(p.AmountStaked)
		}
	}
	return total
}

// EarningsPoint is one day of the cumulative earnings projection.
type EarningsPoint struct {
	Date     string          `json:"date"`
	Earnings decimal.Decimal `json:"earnings"`
}

// EarningsHistory returns the cumulative fiat earnings for each of the
// last windowDays days, oldest first, ending today. Days are calendar
// days: a position accrues on a day when the day of its start <= day <
// the day of its expiration.
func EarningsHistory(positions []models.StakingPosition, prices map[string]models.PriceRecord, windowDays int, now time.Time) []EarningsPoint {
	if windowDays <= 0 {
		return nil
	}
	out := make([]EarningsPoint, 0, windowDays)
	cumulative := decimal.Zero
	for i := windowDays - 1; i >= 0; i-- {
		date := now.Add(-time.Duration(i) * day)
		dayStart := date.Truncate(day)
		daily := decimal.Zero
		for _, p := range positions {
			if dayStart.Before(p.StartDate.Truncate(day)) || !dayStart.Before(p.ExpirationDate.Truncate(day)) {
				continue
			}
			price, ok := prices[p.Currency]
			if !ok {
				continue
			}
			daily = daily.Add(DailyReward(p.AmountStaked.Mul(price.CurrentPrice), p.APY))
		}
		cumulative = cumulative.Add(daily)
		out = append(out, EarningsPoint{
			Date:     date.Format("2006-01-02"),
			Earnings: cumulative.Round(2),
		})
	}
	return out
}
