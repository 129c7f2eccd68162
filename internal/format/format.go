// Package format renders amounts, durations and identifiers for display.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"qcrypto-wallet/internal/valuation"
)

// Missing is shown in place of an absent value.
const Missing = "—"

const day = 24 * time.Hour

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
}

// Number renders v with thousand separators and the given decimals.
func Number(v decimal.Decimal, decimals int32) string {
	f, _ := v.Round(decimals).Float64()
	if decimals <= 0 {
		return humanize.FormatFloat("#,###.", f)
	}
	return humanize.FormatFloat("#,###."+strings.Repeat("#", int(decimals)), f)
}

// Currency renders a fiat amount with two decimals, e.g. "€45,750.00" or
// "-€1,112,096.38".
func Currency(amount decimal.Decimal, currency string) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	return sign + symbol + Number(amount, valuation.FiatPrecision)
}

// Crypto renders amount at the display precision of currency.
func Crypto(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(valuation.CryptoPrecision(currency)) + " " + currency
}

// Percentage renders v with two decimals; positive values carry a plus
// sign when showSign is set.
func Percentage(v decimal.Decimal, showSign bool) string {
	sign := ""
	if showSign && v.IsPositive() {
		sign = "+"
	}
	return sign + v.StringFixed(2) + "%"
}

// APY renders an annual yield.
func APY(apy decimal.Decimal) string {
	return apy.StringFixed(2) + "%"
}

var compactSuffix = map[string]string{"k": "K", "M": "M", "G": "B"}

// Compact abbreviates large values with K, M or B.
func Compact(v decimal.Decimal) string {
	f, _ := v.Float64()
	abs := f
	if abs < 0 {
		abs = -abs
	}
	if abs < 1e3 {
		return v.StringFixed(2)
	}
	if abs >= 1e12 {
		return fmt.Sprintf("%.2fB", f/1e9)
	}
	value, prefix := humanize.ComputeSI(f)
	return fmt.Sprintf("%.2f%s", value, compactSuffix[prefix])
}

// LockPeriod renders a staking lock, e.g. "3 days", "1 month", "6 months".
func LockPeriod(d time.Duration) string {
	if d <= 0 {
		return Missing
	}
	if d%day != 0 {
		return fmt.Sprintf("%d hours", int64(d/time.Hour))
	}
	days := int64(d / day)
	switch {
	case days < 30:
		return fmt.Sprintf("%d days", days)
	case days == 30:
		return "1 month"
	case days < 365:
		return fmt.Sprintf("%d months", days/30)
	case days >= 730:
		return fmt.Sprintf("%d years", days/365)
	default:
		return "1 year"
	}
}

// DaysRemaining renders the time left until a position matures.
func DaysRemaining(days int) string {
	switch {
	case days <= 0:
		return "Matures today"
	case days == 1:
		return "1 day remaining"
	case days < 7:
		return fmt.Sprintf("%d days remaining", days)
	}
	weeks := days / 7
	if weeks == 1 {
		return "1 week remaining"
	}
	if weeks < 4 {
		return fmt.Sprintf("%d weeks remaining", weeks)
	}
	months := days / 30
	if months > 1 {
		return fmt.Sprintf("%d months remaining", months)
	}
	return "1 month remaining"
}

// Duration renders a countdown such as "2h 15m" or "45m".
func Duration(d time.Duration) string {
	if d <= 0 {
		return "Expired"
	}
	days := d / day
	hours := (d % day) / time.Hour
	minutes := (d % time.Hour) / time.Minute
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// Address shortens an address to its first six and last four characters.
func Address(address string) string {
	return shorten(address, 6, 4)
}

// TxHash shortens a transaction hash to ten characters on each side.
func TxHash(hash string) string {
	return shorten(hash, 10, 10)
}

func shorten(s string, head, tail int) string {
	if s == "" {
		return Missing
	}
	if len(s) <= head+tail {
		return s
	}
	return s[:head] + "..." + s[len(s)-tail:]
}

var relMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "just now", DivBy: 1},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * day, Format: "1 day %s", DivBy: 1},
	{D: 30 * day, Format: "%d days %s", DivBy: day},
}

// RelativeTime renders t relative to now ("3 hours ago"). Anything a
// month or more away is shown as a short date.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return Missing
	}
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}
	if diff >= 30*day {
		return t.Format("Jan 2, 2006")
	}
	return humanize.CustomRelTime(t, now, "ago", "from now", relMagnitudes)
}

// Title capitalises a status or type keyword for display.
func Title(s string) string {
	if s == "" {
		return Missing
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
