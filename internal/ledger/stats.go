package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"qcrypto-wallet/internal/models"
)

// StatsDetail holds the figures of one period.
type StatsDetail struct {
	TotalTransactions int64           `json:"total_transactions"`
	Completed         int64           `json:"completed"`
	Pending           int64           `json:"pending"`
	CompletionRate    float64         `json:"completion_rate"`
	Volume            decimal.Decimal `json:"volume"`
	Deposits          decimal.Decimal `json:"deposits"`
	Withdrawals       decimal.Decimal `json:"withdrawals"`
	Trades            int64           `json:"trades"`
}

// Statistics compares the last 24 hours with the whole ledger.
type Statistics struct {
	Since24h StatsDetail `json:"since_24h"`
	AllTime  StatsDetail `json:"all_time"`
}

// IsTrade reports whether tx is a trade, whatever its side.
func IsTrade(tx models.Transaction) bool {
	switch tx.Type {
	case models.TransactionTrade, models.TransactionBuy, models.TransactionSell:
		return true
	}
	return false
}

// Stats computes the ledger statistics at now.
func Stats(txs []models.Transaction, now time.Time) Statistics {
	since24h := now.Add(-24 * time.Hour)

	var s Statistics
	for _, tx := range txs {
		s.AllTime.add(tx)
		if tx.Timestamp.After(since24h) {
			s.Since24h.add(tx)
		}
	}
	s.AllTime.finish()
	s.Since24h.finish()
	return s
}

func (d *StatsDetail) add(tx models.Transaction) {
	d.TotalTransactions++
	switch tx.Status {
	case models.StatusCompleted:
		d.Completed++
	case models.StatusPending:
		d.Pending++
	}
	d.Volume = d.Volume.Add(tx.FiatValue)
	switch {
	case tx.Type == models.TransactionDeposit:
		d.Deposits = d.Deposits.Add(tx.FiatValue)
	case tx.Type == models.TransactionWithdrawal:
		d.Withdrawals = d.Withdrawals.Add(tx.FiatValue)
	case IsTrade(tx):
		d.Trades++
	}
}

func (d *StatsDetail) finish() {
	if d.TotalTransactions > 0 {
		d.CompletionRate = float64(d.Completed) / float64(d.TotalTransactions)
	}
}

// VolumeByCurrency sums the fiat value of currency over the last days
// days. A non-positive days covers the whole ledger.
func VolumeByCurrency(txs []models.Transaction, currency string, days int, now time.Time) decimal.Decimal {
	cutoff := time.Time{}
	if days > 0 {
		cutoff = now.Add(-time.Duration(days) * 24 * time.Hour)
	}
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Currency != currency || tx.Timestamp.Before(cutoff) {
			continue
		}
		total = total.Add(tx.FiatValue)
	}
	return total
}

// PendingCount counts the transactions still pending.
func PendingCount(txs []models.Transaction) int {
	n := 0
	for _, tx := range txs {
		if tx.Status == models.StatusPending {
			n++
		}
	}
	return n
}
