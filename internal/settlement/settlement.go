// Package settlement monitors the fiat settlement account against its
// credit limit and due date.
package settlement

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"qcrypto-wallet/internal/clipboard"
	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/notify"
	"qcrypto-wallet/internal/store"
)

// Status bands the utilization of the account.
type Status string

const (
	StatusNormal  Status = "normal"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
)

var (
	hundred          = decimal.NewFromInt(100)
	warningThreshold = decimal.NewFromInt(50)
	dangerThreshold  = decimal.NewFromInt(80)
)

// Utilization is |balance| / maxLimit as a percentage.
func Utilization(acct models.SettlementAccount) decimal.Decimal {
	if !acct.MaxLimit.IsPositive() {
		return decimal.Zero
	}
	return acct.Balance.Abs().Div(acct.MaxLimit).Mul(hundred)
}

// StatusFor bands a utilization percentage. Thresholds are exclusive.
func StatusFor(utilization decimal.Decimal) Status {
	switch {
	case utilization.GreaterThan(dangerThreshold):
		return StatusDanger
	case utilization.GreaterThan(warningThreshold):
		return StatusWarning
	default:
		return StatusNormal
	}
}

// HoursUntilDue is the whole hours left until settlement, rounded down.
// It goes negative once the due date has passed.
func HoursUntilDue(acct models.SettlementAccount, now time.Time) int64 {
	return int64(math.Floor(acct.SettlementDue.Sub(now).Hours()))
}

// Overdue reports whether the due date has passed.
func Overdue(acct models.SettlementAccount, now time.Time) bool {
	return now.After(acct.SettlementDue)
}

// Available is the credit left before the limit is reached.
func Available(acct models.SettlementAccount) decimal.Decimal {
	if !acct.Balance.IsNegative() {
		return acct.MaxLimit
	}
	left := acct.MaxLimit.Add(acct.Balance)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

// Snapshot is the presentation view of the account.
type Snapshot struct {
	Account       models.SettlementAccount `json:"account"`
	Utilization   decimal.Decimal          `json:"utilization"`
	Status        Status                   `json:"status"`
	HoursUntilDue int64                    `json:"hours_until_due"`
	Overdue       bool                     `json:"overdue"`
	Available     decimal.Decimal          `json:"available"`
}

// Monitor reads the settlement account.
type Monitor struct {
	logger    *zap.Logger
	store     *store.Store
	sched     clock.Scheduler
	clipboard clipboard.Writer
	notices   notify.Notifier
}

// NewMonitor creates a Monitor. notices may be nil.
func NewMonitor(logger *zap.Logger, st *store.Store, sched clock.Scheduler, cb clipboard.Writer, notices notify.Notifier) *Monitor {
	return &Monitor{
		logger:    logger.Named("settlement"),
		store:     st,
		sched:     sched,
		clipboard: cb,
		notices:   notices,
	}
}

// Snapshot computes the account view at the current time.
func (m *Monitor) Snapshot(ctx context.Context) (Snapshot, error) {
	acct, err := m.store.Settlement(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	now := m.sched.Now()
	utilization := Utilization(*acct)
	snap := Snapshot{
		Account:       *acct,
		Utilization:   utilization.Round(2),
		Status:        StatusFor(utilization),
		HoursUntilDue: HoursUntilDue(*acct, now),
		Overdue:       Overdue(*acct, now),
		Available:     Available(*acct),
	}
	if snap.Status != StatusNormal || snap.Overdue {
		m.logger.Warn("Settlement needs attention",
			zap.String("status", string(snap.Status)),
			zap.String("utilization", snap.Utilization.String()),
			zap.Int64("hours_until_due", snap.HoursUntilDue))
	}
	return snap, nil
}

// CopyIBAN puts the account IBAN on the clipboard.
func (m *Monitor) CopyIBAN(ctx context.Context) error {
	acct, err := m.store.Settlement(ctx)
	if err != nil {
		return err
	}
	if err := clipboard.Copy(m.clipboard, acct.IBAN, "IBAN", m.notices); err != nil {
		m.logger.Warn("Failed to copy IBAN", zap.Error(err))
		return err
	}
	return nil
}
