package staking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/format"
	"qcrypto-wallet/internal/market"
	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/notify"
	"qcrypto-wallet/internal/store"
	"qcrypto-wallet/internal/util"
)

// PositionView is a held position with its derived display fields.
type PositionView struct {
	models.StakingPosition
	Status          Status          `json:"status"`
	TimeRemaining   time.Duration   `json:"time_remaining"`
	CanUnstake      bool            `json:"can_unstake"`
	EstimatedReward decimal.Decimal `json:"estimated_reward"`
	FiatValue       decimal.Decimal `json:"fiat_value"`
}

// Summary aggregates every held position.
type Summary struct {
	TotalLockedValue decimal.Decimal `json:"total_locked_value"`
	TotalEarned      decimal.Decimal `json:"total_earned"`
	ProjectedYearly  decimal.Decimal `json:"projected_yearly"`
	Positions        int             `json:"positions"`
	Active           int             `json:"active"`
	Maturing         int             `json:"maturing"`
	Expired          int             `json:"expired"`
}

// Breakdown splits a wallet balance into what is free and what is staked.
type Breakdown struct {
	Currency  string          `json:"currency"`
	Total     decimal.Decimal `json:"total"`
	Locked    decimal.Decimal `json:"locked"`
	Available decimal.Decimal `json:"available"`
}

// Ledger creates and releases staking positions against the wallets.
type Ledger struct {
	logger    *zap.Logger
	store     *store.Store
	prices    *market.Store
	sched     clock.Scheduler
	notices   notify.Notifier
	options   []models.StakingOption
	threshold time.Duration

	mu sync.Mutex
}

// NewLedger creates a Ledger. Positions expiring within threshold are
// reported as maturing. notices may be nil.
func NewLedger(logger *zap.Logger, st *store.Store, prices *market.Store, sched clock.Scheduler, notices notify.Notifier, options []models.StakingOption, threshold time.Duration) *Ledger {
	return &Ledger{
		logger:    logger.Named("staking"),
		store:     st,
		prices:    prices,
		sched:     sched,
		notices:   notices,
		options:   options,
		threshold: threshold,
	}
}

// Options lists the catalog entries for currency, or all of them when
// currency is empty.
func (l *Ledger) Options(currency string) []models.StakingOption {
	out := make([]models.StakingOption, 0, len(l.options))
	for _, o := range l.options {
		if currency == "" || o.Currency == currency {
			out = append(out, o)
		}
	}
	return out
}

// Option returns a catalog entry by id.
func (l *Ledger) Option(id string) (models.StakingOption, error) {
	for _, o := range l.options {
		if o.ID == id {
			return o, nil
		}
	}
	return models.StakingOption{}, fmt.Errorf("staking option %q: %w", id, util.ErrNotFound)
}

// Positions returns every held position with derived fields.
func (l *Ledger) Positions(ctx context.Context) ([]PositionView, error) {
	positions, err := l.store.Positions(ctx)
	if err != nil {
		return nil, err
	}
	now := l.sched.Now()
	prices := l.prices.Map()

	views := make([]PositionView, 0, len(positions))
	for _, p := range positions {
		v := PositionView{
			StakingPosition: p,
			Status:          StatusOf(p, now, l.threshold),
			TimeRemaining:   TimeRemaining(p, now),
			CanUnstake:      CanUnstake(p, now),
			EstimatedReward: EstimateReward(p.AmountStaked, p.APY, p.LockPeriod),
		}
		if price, ok := prices[p.Currency]; ok {
			v.FiatValue = p.AmountStaked.Mul(price.CurrentPrice)
		}
		views = append(views, v)
	}
	return views, nil
}

// Stake locks amount of currency under optionID. An empty optionID picks
// the first catalog entry of currency.
func (l *Ledger) Stake(ctx context.Context, currency string, amount decimal.Decimal, optionID string) (*models.StakingPosition, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, err := l.stake(ctx, currency, amount, optionID)
	if err != nil {
		l.report(err, "Stake rejected", zap.String("currency", currency), zap.String("amount", amount.String()))
		return nil, err
	}
	l.logger.Info("Position opened",
		zap.String("id", pos.UID),
		zap.String("currency", currency),
		zap.String("amount", amount.String()),
		zap.Time("expires", pos.ExpirationDate))
	l.push(notify.SeveritySuccess, "Staking successful")
	return pos, nil
}

func (l *Ledger) stake(ctx context.Context, currency string, amount decimal.Decimal, optionID string) (*models.StakingPosition, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("stake %s: %w", amount, util.ErrInvalidAmount)
	}

	option, err := l.resolveOption(currency, optionID)
	if err != nil {
		return nil, err
	}
	if amount.LessThan(option.MinAmount) {
		return nil, fmt.Errorf("stake %s below minimum %s %s: %w", amount, option.MinAmount, currency, util.ErrInvalidAmount)
	}

	breakdown, err := l.BalanceBreakdown(ctx, currency)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(breakdown.Available) {
		return nil, fmt.Errorf("stake %s %s with %s available: %w", amount, currency, breakdown.Available, util.ErrInsufficientBalance)
	}

	now := l.sched.Now()
	pos := &models.StakingPosition{
		UID:            "pos-" + uuid.NewString(),
		OptionID:       option.ID,
		Currency:       currency,
		AmountStaked:   amount,
		APY:            option.APY,
		LockPeriod:     option.LockPeriod,
		StartDate:      now,
		ExpirationDate: now.Add(option.LockPeriod),
		EarnedAmount:   decimal.Zero,
	}
	if err := l.store.CreatePosition(ctx, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

func (l *Ledger) resolveOption(currency, optionID string) (models.StakingOption, error) {
	if optionID == "" {
		opts := l.Options(currency)
		if len(opts) == 0 {
			return models.StakingOption{}, fmt.Errorf("no staking option for %s: %w", currency, util.ErrInvalidInput)
		}
		return opts[0], nil
	}
	option, err := l.Option(optionID)
	if err != nil {
		return models.StakingOption{}, fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
	}
	if option.Currency != currency {
		return models.StakingOption{}, fmt.Errorf("option %s stakes %s, not %s: %w", option.ID, option.Currency, currency, util.ErrInvalidInput)
	}
	return option, nil
}

// Unstake releases a position whose lock has run out and returns it.
func (l *Ledger) Unstake(ctx context.Context, id string) (*models.StakingPosition, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, err := l.store.Position(ctx, id)
	if err != nil {
		l.report(err, "Unstake failed", zap.String("id", id))
		return nil, err
	}

	now := l.sched.Now()
	if !CanUnstake(*pos, now) {
		lockErr := &util.LockNotExpiredError{PositionID: id, Remaining: TimeRemaining(*pos, now)}
		l.logger.Warn("Unstake rejected", zap.String("id", id), zap.Duration("remaining", lockErr.Remaining))
		l.push(notify.SeverityWarning, fmt.Sprintf("Lock period not expired. %dh remaining.", util.RemainingHours(lockErr.Remaining)))
		return nil, lockErr
	}

	if err := l.store.DeletePosition(ctx, id); err != nil {
		l.report(err, "Unstake failed", zap.String("id", id))
		return nil, err
	}
	l.logger.Info("Position released", zap.String("id", id), zap.String("amount", pos.AmountStaked.String()))
	l.push(notify.SeveritySuccess, "Unstaked "+format.Crypto(pos.AmountStaked, pos.Currency))
	return pos, nil
}

// BalanceBreakdown reports how much of a wallet is free to stake.
func (l *Ledger) BalanceBreakdown(ctx context.Context, currency string) (Breakdown, error) {
	wallet, err := l.store.Wallet(ctx, currency)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return Breakdown{}, fmt.Errorf("wallet %s: %w", currency, util.ErrUnknownCurrency)
		}
		return Breakdown{}, err
	}
	positions, err := l.store.Positions(ctx)
	if err != nil {
		return Breakdown{}, err
	}
	locked := StakedAmount(positions, currency)
	available := wallet.TotalBalance.Sub(locked)
	if available.IsNegative() {
		available = decimal.Zero
	}
	return Breakdown{
		Currency:  currency,
		Total:     wallet.TotalBalance,
		Locked:    locked,
		Available: available,
	}, nil
}

// Summary aggregates the held positions at the current time.
func (l *Ledger) Summary(ctx context.Context) (Summary, error) {
	views, err := l.Positions(ctx)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{
		TotalLockedValue: decimal.Zero,
		TotalEarned:      decimal.Zero,
		ProjectedYearly:  decimal.Zero,
		Positions:        len(views),
	}
	prices := l.prices.Map()
	for _, v := range views {
		s.TotalLockedValue = s.TotalLockedValue.Add(v.FiatValue)
		if price, ok := prices[v.Currency]; ok {
			s.TotalEarned = s.TotalEarned.Add(v.EarnedAmount.Mul(price.CurrentPrice))
		}
		s.ProjectedYearly = s.ProjectedYearly.Add(YearlyReward(v.FiatValue, v.APY))
		switch v.Status {
		case StatusActive:
			s.Active++
		case StatusMaturing:
			s.Maturing++
		case StatusExpired:
			s.Expired++
		}
	}
	return s, nil
}

// EarningsHistory projects cumulative earnings of the held positions over
// the last windowDays days.
func (l *Ledger) EarningsHistory(ctx context.Context, windowDays int) ([]EarningsPoint, error) {
	positions, err := l.store.Positions(ctx)
	if err != nil {
		return nil, err
	}
	return EarningsHistory(positions, l.prices.Map(), windowDays, l.sched.Now()), nil
}

func (l *Ledger) report(err error, msg string, fields ...zap.Field) {
	l.logger.Warn(msg, append(fields, zap.Error(err))...)
	if l.notices == nil {
		return
	}
	l.notices.Push(notify.SeverityFor(err), userMessage(err))
}

func (l *Ledger) push(sev notify.Severity, msg string) {
	if l.notices != nil {
		l.notices.Push(sev, msg)
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, util.ErrInsufficientBalance):
		return "Insufficient balance"
	case errors.Is(err, util.ErrInvalidAmount):
		return "Please enter a valid amount"
	case errors.Is(err, util.ErrNotFound):
		return "Staking position not found"
	default:
		return err.Error()
	}
}
