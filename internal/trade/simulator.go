// Package trade implements the buy/sell flow: a draft is validated,
// held for confirmation behind a countdown, then recorded as a completed
// transaction at the price seen when it was initiated.
package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/format"
	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/notify"
	"qcrypto-wallet/internal/util"
	"qcrypto-wallet/internal/valuation"
)

// State is the position of the simulator in the trade flow.
type State string

const (
	StateIdle                 State = "idle"
	StateDrafting             State = "drafting"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateConfirmed            State = "confirmed"
	StateCancelled            State = "cancelled"
	StateExpired              State = "expired"
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// InputMode selects whether the raw input is a fiat or a crypto amount.
type InputMode string

const (
	InputFiat   InputMode = "fiat"
	InputCrypto InputMode = "crypto"
)

// PriceSource provides live prices.
type PriceSource interface {
	CurrentPrice(currency string) (decimal.Decimal, error)
}

// BalanceSource provides wallet balances for sell checks.
type BalanceSource interface {
	Wallet(ctx context.Context, currency string) (*models.WalletAsset, error)
}

// Recorder appends confirmed trades to the transaction ledger.
type Recorder interface {
	Append(ctx context.Context, tx *models.Transaction) error
}

// Options configures a Simulator.
type Options struct {
	Limit            decimal.Decimal
	CountdownSeconds int
	Debounce         time.Duration
	QuoteCurrency    string
}

// Estimate is the derived counterpart of the raw input.
type Estimate struct {
	Input     string          `json:"input"`
	Amount    decimal.Decimal `json:"amount"`
	FiatValue decimal.Decimal `json:"fiat_value"`
	Price     decimal.Decimal `json:"price"`
	Valid     bool            `json:"valid"`
}

// Draft is a trade awaiting confirmation.
type Draft struct {
	ID               string          `json:"id"`
	Asset            string          `json:"asset"`
	Side             Side            `json:"side"`
	InputMode        InputMode       `json:"input_mode"`
	RawInput         decimal.Decimal `json:"raw_input"`
	Amount           decimal.Decimal `json:"amount"`
	FiatValue        decimal.Decimal `json:"fiat_value"`
	PriceAtEntry     decimal.Decimal `json:"price_at_entry"`
	CountdownSeconds int             `json:"countdown_seconds"`
}

// Snapshot is a consistent copy of the simulator state.
type Snapshot struct {
	State     State     `json:"state"`
	Asset     string    `json:"asset"`
	Side      Side      `json:"side"`
	InputMode InputMode `json:"input_mode"`
	RawInput  string    `json:"raw_input"`
	Estimate  Estimate  `json:"estimate"`
	Countdown int       `json:"countdown"`
	Draft     *Draft    `json:"draft,omitempty"`
}

// Simulator is the trade state machine. All timers run on the injected
// scheduler; a countdown callback that no longer matches the active draft
// does nothing.
type Simulator struct {
	logger   *zap.Logger
	sched    clock.Scheduler
	prices   PriceSource
	wallets  BalanceSource
	recorder Recorder
	notices  notify.Notifier
	opts     Options
	debounce *clock.Debouncer

	mu       sync.Mutex
	state    State
	asset    string
	side     Side
	mode     InputMode
	raw      string
	estimate Estimate
	draft    *Draft
	started  time.Time
	timer    clock.Timer
}

// NewSimulator creates an idle Simulator. notices may be nil.
func NewSimulator(logger *zap.Logger, sched clock.Scheduler, prices PriceSource, wallets BalanceSource, recorder Recorder, notices notify.Notifier, opts Options) *Simulator {
	if opts.QuoteCurrency == "" {
		opts.QuoteCurrency = "EUR"
	}
	return &Simulator{
		logger:   logger.Named("trade"),
		sched:    sched,
		prices:   prices,
		wallets:  wallets,
		recorder: recorder,
		notices:  notices,
		opts:     opts,
		debounce: clock.NewDebouncer(sched, opts.Debounce),
		state:    StateIdle,
		mode:     InputFiat,
	}
}

// Select starts drafting a trade of asset. Any previous input is dropped.
func (s *Simulator) Select(asset string, side Side, mode InputMode) error {
	if side != SideBuy && side != SideSell {
		return fmt.Errorf("side %q: %w", side, util.ErrInvalidInput)
	}
	if mode != InputFiat && mode != InputCrypto {
		return fmt.Errorf("input mode %q: %w", mode, util.ErrInvalidInput)
	}
	if _, err := s.prices.CurrentPrice(asset); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAwaitingConfirmation {
		return fmt.Errorf("select %s: trade awaiting confirmation: %w", asset, util.ErrInvalidInput)
	}
	s.debounce.Cancel()
	s.asset, s.side, s.mode = asset, side, mode
	s.raw = ""
	s.estimate = Estimate{}
	s.state = StateDrafting
	s.logger.Debug("Draft started", zap.String("asset", asset), zap.String("side", string(side)), zap.String("mode", string(mode)))
	return nil
}

// ToggleInputMode switches between fiat and crypto input and clears it.
func (s *Simulator) ToggleInputMode() (InputMode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return s.mode, err
	}
	if s.mode == InputFiat {
		s.mode = InputCrypto
	} else {
		s.mode = InputFiat
	}
	s.debounce.Cancel()
	s.raw = ""
	s.estimate = Estimate{}
	s.state = StateDrafting
	return s.mode, nil
}

// SetInput records the raw amount. The estimate is recomputed once no
// further input arrives within the debounce window.
func (s *Simulator) SetInput(raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.raw = strings.TrimSpace(raw)
	s.state = StateDrafting
	s.debounce.Trigger(s.recompute)
	return nil
}

// editable requires a selected asset and no pending confirmation.
func (s *Simulator) editable() error {
	if s.asset == "" {
		return fmt.Errorf("no asset selected: %w", util.ErrInvalidInput)
	}
	if s.state == StateAwaitingConfirmation {
		return fmt.Errorf("trade awaiting confirmation: %w", util.ErrInvalidInput)
	}
	return nil
}

func (s *Simulator) recompute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.estimate = s.derive(s.raw)
}

// derive converts raw at the live price. An unusable input gives an
// invalid estimate rather than an error.
func (s *Simulator) derive(raw string) Estimate {
	e := Estimate{Input: raw}
	amount, err := parseAmount(raw)
	if err != nil {
		return e
	}
	price, err := s.prices.CurrentPrice(s.asset)
	if err != nil {
		return e
	}
	crypto, fiat, err := s.convert(amount, price)
	if err != nil {
		return e
	}
	e.Amount = crypto
	e.FiatValue = fiat
	e.Price = price
	e.Valid = crypto.IsPositive()
	return e
}

// convert returns the crypto and fiat sides of amount at price, rounded
// to display precision.
func (s *Simulator) convert(amount, price decimal.Decimal) (crypto, fiat decimal.Decimal, err error) {
	if s.mode == InputFiat {
		crypto, err = valuation.ToCrypto(amount, price)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		return valuation.RoundCrypto(crypto, s.asset), valuation.RoundFiat(amount), nil
	}
	if !price.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("price %s of %s: %w", price, s.asset, util.ErrInvalidPrice)
	}
	return valuation.RoundCrypto(amount, s.asset), valuation.RoundFiat(valuation.ToFiat(amount, price)), nil
}

// Estimate returns the last computed estimate.
func (s *Simulator) Estimate() Estimate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.estimate
}

// InitiateTrade validates the draft and, on success, snapshots the price
// and starts the confirmation countdown. Checks run in order: amount,
// trading limit, then balance for sells.
func (s *Simulator) InitiateTrade(ctx context.Context) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return nil, err
	}

	draft, err := s.validate(ctx)
	if err != nil {
		s.reject(err)
		return nil, err
	}

	s.debounce.Cancel()
	s.draft = draft
	s.state = StateAwaitingConfirmation
	s.started = s.sched.Now()
	s.armTick(draft.ID)

	s.logger.Info("Trade awaiting confirmation",
		zap.String("draft", draft.ID),
		zap.String("asset", draft.Asset),
		zap.String("side", string(draft.Side)),
		zap.String("amount", draft.Amount.String()),
		zap.String("fiat", draft.FiatValue.String()),
		zap.String("price", draft.PriceAtEntry.String()))
	out := *draft
	return &out, nil
}

func (s *Simulator) validate(ctx context.Context) (*Draft, error) {
	amount, err := parseAmount(s.raw)
	if err != nil {
		return nil, err
	}

	price, err := s.prices.CurrentPrice(s.asset)
	if err != nil {
		return nil, err
	}
	var crypto, fiat decimal.Decimal
	if s.mode == InputFiat {
		fiat = amount
		if crypto, err = valuation.ToCrypto(amount, price); err != nil {
			return nil, err
		}
	} else {
		if !price.IsPositive() {
			return nil, fmt.Errorf("price %s of %s: %w", price, s.asset, util.ErrInvalidPrice)
		}
		crypto = amount
		fiat = valuation.ToFiat(amount, price)
	}

	if fiat.GreaterThan(s.opts.Limit) {
		return nil, fmt.Errorf("%s %s exceeds %s: %w", fiat, s.opts.QuoteCurrency, s.opts.Limit, util.ErrLimitExceeded)
	}

	if s.side == SideSell {
		wallet, err := s.wallets.Wallet(ctx, s.asset)
		if err != nil {
			if !errors.Is(err, util.ErrNotFound) {
				return nil, err
			}
			wallet = &models.WalletAsset{Currency: s.asset}
		}
		if crypto.GreaterThan(wallet.TotalBalance) {
			return nil, fmt.Errorf("sell %s %s with balance %s: %w", crypto, s.asset, wallet.TotalBalance, util.ErrInsufficientBalance)
		}
	}

	rounded, roundedFiat, err := s.convert(amount, price)
	if err != nil {
		return nil, err
	}
	if !rounded.IsPositive() {
		return nil, fmt.Errorf("amount %s %s rounds to zero: %w", amount, s.asset, util.ErrInvalidAmount)
	}
	return &Draft{
		ID:               uuid.NewString(),
		Asset:            s.asset,
		Side:             s.side,
		InputMode:        s.mode,
		RawInput:         amount,
		Amount:           rounded,
		FiatValue:        roundedFiat,
		PriceAtEntry:     price,
		CountdownSeconds: s.opts.CountdownSeconds,
	}, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", raw, util.ErrInvalidAmount)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount %s: %w", amount, util.ErrInvalidAmount)
	}
	return amount, nil
}

func (s *Simulator) reject(err error) {
	s.logger.Warn("Trade rejected", zap.String("asset", s.asset), zap.String("side", string(s.side)), zap.String("input", s.raw), zap.Error(err))
	if s.notices == nil {
		return
	}
	switch {
	case errors.Is(err, util.ErrInvalidAmount):
		s.notices.Push(notify.SeverityError, "Please enter a valid amount")
	case errors.Is(err, util.ErrLimitExceeded):
		s.notices.Push(notify.SeverityWarning, fmt.Sprintf("Trading limit exceeded (max €%s)", format.Number(s.opts.Limit, 0)))
	case errors.Is(err, util.ErrInsufficientBalance):
		s.notices.Push(notify.SeverityWarning, "Insufficient balance")
	default:
		s.notices.Push(notify.SeverityFor(err), err.Error())
	}
}

// armTick schedules the next countdown tick of draft id. Ticks are due on
// whole seconds after the draft started, so a late callback does not
// push back the ones after it.
func (s *Simulator) armTick(id string) {
	elapsed := s.opts.CountdownSeconds - s.draft.CountdownSeconds
	next := s.started.Add(time.Duration(elapsed+1) * time.Second)
	wait := next.Sub(s.sched.Now())
	if wait < 0 {
		wait = 0
	}
	s.timer = s.sched.AfterFunc(wait, func() { s.tick(id) })
}

func (s *Simulator) tick(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingConfirmation || s.draft == nil || s.draft.ID != id {
		return
	}
	s.draft.CountdownSeconds--
	if s.draft.CountdownSeconds > 0 {
		s.armTick(id)
		return
	}

	s.logger.Info("Trade expired", zap.String("draft", id))
	s.timer = nil
	s.draft = nil
	s.state = StateExpired
	if s.notices != nil {
		s.notices.Push(notify.SeverityWarning, "Trade cancelled - time expired")
	}
}

func (s *Simulator) stopCountdown() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// CancelTrade abandons the draft awaiting confirmation.
func (s *Simulator) CancelTrade() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingConfirmation {
		return util.ErrNoActiveDraft
	}
	s.stopCountdown()
	s.logger.Info("Trade cancelled", zap.String("draft", s.draft.ID))
	s.draft = nil
	s.state = StateCancelled
	return nil
}

// ConfirmTrade records the draft as a completed transaction priced at the
// snapshot taken when it was initiated. Balances are not checked again.
func (s *Simulator) ConfirmTrade(ctx context.Context) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingConfirmation || s.draft == nil {
		return nil, util.ErrNoActiveDraft
	}
	d := s.draft

	tx := &models.Transaction{
		UID:        "tx-" + uuid.NewString(),
		Type:       models.TransactionType(d.Side),
		Currency:   d.Asset,
		Amount:     d.Amount,
		FiatValue:  d.FiatValue,
		Timestamp:  s.sched.Now(),
		Status:     models.StatusCompleted,
		TradePair:  d.Asset + "/" + s.opts.QuoteCurrency,
		TradePrice: d.PriceAtEntry,
		Notes:      fmt.Sprintf("Market %s order", d.Side),
	}
	if err := s.recorder.Append(ctx, tx); err != nil {
		s.logger.Error("Failed to record trade", zap.String("draft", d.ID), zap.Error(err))
		if s.notices != nil {
			s.notices.Push(notify.SeverityError, "Failed to execute order")
		}
		return nil, err
	}

	s.stopCountdown()
	s.draft = nil
	s.raw = ""
	s.estimate = Estimate{}
	s.state = StateConfirmed

	s.logger.Info("Trade confirmed", zap.String("tx", tx.UID), zap.String("amount", tx.Amount.String()), zap.String("fiat", tx.FiatValue.String()))
	if s.notices != nil {
		title := "Buy"
		if d.Side == SideSell {
			title = "Sell"
		}
		s.notices.Push(notify.SeveritySuccess, title+" order executed successfully")
	}
	return tx, nil
}

// Close stops every pending timer and returns to idle.
func (s *Simulator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCountdown()
	s.debounce.Cancel()
	s.draft = nil
	s.raw = ""
	s.estimate = Estimate{}
	s.asset = ""
	s.state = StateIdle
}

// State returns the current state.
func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a consistent copy of the simulator state.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:     s.state,
		Asset:     s.asset,
		Side:      s.side,
		InputMode: s.mode,
		RawInput:  s.raw,
		Estimate:  s.estimate,
		Countdown: s.opts.CountdownSeconds,
	}
	if s.draft != nil {
		d := *s.draft
		snap.Draft = &d
		snap.Countdown = d.CountdownSeconds
	}
	return snap
}
