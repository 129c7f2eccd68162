package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/notify"
	"qcrypto-wallet/internal/util"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakePrices map[string]decimal.Decimal

func (f fakePrices) CurrentPrice(currency string) (decimal.Decimal, error) {
	p, ok := f[currency]
	if !ok {
		return decimal.Zero, util.ErrUnknownCurrency
	}
	return p, nil
}

type mockWallets struct {
	mock.Mock
}

func (m *mockWallets) Wallet(ctx context.Context, currency string) (*models.WalletAsset, error) {
	args := m.Called(ctx, currency)
	if w := args.Get(0); w != nil {
		return w.(*models.WalletAsset), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Append(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

type harness struct {
	sim      *Simulator
	sched    *clock.Manual
	prices   fakePrices
	wallets  *mockWallets
	recorder *mockRecorder
	center   *notify.Center
}

func newHarness() *harness {
	h := &harness{
		sched:    clock.NewManual(time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)),
		prices:   fakePrices{"BTC": d("45750"), "ETH": d("2500"), "AVAX": d("25"), "ZERO": decimal.Zero},
		wallets:  new(mockWallets),
		recorder: new(mockRecorder),
	}
	h.wallets.On("Wallet", mock.Anything, "BTC").Return(&models.WalletAsset{Currency: "BTC", TotalBalance: d("6.5")}, nil).Maybe()
	h.wallets.On("Wallet", mock.Anything, "ETH").Return(&models.WalletAsset{Currency: "ETH", TotalBalance: d("125")}, nil).Maybe()
	h.center = notify.NewCenter(zap.NewNop(), h.sched, 3*time.Second)
	h.sim = NewSimulator(zap.NewNop(), h.sched, h.prices, h.wallets, h.recorder, h.center, Options{
		Limit:            d("4000000"),
		CountdownSeconds: 60,
		Debounce:         200 * time.Millisecond,
		QuoteCurrency:    "EUR",
	})
	return h
}

func (h *harness) draft(t *testing.T, asset string, side Side, mode InputMode, raw string) (*Draft, error) {
	t.Helper()
	require.NoError(t, h.sim.Select(asset, side, mode))
	require.NoError(t, h.sim.SetInput(raw))
	return h.sim.InitiateTrade(context.Background())
}

// lateScheduler fires every callback lag after it was due.
type lateScheduler struct {
	*clock.Manual
	lag time.Duration
}

func (l lateScheduler) AfterFunc(d time.Duration, f func()) clock.Timer {
	return l.Manual.AfterFunc(d+l.lag, f)
}

func (h *harness) notice(t *testing.T) notify.Notice {
	t.Helper()
	n, ok := h.center.Current()
	require.True(t, ok, "expected a notice")
	return n
}

func TestInitiateTrade(t *testing.T) {
	t.Run("Validation order and notices", func(t *testing.T) {
		testCases := []struct {
			name     string
			asset    string
			side     Side
			mode     InputMode
			raw      string
			wantErr  error
			severity notify.Severity
			message  string
		}{
			{"Empty input", "BTC", SideBuy, InputFiat, "", util.ErrInvalidAmount, notify.SeverityError, "Please enter a valid amount"},
			{"Not a number", "BTC", SideBuy, InputFiat, "abc", util.ErrInvalidAmount, notify.SeverityError, "Please enter a valid amount"},
			{"Zero", "BTC", SideBuy, InputFiat, "0", util.ErrInvalidAmount, notify.SeverityError, "Please enter a valid amount"},
			{"Negative", "ETH", SideSell, InputCrypto, "-1", util.ErrInvalidAmount, notify.SeverityError, "Please enter a valid amount"},
			{"Just over limit", "BTC", SideBuy, InputFiat, "4000000.01", util.ErrLimitExceeded, notify.SeverityWarning, "Trading limit exceeded (max €4,000,000)"},
			{"Crypto input over limit", "BTC", SideBuy, InputCrypto, "100", util.ErrLimitExceeded, notify.SeverityWarning, "Trading limit exceeded (max €4,000,000)"},
			{"Limit checked before balance", "BTC", SideSell, InputCrypto, "1000", util.ErrLimitExceeded, notify.SeverityWarning, "Trading limit exceeded (max €4,000,000)"},
			{"Sell more than balance", "BTC", SideSell, InputCrypto, "7.0", util.ErrInsufficientBalance, notify.SeverityWarning, "Insufficient balance"},
			{"Sell fiat worth more than balance", "BTC", SideSell, InputFiat, "300000", util.ErrInsufficientBalance, notify.SeverityWarning, "Insufficient balance"},
			{"Rounds to zero", "BTC", SideBuy, InputFiat, "0.0001", util.ErrInvalidAmount, notify.SeverityError, "Please enter a valid amount"},
			{"Zero price", "ZERO", SideBuy, InputFiat, "10", util.ErrInvalidPrice, notify.SeverityError, ""},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				h := newHarness()

				draft, err := h.draft(t, tc.asset, tc.side, tc.mode, tc.raw)

				assert.Nil(t, draft)
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, StateDrafting, h.sim.State())
				n := h.notice(t)
				assert.Equal(t, tc.severity, n.Severity)
				if tc.message != "" {
					assert.Equal(t, tc.message, n.Message)
				}
				assert.Nil(t, h.sim.Snapshot().Draft)
			})
		}
	})

	t.Run("Exactly the limit passes", func(t *testing.T) {
		h := newHarness()

		draft, err := h.draft(t, "BTC", SideBuy, InputFiat, "4000000")

		require.NoError(t, err)
		assert.True(t, draft.FiatValue.Equal(d("4000000")))
		assert.Equal(t, StateAwaitingConfirmation, h.sim.State())
	})

	t.Run("Sell within balance", func(t *testing.T) {
		h := newHarness()

		draft, err := h.draft(t, "BTC", SideSell, InputCrypto, "6.5")

		require.NoError(t, err)
		assert.True(t, draft.Amount.Equal(d("6.5")))
		assert.True(t, draft.FiatValue.Equal(d("297375")))
		assert.Equal(t, 60, draft.CountdownSeconds)
	})

	t.Run("Buy does not consult balance", func(t *testing.T) {
		h := newHarness()

		_, err := h.draft(t, "AVAX", SideBuy, InputCrypto, "100000")

		require.NoError(t, err)
		h.wallets.AssertNotCalled(t, "Wallet", mock.Anything, "AVAX")
	})

	t.Run("Cannot edit while awaiting confirmation", func(t *testing.T) {
		h := newHarness()
		_, err := h.draft(t, "ETH", SideBuy, InputFiat, "1000")
		require.NoError(t, err)

		assert.ErrorIs(t, h.sim.SetInput("5"), util.ErrInvalidInput)
		assert.ErrorIs(t, h.sim.Select("BTC", SideBuy, InputFiat), util.ErrInvalidInput)
		_, err = h.sim.InitiateTrade(context.Background())
		assert.ErrorIs(t, err, util.ErrInvalidInput)
	})

	t.Run("Unknown asset", func(t *testing.T) {
		h := newHarness()
		assert.ErrorIs(t, h.sim.Select("DOGE", SideBuy, InputFiat), util.ErrUnknownCurrency)
		assert.ErrorIs(t, h.sim.Select("BTC", Side("hold"), InputFiat), util.ErrInvalidInput)
		assert.ErrorIs(t, h.sim.SetInput("1"), util.ErrInvalidInput)
	})
}

func TestCountdown(t *testing.T) {
	t.Run("Expires after sixty ticks", func(t *testing.T) {
		h := newHarness()
		_, err := h.draft(t, "ETH", SideBuy, InputFiat, "1000")
		require.NoError(t, err)

		h.sched.Advance(59 * time.Second)
		snap := h.sim.Snapshot()
		assert.Equal(t, StateAwaitingConfirmation, snap.State)
		assert.Equal(t, 1, snap.Countdown)

		h.sched.Advance(time.Second)
		snap = h.sim.Snapshot()
		assert.Equal(t, StateExpired, snap.State)
		assert.Nil(t, snap.Draft)
		assert.Equal(t, 60, snap.Countdown)

		n := h.notice(t)
		assert.Equal(t, notify.SeverityWarning, n.Severity)
		assert.Equal(t, "Trade cancelled - time expired", n.Message)

		_, err = h.sim.ConfirmTrade(context.Background())
		assert.ErrorIs(t, err, util.ErrNoActiveDraft)
	})

	t.Run("Decrements once per second", func(t *testing.T) {
		h := newHarness()
		_, err := h.draft(t, "ETH", SideBuy, InputFiat, "1000")
		require.NoError(t, err)

		for want := 59; want >= 55; want-- {
			h.sched.Advance(time.Second)
			assert.Equal(t, want, h.sim.Snapshot().Countdown)
		}
		h.sched.Advance(500 * time.Millisecond)
		assert.Equal(t, 55, h.sim.Snapshot().Countdown)
	})

	t.Run("Late ticks do not accumulate", func(t *testing.T) {
		h := newHarness()
		sched := lateScheduler{Manual: h.sched, lag: 300 * time.Millisecond}
		sim := NewSimulator(zap.NewNop(), sched, h.prices, h.wallets, h.recorder, nil, Options{
			Limit:            d("4000000"),
			CountdownSeconds: 60,
			Debounce:         200 * time.Millisecond,
		})
		require.NoError(t, sim.Select("ETH", SideBuy, InputFiat))
		require.NoError(t, sim.SetInput("1000"))
		_, err := sim.InitiateTrade(context.Background())
		require.NoError(t, err)

		h.sched.Advance(60 * time.Second)
		assert.Equal(t, StateAwaitingConfirmation, sim.State())
		assert.Equal(t, 1, sim.Snapshot().Countdown)

		h.sched.Advance(300 * time.Millisecond)
		assert.Equal(t, StateExpired, sim.State())
	})

	t.Run("Cancel stops the countdown", func(t *testing.T) {
		h := newHarness()
		_, err := h.draft(t, "ETH", SideBuy, InputFiat, "1000")
		require.NoError(t, err)
		h.sched.Advance(10 * time.Second)
		h.center.Dismiss()

		require.NoError(t, h.sim.CancelTrade())

		assert.Equal(t, StateCancelled, h.sim.State())
		assert.Equal(t, 0, h.sched.Pending())
		assert.Equal(t, 60, h.sim.Snapshot().Countdown)

		h.sched.Advance(2 * time.Minute)
		assert.Equal(t, StateCancelled, h.sim.State())
		_, shown := h.center.Current()
		assert.False(t, shown)

		assert.ErrorIs(t, h.sim.CancelTrade(), util.ErrNoActiveDraft)
	})

	t.Run("New attempt after cancel restarts at sixty", func(t *testing.T) {
		h := newHarness()
		_, err := h.draft(t, "ETH", SideBuy, InputFiat, "1000")
		require.NoError(t, err)
		h.sched.Advance(30 * time.Second)
		require.NoError(t, h.sim.CancelTrade())

		draft, err := h.sim.InitiateTrade(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 60, draft.CountdownSeconds)
		h.sched.Advance(59 * time.Second)
		assert.Equal(t, StateAwaitingConfirmation, h.sim.State())
	})

	t.Run("Stale tick of a previous draft is dropped", func(t *testing.T) {
		h := newHarness()
		first, err := h.draft(t, "ETH", SideBuy, InputFiat, "1000")
		require.NoError(t, err)

		h.sim.tick(first.ID)
		require.NoError(t, h.sim.CancelTrade())
		second, err := h.sim.InitiateTrade(context.Background())
		require.NoError(t, err)

		h.sim.tick(first.ID)
		assert.Equal(t, 60, h.sim.Snapshot().Countdown)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestConfirmTrade(t *testing.T) {
	t.Run("Buy 1000 EUR of ETH at snapshot price", func(t *testing.T) {
		h := newHarness()
		h.recorder.On("Append", mock.Anything, mock.AnythingOfType("*models.Transaction")).Return(nil).Once()
		_, err := h.draft(t, "ETH", SideBuy, InputFiat, "1000")
		require.NoError(t, err)

		// The live price moves after the snapshot.
		h.prices["ETH"] = d("3000")
		h.sched.Advance(5 * time.Second)

		tx, err := h.sim.ConfirmTrade(context.Background())

		require.NoError(t, err)
		h.recorder.AssertExpectations(t)
		assert.Equal(t, models.TransactionBuy, tx.Type)
		assert.Equal(t, "ETH", tx.Currency)
		assert.True(t, tx.Amount.Equal(d("0.4")), tx.Amount.String())
		assert.True(t, tx.FiatValue.Equal(d("1000")))
		assert.True(t, tx.TradePrice.Equal(d("2500")))
		assert.Equal(t, models.StatusCompleted, tx.Status)
		assert.Equal(t, "ETH/EUR", tx.TradePair)
		assert.Equal(t, "Market buy order", tx.Notes)
		assert.Contains(t, tx.UID, "tx-")
		assert.Equal(t, h.sched.Now(), tx.Timestamp)

		snap := h.sim.Snapshot()
		assert.Equal(t, StateConfirmed, snap.State)
		assert.Nil(t, snap.Draft)
		assert.Empty(t, snap.RawInput)
		assert.Equal(t, 1, h.sched.Pending(), "countdown must be stopped")
		assert.Equal(t, "Buy order executed successfully", h.notice(t).Message)
	})

	t.Run("Sell is not rechecked against balance", func(t *testing.T) {
		h := newHarness()
		h.recorder.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
		_, err := h.draft(t, "BTC", SideSell, InputCrypto, "6.5")
		require.NoError(t, err)

		tx, err := h.sim.ConfirmTrade(context.Background())

		require.NoError(t, err)
		assert.Equal(t, models.TransactionSell, tx.Type)
		assert.Equal(t, "Market sell order", tx.Notes)
		assert.Equal(t, "Sell order executed successfully", h.notice(t).Message)
		h.wallets.AssertNumberOfCalls(t, "Wallet", 1)
	})

	t.Run("Recorder failure keeps the draft", func(t *testing.T) {
		h := newHarness()
		h.recorder.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
		_, err := h.draft(t, "ETH", SideBuy, InputFiat, "1000")
		require.NoError(t, err)

		_, err = h.sim.ConfirmTrade(context.Background())

		assert.Error(t, err)
		assert.Equal(t, StateAwaitingConfirmation, h.sim.State())
		assert.Equal(t, notify.SeverityError, h.notice(t).Severity)
	})

	t.Run("Nothing to confirm", func(t *testing.T) {
		h := newHarness()
		_, err := h.sim.ConfirmTrade(context.Background())
		assert.ErrorIs(t, err, util.ErrNoActiveDraft)
	})
}

func TestEstimateDebounce(t *testing.T) {
	t.Run("Only the last input is computed", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.sim.Select("ETH", SideBuy, InputFiat))

		for _, raw := range []string{"1", "10", "100", "1000"} {
			require.NoError(t, h.sim.SetInput(raw))
			h.sched.Advance(150 * time.Millisecond)
			assert.False(t, h.sim.Estimate().Valid, "estimate computed while typing %q", raw)
		}

		h.sched.Advance(50 * time.Millisecond)
		e := h.sim.Estimate()
		assert.True(t, e.Valid)
		assert.Equal(t, "1000", e.Input)
		assert.True(t, e.Amount.Equal(d("0.4")))
		assert.True(t, e.FiatValue.Equal(d("1000")))
	})

	t.Run("Crypto mode derives fiat", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.sim.Select("BTC", SideSell, InputCrypto))
		require.NoError(t, h.sim.SetInput("0.5"))
		h.sched.Advance(200 * time.Millisecond)

		e := h.sim.Estimate()
		assert.True(t, e.FiatValue.Equal(d("22875")))
		assert.True(t, e.Price.Equal(d("45750")))
	})

	t.Run("Toggle clears input and pending estimate", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.sim.Select("ETH", SideBuy, InputFiat))
		require.NoError(t, h.sim.SetInput("1000"))

		mode, err := h.sim.ToggleInputMode()

		require.NoError(t, err)
		assert.Equal(t, InputCrypto, mode)
		h.sched.Advance(time.Second)
		assert.False(t, h.sim.Estimate().Valid)
		assert.Empty(t, h.sim.Snapshot().RawInput)
	})

	t.Run("Invalid input gives invalid estimate", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.sim.Select("ETH", SideBuy, InputFiat))
		require.NoError(t, h.sim.SetInput("1e"))
		h.sched.Advance(200 * time.Millisecond)

		assert.False(t, h.sim.Estimate().Valid)
	})

	t.Run("Close cancels everything", func(t *testing.T) {
		h := newHarness()
		_, err := h.draft(t, "ETH", SideBuy, InputFiat, "1000")
		require.NoError(t, err)
		h.center.Dismiss()

		h.sim.Close()

		assert.Equal(t, StateIdle, h.sim.State())
		assert.Equal(t, 0, h.sched.Pending())
	})
}
