package staking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/fixtures"
	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/notify"
	"qcrypto-wallet/internal/store/storetest"
	"qcrypto-wallet/internal/util"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestEstimateReward(t *testing.T) {
	t.Run("Fixed year, not calendar", func(t *testing.T) {
		got := EstimateReward(d("0.5"), d("3.5"), 72*time.Hour)

		want := 0.5 * 0.035 * (72.0 / (24 * 365))
		f, _ := got.Float64()
		assert.InDelta(t, want, f, 1e-12)
	})

	t.Run("Full year equals yearly reward", func(t *testing.T) {
		got := EstimateReward(d("100"), d("5.8"), Year)
		assert.True(t, got.Equal(YearlyReward(d("100"), d("5.8"))), got.String())
	})

	t.Run("Daily reward", func(t *testing.T) {
		assert.True(t, DailyReward(d("3650"), d("10")).Equal(d("1")))
	})
}

func TestCanUnstake(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	pos := models.StakingPosition{StartDate: start, ExpirationDate: start.Add(72 * time.Hour)}

	assert.False(t, CanUnstake(pos, start))
	assert.False(t, CanUnstake(pos, pos.ExpirationDate.Add(-time.Nanosecond)))
	assert.True(t, CanUnstake(pos, pos.ExpirationDate))

	// Once unstakeable, always unstakeable.
	became := false
	for now := start; now.Before(start.Add(144 * time.Hour)); now = now.Add(time.Hour) {
		ok := CanUnstake(pos, now)
		if became {
			require.True(t, ok, "regressed at %s", now)
		}
		became = became || ok
	}
	assert.True(t, became)
}

func TestStatusOf(t *testing.T) {
	now := storetest.Now
	threshold := 7 * 24 * time.Hour
	mk := func(expires time.Duration) models.StakingPosition {
		return models.StakingPosition{StartDate: now.Add(-time.Hour), ExpirationDate: now.Add(expires)}
	}

	testCases := []struct {
		name    string
		expires time.Duration
		want    Status
	}{
		{"Far from expiry", 30 * 24 * time.Hour, StatusActive},
		{"Within threshold", 2 * 24 * time.Hour, StatusMaturing},
		{"Exactly threshold", threshold, StatusMaturing},
		{"Expired", -time.Second, StatusExpired},
		{"Expires now", 0, StatusExpired},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusOf(mk(tc.expires), now, threshold))
		})
	}
}

func TestEarningsHistory(t *testing.T) {
	now := storetest.Now
	day := 24 * time.Hour
	prices := map[string]models.PriceRecord{"ETH": {Currency: "ETH", CurrentPrice: d("3650")}}

	t.Run("Accrues from start, cumulative", func(t *testing.T) {
		positions := []models.StakingPosition{{
			Currency: "ETH", AmountStaked: d("1"), APY: d("10"),
			StartDate: now.Add(-2 * day), ExpirationDate: now.Add(10 * day),
		}}

		got := EarningsHistory(positions, prices, 5, now)

		require.Len(t, got, 5)
		want := []string{"0", "0", "1", "2", "3"}
		for i, p := range got {
			assert.True(t, p.Earnings.Equal(d(want[i])), "day %d: %s", i, p.Earnings)
		}
		assert.Equal(t, now.Format("2006-01-02"), got[4].Date)
	})

	t.Run("Stops accruing at expiration", func(t *testing.T) {
		positions := []models.StakingPosition{{
			Currency: "ETH", AmountStaked: d("1"), APY: d("10"),
			StartDate: now.Add(-10 * day), ExpirationDate: now.Add(-day),
		}}

		got := EarningsHistory(positions, prices, 3, now)

		require.Len(t, got, 3)
		assert.True(t, got[0].Earnings.Equal(d("1")))
		assert.True(t, got[2].Earnings.Equal(d("1")))
	})

	t.Run("Counts the start day by calendar date", func(t *testing.T) {
		positions := []models.StakingPosition{{
			Currency: "ETH", AmountStaked: d("1"), APY: d("10"),
			StartDate: now.Add(3 * time.Hour), ExpirationDate: now.Add(10 * day),
		}}

		got := EarningsHistory(positions, prices, 2, now)

		require.Len(t, got, 2)
		assert.True(t, got[0].Earnings.IsZero())
		assert.True(t, got[1].Earnings.Equal(d("1")), got[1].Earnings.String())
	})

	t.Run("Missing price and empty window", func(t *testing.T) {
		positions := []models.StakingPosition{{
			Currency: "DOT", AmountStaked: d("1"), APY: d("10"),
			StartDate: now.Add(-10 * day), ExpirationDate: now.Add(day),
		}}
		got := EarningsHistory(positions, prices, 2, now)
		assert.True(t, got[1].Earnings.IsZero())
		assert.Nil(t, EarningsHistory(positions, prices, 0, now))
	})
}

func TestTotalLockedValue(t *testing.T) {
	prices := map[string]models.PriceRecord{
		"ETH":  {CurrentPrice: d("2500")},
		"AVAX": {CurrentPrice: d("25")},
	}
	positions := []models.StakingPosition{
		{Currency: "ETH", AmountStaked: d("39.5")},
		{Currency: "AVAX", AmountStaked: d("1800")},
		{Currency: "DOT", AmountStaked: d("5")},
	}
	assert.True(t, TotalLockedValue(positions, prices).Equal(d("143750")))
	assert.True(t, StakedAmount(positions, "ETH").Equal(d("39.5")))
}

func newLedger(t *testing.T) (*Ledger, *clock.Manual, *notify.Center) {
	t.Helper()
	st, prices := storetest.Seeded(t)
	sched := clock.NewManual(storetest.Now)
	center := notify.NewCenter(zap.NewNop(), sched, 3*time.Second)
	l := NewLedger(zap.NewNop(), st, prices, sched, center, fixtures.StakingOptions(), 7*24*time.Hour)
	return l, sched, center
}

func TestLedgerStake(t *testing.T) {
	ctx := context.Background()

	t.Run("Available excludes staked amount", func(t *testing.T) {
		l, _, _ := newLedger(t)

		b, err := l.BalanceBreakdown(ctx, "ETH")

		require.NoError(t, err)
		assert.True(t, b.Total.Equal(d("125")), b.Total.String())
		assert.True(t, b.Locked.Equal(d("49.5")), b.Locked.String())
		assert.True(t, b.Available.Equal(d("75.5")), b.Available.String())
	})

	t.Run("Rejections", func(t *testing.T) {
		testCases := []struct {
			name     string
			currency string
			amount   string
			option   string
			wantErr  error
		}{
			{"Zero amount", "ETH", "0", "stake-eth-30", util.ErrInvalidAmount},
			{"Negative amount", "ETH", "-1", "stake-eth-30", util.ErrInvalidAmount},
			{"Below minimum", "ETH", "0.05", "stake-eth-30", util.ErrInvalidAmount},
			{"Exceeds available", "ETH", "75.51", "stake-eth-30", util.ErrInsufficientBalance},
			{"Option for other currency", "ETH", "1", "stake-avax-30", util.ErrInvalidInput},
			{"Unknown option", "ETH", "1", "stake-eth-7", util.ErrInvalidInput},
			{"No option for currency", "BTC", "1", "", util.ErrInvalidInput},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				l, _, center := newLedger(t)

				pos, err := l.Stake(ctx, tc.currency, d(tc.amount), tc.option)

				assert.Nil(t, pos)
				assert.ErrorIs(t, err, tc.wantErr)
				_, shown := center.Current()
				assert.True(t, shown)
			})
		}
	})

	t.Run("Success locks the amount", func(t *testing.T) {
		l, sched, center := newLedger(t)

		pos, err := l.Stake(ctx, "ETH", d("0.5"), "stake-eth-72h")

		require.NoError(t, err)
		assert.Contains(t, pos.UID, "pos-")
		assert.Equal(t, sched.Now().Add(72*time.Hour), pos.ExpirationDate)
		assert.True(t, pos.APY.Equal(d("3.5")))

		n, _ := center.Current()
		assert.Equal(t, "Staking successful", n.Message)

		b, err := l.BalanceBreakdown(ctx, "ETH")
		require.NoError(t, err)
		assert.True(t, b.Available.Equal(d("75")), b.Available.String())

		_, err = l.Stake(ctx, "ETH", d("75.01"), "stake-eth-30")
		assert.ErrorIs(t, err, util.ErrInsufficientBalance)
	})

	t.Run("Empty option picks first for currency", func(t *testing.T) {
		l, _, _ := newLedger(t)

		pos, err := l.Stake(ctx, "AVAX", d("100"), "")

		require.NoError(t, err)
		assert.Equal(t, "stake-avax-30", pos.OptionID)
	})
}

func TestLedgerUnstake(t *testing.T) {
	ctx := context.Background()

	t.Run("Locked position reports remaining hours", func(t *testing.T) {
		l, _, center := newLedger(t)

		pos, err := l.Unstake(ctx, "pos-003")

		assert.Nil(t, pos)
		var lockErr *util.LockNotExpiredError
		require.True(t, errors.As(err, &lockErr))
		assert.Equal(t, 48*time.Hour, lockErr.Remaining)
		assert.ErrorIs(t, err, util.ErrLockNotExpired)

		n, _ := center.Current()
		assert.Equal(t, notify.SeverityWarning, n.Severity)
		assert.Equal(t, "Lock period not expired. 48h remaining.", n.Message)
	})

	t.Run("Unstakeable once lock runs out", func(t *testing.T) {
		l, sched, center := newLedger(t)
		sched.Advance(48 * time.Hour)

		pos, err := l.Unstake(ctx, "pos-003")

		require.NoError(t, err)
		assert.Equal(t, "pos-003", pos.UID)
		n, _ := center.Current()
		assert.Equal(t, "Unstaked 10.000000 ETH", n.Message)

		_, err = l.Unstake(ctx, "pos-003")
		assert.ErrorIs(t, err, util.ErrNotFound)
	})

	t.Run("Expired position is released", func(t *testing.T) {
		l, _, _ := newLedger(t)

		_, err := l.Unstake(ctx, "pos-004")
		require.NoError(t, err)

		views, err := l.Positions(ctx)
		require.NoError(t, err)
		assert.Len(t, views, 3)
	})
}

func TestLedgerSummary(t *testing.T) {
	l, _, _ := newLedger(t)

	s, err := l.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, s.Positions)
	assert.Equal(t, 2, s.Active)
	assert.Equal(t, 1, s.Maturing)
	assert.Equal(t, 1, s.Expired)
	// 49.5 ETH at 2500 plus 2300 AVAX at 25
	assert.True(t, s.TotalLockedValue.Equal(d("181250")), s.TotalLockedValue.String())

	history, err := l.EarningsHistory(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, history, 30)
	assert.True(t, history[29].Earnings.GreaterThanOrEqual(history[0].Earnings))
}
