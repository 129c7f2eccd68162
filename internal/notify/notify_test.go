package notify

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/util"
)

func newCenter() (*Center, *clock.Manual) {
	sched := clock.NewManual(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	return NewCenter(zap.NewNop(), sched, 3*time.Second), sched
}

func TestCenter(t *testing.T) {
	t.Run("Auto dismiss after duration", func(t *testing.T) {
		c, sched := newCenter()
		c.Push(SeveritySuccess, "Staking successful")

		sched.Advance(2999 * time.Millisecond)
		n, ok := c.Current()
		require.True(t, ok)
		assert.Equal(t, "Staking successful", n.Message)

		sched.Advance(time.Millisecond)
		_, ok = c.Current()
		assert.False(t, ok)
	})

	t.Run("New notice replaces and restarts timer", func(t *testing.T) {
		c, sched := newCenter()
		c.Push(SeverityWarning, "first")
		sched.Advance(2 * time.Second)
		c.Push(SeverityError, "second")

		sched.Advance(2 * time.Second)
		n, ok := c.Current()
		require.True(t, ok)
		assert.Equal(t, "second", n.Message)
		assert.Equal(t, SeverityError, n.Severity)
		assert.Equal(t, 1, sched.Pending())

		sched.Advance(time.Second)
		_, ok = c.Current()
		assert.False(t, ok)
	})

	t.Run("Dismiss stops timer", func(t *testing.T) {
		c, sched := newCenter()
		c.Push(SeverityInfo, "hello")
		c.Dismiss()

		_, ok := c.Current()
		assert.False(t, ok)
		assert.Equal(t, 0, sched.Pending())
	})

	t.Run("Report derives severity", func(t *testing.T) {
		c, _ := newCenter()
		c.Report(fmt.Errorf("sell 7 BTC: %w", util.ErrInsufficientBalance))

		n, ok := c.Current()
		require.True(t, ok)
		assert.Equal(t, SeverityWarning, n.Severity)
		assert.Contains(t, n.Message, "insufficient balance")

		c.Report(nil)
		n2, _ := c.Current()
		assert.Equal(t, n.ID, n2.ID)
	})
}

func TestSeverityFor(t *testing.T) {
	testCases := []struct {
		err  error
		want Severity
	}{
		{nil, SeveritySuccess},
		{util.ErrInvalidAmount, SeverityError},
		{util.ErrLimitExceeded, SeverityWarning},
		{util.ErrInsufficientBalance, SeverityWarning},
		{&util.LockNotExpiredError{PositionID: "pos-1", Remaining: time.Hour}, SeverityWarning},
		{util.ErrInvalidPrice, SeverityError},
		{fmt.Errorf("copy: %w", util.ErrClipboardUnavailable), SeverityError},
	}
	for _, tc := range testCases {
		name := "nil"
		if tc.err != nil {
			name = tc.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, SeverityFor(tc.err))
		})
	}
}
