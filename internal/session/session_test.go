package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/store/storetest"
)

func TestGate(t *testing.T) {
	ctx := context.Background()
	st := storetest.New(t)
	sched := clock.NewManual(storetest.Now)
	g := NewGate(zap.NewNop(), st, sched, "qcrypto_user")

	t.Run("Signed out by default", func(t *testing.T) {
		_, ok, err := g.Current(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Any credentials are accepted", func(t *testing.T) {
		u, err := g.Login(ctx, "trader@example.com", "wrong")

		require.NoError(t, err)
		assert.Equal(t, "Demo User", u.Name)
		assert.Equal(t, "Admin", u.Role)

		current, ok, err := g.Current(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "trader@example.com", current.Email)
		assert.True(t, current.LoginTime.Equal(storetest.Now))

		raw, _, err := st.Get(ctx, "qcrypto_user")
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Demo User","email":"trader@example.com","role":"Admin","loginTime":"2025-03-15T12:00:00Z"}`, raw)
	})

	t.Run("Login again replaces the user", func(t *testing.T) {
		sched.Advance(time.Hour)
		_, err := g.Login(ctx, "", "")
		require.NoError(t, err)

		current, ok, err := g.Current(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "demo@qcrypto.com", current.Email)
	})

	t.Run("Logout", func(t *testing.T) {
		require.NoError(t, g.Logout(ctx))
		_, ok, err := g.Current(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, g.Logout(ctx))
	})

	t.Run("Unreadable session is signed out", func(t *testing.T) {
		require.NoError(t, st.Set(ctx, "qcrypto_user", "{not json"))
		_, ok, err := g.Current(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestFeaturesFor(t *testing.T) {
	assert.True(t, FeaturesFor("Admin").AdminPanel)
	assert.False(t, FeaturesFor("Trader").AdminPanel)
	assert.True(t, FeaturesFor("Middle Office").Staking)
}
