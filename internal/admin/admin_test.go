package admin

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/notify"
	"qcrypto-wallet/internal/store/storetest"
	"qcrypto-wallet/internal/util"
)

func newDirectory(t *testing.T) (*Directory, *notify.Center) {
	t.Helper()
	st, _ := storetest.Seeded(t)
	center := notify.NewCenter(zap.NewNop(), clock.NewManual(storetest.Now), 3*time.Second)
	return NewDirectory(zap.NewNop(), st, center), center
}

func TestDescribeRoles(t *testing.T) {
	ctx := context.Background()
	dir, _ := newDirectory(t)
	clients, err := dir.Clients(ctx)
	require.NoError(t, err)
	users, err := dir.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 5)

	testCases := []struct {
		user   string
		roles  string
		access string
	}{
		{"John Doe", "Trader (Crypto Ventures GmbH, Digital Assets Corp: €500,000.00) | Middle Office (Crypto Ventures GmbH)", "Crypto Ventures GmbH, Digital Assets Corp"},
		{"Sarah Miller", "Admin (Add Users, Manage Profits, Manage Settlements, Manage Other Admins)", "All companies"},
		{"Emma Schmidt", "Middle Office (Digital Assets Corp, Quantum Crypto Holdings)", "Digital Assets Corp, Quantum Crypto Holdings"},
	}
	for _, tc := range testCases {
		t.Run(tc.user, func(t *testing.T) {
			var user models.User
			for _, u := range users {
				if u.Name == tc.user {
					user = u
				}
			}
			assert.Equal(t, tc.roles, DescribeRoles(user, clients))
			assert.Equal(t, tc.access, CompanyAccess(user, clients))
		})
	}

	assert.Equal(t, "No roles assigned", DescribeRoles(models.User{}, clients))
}

func TestAddClient(t *testing.T) {
	ctx := context.Background()
	dir, center := newDirectory(t)

	_, err := dir.AddClient(ctx, "Nordic Ledger AB", "")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	n, _ := center.Current()
	assert.Equal(t, "Please fill in all fields", n.Message)

	c, err := dir.AddClient(ctx, "Nordic Ledger AB", "ops@nordicledger.se")
	require.NoError(t, err)
	assert.Equal(t, "Active", c.Status)
	n, _ = center.Current()
	assert.Equal(t, `Client "Nordic Ledger AB" added successfully`, n.Message)

	clients, err := dir.Clients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 6)
}

func TestInviteUser(t *testing.T) {
	ctx := context.Background()
	dir, center := newDirectory(t)

	_, err := dir.InviteUser(ctx, " ")
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	u, err := dir.InviteUser(ctx, "lena.berg@qcrypto.com")
	require.NoError(t, err)
	assert.Equal(t, "Invited", u.Status)
	assert.Equal(t, "lena.berg", u.Name)
	n, _ := center.Current()
	assert.Equal(t, "Invitation sent to lena.berg@qcrypto.com", n.Message)

	_, err = dir.InviteUser(ctx, "John.Doe@qcrypto.com")
	assert.ErrorIs(t, err, util.ErrDuplicateEntry)
}

func TestUpdateRoles(t *testing.T) {
	ctx := context.Background()
	dir, center := newDirectory(t)
	users, err := dir.Users(ctx)
	require.NoError(t, err)
	emma := users[3]
	require.Equal(t, "Emma Schmidt", emma.Name)

	u, err := dir.UpdateRoles(ctx, emma.ID, RoleUpdate{
		TraderCompanies: []uint{2},
		DailyLimit:      decimal.NewFromInt(750000),
		AdminPrivileges: []string{"Manage Profits"},
	})

	require.NoError(t, err)
	require.Len(t, u.Roles, 2)
	assert.Equal(t, models.RoleTrader, u.Roles[0].Type)
	assert.Equal(t, []uint{2}, u.Roles[0].Companies)
	assert.True(t, u.Roles[0].DailyLimit.Equal(decimal.NewFromInt(750000)))
	assert.Equal(t, models.RoleAdmin, u.Roles[1].Type)
	n, _ := center.Current()
	assert.Equal(t, "User updated successfully", n.Message)

	u, err = dir.UpdateRoles(ctx, emma.ID, RoleUpdate{})
	require.NoError(t, err)
	assert.Empty(t, u.Roles)

	_, err = dir.UpdateRoles(ctx, 999, RoleUpdate{})
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = dir.UpdateRoles(ctx, emma.ID, RoleUpdate{DailyLimit: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, util.ErrInvalidAmount)
}
