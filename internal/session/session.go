// Package session is the mock access gate. Any credentials are accepted;
// the signed-in user is kept in the session key-value store.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/models"
)

const (
	demoName  = "Demo User"
	demoEmail = "demo@qcrypto.com"
)

// KV is the session key-value store.
type KV interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, bool, error)
	Remove(ctx context.Context, key string) error
}

// User is the signed-in user as persisted under the session key.
type User struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	LoginTime time.Time `json:"loginTime"`
}

// Features lists the sections a role may see.
type Features struct {
	Wallet       bool `json:"wallet"`
	Transactions bool `json:"transactions"`
	Settlement   bool `json:"settlement"`
	Staking      bool `json:"staking"`
	AdminPanel   bool `json:"admin_panel"`
}

// FeaturesFor derives feature visibility from a role. Only admins see the
// admin panel.
func FeaturesFor(role string) Features {
	return Features{
		Wallet:       true,
		Transactions: true,
		Settlement:   true,
		Staking:      true,
		AdminPanel:   role == string(models.RoleAdmin),
	}
}

// Gate signs users in and out.
type Gate struct {
	logger *zap.Logger
	kv     KV
	sched  clock.Scheduler
	key    string
}

// NewGate creates a Gate storing the user under key.
func NewGate(logger *zap.Logger, kv KV, sched clock.Scheduler, key string) *Gate {
	return &Gate{logger: logger.Named("session"), kv: kv, sched: sched, key: key}
}

// Login signs in whoever asks. An empty email falls back to the demo
// account.
func (g *Gate) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		email = demoEmail
	}
	u := User{
		Name:      demoName,
		Email:     email,
		Role:      string(models.RoleAdmin),
		LoginTime: g.sched.Now().UTC(),
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return User{}, fmt.Errorf("encode session user: %w", err)
	}
	if err := g.kv.Set(ctx, g.key, string(raw)); err != nil {
		return User{}, err
	}
	g.logger.Info("User signed in", zap.String("email", email), zap.String("role", u.Role))
	return u, nil
}

// Current returns the signed-in user. A stored value that cannot be read
// is treated as signed out.
func (g *Gate) Current(ctx context.Context) (User, bool, error) {
	raw, ok, err := g.kv.Get(ctx, g.key)
	if err != nil || !ok {
		return User{}, false, err
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		g.logger.Warn("Discarding unreadable session", zap.Error(err))
		return User{}, false, nil
	}
	return u, true, nil
}

// Logout forgets the signed-in user.
func (g *Gate) Logout(ctx context.Context) error {
	if err := g.kv.Remove(ctx, g.key); err != nil {
		return err
	}
	g.logger.Info("User signed out")
	return nil
}
