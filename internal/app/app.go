// Package app is the application root. It owns the store and the price
// reference and hands them to every engine.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"qcrypto-wallet/internal/admin"
	"qcrypto-wallet/internal/clipboard"
	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/config"
	"qcrypto-wallet/internal/database"
	"qcrypto-wallet/internal/fixtures"
	"qcrypto-wallet/internal/ledger"
	"qcrypto-wallet/internal/logger"
	"qcrypto-wallet/internal/market"
	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/notify"
	"qcrypto-wallet/internal/session"
	"qcrypto-wallet/internal/settlement"
	"qcrypto-wallet/internal/staking"
	"qcrypto-wallet/internal/store"
	"qcrypto-wallet/internal/trade"
	"qcrypto-wallet/internal/wallet"
)

// App holds every engine of a running session.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Clock  clock.Scheduler

	DB     *gorm.DB
	Store  *store.Store
	Prices *market.Store
	Ticker *market.Ticker

	Notices    *notify.Center
	Wallets    *wallet.Service
	Ledger     *ledger.Ledger
	Trades     *trade.Simulator
	Staking    *staking.Ledger
	Settlement *settlement.Monitor
	Session    *session.Gate
	Admin      *admin.Directory
}

type options struct {
	sched     clock.Scheduler
	clipboard clipboard.Writer
	rnd       *rand.Rand
}

// Option customises New.
type Option func(*options)

// WithScheduler replaces the wall clock.
func WithScheduler(s clock.Scheduler) Option {
	return func(o *options) { o.sched = s }
}

// WithClipboard replaces the system clipboard.
func WithClipboard(w clipboard.Writer) Option {
	return func(o *options) { o.clipboard = w }
}

// WithRand fixes the random source of the price walk.
func WithRand(rnd *rand.Rand) Option {
	return func(o *options) { o.rnd = rnd }
}

// New opens the database, seeds it when configured and wires the engines.
func New(cfg config.Config, log *zap.Logger, opts ...Option) (*App, error) {
	log = logger.OrNop(log)
	o := options{sched: clock.Real{}, clipboard: clipboard.System{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rnd == nil {
		o.rnd = rand.New(rand.NewSource(o.sched.Now().UnixNano()))
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Info("Database connection successful and schema migrated.")

	now := o.sched.Now()
	st := store.New(db)
	prices := market.NewStore(fixtures.Prices(now, cfg.Market.HistoryDays, cfg.Market.Volatility, o.rnd))

	if cfg.Database.Seed {
		if err := seed(context.Background(), st, prices, now); err != nil {
			return nil, err
		}
		log.Info("Demo data seeded")
	}

	a := &App{
		Config: cfg,
		Logger: log,
		Clock:  o.sched,
		DB:     db,
		Store:  st,
		Prices: prices,
	}
	a.Notices = notify.NewCenter(log, o.sched, cfg.Notifications.Duration())
	a.Wallets = wallet.NewService(log, st, prices, o.sched, o.clipboard, a.Notices)
	a.Ledger = ledger.New(log, st, o.sched)
	a.Trades = trade.NewSimulator(log, o.sched, prices, st, a.Ledger, a.Notices, trade.Options{
		Limit:            decimal.NewFromFloat(cfg.Trading.LimitEUR),
		CountdownSeconds: cfg.Trading.CountdownSeconds,
		Debounce:         cfg.Trading.Debounce(),
		QuoteCurrency:    cfg.Trading.QuoteCurrency,
	})
	a.Staking = staking.NewLedger(log, st, prices, o.sched, a.Notices, fixtures.StakingOptions(),
		time.Duration(cfg.Staking.MaturingThresholdDays)*24*time.Hour)
	a.Settlement = settlement.NewMonitor(log, st, o.sched, o.clipboard, a.Notices)
	a.Session = session.NewGate(log, st, o.sched, cfg.Session.Key)
	a.Admin = admin.NewDirectory(log, st, a.Notices)

	interval := time.Duration(cfg.Market.RefreshIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	a.Ticker = market.NewTicker(log, prices, interval, cfg.Market.Simulate,
		cfg.Market.Volatility, o.rnd, a.revalue)

	return a, nil
}

// seed loads the demo data unless the shared database already holds it.
func seed(ctx context.Context, st *store.Store, prices *market.Store, now time.Time) error {
	wallets, err := st.Wallets(ctx)
	if err != nil {
		return err
	}
	if len(wallets) > 0 {
		return nil
	}
	if err := fixtures.Seed(ctx, st, prices.Map(), now); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	return nil
}

func (a *App) revalue(records []models.PriceRecord) {
	if err := a.Wallets.Revalue(context.Background(), records); err != nil {
		a.Logger.Error("Failed to revalue wallets", zap.Error(err))
	}
}

// Run drives the price ticker until ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	a.Ticker.Run(ctx)
}

// Close stops pending timers and releases the database.
func (a *App) Close() error {
	a.Trades.Close()
	a.Notices.Dismiss()
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
