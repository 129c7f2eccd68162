// Package wallet manages wallet assets and their deposit addresses.
package wallet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"qcrypto-wallet/internal/clipboard"
	"qcrypto-wallet/internal/clock"
	"qcrypto-wallet/internal/market"
	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/notify"
	"qcrypto-wallet/internal/store"
	"qcrypto-wallet/internal/util"
	"qcrypto-wallet/internal/valuation"
)

// Currency is an entry of the catalog of currencies that can be added.
type Currency struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var addable = []Currency{
	{Code: "MATIC", Name: "Polygon"},
	{Code: "DOT", Name: "Polkadot"},
	{Code: "BASE", Name: "Base"},
	{Code: "BNB", Name: "Binance Coin"},
	{Code: "USDC", Name: "USD Coin"},
	{Code: "EURC", Name: "Euro Coin"},
}

type addressFormat struct {
	prefix   string
	length   int
	protocol string
}

var formats = map[string]addressFormat{
	"BTC":  {prefix: "bc1q", length: 38, protocol: "bitcoin"},
	"ETH":  {prefix: "0x", length: 40, protocol: "ethereum"},
	"AVAX": {prefix: "X-avax1", length: 39, protocol: "avalanche"},
}

var defaultFormat = addressFormat{prefix: "0x", length: 40, protocol: "crypto"}

var patterns = map[string]*regexp.Regexp{
	"BTC":  regexp.MustCompile(`^(bc1|[13])[a-zA-HJ-NP-Z0-9]{25,62}$`),
	"ETH":  regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`),
	"AVAX": regexp.MustCompile(`^X-avax1[a-z0-9]{39}$`),
}

// ValidateAddress checks the address format of currency. Currencies
// without a known format never validate.
func ValidateAddress(address, currency string) bool {
	p, ok := patterns[currency]
	return ok && p.MatchString(address)
}

// QRData is the payment URI encoded in an address QR code.
func QRData(address, currency string) string {
	f, ok := formats[currency]
	if !ok {
		f = defaultFormat
	}
	return f.protocol + ":" + address
}

// Portfolio is the overview of all wallets.
type Portfolio struct {
	Total   decimal.Decimal          `json:"total"`
	Change  valuation.Change         `json:"change_30d"`
	History []valuation.HistoryPoint `json:"history"`
	Wallets []models.WalletAsset     `json:"wallets"`
}

// Service manages wallets.
type Service struct {
	logger    *zap.Logger
	store     *store.Store
	prices    *market.Store
	sched     clock.Scheduler
	clipboard clipboard.Writer
	notices   notify.Notifier
	random    io.Reader
}

// NewService creates a Service. notices may be nil.
func NewService(logger *zap.Logger, st *store.Store, prices *market.Store, sched clock.Scheduler, cb clipboard.Writer, notices notify.Notifier) *Service {
	return &Service{
		logger:    logger.Named("wallet"),
		store:     st,
		prices:    prices,
		sched:     sched,
		clipboard: cb,
		notices:   notices,
		random:    rand.Reader,
	}
}

// List returns every wallet.
func (s *Service) List(ctx context.Context) ([]models.WalletAsset, error) {
	return s.store.Wallets(ctx)
}

// Get returns the wallet of currency.
func (s *Service) Get(ctx context.Context, currency string) (*models.WalletAsset, error) {
	return s.store.Wallet(ctx, currency)
}

// Portfolio values all wallets over the last days days.
func (s *Service) Portfolio(ctx context.Context, days int) (Portfolio, error) {
	wallets, err := s.store.Wallets(ctx)
	if err != nil {
		return Portfolio{}, err
	}
	prices := s.prices.Map()
	return Portfolio{
		Total:   valuation.PortfolioTotal(wallets),
		Change:  valuation.PortfolioChange(wallets, prices),
		History: valuation.PortfolioHistory(wallets, prices, days, s.sched.Now()),
		Wallets: wallets,
	}, nil
}

// GenerateAddress adds a fresh, empty address to the wallet of currency.
func (s *Service) GenerateAddress(ctx context.Context, currency string) (*models.Address, error) {
	wallet, err := s.store.Wallet(ctx, currency)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			err = fmt.Errorf("wallet %s: %w", currency, util.ErrUnknownCurrency)
		}
		s.fail(err, "Failed to generate address")
		return nil, err
	}

	f, ok := formats[currency]
	if !ok {
		f = defaultFormat
	}
	suffix, err := s.randomHex(f.length)
	if err != nil {
		s.fail(err, "Failed to generate address")
		return nil, err
	}

	n := len(wallet.Addresses) + 1
	address := f.prefix + suffix
	addr := &models.Address{
		UID:       fmt.Sprintf("%s-%d", strings.ToLower(currency), n),
		Address:   address,
		QRData:    QRData(address, currency),
		Balance:   decimal.Zero,
		EuroValue: decimal.Zero,
		Label:     fmt.Sprintf("%s Address %d", currency, n),
	}
	if _, err := s.store.AddAddress(ctx, currency, addr); err != nil {
		s.fail(err, "Failed to generate address")
		return nil, err
	}

	s.logger.Info("Address generated", zap.String("currency", currency), zap.String("id", addr.UID))
	s.push(notify.SeveritySuccess, fmt.Sprintf("New %s address generated successfully", currency))
	return addr, nil
}

func (s *Service) randomHex(length int) (string, error) {
	buf := make([]byte, (length+1)/2)
	if _, err := io.ReadFull(s.random, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf)[:length], nil
}

// AvailableCurrencies lists the catalog currencies not yet held.
func (s *Service) AvailableCurrencies(ctx context.Context) ([]Currency, error) {
	wallets, err := s.store.Wallets(ctx)
	if err != nil {
		return nil, err
	}
	held := make(map[string]bool, len(wallets))
	for _, w := range wallets {
		held[w.Currency] = true
	}
	out := make([]Currency, 0, len(addable))
	for _, c := range addable {
		if !held[c.Code] {
			out = append(out, c)
		}
	}
	return out, nil
}

// AddCurrency opens an empty wallet for a catalog currency.
func (s *Service) AddCurrency(ctx context.Context, code string) (*models.WalletAsset, error) {
	var entry *Currency
	for i := range addable {
		if addable[i].Code == code {
			entry = &addable[i]
			break
		}
	}
	if entry == nil {
		err := fmt.Errorf("add currency %q: %w", code, util.ErrUnknownCurrency)
		s.fail(err, "Currency not available")
		return nil, err
	}

	if _, err := s.store.Wallet(ctx, code); err == nil {
		err = fmt.Errorf("add currency %s: %w", code, util.ErrDuplicateEntry)
		s.fail(err, fmt.Sprintf("%s is already in the wallet", code))
		return nil, err
	} else if !errors.Is(err, util.ErrNotFound) {
		return nil, err
	}

	w := &models.WalletAsset{Currency: entry.Code, Name: entry.Name}
	if err := s.store.CreateWallet(ctx, w); err != nil {
		s.fail(err, "Failed to add currency")
		return nil, err
	}
	s.logger.Info("Currency added", zap.String("currency", code))
	s.push(notify.SeveritySuccess, fmt.Sprintf("%s (%s) added to wallet", entry.Name, entry.Code))
	return w, nil
}

// CopyAddress puts address on the clipboard.
func (s *Service) CopyAddress(address string) error {
	return clipboard.Copy(s.clipboard, address, "address", s.notices)
}

// Revalue rewrites the fiat values of every wallet with a price in
// records. It is the price ticker's refresh hook.
func (s *Service) Revalue(ctx context.Context, records []models.PriceRecord) error {
	for _, r := range records {
		err := s.store.Revalue(ctx, r.Currency, r.CurrentPrice)
		if err != nil && !errors.Is(err, util.ErrNotFound) {
			return fmt.Errorf("revalue %s: %w", r.Currency, err)
		}
	}
	return nil
}

func (s *Service) fail(err error, msg string) {
	s.logger.Warn(msg, zap.Error(err))
	s.push(notify.SeverityFor(err), msg)
}

func (s *Service) push(sev notify.Severity, msg string) {
	if s.notices != nil {
		s.notices.Push(sev, msg)
	}
}
