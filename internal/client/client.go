// Package client is the REST client for the qcrypto API.
package client

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"qcrypto-wallet/internal/config"
	"qcrypto-wallet/internal/ledger"
	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/notify"
	"qcrypto-wallet/internal/settlement"
	"qcrypto-wallet/internal/staking"
	"qcrypto-wallet/internal/trade"
	"qcrypto-wallet/internal/wallet"
)

const maxRetries = 3

// APIError is a failed request as reported by the server.
type APIError struct {
	StatusCode int             `json:"-"`
	Message    string          `json:"error"`
	Severity   notify.Severity `json:"severity"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the qcrypto API. Every request passes the rate limiter
// and is retried on 429 and 5xx responses.
type Client struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
	backoff time.Duration
}

// New creates a Client for cfg.BaseURL.
func New(cfg config.Client, logger *zap.Logger) *Client {
	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)
	return &Client{
		client:  resty.New().SetBaseURL(cfg.BaseURL).SetHeader("Content-Type", "application/json"),
		logger:  logger.Named("client"),
		limiter: limiter,
		backoff: time.Second,
	}
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, method, path string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error

	req.SetContext(ctx).SetError(&APIError{})
	for i := 0; i < maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+path))
		resp, err = req.Execute(method, path)

		if err == nil && !resp.IsError() {
			return resp, nil
		}

		shouldRetry := false
		var retryAfter time.Duration

		if err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
		} else if ctx.Err() == nil {
			shouldRetry = true
		}

		if !shouldRetry {
			if err != nil {
				return nil, err
			}
			return nil, apiError(resp)
		}

		if retryAfter == 0 {
			// Exponential backoff: 1x, 2x, 4x
			retryAfter = time.Duration(math.Pow(2, float64(i))) * c.backoff
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err == nil {
		err = apiError(resp)
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}

func apiError(resp *resty.Response) error {
	apiErr, ok := resp.Error().(*APIError)
	if !ok || apiErr.Message == "" {
		apiErr = &APIError{Message: resp.String()}
	}
	apiErr.StatusCode = resp.StatusCode()
	return apiErr
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	req := c.client.R().SetResult(result)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	_, err := c.doRequest(ctx, resty.MethodGet, path, req)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body, result any) error {
	req := c.client.R()
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	_, err := c.doRequest(ctx, method, path, req)
	return err
}

// Portfolio fetches the portfolio over days days.
func (c *Client) Portfolio(ctx context.Context, days int) (*wallet.Portfolio, error) {
	var p wallet.Portfolio
	if err := c.get(ctx, "/portfolio", url.Values{"days": {strconv.Itoa(days)}}, &p); err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}
	return &p, nil
}

// Wallets fetches every wallet.
func (c *Client) Wallets(ctx context.Context) ([]models.WalletAsset, error) {
	var wallets []models.WalletAsset
	if err := c.get(ctx, "/wallets", nil, &wallets); err != nil {
		return nil, fmt.Errorf("failed to get wallets: %w", err)
	}
	return wallets, nil
}

// GenerateAddress adds an address to the wallet of currency.
func (c *Client) GenerateAddress(ctx context.Context, currency string) (*models.Address, error) {
	var addr models.Address
	if err := c.send(ctx, resty.MethodPost, "/wallets/"+url.PathEscape(currency)+"/addresses", nil, &addr); err != nil {
		return nil, fmt.Errorf("failed to generate %s address: %w", currency, err)
	}
	return &addr, nil
}

// Prices fetches every price record.
func (c *Client) Prices(ctx context.Context) ([]models.PriceRecord, error) {
	var prices []models.PriceRecord
	if err := c.get(ctx, "/prices", nil, &prices); err != nil {
		return nil, fmt.Errorf("failed to get prices: %w", err)
	}
	return prices, nil
}

// TransactionQuery holds the raw filter values of a transaction listing.
type TransactionQuery struct {
	DateRange string
	Currency  string
	Type      string
	MinValue  string
	MaxValue  string
}

func (q TransactionQuery) values() url.Values {
	v := url.Values{}
	for name, value := range map[string]string{
		"date_range": q.DateRange,
		"currency":   q.Currency,
		"type":       q.Type,
		"min_value":  q.MinValue,
		"max_value":  q.MaxValue,
	} {
		if value != "" {
			v.Set(name, value)
		}
	}
	return v
}

// Transactions fetches the filtered history.
func (c *Client) Transactions(ctx context.Context, q TransactionQuery) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := c.get(ctx, "/transactions", q.values(), &txs); err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return txs, nil
}

// Statistics fetches the ledger statistics.
func (c *Client) Statistics(ctx context.Context) (*ledger.Statistics, error) {
	var stats ledger.Statistics
	if err := c.get(ctx, "/statistics", nil, &stats); err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	return &stats, nil
}

// SelectTrade starts a draft.
func (c *Client) SelectTrade(ctx context.Context, asset string, side trade.Side, mode trade.InputMode) (*trade.Snapshot, error) {
	var snap trade.Snapshot
	body := map[string]string{"asset": asset, "side": string(side), "mode": string(mode)}
	if err := c.send(ctx, resty.MethodPost, "/trade/select", body, &snap); err != nil {
		return nil, fmt.Errorf("failed to select trade: %w", err)
	}
	return &snap, nil
}

// SetTradeInput records the raw amount of the draft.
func (c *Client) SetTradeInput(ctx context.Context, input string) (*trade.Snapshot, error) {
	var snap trade.Snapshot
	if err := c.send(ctx, resty.MethodPost, "/trade/input", map[string]string{"input": input}, &snap); err != nil {
		return nil, fmt.Errorf("failed to set trade input: %w", err)
	}
	return &snap, nil
}

// InitiateTrade validates the draft and starts the countdown.
func (c *Client) InitiateTrade(ctx context.Context) (*trade.Draft, error) {
	var d trade.Draft
	if err := c.send(ctx, resty.MethodPost, "/trade/initiate", nil, &d); err != nil {
		return nil, fmt.Errorf("failed to initiate trade: %w", err)
	}
	return &d, nil
}

// ConfirmTrade executes the pending draft.
func (c *Client) ConfirmTrade(ctx context.Context) (*models.Transaction, error) {
	var tx models.Transaction
	if err := c.send(ctx, resty.MethodPost, "/trade/confirm", nil, &tx); err != nil {
		return nil, fmt.Errorf("failed to confirm trade: %w", err)
	}
	c.logger.Info("Trade executed", zap.String("tx", tx.UID))
	return &tx, nil
}

// CancelTrade abandons the pending draft.
func (c *Client) CancelTrade(ctx context.Context) error {
	if err := c.send(ctx, resty.MethodPost, "/trade/cancel", nil, nil); err != nil {
		return fmt.Errorf("failed to cancel trade: %w", err)
	}
	return nil
}

// Positions fetches the held staking positions.
func (c *Client) Positions(ctx context.Context) ([]staking.PositionView, error) {
	var positions []staking.PositionView
	if err := c.get(ctx, "/staking/positions", nil, &positions); err != nil {
		return nil, fmt.Errorf("failed to get staking positions: %w", err)
	}
	return positions, nil
}

// Stake opens a position.
func (c *Client) Stake(ctx context.Context, currency string, amount decimal.Decimal, optionID string) (*models.StakingPosition, error) {
	var pos models.StakingPosition
	body := map[string]any{"currency": currency, "amount": amount, "option_id": optionID}
	if err := c.send(ctx, resty.MethodPost, "/staking/positions", body, &pos); err != nil {
		return nil, fmt.Errorf("failed to stake: %w", err)
	}
	return &pos, nil
}

// Unstake releases a position.
func (c *Client) Unstake(ctx context.Context, id string) (*models.StakingPosition, error) {
	var pos models.StakingPosition
	if err := c.send(ctx, resty.MethodDelete, "/staking/positions/"+url.PathEscape(id), nil, &pos); err != nil {
		return nil, fmt.Errorf("failed to unstake %s: %w", id, err)
	}
	return &pos, nil
}

// StakingSummary fetches the aggregate staking view.
func (c *Client) StakingSummary(ctx context.Context) (*staking.Summary, error) {
	var s staking.Summary
	if err := c.get(ctx, "/staking/summary", nil, &s); err != nil {
		return nil, fmt.Errorf("failed to get staking summary: %w", err)
	}
	return &s, nil
}

// Settlement fetches the settlement account view.
func (c *Client) Settlement(ctx context.Context) (*settlement.Snapshot, error) {
	var snap settlement.Snapshot
	if err := c.get(ctx, "/settlement", nil, &snap); err != nil {
		return nil, fmt.Errorf("failed to get settlement account: %w", err)
	}
	return &snap, nil
}

// Login signs in with any credentials.
func (c *Client) Login(ctx context.Context, email, password string) error {
	if err := c.send(ctx, resty.MethodPost, "/session", map[string]string{"email": email, "password": password}, nil); err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}
	return nil
}

// Logout signs out.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.send(ctx, resty.MethodDelete, "/session", nil, nil); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// Notice fetches the visible notice. ok is false when there is none.
func (c *Client) Notice(ctx context.Context) (n notify.Notice, ok bool, err error) {
	req := c.client.R().SetResult(&n)
	resp, err := c.doRequest(ctx, resty.MethodGet, "/notice", req)
	if err != nil {
		return notify.Notice{}, false, fmt.Errorf("failed to get notice: %w", err)
	}
	return n, resp.StatusCode() == http.StatusOK, nil
}
