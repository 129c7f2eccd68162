package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// StakeRequest is the body of POST /api/staking/positions. An empty
// option id picks the first option of the currency.
type StakeRequest struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	OptionID string          `json:"option_id"`
}

// StakingOptionsHandler lists the catalog. GET /api/staking/options?currency=ETH
func (h *Handler) StakingOptionsHandler(w http.ResponseWriter, r *http.Request) {
	currency := strings.ToUpper(r.URL.Query().Get("currency"))
	h.respondWithJSON(w, http.StatusOK, h.app.Staking.Options(currency))
}

// PositionsHandler lists the held positions.
func (h *Handler) PositionsHandler(w http.ResponseWriter, r *http.Request) {
	positions, err := h.app.Staking.Positions(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, positions)
}

// StakeHandler opens a position.
func (h *Handler) StakeHandler(w http.ResponseWriter, r *http.Request) {
	var req StakeRequest
	if !h.decode(w, r, &req) {
		return
	}
	pos, err := h.app.Staking.Stake(r.Context(), strings.ToUpper(req.Currency), req.Amount, req.OptionID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, pos)
}

// UnstakeHandler releases a position whose lock has expired.
func (h *Handler) UnstakeHandler(w http.ResponseWriter, r *http.Request) {
	pos, err := h.app.Staking.Unstake(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, pos)
}

// StakingSummaryHandler aggregates every position.
func (h *Handler) StakingSummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := h.app.Staking.Summary(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, summary)
}

// EarningsHandler returns cumulative daily earnings. GET /api/staking/earnings?days=30
func (h *Handler) EarningsHandler(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days", h.app.Config.Staking.EarningsWindowDays)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	points, err := h.app.Staking.EarningsHistory(r.Context(), days)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, points)
}

// BalanceBreakdownHandler splits a wallet into staked and free balance.
func (h *Handler) BalanceBreakdownHandler(w http.ResponseWriter, r *http.Request) {
	b, err := h.app.Staking.BalanceBreakdown(r.Context(), strings.ToUpper(chi.URLParam(r, "currency")))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, b)
}
