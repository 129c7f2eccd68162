package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// PortfolioHandler returns the portfolio total, its 30-day change and the
// value history. GET /api/portfolio?days=30
func (h *Handler) PortfolioHandler(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days", h.app.Config.Market.HistoryDays)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	p, err := h.app.Wallets.Portfolio(r.Context(), days)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, p)
}

// PricesHandler returns every price record.
func (h *Handler) PricesHandler(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, h.app.Prices.All())
}

// PriceHandler returns one price record, with its history cut to days.
// GET /api/prices/{currency}?days=7
func (h *Handler) PriceHandler(w http.ResponseWriter, r *http.Request) {
	currency := strings.ToUpper(chi.URLParam(r, "currency"))
	days, err := intQuery(r, "days", 0)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	record, err := h.app.Prices.Get(currency)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	if record.PriceHistory, err = h.app.Prices.History(currency, days); err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, record)
}

// WalletsHandler returns every wallet with its addresses.
func (h *Handler) WalletsHandler(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.app.Wallets.List(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, wallets)
}

// WalletHandler returns one wallet.
func (h *Handler) WalletHandler(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.app.Wallets.Get(r.Context(), strings.ToUpper(chi.URLParam(r, "currency")))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, wallet)
}

// GenerateAddressHandler adds a fresh address to a wallet.
// POST /api/wallets/{currency}/addresses
func (h *Handler) GenerateAddressHandler(w http.ResponseWriter, r *http.Request) {
	addr, err := h.app.Wallets.GenerateAddress(r.Context(), strings.ToUpper(chi.URLParam(r, "currency")))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, addr)
}

// AvailableCurrenciesHandler lists currencies that can still be added.
func (h *Handler) AvailableCurrenciesHandler(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.app.Wallets.AvailableCurrencies(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, currencies)
}

// AddCurrencyRequest is the body of POST /api/wallets.
type AddCurrencyRequest struct {
	Currency string `json:"currency"`
}

// AddCurrencyHandler opens an empty wallet for a new currency.
func (h *Handler) AddCurrencyHandler(w http.ResponseWriter, r *http.Request) {
	var req AddCurrencyRequest
	if !h.decode(w, r, &req) {
		return
	}
	wallet, err := h.app.Wallets.AddCurrency(r.Context(), strings.ToUpper(req.Currency))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, wallet)
}
