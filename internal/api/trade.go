package api

import (
	"net/http"
	"strings"

	"qcrypto-wallet/internal/trade"
)

// SelectTradeRequest starts a draft.
type SelectTradeRequest struct {
	Asset string          `json:"asset"`
	Side  trade.Side      `json:"side"`
	Mode  trade.InputMode `json:"mode"`
}

// TradeInputRequest carries the raw amount typed by the user.
type TradeInputRequest struct {
	Input string `json:"input"`
}

// TradeStateHandler returns the simulator snapshot.
func (h *Handler) TradeStateHandler(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, h.app.Trades.Snapshot())
}

// SelectTradeHandler picks the asset, side and input mode of a new draft.
func (h *Handler) SelectTradeHandler(w http.ResponseWriter, r *http.Request) {
	var req SelectTradeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Mode == "" {
		req.Mode = trade.InputFiat
	}
	if err := h.app.Trades.Select(strings.ToUpper(req.Asset), req.Side, req.Mode); err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, h.app.Trades.Snapshot())
}

// TradeInputHandler records the raw amount. The estimate in the returned
// snapshot is refreshed once the debounce window has passed.
func (h *Handler) TradeInputHandler(w http.ResponseWriter, r *http.Request) {
	var req TradeInputRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.app.Trades.SetInput(req.Input); err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, h.app.Trades.Snapshot())
}

// ToggleInputHandler switches between fiat and crypto input.
func (h *Handler) ToggleInputHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := h.app.Trades.ToggleInputMode(); err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, h.app.Trades.Snapshot())
}

// InitiateTradeHandler validates the draft and starts the countdown.
func (h *Handler) InitiateTradeHandler(w http.ResponseWriter, r *http.Request) {
	draft, err := h.app.Trades.InitiateTrade(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, draft)
}

// ConfirmTradeHandler records the pending draft as a transaction.
func (h *Handler) ConfirmTradeHandler(w http.ResponseWriter, r *http.Request) {
	tx, err := h.app.Trades.ConfirmTrade(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, tx)
}

// CancelTradeHandler abandons the pending draft.
func (h *Handler) CancelTradeHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Trades.CancelTrade(); err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, h.app.Trades.Snapshot())
}
