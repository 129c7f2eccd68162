package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"qcrypto-wallet/internal/ledger"
)

// TransactionsHandler returns the history, newest first, narrowed by the
// date_range, currency, type, min_value and max_value query parameters.
func (h *Handler) TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria, err := ledger.ParseCriteria(q.Get("date_range"), q.Get("currency"), q.Get("type"), q.Get("min_value"), q.Get("max_value"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	txs, err := h.app.Ledger.Query(r.Context(), criteria)
	if err != nil {
		h.log.Error("Failed to get transactions", zap.Error(err))
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, txs)
}

// TransactionHandler returns one transaction by id.
func (h *Handler) TransactionHandler(w http.ResponseWriter, r *http.Request) {
	tx, err := h.app.Ledger.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, tx)
}

// StatisticsHandler returns ledger statistics for the last 24 hours and
// for all time.
func (h *Handler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.app.Ledger.Stats(r.Context())
	if err != nil {
		h.log.Error("Failed to calculate statistics", zap.Error(err))
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, stats)
}
