package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"qcrypto-wallet/internal/app"
	"qcrypto-wallet/internal/notify"
	"qcrypto-wallet/internal/util"
)

// Handler holds dependencies for the API endpoints.
type Handler struct {
	log *zap.Logger
	app *app.App
}

// NewHandler creates a new Handler.
func NewHandler(log *zap.Logger, a *app.App) *Handler {
	return &Handler{log: log.Named("api"), app: a}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error    string          `json:"error"`
	Severity notify.Severity `json:"severity"`
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("Failed to marshal JSON response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// statusFor maps a domain error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, util.ErrNotFound), errors.Is(err, util.ErrUnknownCurrency):
		return http.StatusNotFound
	case errors.Is(err, util.ErrInvalidInput), errors.Is(err, util.ErrInvalidAmount), errors.Is(err, util.ErrInvalidPrice):
		return http.StatusBadRequest
	case errors.Is(err, util.ErrInsufficientBalance), errors.Is(err, util.ErrLimitExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, util.ErrLockNotExpired), errors.Is(err, util.ErrNoActiveDraft), errors.Is(err, util.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, util.ErrClipboardUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondWithError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		h.log.Error("Unhandled service error", zap.Error(err))
		message = "Internal server error"
	}
	h.respondWithJSON(w, code, ErrorResponse{Error: message, Severity: notify.SeverityFor(err)})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed request body", Severity: notify.SeverityError})
		return false
	}
	return true
}

// intQuery reads a positive integer query parameter, falling back to def.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s %q: %w", name, raw, util.ErrInvalidInput)
	}
	return v, nil
}
