// Package api exposes the engines as a JSON HTTP interface.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// NewRouter mounts every endpoint under /api.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(DefaultTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/portfolio", h.PortfolioHandler)
		r.Get("/prices", h.PricesHandler)
		r.Get("/prices/{currency}", h.PriceHandler)

		r.Route("/wallets", func(r chi.Router) {
			r.Get("/", h.WalletsHandler)
			r.Post("/", h.AddCurrencyHandler)
			r.Get("/available", h.AvailableCurrenciesHandler)
			r.Get("/{currency}", h.WalletHandler)
			r.Post("/{currency}/addresses", h.GenerateAddressHandler)
		})

		r.Get("/transactions", h.TransactionsHandler)
		r.Get("/transactions/{id}", h.TransactionHandler)
		r.Get("/statistics", h.StatisticsHandler)

		r.Route("/trade", func(r chi.Router) {
			r.Get("/", h.TradeStateHandler)
			r.Post("/select", h.SelectTradeHandler)
			r.Post("/input", h.TradeInputHandler)
			r.Post("/toggle", h.ToggleInputHandler)
			r.Post("/initiate", h.InitiateTradeHandler)
			r.Post("/confirm", h.ConfirmTradeHandler)
			r.Post("/cancel", h.CancelTradeHandler)
		})

		r.Route("/staking", func(r chi.Router) {
			r.Get("/options", h.StakingOptionsHandler)
			r.Get("/positions", h.PositionsHandler)
			r.Post("/positions", h.StakeHandler)
			r.Delete("/positions/{id}", h.UnstakeHandler)
			r.Get("/summary", h.StakingSummaryHandler)
			r.Get("/earnings", h.EarningsHandler)
			r.Get("/balances/{currency}", h.BalanceBreakdownHandler)
		})

		r.Get("/settlement", h.SettlementHandler)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.CurrentUserHandler)
			r.Post("/", h.LoginHandler)
			r.Delete("/", h.LogoutHandler)
		})

		r.Get("/notice", h.NoticeHandler)
		r.Delete("/notice", h.DismissNoticeHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Get("/clients", h.ClientsHandler)
			r.Post("/clients", h.AddClientHandler)
			r.Get("/users", h.UsersHandler)
			r.Post("/users", h.InviteUserHandler)
			r.Put("/users/{id}/roles", h.UpdateRolesHandler)
		})
	})

	return r
}

// loggingMiddleware logs HTTP requests.
func (h *Handler) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.log.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
