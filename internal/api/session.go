package api

import (
	"net/http"

	"qcrypto-wallet/internal/notify"
	"qcrypto-wallet/internal/session"
)

// LoginRequest is the body of POST /api/session.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse describes who is signed in and what they may see.
type SessionResponse struct {
	SignedIn bool             `json:"signed_in"`
	User     *session.User    `json:"user,omitempty"`
	Features session.Features `json:"features"`
}

func sessionResponse(u session.User, ok bool) SessionResponse {
	if !ok {
		return SessionResponse{}
	}
	return SessionResponse{SignedIn: true, User: &u, Features: session.FeaturesFor(u.Role)}
}

// CurrentUserHandler returns the signed-in user, if any.
func (h *Handler) CurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	u, ok, err := h.app.Session.Current(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, sessionResponse(u, ok))
}

// LoginHandler signs in. Any credentials are accepted.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.app.Session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, sessionResponse(u, true))
}

// LogoutHandler signs out.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Session.Logout(r.Context()); err != nil {
		h.respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireAdmin rejects requests unless the signed-in role sees the admin panel.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok, err := h.app.Session.Current(r.Context())
		if err != nil {
			h.respondWithError(w, err)
			return
		}
		if !ok {
			h.respondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "not signed in", Severity: notify.SeverityWarning})
			return
		}
		if !session.FeaturesFor(u.Role).AdminPanel {
			h.respondWithJSON(w, http.StatusForbidden, ErrorResponse{Error: "admin panel not available for role " + u.Role, Severity: notify.SeverityWarning})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NoticeHandler returns the visible notice, or 204 when there is none.
func (h *Handler) NoticeHandler(w http.ResponseWriter, r *http.Request) {
	n, ok := h.app.Notices.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.respondWithJSON(w, http.StatusOK, n)
}

// DismissNoticeHandler hides the visible notice.
func (h *Handler) DismissNoticeHandler(w http.ResponseWriter, r *http.Request) {
	h.app.Notices.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

// SettlementHandler returns the settlement account view.
func (h *Handler) SettlementHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := h.app.Settlement.Snapshot(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, snap)
}
