package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"qcrypto-wallet/internal/admin"
	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/util"
)

// AddClientRequest is the body of POST /api/admin/clients.
type AddClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// InviteRequest is the body of POST /api/admin/users.
type InviteRequest struct {
	Email string `json:"email"`
}

// UserView is a user with its rendered roles.
type UserView struct {
	models.User
	RoleSummary   string `json:"role_summary"`
	CompanyAccess string `json:"company_access"`
}

// ClientsHandler lists the client companies.
func (h *Handler) ClientsHandler(w http.ResponseWriter, r *http.Request) {
	clients, err := h.app.Admin.Clients(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, clients)
}

// AddClientHandler registers a client company.
func (h *Handler) AddClientHandler(w http.ResponseWriter, r *http.Request) {
	var req AddClientRequest
	if !h.decode(w, r, &req) {
		return
	}
	c, err := h.app.Admin.AddClient(r.Context(), req.Name, req.Email)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, c)
}

// UsersHandler lists the users with their rendered roles.
func (h *Handler) UsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users, err := h.app.Admin.Users(ctx)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	clients, err := h.app.Admin.Clients(ctx)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, UserView{
			User:          u,
			RoleSummary:   admin.DescribeRoles(u, clients),
			CompanyAccess: admin.CompanyAccess(u, clients),
		})
	}
	h.respondWithJSON(w, http.StatusOK, views)
}

// InviteUserHandler invites a user by email.
func (h *Handler) InviteUserHandler(w http.ResponseWriter, r *http.Request) {
	var req InviteRequest
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.app.Admin.InviteUser(r.Context(), req.Email)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, u)
}

// UpdateRolesHandler replaces the roles of a user.
// PUT /api/admin/users/{id}/roles
func (h *Handler) UpdateRolesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	var req admin.RoleUpdate
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.app.Admin.UpdateRoles(r.Context(), uint(id), req)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, u)
}
