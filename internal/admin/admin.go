// Package admin manages client companies and platform users.
package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"qcrypto-wallet/internal/format"
	"qcrypto-wallet/internal/models"
	"qcrypto-wallet/internal/notify"
	"qcrypto-wallet/internal/store"
	"qcrypto-wallet/internal/util"
)

// Privileges an admin role can hold.
var Privileges = []string{"Add Users", "Manage Profits", "Manage Settlements", "Manage Other Admins"}

// RoleUpdate is the edited role set of a user. A role is granted only when
// its list is non-empty.
type RoleUpdate struct {
	TraderCompanies       []uint          `json:"trader_companies"`
	DailyLimit            decimal.Decimal `json:"daily_limit"`
	MiddleOfficeCompanies []uint          `json:"middle_office_companies"`
	AdminPrivileges       []string        `json:"admin_privileges"`
}

// Roles expands the update into role records.
func (u RoleUpdate) Roles() []models.Role {
	var roles []models.Role
	if len(u.TraderCompanies) > 0 {
		roles = append(roles, models.Role{Type: models.RoleTrader, Companies: u.TraderCompanies, DailyLimit: u.DailyLimit})
	}
	if len(u.MiddleOfficeCompanies) > 0 {
		roles = append(roles, models.Role{Type: models.RoleMiddleOffice, Companies: u.MiddleOfficeCompanies})
	}
	if len(u.AdminPrivileges) > 0 {
		roles = append(roles, models.Role{Type: models.RoleAdmin, Privileges: u.AdminPrivileges})
	}
	return roles
}

// Directory is the admin view over clients and users.
type Directory struct {
	logger  *zap.Logger
	store   *store.Store
	notices notify.Notifier
}

// NewDirectory creates a Directory. notices may be nil.
func NewDirectory(logger *zap.Logger, st *store.Store, notices notify.Notifier) *Directory {
	return &Directory{logger: logger.Named("admin"), store: st, notices: notices}
}

// Clients lists the client companies.
func (d *Directory) Clients(ctx context.Context) ([]models.Client, error) {
	return d.store.Clients(ctx)
}

// Users lists the platform users with their roles.
func (d *Directory) Users(ctx context.Context) ([]models.User, error) {
	return d.store.Users(ctx)
}

// AddClient registers an active client company.
func (d *Directory) AddClient(ctx context.Context, name, email string) (*models.Client, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		d.push(notify.SeverityError, "Please fill in all fields")
		return nil, fmt.Errorf("client name and email are required: %w", util.ErrInvalidInput)
	}
	c := &models.Client{Name: name, ContactEmail: email, Status: "Active"}
	if err := d.store.CreateClient(ctx, c); err != nil {
		d.logger.Error("Failed to add client", zap.Error(err))
		return nil, err
	}
	d.logger.Info("Client added", zap.Uint("id", c.ID), zap.String("name", name))
	d.push(notify.SeveritySuccess, fmt.Sprintf("Client %q added successfully", name))
	return c, nil
}

// InviteUser records an invited user without roles.
func (d *Directory) InviteUser(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		d.push(notify.SeverityError, "Please enter an email address")
		return nil, fmt.Errorf("invite email is required: %w", util.ErrInvalidInput)
	}
	users, err := d.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			d.push(notify.SeverityWarning, fmt.Sprintf("%s is already registered", email))
			return nil, fmt.Errorf("invite %s: %w", email, util.ErrDuplicateEntry)
		}
	}

	u := &models.User{Name: email, Email: email, Status: "Invited"}
	if at := strings.IndexByte(email, '@'); at > 0 {
		u.Name = email[:at]
	}
	if err := d.store.CreateUser(ctx, u); err != nil {
		d.logger.Error("Failed to invite user", zap.Error(err))
		return nil, err
	}
	d.logger.Info("User invited", zap.String("email", email))
	d.push(notify.SeveritySuccess, "Invitation sent to "+email)
	return u, nil
}

// UpdateRoles replaces the roles of a user.
func (d *Directory) UpdateRoles(ctx context.Context, userID uint, update RoleUpdate) (*models.User, error) {
	if update.DailyLimit.IsNegative() {
		return nil, fmt.Errorf("daily limit %s: %w", update.DailyLimit, util.ErrInvalidAmount)
	}
	u, err := d.store.ReplaceRoles(ctx, userID, update.Roles())
	if err != nil {
		d.logger.Warn("Failed to update roles", zap.Uint("user", userID), zap.Error(err))
		return nil, err
	}
	d.logger.Info("Roles updated", zap.Uint("user", userID), zap.Int("roles", len(u.Roles)))
	d.push(notify.SeveritySuccess, "User updated successfully")
	return u, nil
}

func (d *Directory) push(sev notify.Severity, msg string) {
	if d.notices != nil {
		d.notices.Push(sev, msg)
	}
}

func companyNames(ids []uint, clients []models.Client) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		for _, c := range clients {
			if c.ID == id {
				names = append(names, c.Name)
				break
			}
		}
	}
	return strings.Join(names, ", ")
}

// DescribeRoles renders the roles of u for display.
func DescribeRoles(u models.User, clients []models.Client) string {
	if len(u.Roles) == 0 {
		return "No roles assigned"
	}
	parts := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		switch r.Type {
		case models.RoleTrader:
			parts = append(parts, fmt.Sprintf("Trader (%s: %s)", companyNames(r.Companies, clients), format.Currency(r.DailyLimit, "EUR")))
		case models.RoleMiddleOffice:
			parts = append(parts, fmt.Sprintf("Middle Office (%s)", companyNames(r.Companies, clients)))
		case models.RoleAdmin:
			privileges := strings.Join(r.Privileges, ", ")
			if privileges == "" {
				privileges = "All privileges"
			}
			parts = append(parts, fmt.Sprintf("Admin (%s)", privileges))
		default:
			parts = append(parts, string(r.Type))
		}
	}
	return strings.Join(parts, " | ")
}

// CompanyAccess lists the companies any role of u covers. Users whose
// roles name no company see all of them.
func CompanyAccess(u models.User, clients []models.Client) string {
	seen := make(map[uint]bool)
	var ids []uint
	for _, r := range u.Roles {
		for _, id := range r.Companies {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return "All companies"
	}
	return companyNames(ids, clients)
}
