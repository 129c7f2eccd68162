package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RoleType names a user role.
type RoleType string

const (
	RoleTrader       RoleType = "Trader"
	RoleMiddleOffice RoleType = "Middle Office"
	RoleAdmin        RoleType = "Admin"
)

// Client is a B2B client company.
type Client struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	ContactEmail string `gorm:"not null" json:"contact_email"`
	Status       string `json:"status"`
}

// User is a platform user with one or more roles.
type User struct {
	gorm.Model
	Name   string `json:"name"`
	Email  string `gorm:"uniqueIndex;not null" json:"email"`
	Status string `json:"status"`
	Roles  []Role `gorm:"foreignKey:UserID" json:"roles"`
}

// Role grants a user access. Companies and DailyLimit apply to Trader and
// Middle Office roles, Privileges to Admin.
type Role struct {
	gorm.Model
	UserID     uint            `gorm:"index" json:"-"`
	Type       RoleType        `json:"type"`
	Companies  []uint          `gorm:"serializer:json" json:"companies,omitempty"`
	DailyLimit decimal.Decimal `json:"daily_limit"`
	Privileges []string        `gorm:"serializer:json" json:"privileges,omitempty"`
}
