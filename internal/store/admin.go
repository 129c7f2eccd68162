package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"qcrypto-wallet/internal/models"
)

// Clients returns all client companies in creation order.
func (s *Store) Clients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := s.conn(ctx).Order("id asc").Find(&clients).Error; err != nil {
		return nil, errors.Wrap(err, "load clients")
	}
	return clients, nil
}

// CreateClient persists a client company.
func (s *Store) CreateClient(ctx context.Context, c *models.Client) error {
	if err := s.conn(ctx).Create(c).Error; err != nil {
		return errors.Wrap(err, "create client")
	}
	return nil
}

// Users returns all users with their roles.
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.conn(ctx).Preload("Roles").Order("id asc").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "load users")
	}
	return users, nil
}

// User returns a user with roles.
func (s *Store) User(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Preload("Roles").First(&user, id).Error; err != nil {
		return nil, notFound(err, "load user")
	}
	return &user, nil
}

// CreateUser persists a user together with its roles.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.conn(ctx).Create(u).Error; err != nil {
		return errors.Wrap(err, "create user "+u.Email)
	}
	return nil
}

// ReplaceRoles swaps the roles of a user atomically.
func (s *Store) ReplaceRoles(ctx context.Context, userID uint, roles []models.Role) (*models.User, error) {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return notFound(err, "load user")
		}
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Role{}).Error; err != nil {
			return errors.Wrap(err, "clear roles")
		}
		for i := range roles {
			roles[i].ID = 0
			roles[i].UserID = userID
		}
		if len(roles) > 0 {
			if err := tx.Create(&roles).Error; err != nil {
				return errors.Wrap(err, "create roles")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.User(ctx, userID)
}
