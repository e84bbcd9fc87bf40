package database

import (
	"errors"

	"real-estate-marketplace/internal/apperr"
	"real-estate-marketplace/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpsertUser records a user on first authenticated interaction. Keyed by
// name+email; an existing record is returned unchanged, so repeated
// first-login calls are idempotent and never touch the role.
func (s *Store) UpsertUser(name, email string) (*models.User, error) {
	var existing models.User
	err := s.db.Where("name = ? AND email = ?", name, email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to look up user", err)
	}

	user := models.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Role:  models.RoleNone,
	}
	if err := s.db.Create(&user).Error; err != nil {
		// The email is already recorded, either by a concurrent first
		// login or under a different name. That record wins.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.UserByEmail(email)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to save user", err)
	}
	return &user, nil
}

// UserByEmail retrieves a user by email (the natural key)
func (s *Store) UserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.E(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to look up user", err)
	}
	return &user, nil
}

// UserByID retrieves a user by its opaque id
func (s *Store) UserByID(id string) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.E(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to look up user", err)
	}
	return &user, nil
}

// ListUsers retrieves all users, newest first
func (s *Store) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list users", err)
	}
	return users, nil
}

// SetUserRole mutates a user's role in place
func (s *Store) SetUserRole(id string, role models.Role) error {
	result := s.db.Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update user role", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.E(apperr.KindNotFound, "user not found")
	}
	return nil
}

// SetUserRoleByEmail mutates a user's role addressed by email. Used by the
// fraud cascade and its reconciler re-application; updating an absent
// record affects zero rows and is not an error there.
func (s *Store) SetUserRoleByEmail(email string, role models.Role) error {
	err := s.db.Model(&models.User{}).Where("email = ?", email).Update("role", role).Error
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update user role", err)
	}
	return nil
}

// UsersByRole retrieves all users holding the given role
func (s *Store) UsersByRole(role models.Role) ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("role = ?", role).Find(&users).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list users", err)
	}
	return users, nil
}

// DeleteUser hard-deletes a user record. Independent of lifecycle
// cascades; listings are untouched.
func (s *Store) DeleteUser(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.E(apperr.KindNotFound, "user not found")
	}
	return nil
}
