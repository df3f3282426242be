// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a user is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated. The unique index on email surfaces
//     as a driver-level unique-constraint error on duplicate registration.
//
// The password hash is deliberately excluded from the column list used by
// GetUser and ListUsers; only GetUserByEmail, which serves the login flow,
// reads the full row.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesto-app/go-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// publicUserColumns is the SELECT list for every read path except login.
// password_hash is absent: the hash never leaves the repo unless a caller
// asks for it by name.
var publicUserColumns = []string{
	"id", "email", "name", "about", "avatar", "created_at", "updated_at",
}

// CreateUser inserts a new User row. The ID is a randomly generated UUID
// (string), and CreatedAt is set to UTC. The caller provides an already
// hashed password.
//
// On success, it returns the persisted User. On failure (including the
// unique-email violation), it returns the raw DB error.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) (*domain.User, error) {
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns all users ordered by creation time descending. The
// password hash column is not selected. It returns an empty slice when the
// table is empty.
func ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Select(publicUserColumns).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetUser fetches a single user by ID without the password hash. If the
// record does not exist, it returns ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Select(publicUserColumns).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by email including the password hash.
// This is the only read path that selects password_hash; it exists solely
// for credential verification at login. Returns ErrNotFound when no user
// has the given email.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("email = ?", email).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile updates the name and/or about columns of the user identified
// by id and returns the refreshed record. A nil argument leaves that column
// untouched; with both nil the record is reloaded without an UPDATE. If no
// rows are affected the user does not exist and ErrNotFound is returned.
func UpdateProfile(ctx context.Context, db *gorm.DB, id string, name, about *string) (*domain.User, error) {
	fields := map[string]any{}
	if name != nil {
		fields["name"] = *name
	}
	if about != nil {
		fields["about"] = *about
	}
	if len(fields) == 0 {
		return GetUser(ctx, db, id)
	}
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return GetUser(ctx, db, id)
}

// UpdateAvatar updates the avatar URL of the user identified by id and
// returns the refreshed record. If no rows are affected the user does not
// exist and ErrNotFound is returned.
func UpdateAvatar(ctx context.Context, db *gorm.DB, id, avatar string) (*domain.User, error) {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Update("avatar", avatar)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return GetUser(ctx, db, id)
}
