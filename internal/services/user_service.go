// Package services – UserService
//
// This file implements profile reads and self-service profile updates. All
// mutation paths operate on the requester's own record; there is no admin
// override. Input strings are normalized (trimmed, inner whitespace
// collapsed) before persistence.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/mesto-app/go-backend/internal/domain"
	"github.com/mesto-app/go-backend/internal/repo"
)

// UserService provides read and self-update operations over user profiles.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// List returns all registered users, most recent first. Password hashes are
// never loaded.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return repo.ListUsers(ctx, s.DB)
}

// Get returns a single user by ID, or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile sets the requester's name and/or about fields and returns
// the updated record. A nil argument means the caller omitted that field and
// its stored value is kept. A vanished requester row maps to ErrUserNotFound.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, name, about *string) (*domain.User, error) {
	if name != nil {
		n := normalize(*name)
		name = &n
	}
	if about != nil {
		a := normalize(*about)
		about = &a
	}
	u, err := repo.UpdateProfile(ctx, s.DB, userID, name, about)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateAvatar sets the requester's avatar URL and returns the updated
// record. A vanished requester row maps to ErrUserNotFound.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, avatar string) (*domain.User, error) {
	u, err := repo.UpdateAvatar(ctx, s.DB, userID, strings.TrimSpace(avatar))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// normalize trims whitespace and collapses runs of it to a single space.
func normalize(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
