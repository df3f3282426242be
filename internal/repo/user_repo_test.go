package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mesto-app/go-backend/internal/domain"
)

func newRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func ptr(s string) *string { return &s }

func seedUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u, err := CreateUser(context.Background(), db, &domain.User{
		Email:        email,
		PasswordHash: "$2a$04$notarealhashbutlongenough",
		Name:         "Marie",
		About:        "Oceanographer",
		Avatar:       "https://example.com/a.png",
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func TestCreateUser_SetsIDAndTimestamp(t *testing.T) {
	db := newRepoDB(t, &domain.User{})

	start := time.Now().UTC().Add(-time.Minute)
	u := seedUser(t, db, "marie@example.com")
	if u.ID == "" {
		t.Fatalf("expected generated ID, got empty")
	}
	if u.CreatedAt.Before(start) {
		t.Fatalf("CreatedAt seems unset/really old: %v", u.CreatedAt)
	}

	var got domain.User
	if err := db.First(&got, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("load created user: %v", err)
	}
	if got.Email != "marie@example.com" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestCreateUser_DuplicateEmailFails(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	seedUser(t, db, "marie@example.com")

	_, err := CreateUser(context.Background(), db, &domain.User{
		Email:        "marie@example.com",
		PasswordHash: "x",
	})
	if err == nil {
		t.Fatalf("expected unique violation for duplicate email")
	}
}

func TestGetUser_HidesPasswordHash(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	u := seedUser(t, db, "marie@example.com")

	got, err := GetUser(context.Background(), db, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.PasswordHash != "" {
		t.Fatalf("GetUser leaked password hash: %q", got.PasswordHash)
	}
	if got.Email != u.Email || got.Name != "Marie" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	_, err := GetUser(context.Background(), db, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetUserByEmail_IncludesHashForLogin(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	seedUser(t, db, "marie@example.com")

	got, err := GetUserByEmail(context.Background(), db, "marie@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.PasswordHash == "" {
		t.Fatalf("login lookup must include the password hash")
	}
}

func TestListUsers_NewestFirstWithoutHashes(t *testing.T) {
	db := newRepoDB(t, &domain.User{})

	old := seedUser(t, db, "old@example.com")
	if err := db.Model(&domain.User{}).Where("id = ?", old.ID).
		Update("created_at", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}
	seedUser(t, db, "new@example.com")

	users, err := ListUsers(context.Background(), db)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Email != "new@example.com" || users[1].Email != "old@example.com" {
		t.Fatalf("wrong order: %q, %q", users[0].Email, users[1].Email)
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("ListUsers leaked password hash for %s", u.Email)
		}
	}
}

func TestUpdateProfile_PersistsAndReloads(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	u := seedUser(t, db, "marie@example.com")

	got, err := UpdateProfile(context.Background(), db, u.ID, ptr("Sylvia"), ptr("Diver"))
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Name != "Sylvia" || got.About != "Diver" {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.Avatar != u.Avatar {
		t.Fatalf("avatar must be untouched by profile update")
	}
}

func TestUpdateProfile_PartialColumns(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	u := seedUser(t, db, "marie@example.com")

	got, err := UpdateProfile(context.Background(), db, u.ID, ptr("Sylvia"), nil)
	if err != nil {
		t.Fatalf("name-only update: %v", err)
	}
	if got.Name != "Sylvia" || got.About != u.About {
		t.Fatalf("only the name column should change: %+v", got)
	}

	got, err = UpdateProfile(context.Background(), db, u.ID, nil, ptr("Diver"))
	if err != nil {
		t.Fatalf("about-only update: %v", err)
	}
	if got.Name != "Sylvia" || got.About != "Diver" {
		t.Fatalf("only the about column should change: %+v", got)
	}
}

func TestUpdateProfile_MissingUser(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	_, err := UpdateProfile(context.Background(), db, "missing", ptr("a"), ptr("b"))
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	_, err = UpdateProfile(context.Background(), db, "missing", nil, nil)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("no-op reload of a missing user must still be not-found, got %v", err)
	}
}

func TestUpdateAvatar_PersistsAndReloads(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	u := seedUser(t, db, "marie@example.com")

	got, err := UpdateAvatar(context.Background(), db, u.ID, "https://example.com/new.png")
	if err != nil {
		t.Fatalf("UpdateAvatar: %v", err)
	}
	if got.Avatar != "https://example.com/new.png" {
		t.Fatalf("avatar not applied: %+v", got)
	}
	if got.Name != u.Name || got.About != u.About {
		t.Fatalf("profile fields must be untouched by avatar update")
	}
}

func TestUpdateAvatar_MissingUser(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	_, err := UpdateAvatar(context.Background(), db, "missing", "https://example.com/x.png")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
