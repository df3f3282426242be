// Package services – AuthService
//
// This file implements registration, login, and bearer-token handling.
// Passwords are hashed with bcrypt before they reach the repository and the
// hash never travels back out: Register returns the persisted user with the
// hash cleared, and every other read path selects around the column.
//
// Tokens are stateless HS256 JWTs carrying the user ID in the "sub" claim
// with a fixed expiry (7 days by default, injected from config). Validity is
// purely a function of signature and expiry; nothing is stored server-side.
//
// Service-level errors (ErrEmailTaken, ErrBadCredentials, ErrInvalidToken)
// are returned for predictable cases so handlers can map them to HTTP
// results consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mesto-app/go-backend/internal/domain"
	"github.com/mesto-app/go-backend/internal/repo"
)

// tokenIssuer is embedded in every token and checked during verification so
// that tokens minted by unrelated services are rejected even if they happen
// to share a secret.
const tokenIssuer = "go-mesto-backend"

// defaultBcryptCost is the work factor used for new password hashes when the
// service is constructed without an override. Tests inject bcrypt.MinCost to
// avoid the per-hash latency.
const defaultBcryptCost = 12

// AuthService implements registration, credential verification, and token
// issue/verify. It is safe for concurrent use.
type AuthService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Secret signs and verifies tokens. Supplied from config; never defaulted.
	Secret []byte
	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration
	// BcryptCost overrides the hashing work factor when > 0.
	BcryptCost int
}

// NewAuthService constructs an AuthService with the default bcrypt cost and
// a 7-day token lifetime unless ttl overrides it.
func NewAuthService(db *gorm.DB, secret []byte, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AuthService{
		DB:         db,
		Secret:     secret,
		TokenTTL:   ttl,
		BcryptCost: defaultBcryptCost,
	}
}

// tokenClaims is the JWT payload. The user ID lives in the registered "sub"
// claim.
type tokenClaims struct {
	jwt.RegisteredClaims
}

// Register hashes the password, applies profile defaults for omitted fields,
// and persists the new user. The returned record has the password hash
// cleared.
//
// Errors:
//   - ErrEmailTaken when the email is already registered.
//   - The underlying DB error for unexpected failures.
func (s *AuthService) Register(ctx context.Context, email, password, name, about, avatar string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Name:         defaultIfBlank(name, domain.DefaultName),
		About:        defaultIfBlank(about, domain.DefaultAbout),
		Avatar:       defaultIfBlank(avatar, domain.DefaultAvatar),
	}

	created, err := repo.CreateUser(ctx, s.DB, u)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// The hash is write-only; never hand it back, even internally.
	created.PasswordHash = ""
	return created, nil
}

// Login verifies the credentials and issues a signed token. An unknown email
// and a wrong password both return ErrBadCredentials with no distinction.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := repo.GetUserByEmail(ctx, s.DB, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrBadCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrBadCredentials
	}
	return s.IssueToken(u.ID)
}

// IssueToken signs a token for userID with the configured lifetime.
func (s *AuthService) IssueToken(userID string) (string, error) {
	return s.IssueTokenWithTTL(userID, s.TokenTTL)
}

// IssueTokenWithTTL signs a token for userID with an explicit lifetime.
// Exists so tests can mint already-expired tokens.
func (s *AuthService) IssueTokenWithTTL(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    tokenIssuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.Secret)
}

// VerifyToken parses and verifies a bearer token and returns the embedded
// user ID. Any verification failure (bad signature, expiry, wrong issuer,
// wrong algorithm, missing subject) collapses to ErrInvalidToken: callers do
// not need, and clients must not receive, the distinction.
func (s *AuthService) VerifyToken(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&tokenClaims{},
		func(t *jwt.Token) (any, error) {
			// Reject tokens that aren't signed with HMAC; prevents the
			// "alg confusion" downgrade.
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return s.Secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", ErrInvalidToken
	}
	c, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || c.Subject == "" {
		return "", ErrInvalidToken
	}
	return c.Subject, nil
}

// cost returns the configured bcrypt work factor, falling back to the
// default.
func (s *AuthService) cost() int {
	if s.BcryptCost > 0 {
		return s.BcryptCost
	}
	return defaultBcryptCost
}

// defaultIfBlank substitutes def when v is empty after trimming.
func defaultIfBlank(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
