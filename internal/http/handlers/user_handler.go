// User HTTP handlers.
//
// This file exposes the REST endpoints for user resources:
//   - GET    /users            (list)
//   - GET    /users/me         (current profile)
//   - GET    /users/{id}       (fetch by id)
//   - PATCH  /users/me         (update name/about)
//   - PATCH  /users/me/avatar  (update avatar URL)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. It also defines the
// service contracts and handler wiring shared by the auth and card handler
// files.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mesto-app/go-backend/internal/domain"
)

//
// Service contracts (context-aware)
//

// AuthService defines the registration and login operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AuthService interface {
	// Register creates a new account and returns it without the password hash.
	Register(ctx context.Context, email, password, name, about, avatar string) (*domain.User, error)
	// Login verifies credentials and returns a signed bearer token.
	Login(ctx context.Context, email, password string) (string, error)
}

// UserService defines profile operations consumed by HTTP handlers.
type UserService interface {
	// List returns all registered users.
	List(ctx context.Context) ([]domain.User, error)
	// Get fetches one user by id.
	Get(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile sets the requester's name and/or about fields; a nil
	// argument leaves that field unchanged.
	UpdateProfile(ctx context.Context, userID string, name, about *string) (*domain.User, error)
	// UpdateAvatar sets the requester's avatar URL.
	UpdateAvatar(ctx context.Context, userID, avatar string) (*domain.User, error)
}

// CardService defines card lifecycle and like operations consumed by HTTP
// handlers.
type CardService interface {
	// Create inserts a card owned by ownerID with an empty likes set.
	Create(ctx context.Context, ownerID, name, link string) (*domain.Card, error)
	// List returns all cards with their likes sets.
	List(ctx context.Context) ([]domain.Card, error)
	// Delete removes a card owned by requesterID and returns it.
	Delete(ctx context.Context, requesterID, cardID string) (*domain.Card, error)
	// Like adds userID to the card's likes set (idempotent).
	Like(ctx context.Context, userID, cardID string) (*domain.Card, error)
	// Dislike removes userID from the card's likes set (idempotent).
	Dislike(ctx context.Context, userID, cardID string) (*domain.Card, error)
	// Stats returns the collection counters the list endpoint folds into
	// its ETag. An error disables the conditional-response path for that
	// request; it never fails it.
	Stats(ctx context.Context) (cards, likes int64, latest *time.Time, err error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for auth, users, and cards. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	authSvc AuthService
	userSvc UserService
	cardSvc CardService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(authSvc AuthService, userSvc UserService, cardSvc CardService) *Handlers {
	return &Handlers{authSvc: authSvc, userSvc: userSvc, cardSvc: cardSvc}
}

// userID extracts the authenticated user id from the Gin context, where the
// auth middleware stored it. Handlers mounted behind RequireAuth can rely on
// it being non-empty; anything else is a wiring bug surfaced as 401 by the
// middleware, not here.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// suppliedEmpty reports whether an optional string field was sent as "".
// The binding layer's omitempty treats an empty value like an absent one,
// so the explicit empty string has to be rejected here.
func suppliedEmpty(p *string) bool {
	return p != nil && *p == ""
}

// validID reports whether a path identifier parses as a UUID. Malformed
// identifiers are a client error (400), distinct from a well-formed id that
// matches nothing (404).
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

//
// DTOs
//

// UpdateProfileRequest is the JSON payload for PATCH /users/me. Both fields
// are optional so a client can update name and about independently; an
// omitted field keeps its stored value. A body that supplies neither is
// rejected.
type UpdateProfileRequest struct {
	// Name is the display name (2–30 chars).
	Name *string `json:"name" binding:"omitempty,min=2,max=30" example:"Marie Tharp"`
	// About is a short bio line (2–30 chars).
	About *string `json:"about" binding:"omitempty,min=2,max=30" example:"Oceanographer"`
}

// UpdateAvatarRequest is the JSON payload for PATCH /users/me/avatar.
type UpdateAvatarRequest struct {
	// Avatar is the profile picture URL.
	Avatar string `json:"avatar" binding:"required,url" example:"https://example.com/me.png"`
}

//
// Handlers
//

// ListUsers godoc
// @ID          listUsers
// @Summary     List users
// @Description Returns all registered users. Password hashes are never included.
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {array}   domain.User
// @Failure     401  {object}  handlers.ErrorResponse "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}
	ok(c, http.StatusOK, users)
}

// GetCurrentUser godoc
// @ID          getCurrentUser
// @Summary     Get the authenticated user's profile
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  domain.User
// @Failure     401  {object}  handlers.ErrorResponse "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /users/me [get]
func (h *Handlers) GetCurrentUser(c *gin.Context) {
	u, err := h.userSvc.Get(c.Request.Context(), userID(c))
	if err != nil {
		failFromError(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// GetUserByID godoc
// @ID          getUserByID
// @Summary     Get a user by id
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "User ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse "Malformed id"
// @Failure     401  {object}  handlers.ErrorResponse "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse "User not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /users/{id} [get]
func (h *Handlers) GetUserByID(c *gin.Context) {
	id := c.Param("id")
	// The router mounts this handler for /users/:id; "me" shares the
	// segment and resolves to the authenticated user.
	if id == "me" {
		h.GetCurrentUser(c)
		return
	}
	if !validID(id) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, localize(c, msgBadID))
		return
	}
	u, err := h.userSvc.Get(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// UpdateProfile godoc
// @ID          updateProfile
// @Summary     Update the authenticated user's name and about
// @Description Partial update: omitted fields keep their stored values. At least one field is required.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.UpdateProfileRequest  true  "Profile payload"
//
// @Success     200  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object}  handlers.ErrorResponse "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /users/me [patch]
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	err := c.ShouldBindJSON(&req)
	if err != nil || (req.Name == nil && req.About == nil) ||
		suppliedEmpty(req.Name) || suppliedEmpty(req.About) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, localize(c, msgBadRequest))
		return
	}
	u, err := h.userSvc.UpdateProfile(c.Request.Context(), userID(c), req.Name, req.About)
	if err != nil {
		failFromError(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// UpdateAvatar godoc
// @ID          updateAvatar
// @Summary     Update the authenticated user's avatar
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.UpdateAvatarRequest  true  "Avatar payload"
//
// @Success     200  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object}  handlers.ErrorResponse "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /users/me/avatar [patch]
func (h *Handlers) UpdateAvatar(c *gin.Context) {
	var req UpdateAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Avatar) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, localize(c, msgBadRequest))
		return
	}
	u, err := h.userSvc.UpdateAvatar(c.Request.Context(), userID(c), req.Avatar)
	if err != nil {
		failFromError(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}
