// Auth HTTP handlers.
//
// This file exposes the two unauthenticated endpoints:
//   - POST /signup  (register)
//   - POST /signin  (login, returns a bearer token)
//
// Registration strips the password from the response at the service layer;
// the handler never sees a hash. Login failures are a single indistinct 401
// whether the email is unknown or the password is wrong.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SignupRequest is the JSON payload for creating an account. Profile fields
// are optional; server-side defaults apply when they are omitted.
type SignupRequest struct {
	// Email is the unique login identifier.
	Email string `json:"email" binding:"required,email" example:"marie@example.com"`
	// Password is write-only and never echoed back.
	Password string `json:"password" binding:"required,min=6" example:"correct horse"`
	// Name is the display name (2–30 chars).
	Name string `json:"name,omitempty" binding:"omitempty,min=2,max=30" example:"Marie Tharp"`
	// About is a short bio line (2–30 chars).
	About string `json:"about,omitempty" binding:"omitempty,min=2,max=30" example:"Oceanographer"`
	// Avatar is the profile picture URL.
	Avatar string `json:"avatar,omitempty" binding:"omitempty,url" example:"https://example.com/me.png"`
}

// SigninRequest is the JSON payload for logging in.
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email" example:"marie@example.com"`
	Password string `json:"password" binding:"required" example:"correct horse"`
}

// SigninResponse carries the issued bearer token.
type SigninResponse struct {
	JWT string `json:"jwt" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// Signup godoc
// @ID          signup
// @Summary     Register a new user
// @Description Creates an account. Omitted profile fields receive defaults. The response never contains the password.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SignupRequest  true  "Registration payload"
//
// @Success     201  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     409  {object}  handlers.ErrorResponse "Email already registered"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /signup [post]
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, localize(c, msgBadRequest))
		return
	}
	u, err := h.authSvc.Register(c.Request.Context(), req.Email, req.Password, req.Name, req.About, req.Avatar)
	if err != nil {
		failFromError(c, err)
		return
	}
	ok(c, http.StatusCreated, u)
}

// Signin godoc
// @ID          signin
// @Summary     Log in
// @Description Verifies credentials and returns a bearer token valid for 7 days. Unknown email and wrong password are indistinguishable.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SigninRequest  true  "Login payload"
//
// @Success     200  {object}  handlers.SigninResponse
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object}  handlers.ErrorResponse "Bad credentials"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /signin [post]
func (h *Handlers) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, localize(c, msgBadRequest))
		return
	}
	token, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failFromError(c, err)
		return
	}
	ok(c, http.StatusOK, SigninResponse{JWT: token})
}
