// Service-error translation.
//
// Every failure that leaves the service layer funnels through failFromError
// before reaching the client. The mapping is total: each sentinel error from
// internal/services resolves to exactly one (status, code, message) triple,
// and anything unrecognized collapses to a generic 500 whose body never
// carries driver or stack detail. Given the same error, the translation is
// always the same.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesto-app/go-backend/internal/services"
)

// classify maps a service error to its HTTP status, stable code, and message
// key. The boolean reports whether the error was recognized; unrecognized
// errors must be rendered as internal without leaking err.Error().
func classify(err error) (status int, code string, key msgKey, known bool) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound, ErrCodeNotFound, msgUserNotFound, true
	case errors.Is(err, services.ErrCardNotFound):
		return http.StatusNotFound, ErrCodeNotFound, msgCardNotFound, true
	case errors.Is(err, services.ErrNotCardOwner):
		return http.StatusForbidden, ErrCodeForbidden, msgForeignCard, true
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict, ErrCodeConflict, msgEmailTaken, true
	case errors.Is(err, services.ErrBadCredentials):
		return http.StatusUnauthorized, ErrCodeUnauthorized, msgBadCredentials, true
	case errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized, ErrCodeUnauthorized, msgAuthRequired, true
	default:
		return http.StatusInternalServerError, ErrCodeInternal, msgInternal, false
	}
}

// failFromError renders err through the taxonomy. Unrecognized errors are
// logged server-side by fail() (status >= 500) and the client receives only
// the fixed internal message.
func failFromError(c *gin.Context, err error) {
	status, code, key, _ := classify(err)
	fail(c, status, code, localize(c, key))
}
