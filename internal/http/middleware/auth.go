// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication. The middleware runs
// ahead of every protected route: it extracts the token from the
// Authorization header, hands it to the injected verifier, and either stores
// the resulting user id in the Gin context (key "userID") or short-circuits
// the pipeline with a 401 before the handler executes.
//
// The verifier is injected as a plain function so this package stays
// decoupled from the token implementation; the router wires it to the auth
// service's VerifyToken.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// userIDKey is the Gin context key under which the authenticated user id is
// stored. The access logger and handlers read the same key.
const userIDKey = "userID"

// TokenVerifier validates a raw bearer token and returns the subject user
// id. Any error means the request is unauthenticated.
type TokenVerifier func(token string) (string, error)

// RejectionMessage resolves the user-facing text of a 401 against the
// request, so the middleware's rejections speak the same language as the
// rest of the error envelopes. The router wires it to the handlers'
// localized catalog; nil falls back to English.
type RejectionMessage func(c *gin.Context) string

// RequireAuth returns a Gin middleware that enforces bearer authentication.
//
// Behavior:
//   - Reads the Authorization header; the "Bearer " scheme prefix is
//     accepted case-insensitively and a bare token is tolerated.
//   - On success, stores the user id under "userID" and continues.
//   - On a missing header or failed verification, aborts with 401 and the
//     standard error envelope, with msg supplying the localized message.
//     The response does not say why the token was rejected.
func RequireAuth(verify TokenVerifier, msg RejectionMessage) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			unauthorized(c, msg)
			return
		}
		uid, err := verify(token)
		if err != nil || uid == "" {
			unauthorized(c, msg)
			return
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}

// UserID returns the authenticated user id stored by RequireAuth, or ""
// when the request is unauthenticated.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// bearerToken strips the "Bearer " scheme prefix. A header carrying only
// the scheme, or nothing at all, yields "".
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	const scheme = "bearer "
	if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
		return strings.TrimSpace(header[len(scheme):])
	}
	// Tolerate clients that send the raw token without a scheme.
	if strings.ContainsRune(header, ' ') {
		return ""
	}
	return header
}

// unauthorized aborts with the standard 401 envelope. The envelope is built
// inline (rather than via the handlers package) to avoid an import cycle,
// mirroring the rate limiter's 429 response; the message comes through the
// injected resolver so it still matches the handlers' localized catalog.
func unauthorized(c *gin.Context, msg RejectionMessage) {
	message := "authorization required"
	if msg != nil {
		message = msg(c)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    message,
	})
}
