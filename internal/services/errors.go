// Package services defines the business logic for users, cards, and
// authentication. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are the closed input set of the HTTP error translator:
// handlers match them exhaustively and map each one to a fixed status code
// and user-facing message. Anything the service layer returns outside this
// set renders as a generic 500.
package services

import "errors"

// User-related errors.
var (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when registration hits the unique index on
	// email (duplicate account).
	ErrEmailTaken = errors.New("email already registered")
)

// Card-related errors.
var (
	// ErrCardNotFound indicates that the requested card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrNotCardOwner is returned when someone other than the card's owner
	// tries to delete it.
	ErrNotCardOwner = errors.New("card belongs to another user")
)

// Authentication errors.
var (
	// ErrBadCredentials is returned for both an unknown email and a wrong
	// password. The two cases are deliberately indistinguishable so that
	// login responses do not leak account existence.
	ErrBadCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned when a bearer token fails signature or
	// expiry verification.
	ErrInvalidToken = errors.New("invalid or expired token")
)
