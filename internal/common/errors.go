// Package common defines shared constants and sentinel errors used across
// the accounts service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Validation errors, recoverable by supplying corrected input.
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password is too weak")

	// Registration errors.
	ErrDuplicateEmail = errors.New("email already registered")

	// Authentication errors. Deliberately coarse-grained: the same error is
	// returned for an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is not activated")
	ErrUserNotFound       = errors.New("user not found")

	// Token lifecycle errors. ErrTokenExpired is distinguished from
	// ErrNotFound internally; the account service collapses both into
	// ErrInvalidToken before they reach a caller.
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")

	// Generic/internal flow control.
	ErrInternal = errors.New("internal error")
)
