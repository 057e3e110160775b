// Package common defines shared sentinel errors used across the service
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Account errors.
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrAccountInactive   = errors.New("account inactive")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Token lifecycle errors. Expired is deliberately distinct from invalid:
	// the session policy branches on it.
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
)
