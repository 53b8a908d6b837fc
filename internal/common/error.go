// Package common defines shared constants and sentinel errors used across
// the server and the admin client. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Credential errors. Unknown user, inactive user and wrong password all
	// collapse into ErrInvalidCredentials.
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	// Access token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Startup errors.
	ErrMissingSecret = errors.New("token signing secret is not configured")
)
