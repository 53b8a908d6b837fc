package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable         = errors.New("server unavailable")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrSessionExpired      = errors.New("session expired")
)

// APIError is a non-2xx answer decoded from the response envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap maps server error codes onto the package sentinels so callers
// can match with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "INVALID_CREDENTIALS":
		return ErrInvalidCredentials
	case "INVALID_REFRESH_TOKEN":
		return ErrInvalidRefreshToken
	case "INSUFFICIENT_PERMISSIONS", "INSUFFICIENT_ROLE":
		return ErrForbidden
	}
	switch e.Status {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 502, 503, 504:
		return ErrUnavailable
	}
	return nil
}
