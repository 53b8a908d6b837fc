// Package client talks to the admin API over HTTP.
//
// AuthAPI covers the /auth endpoints and is never intercepted. APIClient
// sends every other call through Transport, which attaches the access
// token and, on a 401, refreshes it once for all concurrent callers
// before retrying the request.
//
// Server error codes are exposed as sentinel errors (ErrInvalidCredentials,
// ErrInvalidRefreshToken, ErrUnauthorized, ErrForbidden, ErrUnavailable)
// that *APIError unwraps to. ErrSessionExpired reports a failed refresh.
package client
