package models

import "time"

// RefreshToken is a server-side record of an issued refresh token.
// The token value is opaque random hex and unique across all users.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is unusable at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
