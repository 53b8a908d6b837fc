// Package auth issues and verifies the signed access tokens of the admin API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/common"
	"github.com/dmitrijs2005/sconn-admin/internal/server/models"
	"github.com/dmitrijs2005/sconn-admin/internal/timex"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the access token payload. The subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// ClaimsFor builds the claims describing user.
func ClaimsFor(user *models.AdminUser) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
		Username:         user.Username,
		Email:            user.Email,
		Roles:            user.Roles,
		Permissions:      user.Permissions,
	}
}

func (c *Claims) UserID() string { return c.Subject }

// Info projects the claims onto the shape clients see for a user.
func (c *Claims) Info() models.UserInfo {
	u := models.AdminUser{
		ID:          c.Subject,
		Username:    c.Username,
		Email:       c.Email,
		Roles:       c.Roles,
		Permissions: c.Permissions,
	}
	return u.Info()
}

// Codec signs access tokens with HS256 using a single process-wide secret.
type Codec struct {
	secret []byte
	clock  timex.Clock
}

// NewCodec fails when secret is empty; the server must not start without one.
func NewCodec(secret []byte, clock timex.Clock) (*Codec, error) {
	if len(secret) == 0 {
		return nil, common.ErrMissingSecret
	}
	if clock == nil {
		clock = timex.SystemClock{}
	}
	return &Codec{secret: secret, clock: clock}, nil
}

// Issue signs claims valid for ttl from now. The returned expiry is the one
// embedded in the token, at second precision.
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, time.Time, error) {
	now := c.clock.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return token, claims.ExpiresAt.Time.UTC(), nil
}

// Verify checks signature, algorithm and expiry. It returns
// common.ErrTokenExpired for an otherwise valid but expired token and
// common.ErrInvalidToken for everything else.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
