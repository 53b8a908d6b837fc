// Package refreshtokens persists the opaque refresh tokens handed out at login.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/server/models"
)

// Repository stores refresh tokens. Deleting an absent token is not an error.
type Repository interface {
	Create(ctx context.Context, token *models.RefreshToken) error

	// FindValid returns the token together with its owner when the token
	// exists, has not expired at now and the owner is active. Anything else
	// yields common.ErrorNotFound.
	FindValid(ctx context.Context, token string, now time.Time) (*models.RefreshToken, *models.AdminUser, error)

	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteExpiredForUser(ctx context.Context, userID string, now time.Time) (int64, error)
}
