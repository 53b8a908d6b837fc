// Package users stores administrator accounts.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/server/models"
)

// Repository is the credential store. Lookups that find nothing return
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.AdminUser) (*models.AdminUser, error)
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	GetByID(ctx context.Context, id string) (*models.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
}
