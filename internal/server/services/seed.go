package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sconn-admin/internal/common"
	"github.com/dmitrijs2005/sconn-admin/internal/server/models"
	"github.com/dmitrijs2005/sconn-admin/internal/server/repositories/users"
	"github.com/dmitrijs2005/sconn-admin/internal/timex"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Default administrator created on an empty database.
const (
	SeedAdminUsername = "admin"
	SeedAdminPassword = "admin123"
	SeedAdminEmail    = "admin@sconn-admin.local"
)

// SeedAdmin creates the default administrator unless an account with that
// username exists. It reports whether a user was created.
func SeedAdmin(ctx context.Context, repo users.Repository, clock timex.Clock, cost int) (bool, error) {
	_, err := repo.GetByUsername(ctx, SeedAdminUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return false, err
	}

	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), cost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	now := clock.Now()
	_, err = repo.Create(ctx, &models.AdminUser{
		ID:           uuid.NewString(),
		Username:     SeedAdminUsername,
		Email:        SeedAdminEmail,
		PasswordHash: string(hash),
		Roles:        []string{models.RoleAdmin},
		Permissions:  models.AllPermissions(),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
