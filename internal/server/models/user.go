// Package models holds the persistent records of the admin API server.
package models

import (
	"slices"
	"time"
)

// AdminUser is an administrator account. PasswordHash never leaves the
// server: it is excluded from JSON and only read during login.
type AdminUser struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Roles        []string   `json:"roles"`
	Permissions  []string   `json:"permissions"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// UserInfo is the projection of an AdminUser handed to clients.
type UserInfo struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

func (u *AdminUser) Info() UserInfo {
	return UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Roles:       nonNil(u.Roles),
		Permissions: nonNil(u.Permissions),
	}
}

func (u *AdminUser) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

func (u *AdminUser) HasPermission(permission string) bool {
	return slices.Contains(u.Permissions, permission)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
