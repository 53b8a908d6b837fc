// Package session holds the admin CLI's authentication state: tokens, the
// signed-in user and the refresh token persisted between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/client/client"
	"github.com/dmitrijs2005/sconn-admin/internal/client/storage"
	"github.com/dmitrijs2005/sconn-admin/internal/logging"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// AuthAPI is the subset of client.AuthAPI the manager calls.
type AuthAPI interface {
	Login(ctx context.Context, username, password string, rememberMe bool) (*client.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*client.RefreshResult, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	Me(ctx context.Context, accessToken string) (*client.User, error)
}

type Credentials struct {
	Username   string
	Password   string
	RememberMe bool
}

type Option func(*Manager)

// WithOnSessionExpired registers fn to run after a failed refresh has
// cleared the session.
func WithOnSessionExpired(fn func()) Option {
	return func(m *Manager) { m.onExpired = fn }
}

// Manager is safe for concurrent use. It implements client.TokenSource.
type Manager struct {
	api       AuthAPI
	store     storage.RefreshTokenStore
	log       logging.Logger
	onExpired func()

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	user         *client.User
	expiresAt    time.Time
	loading      bool
}

func NewManager(api AuthAPI, store storage.RefreshTokenStore, log logging.Logger, opts ...Option) *Manager {
	m := &Manager{api: api, store: store, log: log}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore resumes the session saved by a previous run. Having nothing
// saved is not an error. A saved token the server rejects is dropped.
func (m *Manager) Restore(ctx context.Context) error {
	m.setLoading(true)
	defer m.setLoading(false)

	refreshToken, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load saved session: %w", err)
	}
	if refreshToken == "" {
		return nil
	}

	res, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		m.dropSaved(ctx)
		return fmt.Errorf("restore session: %w", err)
	}

	user, err := m.api.Me(ctx, res.Token)
	if err != nil {
		m.dropSaved(ctx)
		return fmt.Errorf("restore session: %w", err)
	}

	m.mu.Lock()
	m.accessToken = res.Token
	m.refreshToken = refreshToken
	m.user = user
	m.expiresAt = res.ExpiresAt
	m.mu.Unlock()

	m.log.Info(ctx, "session restored", "username", user.Username)
	return nil
}

// Login signs in and persists the refresh token. On failure the manager
// is left logged out and the server's error is returned.
func (m *Manager) Login(ctx context.Context, cred Credentials) error {
	m.setLoading(true)
	defer m.setLoading(false)

	res, err := m.api.Login(ctx, cred.Username, cred.Password, cred.RememberMe)
	if err != nil {
		m.clear()
		return err
	}

	m.mu.Lock()
	m.accessToken = res.Token
	m.refreshToken = res.RefreshToken
	user := res.User
	m.user = &user
	m.expiresAt = res.ExpiresAt
	m.mu.Unlock()

	if err := m.store.Save(ctx, res.RefreshToken); err != nil {
		m.log.Warn(ctx, "refresh token not saved, session will not survive restart", "error", err)
	}

	m.log.Info(ctx, "logged in", "username", user.Username, "remember_me", cred.RememberMe)
	return nil
}

// Logout revokes the refresh token on the server when possible. Local
// state and the saved token are cleared regardless.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.RLock()
	access, refresh := m.accessToken, m.refreshToken
	m.mu.RUnlock()

	if refresh != "" {
		if err := m.revoke(ctx, access, refresh); err != nil {
			m.log.Warn(ctx, "server logout failed", "error", err)
		}
	}

	m.clear()
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear saved session: %w", err)
	}
	return nil
}

// revoke asks the server to drop refresh. If the access token has lapsed
// it is renewed once with refresh itself and the call repeated.
func (m *Manager) revoke(ctx context.Context, access, refresh string) error {
	err := m.api.Logout(ctx, access, refresh)
	if !errors.Is(err, client.ErrUnauthorized) {
		return err
	}

	res, err := m.api.Refresh(ctx, refresh)
	if err != nil {
		return fmt.Errorf("renew access token for logout: %w", err)
	}
	return m.api.Logout(ctx, res.Token, refresh)
}

// RefreshAccessToken exchanges the refresh token for a new access token.
// Any failure ends the session and fires the expiry callback.
func (m *Manager) RefreshAccessToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	refresh := m.refreshToken
	m.mu.RUnlock()

	if refresh == "" {
		return "", ErrNotAuthenticated
	}

	res, err := m.api.Refresh(ctx, refresh)
	if err != nil {
		m.expire(ctx, refresh, err)
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// A logout or new login while the call was out wins.
	if m.refreshToken != refresh {
		return "", ErrNotAuthenticated
	}
	m.accessToken = res.Token
	m.expiresAt = res.ExpiresAt
	return res.Token, nil
}

func (m *Manager) expire(ctx context.Context, refresh string, cause error) {
	m.mu.Lock()
	if m.refreshToken != refresh {
		m.mu.Unlock()
		return
	}
	m.accessToken, m.refreshToken, m.user, m.expiresAt = "", "", nil, time.Time{}
	m.mu.Unlock()

	m.log.Warn(ctx, "session expired", "error", cause)
	m.dropSaved(ctx)

	if m.onExpired != nil {
		m.onExpired()
	}
}

func (m *Manager) dropSaved(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn(ctx, "saved session not cleared", "error", err)
	}
}

func (m *Manager) clear() {
	m.mu.Lock()
	m.accessToken, m.refreshToken, m.user, m.expiresAt = "", "", nil, time.Time{}
	m.mu.Unlock()
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessToken
}

func (m *Manager) ExpiresAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expiresAt
}

// User returns a copy of the signed-in user, or nil.
func (m *Manager) User() *client.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	u.Roles = append([]string(nil), m.user.Roles...)
	u.Permissions = append([]string(nil), m.user.Permissions...)
	return &u
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.accessToken != ""
}

func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) HasPermission(permission string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.HasPermission(permission)
}

func (m *Manager) HasRole(role string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user.HasRole(role)
}
