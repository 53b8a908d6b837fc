// Package services contains the server-side business logic. AuthService
// handles password login, access token refresh, logout and verification of
// access tokens against the current state of the account.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/common"
	"github.com/dmitrijs2005/sconn-admin/internal/dbx"
	"github.com/dmitrijs2005/sconn-admin/internal/logging"
	"github.com/dmitrijs2005/sconn-admin/internal/server/auth"
	"github.com/dmitrijs2005/sconn-admin/internal/server/models"
	"github.com/dmitrijs2005/sconn-admin/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sconn-admin/internal/timex"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthConfig holds the token lifetimes and hashing cost.
type AuthConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	RememberMeTTL   time.Duration
	BcryptCost      int
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	User         models.UserInfo
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// RefreshResult carries a new access token. The refresh token is unchanged.
type RefreshResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cfg         AuthConfig
	codec       *auth.Codec
	clock       timex.Clock
	log         logging.Logger
	recorder    Recorder

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService wires the service. A nil clock means the system clock and a
// nil recorder discards events.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg AuthConfig, codec *auth.Codec,
	clock timex.Clock, log logging.Logger, recorder Recorder) *AuthService {
	if clock == nil {
		clock = timex.SystemClock{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		db:          db,
		repomanager: m,
		cfg:         cfg,
		codec:       codec,
		clock:       clock,
		log:         log,
		recorder:    recorder,
	}
}

// Login checks the credentials and opens a session. Unknown, inactive and
// wrong-password logins all fail with common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string, rememberMe bool) (*LoginResult, error) {
	if username == "" || password == "" {
		s.recorder.Login(OutcomeDenied)
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.recorder.Login(OutcomeError)
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if user == nil || !user.IsActive {
		s.compareDummy(password)
		s.recorder.Login(OutcomeDenied)
		s.log.Info(ctx, "login rejected", "username", username)
		return nil, common.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recorder.Login(OutcomeDenied)
		s.log.Info(ctx, "login rejected", "username", username)
		return nil, common.ErrInvalidCredentials
	}

	res, err := s.openSession(ctx, user, rememberMe)
	if err != nil {
		s.recorder.Login(OutcomeError)
		return nil, err
	}

	s.recorder.Login(OutcomeSuccess)
	s.log.Info(ctx, "login succeeded", "user_id", user.ID, "remember_me", rememberMe)
	return res, nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.AdminUser, rememberMe bool) (*LoginResult, error) {
	now := s.clock.Now()

	access, expiresAt, err := s.codec.Issue(auth.ClaimsFor(user), s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: issue access token: %w", common.ErrorInternal, err)
	}

	value, err := common.MakeRandHexString(common.RefreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: generate refresh token: %w", common.ErrorInternal, err)
	}

	ttl := s.cfg.RefreshTokenTTL
	if rememberMe {
		ttl = s.cfg.RememberMeTTL
	}
	token := &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     value,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tokens := s.repomanager.RefreshTokens(tx)
		if _, err := tokens.DeleteExpiredForUser(ctx, user.ID, now); err != nil {
			return err
		}
		if err := tokens.Create(ctx, token); err != nil {
			return err
		}
		return s.repomanager.Users(tx).UpdateLastLogin(ctx, user.ID, now)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return &LoginResult{
		User:         user.Info(),
		AccessToken:  access,
		RefreshToken: value,
		ExpiresAt:    expiresAt,
	}, nil
}

// Refresh issues a new access token built from the current account record.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		s.recorder.Refresh(OutcomeDenied)
		return nil, fmt.Errorf("%w: refresh token is required", common.ErrorValidation)
	}

	_, user, err := s.repomanager.RefreshTokens(s.db).FindValid(ctx, refreshToken, s.clock.Now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.recorder.Refresh(OutcomeDenied)
			return nil, common.ErrInvalidRefreshToken
		}
		s.recorder.Refresh(OutcomeError)
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	access, expiresAt, err := s.codec.Issue(auth.ClaimsFor(user), s.cfg.AccessTokenTTL)
	if err != nil {
		s.recorder.Refresh(OutcomeError)
		return nil, fmt.Errorf("%w: issue access token: %w", common.ErrorInternal, err)
	}

	s.recorder.Refresh(OutcomeSuccess)
	return &RefreshResult{AccessToken: access, ExpiresAt: expiresAt}, nil
}

// Logout forgets the refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	s.recorder.Logout()
	return nil
}

// LogoutAll revokes every refresh token of the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.repomanager.RefreshTokens(s.db).DeleteByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	s.recorder.Logout()
	s.log.Info(ctx, "all sessions revoked", "user_id", userID, "tokens", n)
	return n, nil
}

// VerifyToken checks the signature and expiry of an access token and that
// its subject still exists and is active.
func (s *AuthService) VerifyToken(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.codec.Verify(accessToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
		}
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if !user.IsActive {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// CleanupExpiredTokens deletes every expired refresh token.
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	s.recorder.TokensCleaned(n)
	return n, nil
}

// RunJanitor calls CleanupExpiredTokens every period until ctx is done.
func (s *AuthService) RunJanitor(ctx context.Context, period time.Duration) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.CleanupExpiredTokens(ctx)
			if err != nil {
				s.log.Error(ctx, "refresh token cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				s.log.Info(ctx, "expired refresh tokens removed", "count", n)
			}
		}
	}
}

func (s *AuthService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		secret, err := common.MakeRandHexString(16)
		if err != nil {
			secret = "unused"
		}
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(secret), s.cfg.BcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}
