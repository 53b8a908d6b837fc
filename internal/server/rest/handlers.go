package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/common"
	"github.com/dmitrijs2005/sconn-admin/internal/logging"
	"github.com/dmitrijs2005/sconn-admin/internal/server/models"
	"github.com/dmitrijs2005/sconn-admin/internal/server/services"
	"github.com/dmitrijs2005/sconn-admin/internal/timex"
	"github.com/gin-gonic/gin"
)

// AuthService is the part of services.AuthService the handlers use.
type AuthService interface {
	TokenVerifier
	Login(ctx context.Context, username, password string, rememberMe bool) (*services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*services.RefreshResult, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) (int64, error)
}

type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LoginResponse struct {
	User         models.UserInfo `json:"user"`
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	ExpiresAt    string          `json:"expiresAt"`
}

type RefreshResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

type MeResponse struct {
	User models.UserInfo `json:"user"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

type handler struct {
	auth       AuthService
	log        logging.Logger
	clock      timex.Clock
	env        string
	production bool
}

func formatExpiry(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func (h *handler) internalMessage(err error, fallback string) string {
	if h.production {
		return fallback
	}
	return err.Error()
}

func (h *handler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, err)
		return
	}

	res, err := h.auth.Login(ctx, req.Username, req.Password, req.RememberMe)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidCredentials):
			abortError(c, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials")
		case errors.Is(err, common.ErrorValidation):
			abortError(c, http.StatusBadRequest, CodeValidation, "Invalid request data")
		default:
			logging.From(ctx, h.log).Error(ctx, "login failed", "error", err)
			abortError(c, http.StatusInternalServerError, CodeLoginError, h.internalMessage(err, "Login failed"))
		}
		return
	}

	respondData(c, LoginResponse{
		User:         res.User,
		Token:        res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    formatExpiry(res.ExpiresAt),
	})
}

func (h *handler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, err)
		return
	}

	res, err := h.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidRefreshToken):
			abortError(c, http.StatusUnauthorized, CodeInvalidRefreshToken, "Invalid or expired refresh token")
		case errors.Is(err, common.ErrorValidation):
			abortError(c, http.StatusBadRequest, CodeValidation, "Invalid request data")
		default:
			logging.From(ctx, h.log).Error(ctx, "token refresh failed", "error", err)
			abortError(c, http.StatusInternalServerError, CodeRefreshError, h.internalMessage(err, "Token refresh failed"))
		}
		return
	}

	respondData(c, RefreshResponse{Token: res.AccessToken, ExpiresAt: formatExpiry(res.ExpiresAt)})
}

// Logout always reports success; a missing or unknown refresh token is fine.
func (h *handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logging.From(ctx, h.log).Debug(ctx, "logout body ignored", "error", err)
	}

	if req.RefreshToken != "" {
		if err := h.auth.Logout(ctx, req.RefreshToken); err != nil {
			logging.From(ctx, h.log).Warn(ctx, "refresh token not removed on logout", "error", err)
		}
	}

	c.JSON(http.StatusOK, Envelope{Success: true, Message: "Logged out successfully"})
}

func (h *handler) LogoutAll(c *gin.Context) {
	ctx := c.Request.Context()

	claims, ok := ClaimsFrom(c)
	if !ok {
		abortError(c, http.StatusUnauthorized, CodeUnauthorized, "Authentication required")
		return
	}

	n, err := h.auth.LogoutAll(ctx, claims.UserID())
	if err != nil {
		logging.From(ctx, h.log).Error(ctx, "logout-all failed", "error", err)
		abortError(c, http.StatusInternalServerError, CodeLogoutError, h.internalMessage(err, "Logout failed"))
		return
	}

	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    gin.H{"revoked": n},
		Message: "All sessions logged out",
	})
}

func (h *handler) Me(c *gin.Context) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		abortError(c, http.StatusUnauthorized, CodeUnauthorized, "Authentication required")
		return
	}
	respondData(c, MeResponse{User: claims.Info()})
}

func (h *handler) Health(c *gin.Context) {
	respondData(c, HealthResponse{
		Status:      "healthy",
		Timestamp:   h.clock.Now().UTC().Format(time.RFC3339Nano),
		Environment: h.env,
	})
}

func (h *handler) NotFound(c *gin.Context) {
	abortError(c, http.StatusNotFound, CodeNotFound, "Endpoint not found")
}
