package rest

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrijs2005/sconn-admin/internal/common"
	"github.com/dmitrijs2005/sconn-admin/internal/logging"
	"github.com/dmitrijs2005/sconn-admin/internal/server/auth"
	"github.com/gin-gonic/gin"
)

// TokenVerifier checks an access token against the current account state.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, accessToken string) (*auth.Claims, error)
}

const claimsKey = "auth.claims"

// Authenticate attaches the verified claims of the bearer token to the
// request or rejects it with 401.
func Authenticate(v TokenVerifier, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeader))
		if !ok {
			abortError(c, http.StatusUnauthorized, CodeMissingToken, "Access token is required")
			return
		}

		claims, err := v.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrorInternal) {
				logging.From(c.Request.Context(), log).Error(c.Request.Context(), "token verification failed", "error", err)
				abortError(c, http.StatusInternalServerError, CodeInternal, "An internal server error occurred")
				return
			}
			abortError(c, http.StatusUnauthorized, CodeInvalidToken, "Invalid or expired token")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims attached by Authenticate.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}

// RequirePermissions lets the request through only if the caller holds every
// listed permission.
func RequirePermissions(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abortError(c, http.StatusUnauthorized, CodeUnauthorized, "Authentication required")
			return
		}
		for _, p := range permissions {
			if !slices.Contains(claims.Permissions, p) {
				abortError(c, http.StatusForbidden, CodeInsufficientPermissions, "Insufficient permissions for this operation")
				return
			}
		}
		c.Next()
	}
}

// RequireRoles lets the request through if the caller holds any listed role.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abortError(c, http.StatusUnauthorized, CodeUnauthorized, "Authentication required")
			return
		}
		for _, r := range roles {
			if slices.Contains(claims.Roles, r) {
				c.Next()
				return
			}
		}
		abortError(c, http.StatusForbidden, CodeInsufficientRole, "Insufficient role for this operation")
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
