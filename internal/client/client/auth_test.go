package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   map[string]any{"code": code, "message": msg},
	})
}

func TestAuthAPI_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body.Password != "admin123" {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
			return
		}
		assert.True(t, body.RememberMe)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"user":         map[string]any{"id": "u1", "username": body.Username, "roles": []string{"admin"}, "permissions": []string{"read:users"}},
				"token":        "access",
				"refreshToken": "refresh",
				"expiresAt":    "2025-06-01T17:00:00Z",
			},
		})
	}))
	defer srv.Close()

	api := NewAuthAPI(srv.URL+"/api/", srv.Client())

	res, err := api.Login(context.Background(), "admin", "admin123", true)
	require.NoError(t, err)
	assert.Equal(t, "access", res.Token)
	assert.Equal(t, "refresh", res.RefreshToken)
	assert.Equal(t, "admin", res.User.Username)
	assert.True(t, res.User.HasRole("admin"))
	assert.True(t, res.User.HasPermission("read:users"))
	assert.Equal(t, time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC), res.ExpiresAt.UTC())

	_, err = api.Login(context.Background(), "admin", "wrong", true)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestAuthAPI_RefreshLogoutMe(t *testing.T) {
	var loggedOut string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			var body refreshRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.RefreshToken != "good" {
				writeError(w, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Invalid or expired refresh token")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"token": "fresh", "expiresAt": "2025-06-01T17:00:00Z"}})
		case "/auth/logout":
			var body refreshRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			loggedOut = body.RefreshToken
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out successfully"})
		case "/auth/me":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"user": map[string]any{"id": "u1", "username": "admin"}}})
		default:
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	api := NewAuthAPI(srv.URL, srv.Client())

	res, err := api.Refresh(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "fresh", res.Token)

	_, err = api.Refresh(ctx, "bad")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	u, err := api.Me(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = api.Me(ctx, "stale")
	require.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, api.Logout(ctx, "fresh", "good"))
	assert.Equal(t, "good", loggedOut)
}

func TestAuthAPI_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewAuthAPI(url, nil).Login(context.Background(), "admin", "admin123", false)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestAPIError_Unwrap(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want error
	}{
		{"invalid credentials", &APIError{Status: 401, Code: "INVALID_CREDENTIALS"}, ErrInvalidCredentials},
		{"invalid refresh", &APIError{Status: 401, Code: "INVALID_REFRESH_TOKEN"}, ErrInvalidRefreshToken},
		{"invalid token", &APIError{Status: 401, Code: "INVALID_TOKEN"}, ErrUnauthorized},
		{"permissions", &APIError{Status: 403, Code: "INSUFFICIENT_PERMISSIONS"}, ErrForbidden},
		{"role", &APIError{Status: 403, Code: "INSUFFICIENT_ROLE"}, ErrForbidden},
		{"bad gateway", &APIError{Status: 502}, ErrUnavailable},
		{"rate limited", &APIError{Status: 429, Code: "RATE_LIMIT_EXCEEDED"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Unwrap())
		})
	}
}

func TestDecodeResponse_NonJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.WriteHeader(http.StatusBadGateway)
	_, _ = rec.WriteString("<html>bad gateway</html>")

	err := decodeResponse(rec.Result(), nil)
	require.ErrorIs(t, err, ErrUnavailable)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
