package client

import (
	"context"
	"net/http"
	"strings"
)

// AuthAPI calls the /auth endpoints. Its http.Client must not use
// Transport: a refresh call that itself triggered a refresh would loop.
type AuthAPI struct {
	baseURL string
	hc      *http.Client
}

func NewAuthAPI(baseURL string, hc *http.Client) *AuthAPI {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &AuthAPI{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type meResponse struct {
	User User `json:"user"`
}

func (a *AuthAPI) Login(ctx context.Context, username, password string, rememberMe bool) (*LoginResult, error) {
	var res LoginResult
	err := a.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{
		Username:   username,
		Password:   password,
		RememberMe: rememberMe,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	var res RefreshResult
	if err := a.do(ctx, http.MethodPost, "/auth/refresh", "", refreshRequest{RefreshToken: refreshToken}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout revokes refreshToken on the server. The route is authenticated:
// a lapsed accessToken fails with ErrUnauthorized and nothing is revoked.
func (a *AuthAPI) Logout(ctx context.Context, accessToken, refreshToken string) error {
	return a.do(ctx, http.MethodPost, "/auth/logout", accessToken, refreshRequest{RefreshToken: refreshToken}, nil)
}

func (a *AuthAPI) Me(ctx context.Context, accessToken string) (*User, error) {
	var res meResponse
	if err := a.do(ctx, http.MethodGet, "/auth/me", accessToken, nil, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (a *AuthAPI) do(ctx context.Context, method, path, accessToken string, in, out any) error {
	return send(ctx, a.hc, method, a.baseURL+path, accessToken, in, out)
}
