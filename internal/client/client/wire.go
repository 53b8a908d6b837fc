package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/common"
)

// User is the projection of the signed-in administrator.
type User struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

func (u *User) HasRole(role string) bool {
	return u != nil && slices.Contains(u.Roles, role)
}

func (u *User) HasPermission(permission string) bool {
	return u != nil && slices.Contains(u.Permissions, permission)
}

type LoginResult struct {
	User         User      `json:"user"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type RefreshResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// decodeResponse reads resp and unmarshals the envelope data into out
// (which may be nil). Non-2xx statuses become *APIError.
func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if decodeErr == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// mapTransportError turns connection-level failures into ErrUnavailable.
func mapTransportError(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	var opErr *net.OpError
	if errors.As(err, &opErr) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

// send performs one JSON call. accessToken, when set, is attached as a
// bearer credential; an intercepting transport overrides it.
func send(ctx context.Context, hc *http.Client, method, url, accessToken string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+accessToken)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return mapTransportError(err)
	}
	return decodeResponse(resp, out)
}
