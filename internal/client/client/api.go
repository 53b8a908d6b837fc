package client

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// APIClient calls protected admin endpoints through Transport.
type APIClient struct {
	baseURL string
	hc      *http.Client
}

func NewAPIClient(baseURL string, tokens TokenSource, timeout time.Duration) *APIClient {
	return NewAPIClientWithTransport(baseURL, NewTransport(nil, tokens), timeout)
}

// NewAPIClientWithTransport is NewAPIClient with a caller-built
// transport, typically one wrapping a test server's.
func NewAPIClientWithTransport(baseURL string, rt http.RoundTripper, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Transport: rt, Timeout: timeout},
	}
}

// Get decodes the envelope data of GET path into out.
func (c *APIClient) Get(ctx context.Context, path string, out any) error {
	return send(ctx, c.hc, http.MethodGet, c.baseURL+path, "", nil, out)
}

func (c *APIClient) Post(ctx context.Context, path string, in, out any) error {
	return send(ctx, c.hc, http.MethodPost, c.baseURL+path, "", in, out)
}

// Me returns the user behind the current access token.
func (c *APIClient) Me(ctx context.Context) (*User, error) {
	var res meResponse
	if err := c.Get(ctx, "/auth/me", &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}
