package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/sconn-admin/internal/common"
	"golang.org/x/sync/singleflight"
)

// TokenSource supplies the current access token and exchanges the
// refresh token for a new one. session.Manager implements it.
type TokenSource interface {
	AccessToken() string
	RefreshAccessToken(ctx context.Context) (string, error)
}

// Transport attaches the session's access token to every request. A 401
// triggers one shared refresh, after which the request is retried once.
type Transport struct {
	base   http.RoundTripper
	tokens TokenSource
	flight singleflight.Group
}

func NewTransport(base http.RoundTripper, tokens TokenSource) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, tokens: tokens}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.tokens.AccessToken()

	resp, err := t.base.RoundTrip(withBearer(req, token))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// Nothing to refresh, or a body that cannot be sent twice.
	if token == "" || (hasBody(req) && req.GetBody == nil) {
		return resp, nil
	}

	fresh, err := t.refresh(req.Context(), token)
	if err != nil {
		discard(resp)
		return nil, err
	}

	retry := withBearer(req, fresh)
	if hasBody(req) {
		body, err := req.GetBody()
		if err != nil {
			discard(resp)
			return nil, fmt.Errorf("replay request body: %w", err)
		}
		retry.Body = body
	}
	discard(resp)

	return t.base.RoundTrip(retry)
}

// refresh joins the in-flight refresh or starts one. If the token has
// already moved on from stale, the current one is returned without a
// network call. The refresh itself outlives the caller's cancellation
// since other requests may be waiting on it.
func (t *Transport) refresh(ctx context.Context, stale string) (string, error) {
	ch := t.flight.DoChan("refresh", func() (any, error) {
		if cur := t.tokens.AccessToken(); cur != "" && cur != stale {
			return cur, nil
		}
		return t.tokens.RefreshAccessToken(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", fmt.Errorf("%w: %w", ErrSessionExpired, res.Err)
		}
		return res.Val.(string), nil
	}
}

func withBearer(req *http.Request, token string) *http.Request {
	r := req.Clone(req.Context())
	if token == "" {
		r.Header.Del(common.AuthorizationHeader)
	} else {
		r.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+token)
	}
	return r
}

func hasBody(req *http.Request) bool {
	return req.Body != nil && req.Body != http.NoBody
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
