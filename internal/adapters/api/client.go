// Package api is the HTTP client for the remote CRM API. Every endpoint
// speaks the uniform ApiResponse envelope; decoding enforces the isSuccess
// check so callers never read data from a failed response.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clubstack/crm-cli/internal/domain"
)

const maxResponseBytes = 1 << 20

// DefaultRequestTimeout bounds every remote call unless the caller's context
// is stricter. The transport default alone is no bound at all.
const DefaultRequestTimeout = 30 * time.Second

type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Logger         zerolog.Logger
	Now            func() time.Time
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

// roundTrip performs one JSON request and returns the raw response body.
// 401 and 403 map to domain.ErrSessionExpired so the session service can
// trigger its single refresh-and-retry.
func (c *Client) roundTrip(ctx context.Context, method, path, accessToken string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, c.endpoint(path), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	started := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.Logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("crm api request")

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: status %d", domain.ErrSessionExpired, resp.StatusCode)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if serverErr := decodeServerError(payload, resp.StatusCode); serverErr != nil {
			return nil, serverErr
		}
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	return payload, nil
}
