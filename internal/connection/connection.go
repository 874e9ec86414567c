// Package connection provides the transport capability consumed by resource
// wrappers: a small get/post/patch/delete surface returning the raw status
// code and JSON body. Retries, backoff and pagination belong to callers or
// higher layers, not here.
package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Response is the transport-level result of a single request.
type Response struct {
	StatusCode int
	// Reason is the HTTP status text, kept for error reporting.
	Reason string
	body   []byte
}

// NewResponse builds a Response directly. This is useful for fake
// connectors in tests.
func NewResponse(statusCode int, reason string, body []byte) *Response {
	return &Response{StatusCode: statusCode, Reason: reason, body: body}
}

// JSON decodes the response body into a generic map. An empty body decodes
// to an empty map.
func (r *Response) JSON() (map[string]any, error) {
	if len(r.body) == 0 {
		return map[string]any{}, nil
	}
	var data map[string]any
	if err := json.Unmarshal(r.body, &data); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return data, nil
}

// Body returns the raw response body.
func (r *Response) Body() []byte {
	return r.body
}

// Connector is the generic connection capability. Implementations perform a
// single blocking round trip per call; the context passes through opaquely
// for transport-level cancellation.
type Connector interface {
	Get(ctx context.Context, url string) (*Response, error)
	Post(ctx context.Context, url string, data map[string]any) (*Response, error)
	Patch(ctx context.Context, url string, data map[string]any) (*Response, error)
	Delete(ctx context.Context, url string) (*Response, error)
}

// Config holds the credentials for an HTTPConnection.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	// Timeout bounds each round trip. Zero means 30 seconds.
	Timeout time.Duration
}

// HTTPConnection implements Connector against a real HTTPS endpoint using
// OAuth2 client-credentials authentication.
type HTTPConnection struct {
	httpClient *http.Client
	token      *tokenCache
}

// New creates an HTTPConnection with the given credentials.
func New(cfg Config) *HTTPConnection {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	tokenURL := fmt.Sprintf(
		"https://login.microsoftonline.com/%s/oauth2/v2.0/token",
		cfg.TenantID,
	)

	return &HTTPConnection{
		httpClient: client,
		token:      newTokenCache(tokenURL, cfg.ClientID, cfg.ClientSecret, client),
	}
}

// NewWithOverrides creates an HTTPConnection with a custom token endpoint and
// HTTP client, used for testing.
func NewWithOverrides(cfg Config, tokenURL string, client *http.Client) *HTTPConnection {
	return &HTTPConnection{
		httpClient: client,
		token:      newTokenCache(tokenURL, cfg.ClientID, cfg.ClientSecret, client),
	}
}

// Get performs a GET request.
func (c *HTTPConnection) Get(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// Post performs a POST request. A nil data map sends no body.
func (c *HTTPConnection) Post(ctx context.Context, url string, data map[string]any) (*Response, error) {
	return c.do(ctx, http.MethodPost, url, data)
}

// Patch performs a PATCH request.
func (c *HTTPConnection) Patch(ctx context.Context, url string, data map[string]any) (*Response, error) {
	return c.do(ctx, http.MethodPatch, url, data)
}

// Delete performs a DELETE request.
func (c *HTTPConnection) Delete(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, url, nil)
}

// do performs an authenticated round trip. A 401 on a cached token usually
// means it was revoked server side, so the token is force-refreshed once and
// the request replayed; a second 401 is returned as-is. No other status
// triggers a retry: the resource layer reports failures to its caller.
func (c *HTTPConnection) do(ctx context.Context, method, url string, data map[string]any) (*Response, error) {
	var payload []byte
	if data != nil {
		var err error
		payload, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	token, err := c.token.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	resp, err := c.attempt(ctx, method, url, payload, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		slog.Info("refreshing access token after 401")
		token, err = c.token.ForceRefresh()
		if err != nil {
			return nil, fmt.Errorf("token refresh failed: %w", err)
		}
		return c.attempt(ctx, method, url, payload, token)
	}

	return resp, nil
}

// attempt performs one HTTP request with the given bearer token.
func (c *HTTPConnection) attempt(ctx context.Context, method, url string, payload []byte, token string) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("client-request-id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Reason:     resp.Status,
		body:       respBody,
	}, nil
}
