// Package api implements the REST client for the Bloom remote API:
// JSON envelopes, bearer auth, bounded timeouts and a client-side rate
// limit. The server side is out of scope; tests stand one up in-process.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/bloomapp/bloom-core/internal/pagination"
)

// DefaultTimeout bounds each request; local-first screens should never
// hang on a dead backend.
const DefaultTimeout = 10 * time.Second

// errorBody is the error object inside a response envelope.
type errorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Response is the standard envelope for single-object endpoints.
type Response[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data"`
	Message string     `json:"message,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

// PaginationMeta is the continuation metadata on paginated envelopes.
type PaginationMeta struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// PaginatedResponse is the envelope for list endpoints.
type PaginatedResponse[T any] struct {
	Success    bool           `json:"success"`
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
	Error      *errorBody     `json:"error,omitempty"`
}

// Client is the Bloom remote API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	mu    sync.RWMutex
	token string
}

// NewClient creates a new Client. A zero timeout falls back to
// DefaultTimeout; a nil logger falls back to slog.Default.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		// A fast scroll fires fetch-more per page; 10 rps with a small
		// burst keeps a scroll storm off the backend.
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		logger:  logger,
	}
}

// SetToken sets the bearer token attached to subsequent requests.
// An empty token clears the Authorization header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) bearerToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do performs one JSON round trip and returns the raw response body for
// 2xx statuses. Non-2xx and transport failures come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, transportError(err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearerToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", path, "error", err)
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Error *errorBody `json:"error"`
		}
		_ = json.Unmarshal(raw, &envelope)
		apiErr := statusError(resp.StatusCode, envelope.Error)
		c.logger.Warn("request rejected", "method", method, "path", path, "status", resp.StatusCode, "code", apiErr.Code)
		return nil, apiErr
	}
	return raw, nil
}

// Get performs a GET and decodes the data field of the envelope.
func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var zero T
	raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return zero, err
	}
	return decodeEnvelope[T](raw)
}

// Post performs a POST and decodes the data field of the envelope.
func Post[T any](ctx context.Context, c *Client, path string, body interface{}) (T, error) {
	var zero T
	raw, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return zero, err
	}
	return decodeEnvelope[T](raw)
}

// Delete performs a DELETE, ignoring any response data.
func Delete(ctx context.Context, c *Client, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// GetPaginated performs a GET against a paginated endpoint and maps the
// envelope into a pagination.Page.
func GetPaginated[T any](ctx context.Context, c *Client, path string, req pagination.Request, extra url.Values) (pagination.Page[T], error) {
	query := url.Values{}
	for k, vs := range extra {
		query[k] = vs
	}
	query.Set("page", strconv.Itoa(req.Page))
	query.Set("limit", strconv.Itoa(req.Limit))
	if req.Cursor != "" {
		query.Set("cursor", req.Cursor)
	}

	raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return pagination.Page[T]{}, err
	}

	var envelope PaginatedResponse[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return pagination.Page[T]{}, fmt.Errorf("failed to decode paginated response: %w", err)
	}
	if !envelope.Success {
		return pagination.Page[T]{}, statusError(http.StatusOK, envelope.Error)
	}
	return pagination.Page[T]{
		Items:      envelope.Data,
		Page:       envelope.Pagination.Page,
		HasMore:    envelope.Pagination.HasMore,
		NextCursor: envelope.Pagination.NextCursor,
	}, nil
}

func decodeEnvelope[T any](raw []byte) (T, error) {
	var envelope Response[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}
	if !envelope.Success {
		var zero T
		return zero, statusError(http.StatusOK, envelope.Error)
	}
	return envelope.Data, nil
}
