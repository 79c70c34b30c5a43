// Package supabase is a minimal client for the Supabase PostgREST endpoint.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	commonhttp "renaissance-story/internal/common/http"
)

// ErrNotConfigured is returned when the project URL or service role key is missing.
var ErrNotConfigured = errors.New("SUPABASE_NOT_CONFIGURED")

const maxErrorBodyBytes = 32 << 10

// Client wraps the Supabase REST API.
type Client struct {
	url        string
	serviceKey string
	httpClient *commonhttp.Client
}

// Config holds client configuration.
type Config struct {
	URL        string
	ServiceKey string
	Timeout    time.Duration
}

// APIError is a failed PostgREST response. Message is PostgREST's own
// message when the body carried one.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    string
	Hint       string
}

func (e *APIError) Error() string {
	return e.Message
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" || cfg.ServiceKey == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:        strings.TrimRight(cfg.URL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: commonhttp.NewClient(timeout),
	}, nil
}

// Insert writes rows into table without asking for the inserted representation.
func (c *Client) Insert(ctx context.Context, table string, rows interface{}) error {
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}

	url := fmt.Sprintf("%s/rest/v1/%s", c.url, table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 400 {
		return nil
	}

	respBody, truncated, err := commonhttp.ReadAllWithLimit(resp.Body, maxErrorBodyBytes)
	if err != nil {
		return fmt.Errorf("read error response: %w", err)
	}
	return parseAPIError(resp.StatusCode, respBody, truncated)
}

func parseAPIError(status int, body []byte, truncated bool) *APIError {
	apiErr := &APIError{StatusCode: status}

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
	}
	if !truncated && json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
		apiErr.Details = payload.Details
		apiErr.Hint = payload.Hint
		return apiErr
	}

	msg := strings.TrimSpace(string(body))
	if truncated {
		msg += "...(truncated)"
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	apiErr.Message = fmt.Sprintf("supabase API error %d: %s", status, msg)
	return apiErr
}
