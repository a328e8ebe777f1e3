// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the DriverEdOS
// backend. Every outbound call funnels through a single request path that
// attaches the bearer credential, classifies failures, and clears the stored
// credential when the backend reports the token invalid.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/drivered-tui/internal/credentials"
)

// =============================================================================
// REQUEST BODY VARIANTS
// =============================================================================

// requestBody is the tagged payload variant for outbound requests. The login
// endpoint speaks url-encoded form fields while every resource endpoint
// speaks JSON, so the encoding branch is a closed set rather than ad hoc
// type inspection.
type requestBody interface {
	contentType() string
	encode() (string, error)
}

// jsonBody is a structured payload serialized as JSON.
type jsonBody struct {
	v any
}

func (b jsonBody) contentType() string { return "application/json" }

func (b jsonBody) encode() (string, error) {
	data, err := json.Marshal(b.v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formBody is an already-encoded form payload sent verbatim.
type formBody struct {
	values url.Values
}

func (b formBody) contentType() string { return "application/x-www-form-urlencoded" }

func (b formBody) encode() (string, error) { return b.values.Encode(), nil }

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend API base URL (default: http://127.0.0.1:8000).
	// Trailing slashes are stripped.
	BaseURL string

	// Timeout for requests (default: 15s)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://127.0.0.1:8000",
		Timeout: 15 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the DriverEdOS backend.
//
// The Client is safe for concurrent use. It never retries on its own;
// retry policy belongs to the query cache layer.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	store      credentials.Store

	// onUnauthorized is invoked after a 401 response has cleared the
	// credential store, so the session layer can reconcile its state.
	onUnauthorized func()
}

// NewClient creates a backend client using the given credential store.
func NewClient(store credentials.Store) *Client {
	return NewClientWithConfig(store, DefaultConfig())
}

// NewClientWithConfig creates a backend client with custom configuration.
func NewClientWithConfig(store credentials.Store, config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		store: store,
	}
}

// SetOnUnauthorized registers a callback fired after any 401 response.
// The stored credential has already been cleared when it runs.
func (c *Client) SetOnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// CORE REQUEST PATH
// =============================================================================

// do performs a single backend request and decodes the response into out
// (when out is non-nil). Non-2xx responses become *APIError; a 401 also
// clears the credential store regardless of which call triggered it.
func (c *Client) do(ctx context.Context, method, path string, body requestBody, requiresAuth bool, out any) error {
	reqURL := c.config.BaseURL + path

	var reader *strings.Reader
	if body != nil {
		encoded, err := body.encode()
		if err != nil {
			return &APIError{Message: "failed to encode request body", Cause: err}
		}
		reader = strings.NewReader(encoded)
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return &APIError{Message: "failed to create request", Cause: err}
	}

	if body != nil {
		req.Header.Set("Content-Type", body.contentType())
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	if requiresAuth {
		// Fail-open at the gateway: if no token is stored the request is
		// still sent and the backend rejects it.
		if token, err := c.store.Get(); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: "backend unreachable", Cause: err}
	}
	defer resp.Body.Close()

	// Read the body as text first; malformed JSON from a successful
	// response surfaces as raw text, never as an error.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Message: "failed to read response body", Cause: err}
	}
	text := string(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classifyFailure(resp, text)
	}

	if out == nil || text == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		// Tolerate non-JSON success payloads (e.g. plain-text bodies).
		if s, ok := out.(*string); ok {
			*s = text
			return nil
		}
		return &APIError{Message: "failed to decode response", Cause: err}
	}
	return nil
}

// classifyFailure turns a non-2xx response into a typed failure, preferring
// the backend's "detail" message over the generic status line.
func (c *Client) classifyFailure(resp *http.Response, text string) error {
	message := fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	var eb errorBody
	if err := json.Unmarshal([]byte(text), &eb); err == nil && eb.Detail != "" {
		message = eb.Detail
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// The token was rejected somewhere; forfeit it immediately so no
		// later call can present a credential the backend already refused.
		_ = c.store.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}

	return &APIError{Status: resp.StatusCode, Message: message}
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// Login exchanges credentials for a bearer token. The endpoint consumes
// url-encoded form fields, unlike every resource endpoint. The issued token
// is NOT stored here; that decision belongs to the session controller.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var result LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", formBody{values: form}, false, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me validates the stored bearer token and returns the identity behind it.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var result Identity
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health probes backend liveness. No credential required.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var result HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, false, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// DASHBOARD ENDPOINTS
// =============================================================================

// DashboardStats fetches the aggregate roster counts.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var result DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard-stats", nil, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// STUDENT ENDPOINTS
// =============================================================================

// ListStudents fetches the full roster.
func (c *Client) ListStudents(ctx context.Context) ([]Student, error) {
	var result []Student
	if err := c.do(ctx, http.MethodGet, "/api/students/", nil, true, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetStudent fetches a single roster record by its server-assigned id.
func (c *Client) GetStudent(ctx context.Context, id int) (*Student, error) {
	var result Student
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/students/%d", id), nil, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateStudent creates a roster record. The server assigns the id.
func (c *Client) CreateStudent(ctx context.Context, payload StudentPayload) (*Student, error) {
	var result Student
	if err := c.do(ctx, http.MethodPost, "/api/students/", jsonBody{v: payload}, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateStudent replaces the mutable fields of a roster record.
func (c *Client) UpdateStudent(ctx context.Context, id int, payload StudentPayload) (*Student, error) {
	var result Student
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/students/%d", id), jsonBody{v: payload}, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteStudent removes a roster record.
func (c *Client) DeleteStudent(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/students/%d", id), nil, true, nil)
}
