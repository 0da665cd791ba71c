// Package backend is the HTTP client for the salon booking API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wolfman30/salon-booking/pkg/logging"
)

const defaultTimeout = 30 * time.Second

// Client talks to the booking backend over JSON/HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a backend client for baseURL (e.g. "https://api.example.com").
// Per-call deadlines come from the caller's context; the HTTP client timeout is
// only a backstop.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListServices fetches the service catalog.
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	var services []Service
	if err := c.do(ctx, "list services", http.MethodGet, "/api/services", nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// CheckRegistration reports whether userID has completed the profile form.
func (c *Client) CheckRegistration(ctx context.Context, userID string) (bool, error) {
	path := "/api/users/check?userId=" + url.QueryEscape(userID)
	var resp CheckResponse
	if err := c.do(ctx, "check registration", http.MethodGet, path, nil, &resp); err != nil {
		return false, err
	}
	return resp.Registered, nil
}

// RegisterUser stores the profile fields for a first-time user.
func (c *Client) RegisterUser(ctx context.Context, req RegisterUserRequest) error {
	return c.do(ctx, "register user", http.MethodPut, "/api/users", req, nil)
}

// CreateBooking submits a booking. Cancellation of ctx aborts the in-flight request.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResult, error) {
	var result BookingResult
	if err := c.do(ctx, "create booking", http.MethodPost, "/api/bookings", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("backend: create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("backend request", "op", op, "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Op: op, StatusCode: resp.StatusCode}
		var errBody ErrorResponse
		if json.Unmarshal(respBody, &errBody) == nil {
			se.Message = strings.TrimSpace(errBody.Error)
		}
		c.logger.Warn("backend request rejected", "op", op, "status", resp.StatusCode, "message", se.Message)
		return se
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("backend: decode %s response: %w", op, err)
	}
	return nil
}
