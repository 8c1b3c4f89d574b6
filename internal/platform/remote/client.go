// Package remote wraps the hosted backend's HTTP API: the PostgREST-style
// table endpoints under /rest/v1 and the auth endpoints under /auth/v1.
package remote

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config describes how to reach the hosted backend.
type Config struct {
	BaseURL     string
	AnonKey     string
	AccessToken string
	Timeout     time.Duration
}

// Client is a thin resty wrapper that attaches the project key and the
// current session token to every request. It never retries.
type Client struct {
	http    *resty.Client
	anonKey string

	mu          sync.RWMutex
	accessToken string
}

// New creates a Client for the given backend.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:        hc,
		anonKey:     cfg.AnonKey,
		accessToken: cfg.AccessToken,
	}
}

// AccessToken returns the current session token, or "" when signed out.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// SetAccessToken replaces the session token. An empty token reverts to
// anonymous access with the project key.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

// R starts a request bound to ctx with the project key and bearer token set.
func (c *Client) R(ctx context.Context) *resty.Request {
	bearer := c.AccessToken()
	if bearer == "" {
		bearer = c.anonKey
	}
	return c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.anonKey).
		SetAuthToken(bearer)
}

// Check turns a resty result into an error: transport failures are wrapped
// with the request line, non-2xx responses become *APIError.
func Check(resp *resty.Response, err error) error {
	if err != nil {
		if resp != nil && resp.Request != nil {
			return fmt.Errorf("%s %s: %w", resp.Request.Method, resp.Request.URL, err)
		}
		return err
	}
	if resp.IsError() {
		return newAPIError(resp)
	}
	return nil
}
