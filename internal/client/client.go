// Package client talks to the storefront's auth, products and categories
// endpoints over JSON HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Endpoints are the three base URLs the client calls
type Endpoints struct {
	Auth       string
	Products   string
	Categories string
}

// TokenSource supplies the bearer token sent on product writes.
// An empty token sends no Authorization header.
type TokenSource interface {
	Token() string
}

type Client struct {
	Auth       *AuthAPI
	Products   *ProductsAPI
	Categories *CategoriesAPI

	endpoints  Endpoints
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New builds a client. Requests carry no timeout of their own; cancel
// through the context.
func New(endpoints Endpoints, opts ...Option) *Client {
	c := &Client{
		endpoints:  endpoints,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthAPI{c: c}
	c.Products = &ProductsAPI{c: c}
	c.Categories = &CategoriesAPI{c: c}

	return c
}

func (c *Client) bearer() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// do sends one request and decodes a 2xx body into out. Non-2xx responses
// come back as *APIError.
func (c *Client) do(ctx context.Context, method, url string, body interface{}, authorize bool, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorize {
		if token := c.bearer(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("API call",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, url, err)
	}
	return nil
}
