// Package swapiclient provides the main entry point for creating Star Wars API clients
package swapiclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/swapi/internal/client"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

// Client is a swapi.Client that owns its cache backend.
type Client struct {
	*client.Client

	cache swapi.Cache
}

// Close releases the cache backend.
func (c *Client) Close() error {
	return c.cache.Close()
}

// New creates a new Star Wars API client and the cache backend selected by
// config.Cache.
func New(ctx context.Context, config *swapi.Config) (*Client, error) {
	if config == nil {
		return nil, swapi.ErrConfigRequired
	}

	cache, err := swapi.NewCacheFromConfig(config.Cache)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	cli, err := NewWithCache(ctx, config, cache)
	if err != nil {
		_ = cache.Close()

		return nil, err
	}

	return cli, nil
}

// NewWithCache creates a client that reads through an existing cache.
func NewWithCache(ctx context.Context, config *swapi.Config, cache swapi.Cache) (*Client, error) {
	if config == nil {
		return nil, swapi.ErrConfigRequired
	}

	baseURL, err := NormalizeBaseURL(config.BaseURL)
	if err != nil {
		return nil, err
	}

	config.BaseURL = baseURL

	inner, err := client.New(config, cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return &Client{Client: inner, cache: cache}, nil
}

// NormalizeBaseURL adds "https://" when no scheme is present and ensures a
// trailing slash, since endpoints are appended verbatim.
func NormalizeBaseURL(baseURL string) (string, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return "", swapi.ErrBaseURLRequired
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return baseURL, nil
}
