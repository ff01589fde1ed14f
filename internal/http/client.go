// Package http is the transport used by the API client: one GET per call,
// an optional abort timeout, no retries.
package http

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/swapi/internal/constants"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request is a single outbound call. Path is appended to the base URL as is.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
}

// Response holds a fully read response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client issues requests against a fixed base URL.
type Client struct {
	baseURL       string
	httpClient    *retryablehttp.Client
	transport     http.RoundTripper
	logger        Logger
	debug         bool
	userAgent     string
	timeout       time.Duration
	skipTLSVerify bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout aborts requests that have not completed after d. Zero disables
// the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) {
		c.skipTLSVerify = skip
	}
}

// WithTransport replaces the round tripper. TLS options are not applied to a
// custom transport.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:   baseURL,
		userAgent: constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	transport := client.transport
	if transport == nil {
		defaultTransport := http.DefaultTransport.(*http.Transport).Clone()
		if client.skipTLSVerify {
			defaultTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- the public API host is accessed without verification on purpose
		}

		transport = defaultTransport
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{Transport: transport}
	retryClient.RetryMax = 0
	retryClient.CheckRetry = neverRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	// Do logs each request itself.
	retryClient.Logger = nil

	client.httpClient = retryClient

	return client
}

// BaseURL returns the URL endpoints are appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the configured abort timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Get issues a GET for path.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path})
}

// Do executes req and reads the whole body. A status code >= 400 is returned
// together with a *swapi.HTTPStatusError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	fullURL := c.baseURL + req.Path

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, &swapi.TransportError{Endpoint: req.Path, Err: fmt.Errorf("creating request: %w", err)}
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": method,
			"url":    fullURL,
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.classify(ctx, req.Path, err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status_code": httpResp.StatusCode,
			"url":         fullURL,
			"duration":    time.Since(start).String(),
		})
	}

	if httpResp.StatusCode >= constants.HTTPStatusBadRequest {
		_, _ = io.Copy(io.Discard, httpResp.Body)

		return resp, &swapi.HTTPStatusError{Endpoint: req.Path, StatusCode: httpResp.StatusCode}
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return resp, c.classify(ctx, req.Path, err)
	}

	resp.Body = body

	return resp, nil
}

// classify maps a transport failure to a TimeoutError or TransportError.
func (c *Client) classify(ctx context.Context, path string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &swapi.TimeoutError{Endpoint: path, Timeout: c.timeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &swapi.TimeoutError{Endpoint: path, Timeout: c.timeout, Err: err}
	}

	return &swapi.TransportError{Endpoint: path, Err: err}
}

func neverRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	return false, nil
}
