package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fivetwenty-io/swapi/internal/http"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

// Static errors for err113 compliance.
var (
	ErrBaseURLRequired = errors.New("base URL is required")
	ErrCacheRequired   = errors.New("cache is required")

	errInvalidJSON = errors.New("invalid JSON")
)

// Client implements the swapi.Client interface.
type Client struct {
	httpClient *http.Client
	cache      swapi.Cache
	logger     swapi.Logger
	recorder   swapi.Recorder
	debug      bool

	// Resource clients
	people    swapi.PeopleClient
	starships swapi.StarshipsClient
	planets   swapi.PlanetsClient
	films     swapi.FilmsClient
	vehicles  swapi.VehiclesClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *swapi.Config) []http.Option {
	httpOpts := []http.Option{
		http.WithTimeout(config.Timeout.Duration()),
		http.WithInsecureSkipVerify(config.SkipTLSVerify),
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	return httpOpts
}

// New creates a client that reads through cache.
func New(config *swapi.Config, cache swapi.Cache, opts ...http.Option) (*Client, error) {
	if config.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}

	if cache == nil {
		return nil, ErrCacheRequired
	}

	httpOpts := append(createHTTPClientOptions(config), opts...)

	return NewWithHTTPClient(config, cache, http.NewClient(config.BaseURL, httpOpts...)), nil
}

// NewWithHTTPClient creates a client around an existing transport.
func NewWithHTTPClient(config *swapi.Config, cache swapi.Cache, httpClient *http.Client) *Client {
	client := &Client{
		httpClient: httpClient,
		cache:      cache,
		logger:     config.Logger,
		recorder:   config.Recorder,
		debug:      config.Debug,
	}

	if client.logger == nil {
		client.logger = swapi.NopLogger{}
	}

	if client.recorder == nil {
		client.recorder = nopRecorder{}
	}

	client.initializeResourceClients()

	return client
}

func (c *Client) initializeResourceClients() {
	c.people = &peopleClient{client: c}
	c.starships = &starshipsClient{client: c}
	c.planets = &planetsClient{client: c}
	c.films = &filmsClient{client: c}
	c.vehicles = &vehiclesClient{client: c}
}

// Fetch implements swapi.Client.Fetch. The cache lookup and the store after
// a successful fetch are separate steps: two concurrent misses for the same
// endpoint both reach the network and the later write wins.
func (c *Client) Fetch(ctx context.Context, endpoint string) (json.RawMessage, error) {
	if endpoint == "" {
		return nil, swapi.ErrEmptyEndpoint
	}

	entry, err := c.cache.Get(ctx, endpoint)
	if err == nil {
		c.recorder.RecordCacheHit(endpoint)

		if c.debug {
			c.logger.Debug("Using cached data", map[string]interface{}{"endpoint": endpoint})
		}

		return entry.Data, nil
	}

	if !errors.Is(err, swapi.ErrCacheMiss) {
		c.logger.Warn("Cache read failed, fetching", map[string]interface{}{
			"endpoint": endpoint,
			"error":    err.Error(),
		})
	}

	c.recorder.RecordCacheMiss(endpoint)

	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		c.recordError(err)

		return nil, err
	}

	data, err := parseDocument(endpoint, resp.Body)
	if err != nil {
		c.recordError(err)

		return nil, err
	}

	err = c.cache.Set(ctx, endpoint, &swapi.CacheEntry{Data: data, StoredAt: time.Now()})
	if err != nil {
		c.logger.Warn("Cache write failed", map[string]interface{}{
			"endpoint": endpoint,
			"error":    err.Error(),
		})
	}

	if c.debug {
		c.logger.Debug("Successfully fetched data", map[string]interface{}{
			"endpoint":   endpoint,
			"cache_size": c.CacheSize(ctx),
		})
	}

	return data, nil
}

// CacheSize implements swapi.Client.CacheSize. Backend errors count as an
// empty cache.
func (c *Client) CacheSize(ctx context.Context) int {
	size, err := c.cache.Len(ctx)
	if err != nil {
		c.logger.Warn("Cache size unavailable", map[string]interface{}{"error": err.Error()})

		return 0
	}

	return size
}

// People implements swapi.Client.People.
func (c *Client) People() swapi.PeopleClient {
	return c.people
}

// Starships implements swapi.Client.Starships.
func (c *Client) Starships() swapi.StarshipsClient {
	return c.starships
}

// Planets implements swapi.Client.Planets.
func (c *Client) Planets() swapi.PlanetsClient {
	return c.planets
}

// Films implements swapi.Client.Films.
func (c *Client) Films() swapi.FilmsClient {
	return c.films
}

// Vehicles implements swapi.Client.Vehicles.
func (c *Client) Vehicles() swapi.VehiclesClient {
	return c.vehicles
}

func (c *Client) recordError(err error) {
	c.recorder.RecordError(swapi.ErrorKind(err))
}

// parseDocument validates body as JSON and returns its compact form, which
// is what gets cached and measured.
func parseDocument(endpoint string, body []byte) (json.RawMessage, error) {
	if !json.Valid(body) {
		var decoded interface{}

		err := json.Unmarshal(body, &decoded)
		if err == nil {
			err = errInvalidJSON
		}

		return nil, &swapi.ParseError{Endpoint: endpoint, Err: err}
	}

	var compacted bytes.Buffer

	compacted.Grow(len(body))

	err := json.Compact(&compacted, body)
	if err != nil {
		return nil, &swapi.ParseError{Endpoint: endpoint, Err: err}
	}

	return compacted.Bytes(), nil
}

type nopRecorder struct{}

func (nopRecorder) RecordError(string)     {}
func (nopRecorder) RecordCacheHit(string)  {}
func (nopRecorder) RecordCacheMiss(string) {}
