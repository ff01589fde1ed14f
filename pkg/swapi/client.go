package swapi

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// DefaultBaseURL is the root every endpoint is appended to.
const DefaultBaseURL = "https://swapi.dev/api/"

// PeopleClient reads characters.
type PeopleClient interface {
	Get(ctx context.Context, id int) (*Person, error)
}

// StarshipsClient reads starship list pages.
type StarshipsClient interface {
	List(ctx context.Context, page int) (*Page[Starship], error)
}

// PlanetsClient reads planet list pages.
type PlanetsClient interface {
	List(ctx context.Context, page int) (*Page[Planet], error)
}

// FilmsClient reads the film list.
type FilmsClient interface {
	List(ctx context.Context) (*Page[Film], error)
}

// VehiclesClient reads single vehicles.
type VehiclesClient interface {
	Get(ctx context.Context, id int) (*Vehicle, error)
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	People() PeopleClient
	Starships() StarshipsClient
	Planets() PlanetsClient
	Films() FilmsClient
	Vehicles() VehiclesClient
}

// Client fetches API documents through the response cache.
type Client interface {
	ResourceClients

	// Fetch returns the parsed document for endpoint, from the cache when
	// present, otherwise from the network.
	Fetch(ctx context.Context, endpoint string) (json.RawMessage, error)

	// CacheSize returns the number of cached endpoints.
	CacheSize(ctx context.Context) int
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Recorder receives fetch pipeline events. It is implemented by the
// process-wide counters.
type Recorder interface {
	RecordError(kind string)
	RecordCacheHit(endpoint string)
	RecordCacheMiss(endpoint string)
}

// Stats is a point-in-time view of the process counters.
type Stats struct {
	APICalls  int64 `json:"api_calls"  yaml:"api_calls"`
	CacheSize int   `json:"cache_size" yaml:"cache_size"`
	DataSize  int64 `json:"data_size"  yaml:"data_size"`
	Errors    int64 `json:"errors"     yaml:"errors"`
}

// Timeout is the per-request abort threshold in milliseconds, as given on
// the command line. A value that was not a number is kept as NaN: it
// disables the timeout and is reported as such.
type Timeout struct {
	Millis int64
	NaN    bool
}

// DefaultTimeout is used when no --timeout is given.
var DefaultTimeout = Timeout{Millis: 5000}

// ParseTimeout parses a millisecond count from the integer s starts with,
// so "2500ms" is 2500. It never fails; input without a leading integer
// yields a NaN timeout.
func ParseTimeout(s string) Timeout {
	ms, ok := LeadingInt(s)
	if !ok {
		return Timeout{NaN: true}
	}

	switch {
	case ms >= math.MaxInt64:
		return Timeout{Millis: math.MaxInt64}
	case ms <= math.MinInt64:
		return Timeout{Millis: math.MinInt64}
	default:
		return Timeout{Millis: int64(ms)}
	}
}

// Duration returns the timeout as a duration. Zero means no timeout, which
// is the case for NaN and non-positive values.
func (t Timeout) Duration() time.Duration {
	if t.NaN || t.Millis <= 0 {
		return 0
	}

	if t.Millis > math.MaxInt64/int64(time.Millisecond) {
		return 0
	}

	return time.Duration(t.Millis) * time.Millisecond
}

// String implements fmt.Stringer.
func (t Timeout) String() string {
	if t.NaN {
		return "NaN"
	}

	return strconv.FormatInt(t.Millis, 10)
}

// MarshalJSON encodes a NaN timeout as null.
func (t Timeout) MarshalJSON() ([]byte, error) {
	if t.NaN {
		return []byte("null"), nil
	}

	return []byte(strconv.FormatInt(t.Millis, 10)), nil
}

// Config represents client configuration for building a swapi.Client.
//
// # Timeouts and TLS
//
// Timeout bounds each network request; the request is aborted when it fires.
// There are no retries. SkipTLSVerify accepts any server certificate and is
// on by default to match the public deployment this tool was written
// against; turn it off wherever the API host presents a valid chain.
type Config struct {
	// BaseURL is the API root endpoints are appended to (e.g.
	// "https://swapi.dev/api/"). swapiclient.New adds a scheme and a
	// trailing slash when missing.
	BaseURL string

	// Timeout: per-request abort threshold.
	Timeout Timeout
	// Debug: enables cache diagnostics and HTTP request/response logging.
	Debug bool
	// Logger: optional structured logger.
	Logger Logger
	// Recorder: optional sink for error and cache events.
	Recorder Recorder
	// SkipTLSVerify: accept any server certificate.
	SkipTLSVerify bool
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Cache: cache backend configuration. If nil, DefaultCacheConfig() is used.
	Cache *CacheConfig
}

// DefaultConfig returns the configuration the CLI starts from.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       DefaultBaseURL,
		Timeout:       DefaultTimeout,
		Debug:         true,
		SkipTLSVerify: true,
		Cache:         DefaultCacheConfig(),
	}
}
