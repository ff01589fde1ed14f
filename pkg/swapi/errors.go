package swapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error kinds reported by the fetch pipeline.
const (
	ErrorKindHTTPStatus = "http_status"
	ErrorKindTimeout    = "timeout"
	ErrorKindTransport  = "transport"
	ErrorKindParse      = "parse"
	ErrorKindUnknown    = "unknown"

	// ErrorKindSequence marks the failure counted when a fetch sequence
	// gives up on a stage.
	ErrorKindSequence = "sequence"
)

// Common static errors that can be wrapped with context.
var (
	ErrCacheMiss            = errors.New("key not found")
	ErrUnsupportedCacheType = errors.New("unsupported cache type")
	ErrNATSConfigRequired   = errors.New("NATS configuration required for NATS cache")
	ErrConfigRequired       = errors.New("config is required")
	ErrBaseURLRequired      = errors.New("base URL is required")
	ErrEmptyEndpoint        = errors.New("endpoint is empty")
	ErrInvalidOutputFormat  = errors.New("invalid output format")
)

// HTTPStatusError is returned when the API answers with a status code >= 400.
type HTTPStatusError struct {
	Endpoint   string
	StatusCode int
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}

// TimeoutError is returned when no complete response arrived within the
// configured timeout. The in-flight request has been aborted.
type TimeoutError struct {
	Endpoint string
	Timeout  time.Duration
	Err      error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return "Request timeout for " + e.Endpoint
}

// Unwrap returns the underlying context or transport error.
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// TransportError wraps a lower level network failure.
type TransportError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a response body is not valid JSON, or does not
// have the shape of the requested resource.
type ParseError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON from %s: %v", e.Endpoint, e.Err)
}

// Unwrap returns the decoder error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if the error is a 404 from the API.
func IsNotFound(err error) bool {
	statusErr := &HTTPStatusError{}
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsTimeout checks if the error is a request timeout.
func IsTimeout(err error) bool {
	timeoutErr := &TimeoutError{}

	return errors.As(err, &timeoutErr)
}

// ErrorKind classifies err into one of the ErrorKind constants.
func ErrorKind(err error) string {
	var (
		statusErr    *HTTPStatusError
		timeoutErr   *TimeoutError
		transportErr *TransportError
		parseErr     *ParseError
	)

	switch {
	case errors.As(err, &statusErr):
		return ErrorKindHTTPStatus
	case errors.As(err, &timeoutErr):
		return ErrorKindTimeout
	case errors.As(err, &transportErr):
		return ErrorKindTransport
	case errors.As(err, &parseErr):
		return ErrorKindParse
	default:
		return ErrorKindUnknown
	}
}
