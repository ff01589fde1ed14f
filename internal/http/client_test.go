package http_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	swapihttp "github.com/fivetwenty-io/swapi/internal/http"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

// MockLogger for testing.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

func (l *MockLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	msgs := make([]string, 0, len(l.logs))
	for _, entry := range l.logs {
		msgs = append(msgs, entry["msg"].(string))
	}

	return msgs
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Get(t *testing.T) {
	t.Parallel()

	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/starships/", request.URL.Path)
			assert.Equal(t, "page=1", request.URL.RawQuery)
			assert.Equal(t, http.MethodGet, request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, "swapi-test", request.Header.Get("User-Agent"))

			_, _ = writer.Write([]byte(`{"count":36}`))
		}))
		defer server.Close()

		client := swapihttp.NewClient(server.URL+"/api/", swapihttp.WithUserAgent("swapi-test"))

		resp, err := client.Get(context.Background(), "starships/?page=1")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"count":36}`, string(resp.Body))
	})

	t.Run("self-signed certificate accepted when verification is off", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte(`{"name":"Luke Skywalker"}`))
		}))
		defer server.Close()

		client := swapihttp.NewClient(server.URL+"/", swapihttp.WithInsecureSkipVerify(true))

		resp, err := client.Get(context.Background(), "people/1")
		require.NoError(t, err)
		assert.Contains(t, string(resp.Body), "Luke Skywalker")
	})

	t.Run("self-signed certificate rejected when verification is on", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := swapihttp.NewClient(server.URL + "/")

		_, err := client.Get(context.Background(), "people/1")
		require.Error(t, err)

		var transportErr *swapi.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, swapi.ErrorKindTransport, swapi.ErrorKind(err))
	})

	t.Run("status 400 and above is an error without retries", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			writer.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := swapihttp.NewClient(server.URL + "/")

		resp, err := client.Get(context.Background(), "people/1")
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "Request failed with status code 503", err.Error())
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("404 is recognised", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		client := swapihttp.NewClient(server.URL + "/")

		_, err := client.Get(context.Background(), "people/9999")
		require.Error(t, err)
		assert.True(t, swapi.IsNotFound(err))

		var statusErr *swapi.HTTPStatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, "people/9999", statusErr.Endpoint)
	})

	t.Run("timeout aborts the request", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			select {
			case <-release:
			case <-request.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		client := swapihttp.NewClient(server.URL+"/", swapihttp.WithTimeout(50*time.Millisecond))

		start := time.Now()
		_, err := client.Get(context.Background(), "films/")
		require.Error(t, err)

		assert.True(t, swapi.IsTimeout(err))
		assert.Equal(t, "Request timeout for films/", err.Error())
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("zero timeout waits for the response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			time.Sleep(30 * time.Millisecond)
			_, _ = writer.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := swapihttp.NewClient(server.URL+"/", swapihttp.WithTimeout(0))

		_, err := client.Get(context.Background(), "films/")
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), client.Timeout())
	})

	t.Run("connection refused is a transport error", func(t *testing.T) {
		t.Parallel()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		addr := listener.Addr().String()
		require.NoError(t, listener.Close())

		client := swapihttp.NewClient("http://" + addr + "/")

		_, err = client.Get(context.Background(), "people/1")
		require.Error(t, err)
		assert.Equal(t, swapi.ErrorKindTransport, swapi.ErrorKind(err))
	})

	t.Run("debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte(`{}`))
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := swapihttp.NewClient(server.URL+"/", swapihttp.WithLogger(logger), swapihttp.WithDebug(true))

		_, err := client.Get(context.Background(), "planets/?page=1")
		require.NoError(t, err)

		assert.Equal(t, []string{"HTTP Request", "HTTP Response"}, logger.messages())
	})

	t.Run("no logging without debug", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte(`{}`))
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := swapihttp.NewClient(server.URL+"/", swapihttp.WithLogger(logger))

		_, err := client.Get(context.Background(), "planets/?page=1")
		require.NoError(t, err)
		assert.Empty(t, logger.messages())
	})
}

func TestClient_Do(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "req-1", request.Header.Get("X-Request-ID"))
		_, _ = writer.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := swapihttp.NewClient(server.URL + "/")
	assert.Equal(t, server.URL+"/", client.BaseURL())

	resp, err := client.Do(context.Background(), &swapihttp.Request{
		Path:    "vehicles/4",
		Headers: map[string]string{"X-Request-ID": "req-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
