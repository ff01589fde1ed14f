package client_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/swapi/internal/client"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

// fakeAPI serves fixed bodies keyed by request URI relative to /api/ and
// counts hits.
type fakeAPI struct {
	server *httptest.Server
	hits   atomic.Int64

	mu     sync.Mutex
	bodies map[string]string
	status map[string]int
}

func newFakeAPI(t *testing.T, bodies map[string]string) *fakeAPI {
	t.Helper()

	api := &fakeAPI{bodies: bodies, status: map[string]int{}}
	api.server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		api.hits.Add(1)

		api.mu.Lock()
		key := request.URL.RequestURI()[len("/api/"):]
		body, ok := api.bodies[key]
		status := api.status[key]
		api.mu.Unlock()

		if status != 0 {
			writer.WriteHeader(status)

			return
		}

		if !ok {
			http.NotFound(writer, request)

			return
		}

		_, _ = writer.Write([]byte(body))
	}))
	t.Cleanup(api.server.Close)

	return api
}

func (a *fakeAPI) baseURL() string {
	return a.server.URL + "/api/"
}

// testRecorder counts recorder callbacks.
type testRecorder struct {
	mu     sync.Mutex
	errors map[string]int
	hits   int
	misses int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{errors: map[string]int{}}
}

func (r *testRecorder) RecordError(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors[kind]++
}

func (r *testRecorder) RecordCacheHit(string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hits++
}

func (r *testRecorder) RecordCacheMiss(string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.misses++
}

func (r *testRecorder) totalErrors() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, n := range r.errors {
		total += n
	}

	return total
}

// newTestClient creates a client with a memory cache against baseURL.
func newTestClient(t *testing.T, baseURL string, recorder swapi.Recorder) (*client.Client, swapi.Cache) {
	t.Helper()

	config := swapi.DefaultConfig()
	config.BaseURL = baseURL
	config.Debug = false
	config.Recorder = recorder

	cache := swapi.NewMemoryCache()

	c, err := client.New(config, cache)
	require.NoError(t, err)

	return c, cache
}
