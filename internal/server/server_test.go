package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/swapi/internal/constants"
	"github.com/fivetwenty-io/swapi/internal/server"
	"github.com/fivetwenty-io/swapi/internal/tasks"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

type fakeSequence struct {
	runs    atomic.Int64
	stats   swapi.Stats
	ran     chan struct{}
	explode bool
}

func (f *fakeSequence) Run(context.Context) error {
	f.runs.Add(1)

	if f.ran != nil {
		f.ran <- struct{}{}
	}

	return nil
}

func (f *fakeSequence) Stats(context.Context) swapi.Stats {
	if f.explode {
		panic("stats exploded")
	}

	return f.stats
}

type logLine struct {
	message string
	fields  map[string]interface{}
}

type recordingLogger struct {
	swapi.NopLogger

	mu    sync.Mutex
	lines []logLine
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = append(l.lines, logLine{message: msg, fields: fields})
}

func (l *recordingLogger) debugLines() []logLine {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]logLine(nil), l.lines...)
}

type rejectingSubmitter struct{}

func (rejectingSubmitter) Submit(string, tasks.Task) error {
	return constants.ErrRunnerShutDown
}

func newHandler(t *testing.T, seq server.Sequence, submitter server.Submitter, config server.Config) http.Handler {
	t.Helper()

	srv, err := server.New(config, seq, submitter)
	require.NoError(t, err)

	return srv.Handler()
}

func do(handler http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestStats(t *testing.T) {
	t.Parallel()

	t.Run("zero state", func(t *testing.T) {
		t.Parallel()

		handler := newHandler(t, &fakeSequence{}, tasks.NewRunner(nil), server.Config{
			Debug:   true,
			Timeout: swapi.DefaultTimeout,
		})

		rec := do(handler, http.MethodGet, "/stats")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))
		assert.JSONEq(t,
			`{"api_calls":0,"cache_size":0,"data_size":0,"errors":0,"debug":true,"timeout":5000}`,
			rec.Body.String())
	})

	t.Run("reflects counters", func(t *testing.T) {
		t.Parallel()

		seq := &fakeSequence{stats: swapi.Stats{APICalls: 1, CacheSize: 4, DataSize: 9001}}
		handler := newHandler(t, seq, tasks.NewRunner(nil), server.Config{Timeout: swapi.DefaultTimeout})

		rec := do(handler, http.MethodGet, "/stats")

		assert.JSONEq(t,
			`{"api_calls":1,"cache_size":4,"data_size":9001,"errors":0,"debug":false,"timeout":5000}`,
			rec.Body.String())
	})

	t.Run("timeout that is not a number is null", func(t *testing.T) {
		t.Parallel()

		handler := newHandler(t, &fakeSequence{}, tasks.NewRunner(nil), server.Config{
			Timeout: swapi.ParseTimeout("abc"),
		})

		rec := do(handler, http.MethodGet, "/stats")

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body, "timeout")
		assert.Nil(t, body["timeout"])
	})
}

func TestIndex(t *testing.T) {
	t.Parallel()

	seq := &fakeSequence{stats: swapi.Stats{APICalls: 3, CacheSize: 7, Errors: 2}}
	handler := newHandler(t, seq, tasks.NewRunner(nil), server.Config{
		Debug:   true,
		Timeout: swapi.DefaultTimeout,
	})

	for _, path := range []string{"/", "/index.html"} {
		rec := do(handler, http.MethodGet, path)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"), path)
		assert.Contains(t, rec.Body.String(), "<title>Star Wars API Demo</title>", path)
		assert.Contains(t, rec.Body.String(), "API calls: 3 | Cache entries: 7 | Errors: 2", path)
		assert.Contains(t, rec.Body.String(), "Debug mode: ON | Timeout: 5000ms", path)
	}
}

func TestAPI(t *testing.T) {
	t.Parallel()

	t.Run("starts a run and answers immediately", func(t *testing.T) {
		t.Parallel()

		seq := &fakeSequence{ran: make(chan struct{}, 1)}
		runner := tasks.NewRunner(nil)
		handler := newHandler(t, seq, runner, server.Config{Timeout: swapi.DefaultTimeout})

		rec := do(handler, http.MethodGet, "/api")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
		assert.Equal(t, "Check server console for results", rec.Body.String())

		select {
		case <-seq.ran:
		case <-time.After(time.Second):
			t.Fatal("sequence was not started")
		}

		runner.Wait()
		assert.Equal(t, int64(1), seq.runs.Load())
	})

	t.Run("method is ignored", func(t *testing.T) {
		t.Parallel()

		runner := tasks.NewRunner(nil)
		handler := newHandler(t, &fakeSequence{}, runner, server.Config{})

		rec := do(handler, http.MethodPost, "/api")
		runner.Wait()

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejected after shutdown", func(t *testing.T) {
		t.Parallel()

		handler := newHandler(t, &fakeSequence{}, rejectingSubmitter{}, server.Config{})

		rec := do(handler, http.MethodGet, "/api")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	seq := &fakeSequence{}
	runner := tasks.NewRunner(nil)
	handler := newHandler(t, seq, runner, server.Config{})

	paths := []string{
		"/missing",
		"/api/",
		"/api/extra",
		"/stats/",
		"/index.html/",
		"/?x=1",
		"/?",
		"/index.html?v=2",
		"/stats?x=1",
		"/api?run=1",
	}

	for _, path := range paths {
		rec := do(handler, http.MethodGet, path)

		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "Not Found", rec.Body.String(), path)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"), path)
	}

	runner.Wait()
	assert.Zero(t, seq.runs.Load(), "a URL with a query must not start a run")
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("request id is generated", func(t *testing.T) {
		t.Parallel()

		handler := newHandler(t, &fakeSequence{}, tasks.NewRunner(nil), server.Config{})

		rec := do(handler, http.MethodGet, "/stats")

		assert.NotEmpty(t, rec.Header().Get(server.RequestIDHeader))
	})

	t.Run("request id is echoed", func(t *testing.T) {
		t.Parallel()

		handler := newHandler(t, &fakeSequence{}, tasks.NewRunner(nil), server.Config{})

		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		req.Header.Set(server.RequestIDHeader, "abc-123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(server.RequestIDHeader))
	})

	t.Run("panics become 500", func(t *testing.T) {
		t.Parallel()

		handler := newHandler(t, &fakeSequence{explode: true}, tasks.NewRunner(nil), server.Config{})

		rec := do(handler, http.MethodGet, "/stats")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal Server Error", rec.Body.String())
	})

	t.Run("requests are logged once with their status", func(t *testing.T) {
		t.Parallel()

		logger := &recordingLogger{}
		handler := newHandler(t, &fakeSequence{}, tasks.NewRunner(nil), server.Config{Logger: logger})

		do(handler, http.MethodGet, "/missing")

		lines := logger.debugLines()
		require.Len(t, lines, 1)
		assert.Equal(t, "HTTP request", lines[0].message)
		assert.Equal(t, http.StatusNotFound, lines[0].fields["status"])
		assert.Equal(t, "/missing", lines[0].fields["uri"])
		assert.NotEmpty(t, lines[0].fields["request_id"])
	})
}

func TestNewRejectsInvalidPort(t *testing.T) {
	t.Parallel()

	_, err := server.New(server.Config{Port: 70000}, &fakeSequence{}, tasks.NewRunner(nil))
	require.ErrorIs(t, err, constants.ErrInvalidPort)
}

func TestServe(t *testing.T) {
	t.Parallel()

	var console bytes.Buffer

	srv, err := server.New(server.Config{
		Debug:   true,
		Timeout: swapi.DefaultTimeout,
		Console: &console,
	}, &fakeSequence{}, tasks.NewRunner(nil))
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	port := listener.Addr().(*net.TCPAddr).Port

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- srv.Serve(ctx, listener)
	}()

	require.Eventually(t, func() bool {
		resp, getErr := http.Get("http://" + listener.Addr().String() + "/stats")
		if getErr != nil {
			return false
		}
		defer resp.Body.Close()

		_, _ = io.Copy(io.Discard, resp.Body)

		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	banner := console.String()
	assert.Contains(t, banner, "Server running at http://localhost:")
	assert.Contains(t, banner, "/\nOpen the URL in your browser and click the button to fetch Star Wars data\n")
	assert.Contains(t, banner, "Debug mode: ON\nTimeout: 5000 ms\n")
	assert.Contains(t, banner, ":"+strconv.Itoa(port)+"/")
}
