// Package server serves the demo page, the /api trigger and /stats.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fivetwenty-io/swapi/internal/constants"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

// Config holds the listener and page settings.
type Config struct {
	Port    int
	Debug   bool
	Timeout swapi.Timeout

	// MetricsAddr enables a separate listener serving MetricsHandler at
	// /metrics when non-empty.
	MetricsAddr    string
	MetricsHandler http.Handler

	// Console receives the startup banner.
	Console io.Writer
	Logger  swapi.Logger
}

// Server is the front-end HTTP server.
type Server struct {
	config  Config
	echo    *echo.Echo
	metrics *echo.Echo
	started bool
	logger  swapi.Logger
}

// New creates a server. Nothing listens until Run.
func New(config Config, sequence Sequence, submitter Submitter) (*Server, error) {
	if config.Port < 0 || config.Port > 65535 {
		return nil, fmt.Errorf("%w: %d", constants.ErrInvalidPort, config.Port)
	}

	if config.Logger == nil {
		config.Logger = swapi.NopLogger{}
	}

	if config.Console == nil {
		config.Console = io.Discard
	}

	h := &handlers{
		sequence:  sequence,
		submitter: submitter,
		logger:    config.Logger,
		debug:     config.Debug,
		timeout:   config.Timeout,
	}

	return &Server{
		config: config,
		echo:   h.routes(),
		logger: config.Logger,
	}, nil
}

// Handler returns the routed handler with its middleware.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run listens on the configured port, prints the banner and serves until
// ctx is cancelled. It then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(s.config.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.config.Port, err)
	}

	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.echo.Listener = listener
	s.echo.Server.ReadHeaderTimeout = constants.ReadHeaderTimeout
	s.started = true

	errCh := make(chan error, 2)

	go func() {
		errCh <- s.echo.Start("")
	}()

	if s.config.MetricsAddr != "" && s.config.MetricsHandler != nil {
		s.metrics = newEcho()
		s.metrics.GET("/metrics", echo.WrapHandler(s.config.MetricsHandler))
		s.metrics.Server.ReadHeaderTimeout = constants.ReadHeaderTimeout

		go func() {
			errCh <- s.metrics.Start(s.config.MetricsAddr)
		}()

		s.logger.Info("Metrics listener started", map[string]interface{}{"addr": s.config.MetricsAddr})
	}

	s.printBanner(listener.Addr())

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = s.Shutdown(context.Background())

			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.started {
		return constants.ErrServerNotStarted
	}

	if s.metrics != nil {
		_ = s.metrics.Shutdown(ctx)
	}

	err := s.echo.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}

func (s *Server) printBanner(addr net.Addr) {
	port := s.config.Port
	if tcpAddr, ok := addr.(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}

	_, _ = fmt.Fprintf(s.config.Console, "Server running at http://localhost:%d/\n", port)
	_, _ = fmt.Fprintln(s.config.Console, "Open the URL in your browser and click the button to fetch Star Wars data")

	if s.config.Debug {
		_, _ = fmt.Fprintln(s.config.Console, "Debug mode: ON")
		_, _ = fmt.Fprintf(s.config.Console, "Timeout: %s ms\n", s.config.Timeout)
	}
}

// newEcho returns an instance that prints nothing on start; the server
// writes its own banner.
func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	return e
}
