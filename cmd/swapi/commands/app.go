package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/swapi/internal/logging"
	"github.com/fivetwenty-io/swapi/internal/metrics"
	"github.com/fivetwenty-io/swapi/internal/report"
	"github.com/fivetwenty-io/swapi/internal/sequence"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
	"github.com/fivetwenty-io/swapi/pkg/swapiclient"
)

// app wires the components shared by serve, fetch and get.
type app struct {
	settings   *Settings
	logger     *swapi.SlogLogger
	counters   *metrics.Counters
	client     *swapiclient.Client
	printer    *report.Printer
	controller *sequence.Controller
}

// newApp builds the app from the command's viper settings. The caller
// must Close it.
func newApp(ctx context.Context, cmd *cobra.Command, v *viper.Viper) (*app, error) {
	settings, err := LoadSettings(v)
	if err != nil {
		return nil, err
	}

	logger := swapi.NewSlogLogger(newSlog(cmd.ErrOrStderr(), settings))

	if warning := settings.TimeoutWarning(); warning != "" {
		logger.Warn("Request timeout disabled or unusable", map[string]interface{}{"detail": warning})
	}

	counters := metrics.NewCounters()

	client, err := swapiclient.New(ctx, settings.ClientConfig(logger, counters))
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	printer := report.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), settings.Output)

	controller := sequence.NewController(client, counters, printer,
		sequence.WithDebug(settings.Debug),
		sequence.WithLogger(logger),
	)

	return &app{
		settings:   settings,
		logger:     logger,
		counters:   counters,
		client:     client,
		printer:    printer,
		controller: controller,
	}, nil
}

// Close releases the cache backend.
func (a *app) Close() {
	err := a.client.Close()
	if err != nil {
		a.logger.Warn("Failed to close cache", map[string]interface{}{"error": err.Error()})
	}
}

func newSlog(w io.Writer, settings *Settings) *slog.Logger {
	if level, ok := logging.LevelFromString(settings.LogLevel); ok {
		return logging.NewWithLevel(w, level)
	}

	return logging.New(w, settings.Debug)
}
