package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/swapi/internal/constants"
	"github.com/fivetwenty-io/swapi/internal/server"
	"github.com/fivetwenty-io/swapi/internal/tasks"
)

// NewServeCommand creates the serve command. It is also what the bare root
// command runs.
func NewServeCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo page and trigger endpoints",
		Long: `Start the local HTTP front-end.

  /            demo page with live counters
  /api         start one fetch sequence; results are printed on this console
  /stats       counters and configuration as JSON

The port is taken from --port, PORT or SWAPI_PORT (default 3000).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunServe(cmd, v)
		},
	}
}

// RunServe runs the front-end until SIGINT or SIGTERM.
func RunServe(cmd *cobra.Command, v *viper.Viper) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := newApp(ctx, cmd, v)
	if err != nil {
		return err
	}
	defer application.Close()

	runner := tasks.NewRunner(application.logger)

	srv, err := server.New(server.Config{
		Port:           application.settings.Port,
		Debug:          application.settings.Debug,
		Timeout:        application.settings.Timeout,
		MetricsAddr:    application.settings.MetricsAddr,
		MetricsHandler: application.counters.Handler(),
		Console:        cmd.OutOrStdout(),
		Logger:         application.logger,
	}, application.controller, runner)
	if err != nil {
		return err
	}

	err = srv.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	runnerErr := runner.Shutdown(shutdownCtx)
	if runnerErr != nil {
		application.logger.Warn("Fetch sequences still running at exit", map[string]interface{}{
			"error": runnerErr.Error(),
		})
	}

	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	return nil
}
