package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	errSequenceFailed = errors.New("fetch sequence failed")
	errInvalidRuns    = errors.New("--runs must be at least 1")
)

// NewFetchCommand creates the fetch command, which runs the sequence on the
// console without starting the server.
func NewFetchCommand(v *viper.Viper) *cobra.Command {
	var (
		runs    int
		startID int
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run the fetch sequence once and print the results",
		Long: `Fetch a character, the first starship and planet pages, all films and,
once the cursor is past 4, a vehicle, printing each report.

With --runs the sequence repeats against the same cache, so later runs are
served from memory and the cursor advances after every successful vehicle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if runs < 1 {
				return errInvalidRuns
			}

			application, err := newApp(cmd.Context(), cmd, v)
			if err != nil {
				return err
			}
			defer application.Close()

			if startID > 0 {
				application.controller.SetLastID(startID)
			}

			failed := 0

			for range runs {
				err = application.controller.Run(cmd.Context())
				if err != nil {
					failed++
				}
			}

			if !application.settings.Debug {
				err = application.printer.Stats(application.controller.Stats(cmd.Context()))
				if err != nil {
					return err
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d runs", errSequenceFailed, failed, runs)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&runs, "runs", 1, "number of sequences to run")
	cmd.Flags().IntVar(&startID, "start-id", 0, "initial cursor (character and vehicle id)")

	return cmd
}
