package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/swapi/internal/constants"
	"github.com/fivetwenty-io/swapi/internal/sequence"
)

// NewGetCommand creates the get command group for single resources.
func NewGetCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch and print a single resource",
		Long:  "Fetch one resource through the cache and print it with the same report as the fetch sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}

			return fmt.Errorf("%w: %s", constants.ErrUnknownResource, args[0])
		},
	}

	cmd.AddCommand(newGetPersonCommand(v))
	cmd.AddCommand(newGetStarshipsCommand(v))
	cmd.AddCommand(newGetPlanetsCommand(v))
	cmd.AddCommand(newGetFilmsCommand(v))
	cmd.AddCommand(newGetVehicleCommand(v))

	return cmd
}

func newGetPersonCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "person ID",
		Aliases: []string{"people", "character"},
		Short:   "Print a character",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd, v, func(application *app) error {
				person, err := application.client.People().Get(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("failed to get person %d: %w", id, err)
				}

				return application.printer.Character(person)
			})
		},
	}
}

func newGetStarshipsCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "starships [PAGE]",
		Aliases: []string{"starship"},
		Short:   "Print the first starships of a page",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := pageArg(args)
			if err != nil {
				return err
			}

			return withApp(cmd, v, func(application *app) error {
				starships, err := application.client.Starships().List(cmd.Context(), page)
				if err != nil {
					return fmt.Errorf("failed to list starships: %w", err)
				}

				return application.printer.Starships(starships)
			})
		},
	}
}

func newGetPlanetsCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "planets [PAGE]",
		Aliases: []string{"planet"},
		Short:   "Print the large populated planets of a page",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := pageArg(args)
			if err != nil {
				return err
			}

			return withApp(cmd, v, func(application *app) error {
				planets, err := application.client.Planets().List(cmd.Context(), page)
				if err != nil {
					return fmt.Errorf("failed to list planets: %w", err)
				}

				return application.printer.LargePlanets(planets)
			})
		},
	}
}

func newGetFilmsCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "films",
		Aliases: []string{"film"},
		Short:   "Print all films in release order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, v, func(application *app) error {
				films, err := application.client.Films().List(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list films: %w", err)
				}

				if len(films.Results) == 0 {
					return constants.ErrNoResultsReturned
				}

				return application.printer.Films(sequence.SortFilmsByReleaseDate(films.Results))
			})
		},
	}
}

func newGetVehicleCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "vehicle ID",
		Aliases: []string{"vehicles"},
		Short:   "Print a vehicle",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withApp(cmd, v, func(application *app) error {
				vehicle, err := application.client.Vehicles().Get(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("failed to get vehicle %d: %w", id, err)
				}

				return application.printer.Vehicle(vehicle)
			})
		},
	}
}

func withApp(cmd *cobra.Command, v *viper.Viper, fn func(*app) error) error {
	application, err := newApp(cmd.Context(), cmd, v)
	if err != nil {
		return err
	}
	defer application.Close()

	return fn(application)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", constants.ErrInvalidID, arg)
	}

	return id, nil
}

func pageArg(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	return parseID(args[0])
}
