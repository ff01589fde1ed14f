package commands

import (
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/swapi/internal/constants"
)

// VersionInfo describes the build.
type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit"  yaml:"commit"`
	Built   string `json:"built"   yaml:"built"`
}

// NewVersionCommand creates the version command
func NewVersionCommand(v *viper.Viper, version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the swapi CLI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			versionInfo := VersionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
			}

			out := cmd.OutOrStdout()

			switch v.GetString(KeyOutput) {
			case constants.FormatJSON:
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")

				return encoder.Encode(versionInfo)
			case constants.FormatYAML:
				return yaml.NewEncoder(out).Encode(versionInfo)
			default:
				table := tablewriter.NewWriter(out)
				table.Header("Property", "Value")
				_ = table.Append("Version", version)
				_ = table.Append("Commit", commit)
				_ = table.Append("Built", date)

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}
