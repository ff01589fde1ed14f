package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/swapi/internal/constants"
)

// KeyConfig names the --config flag in viper.
const KeyConfig = "config"

// settableKeys are the keys accepted by config set and config unset.
var settableKeys = []string{
	KeyDebug,
	KeyTimeout,
	KeyPort,
	KeyBaseURL,
	KeyOutput,
	KeyLogLevel,
	KeySkipTLSVerify,
	KeyUserAgent,
	KeyCacheType,
	KeyCacheNATSURL,
	KeyCacheNATSBucket,
	KeyMetricsAddr,
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show the effective settings and edit the persistent configuration file",
	}

	cmd.AddCommand(newConfigShowCommand(v))
	cmd.AddCommand(newConfigSetCommand(v))
	cmd.AddCommand(newConfigUnsetCommand(v))
	cmd.AddCommand(newConfigPathCommand(v))

	return cmd
}

func newConfigShowCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the settings resolved from flags, environment, config file and defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := LoadSettings(v)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			switch string(settings.Output) {
			case constants.FormatJSON:
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")

				return encoder.Encode(settings)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(out)
				defer func() { _ = encoder.Close() }()

				return encoder.Encode(settings)
			default:
				return displaySettingsTable(out, settings)
			}
		},
	}
}

func newConfigSetCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: fmt.Sprintf("Persist a configuration value in the config file.\n\nKeys: %s",
			strings.Join(settableKeys, ", ")),
		Args: cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if !slices.Contains(settableKeys, key) {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			path, err := configPath(v)
			if err != nil {
				return err
			}

			doc, err := readConfigFile(path)
			if err != nil {
				return err
			}

			setNested(doc, strings.Split(key, "."), typedValue(value))

			err = writeConfigFile(path, doc)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, path)

			return nil
		},
	}
}

func newConfigUnsetCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file so its default applies again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			if !slices.Contains(settableKeys, key) {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			path, err := configPath(v)
			if err != nil {
				return err
			}

			doc, err := readConfigFile(path)
			if err != nil {
				return err
			}

			if !unsetNested(doc, strings.Split(key, ".")) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is not set in %s\n", key, path)

				return nil
			}

			err = writeConfigFile(path, doc)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s in %s\n", key, path)

			return nil
		},
	}
}

func newConfigPathCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := configPath(v)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)

			return nil
		},
	}
}

func displaySettingsTable(out io.Writer, settings *Settings) error {
	table := tablewriter.NewWriter(out)
	table.Header("Setting", "Value")

	_ = table.Append("debug", strconv.FormatBool(settings.Debug))
	_ = table.Append("timeout", settings.Timeout.String())
	_ = table.Append("port", strconv.Itoa(settings.Port))
	_ = table.Append("base_url", settings.BaseURL)
	_ = table.Append("output", string(settings.Output))
	_ = table.Append("log_level", settings.LogLevel)
	_ = table.Append("tls.skip_verify", strconv.FormatBool(settings.SkipTLSVerify))
	_ = table.Append("user_agent", settings.UserAgent)
	_ = table.Append("cache.type", settings.CacheType)

	if settings.NATSURL != "" {
		_ = table.Append("cache.nats.url", settings.NATSURL)
		_ = table.Append("cache.nats.bucket", settings.NATSBucket)
	}

	if settings.MetricsAddr != "" {
		_ = table.Append("metrics_addr", settings.MetricsAddr)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// configPath returns the file edited by config set: --config when given,
// otherwise ~/.swapi/config.yml.
func configPath(v *viper.Viper) (string, error) {
	if path := v.GetString(KeyConfig); path != "" {
		return path, nil
	}

	if path := v.ConfigFileUsed(); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName), nil
}

func readConfigFile(path string) (map[string]interface{}, error) {
	doc := map[string]interface{}{}

	// path comes from the user's own --config flag or home directory
	// #nosec G304
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if doc == nil {
		doc = map[string]interface{}{}
	}

	return doc, nil
}

func writeConfigFile(path string, doc map[string]interface{}) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// typedValue keeps integers and booleans unquoted in the written yaml.
// Anything else, NaN included, is written as a string.
func typedValue(value string) interface{} {
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return value
}

func setNested(doc map[string]interface{}, path []string, value interface{}) {
	if len(path) == 1 {
		doc[path[0]] = value

		return
	}

	child, ok := doc[path[0]].(map[string]interface{})
	if !ok {
		child = map[string]interface{}{}
		doc[path[0]] = child
	}

	setNested(child, path[1:], value)
}

func unsetNested(doc map[string]interface{}, path []string) bool {
	if len(path) == 1 {
		if _, ok := doc[path[0]]; !ok {
			return false
		}

		delete(doc, path[0])

		return true
	}

	child, ok := doc[path[0]].(map[string]interface{})
	if !ok {
		return false
	}

	removed := unsetNested(child, path[1:])
	if len(child) == 0 {
		delete(doc, path[0])
	}

	return removed
}
