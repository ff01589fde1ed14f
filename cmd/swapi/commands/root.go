package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/swapi/internal/constants"
)

// NewRootCommand builds the swapi command tree around v. Running it with no
// subcommand starts the server, like serve.
func NewRootCommand(v *viper.Viper, version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "swapi",
		Short: "Star Wars API fetch, cache and report demo",
		Long: `Fetch characters, starships, planets, films and vehicles from the Star Wars
API, cache every response for the life of the process and print readable
reports.

Without a subcommand a local web page is served; its button starts a fetch
sequence whose output appears on this console.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, v)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunServe(cmd, v)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.swapi/config.yml)")
	flags.Bool("no-debug", false, "disable debug output")
	flags.String("timeout", fmt.Sprint(constants.DefaultTimeoutMillis), "request timeout in milliseconds (0 or NaN disables it)")
	flags.IntP("port", "p", constants.DefaultPort, "listen port of the web page (also PORT)")
	flags.StringP("output", "o", constants.FormatText, "report format (text, table, json, yaml, auto)")
	flags.String("base-url", "", "API base URL")
	flags.Bool("skip-tls-verify", true, "skip TLS certificate verification")
	flags.String("user-agent", constants.DefaultUserAgent, "User-Agent header sent to the API")
	flags.String("log-level", "", "log level (debug, info, warn, error); defaults from debug mode")
	flags.String("cache-type", "", "response cache backend (memory, nats)")
	flags.String("nats-url", "", "NATS server URL for the nats cache")
	flags.String("nats-bucket", "", "JetStream key-value bucket for the nats cache")
	flags.String("metrics-addr", "", "address of a separate Prometheus /metrics listener")

	bindings := map[string]string{
		KeyConfig:          "config",
		KeyNoDebug:         "no-debug",
		KeyTimeout:         "timeout",
		KeyPort:            "port",
		KeyOutput:          "output",
		KeyBaseURL:         "base-url",
		KeySkipTLSVerify:   "skip-tls-verify",
		KeyUserAgent:       "user-agent",
		KeyLogLevel:        "log-level",
		KeyCacheType:       "cache-type",
		KeyCacheNATSURL:    "nats-url",
		KeyCacheNATSBucket: "nats-bucket",
		KeyMetricsAddr:     "metrics-addr",
	}
	for key, flag := range bindings {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	SetDefaults(v)

	rootCmd.AddCommand(NewServeCommand(v))
	rootCmd.AddCommand(NewFetchCommand(v))
	rootCmd.AddCommand(NewGetCommand(v))
	rootCmd.AddCommand(NewConfigCommand(v))
	rootCmd.AddCommand(NewVersionCommand(v, version, commit, date))

	return rootCmd
}

func initConfig(cmd *cobra.Command, v *viper.Viper) error {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv(KeyPort, "SWAPI_PORT", "PORT")

	cfgFile := v.GetString(KeyConfig)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}

		v.AddConfigPath(filepath.Join(home, constants.ConfigDirName))
		v.SetConfigType("yml")
		v.SetConfigName(strings.TrimSuffix(constants.ConfigFileName, filepath.Ext(constants.ConfigFileName)))
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("failed to read config file: %w", err)
	}

	if !v.GetBool(KeyNoDebug) && v.GetBool(KeyDebug) {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", v.ConfigFileUsed())
	}

	return nil
}
