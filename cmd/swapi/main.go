package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/fivetwenty-io/swapi/cmd/swapi/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := commands.NewRootCommand(viper.New(), version, commit, date)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
