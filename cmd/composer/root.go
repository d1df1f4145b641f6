// File: lixenwraith/composer/cmd/composer/root.go
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "composer",
	Short: "Inspect and render the demo composer schema",
	Long: `composer renders the declarations of a demo schema.

Commands:
  composer generate     # Commented configuration scaffold
  composer export       # Current values as TOML, YAML or JSON
  composer jsonschema   # JSON Schema of the declarations
  composer debug        # Values, defaults and assignment state`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
		demoSchema.SetLogger(logger)
		demoClientSchema.SetLogger(logger)
		demoRetrySchema.SetLogger(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug diagnostics to stderr")
}
