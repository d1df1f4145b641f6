// File: lixenwraith/composer/cmd/composer/export.go
package main

import (
	"fmt"
	"os"

	"github.com/lixenwraith/composer"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the demo instance values",
	Long: `Build a demo instance and print its values.

Sources are applied in order: --input data, environment variables with
--env-prefix, then field flags named after dotted paths.

Examples:
  composer export --format yaml
  composer export --env-prefix APP_ --http_client.timeout 5
  composer export --input app.toml --format json`,
	RunE: runExport,
}

var (
	exportFormat    string
	exportInput     string
	exportEnvPrefix string
	exportDefaults  bool
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "toml", "output format: toml, yaml or json")
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "read values from a TOML, YAML or JSON file")
	exportCmd.Flags().StringVar(&exportEnvPrefix, "env-prefix", "", "load values from environment variables with this prefix")
	exportCmd.Flags().BoolVar(&exportDefaults, "assign-defaults", true, "materialize defaults before printing")

	if err := demoSchema.RegisterFlags(exportCmd.Flags()); err != nil {
		panic(err)
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := composer.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	if format == composer.FormatAuto {
		return fmt.Errorf("an output format is required")
	}

	inst, err := buildDemo(cmd, exportDefaults)
	if err != nil {
		return err
	}
	return inst.Dump(cmd.OutOrStdout(), format)
}

// buildDemo creates the demo instance from the command's sources.
func buildDemo(cmd *cobra.Command, assignDefaults bool) (*composer.Instance, error) {
	builder := composer.NewBuilder(demoSchema)

	if exportInput != "" {
		data, err := os.ReadFile(exportInput)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file '%s': %w", exportInput, err)
		}
		builder.WithData(composer.FormatAuto, data)
	}
	if exportEnvPrefix != "" {
		builder.WithEnvPrefix(exportEnvPrefix)
	}
	if assignDefaults {
		builder.WithAssignDefaults()
	}

	inst, err := builder.Build()
	if err != nil {
		return nil, err
	}
	if err := inst.BindFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return inst, nil
}
