// File: lixenwraith/composer/cmd/composer/inspect.go
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var jsonSchemaCmd = &cobra.Command{
	Use:   "jsonschema",
	Short: "Print the JSON Schema of the demo schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := json.MarshalIndent(demoSchema.JSONSchema(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON Schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Print values, defaults and assignment state of the demo instance",
	RunE: func(cmd *cobra.Command, args []string) error {
		inst, err := buildDemo(cmd, false)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), inst.Debug())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jsonSchemaCmd)
	rootCmd.AddCommand(debugCmd)

	debugCmd.Flags().StringVarP(&exportInput, "input", "i", "", "read values from a TOML, YAML or JSON file")
	debugCmd.Flags().StringVar(&exportEnvPrefix, "env-prefix", "", "load values from environment variables with this prefix")

	if err := demoSchema.RegisterFlags(debugCmd.Flags()); err != nil {
		panic(err)
	}
}
