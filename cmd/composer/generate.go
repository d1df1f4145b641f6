// File: lixenwraith/composer/cmd/composer/generate.go
package main

import (
	"fmt"

	"github.com/lixenwraith/composer"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print a commented configuration scaffold",
	Long: `Print a commented scaffold listing every field of the demo schema with
its description, allowed types and default.

Examples:
  composer generate
  composer generate --wrapping "Demo.configure" --require demo --indent 4`,
	RunE: runGenerate,
}

var (
	generateWrapping   string
	generateRequire    string
	generateIndent     int
	generateConfigName string
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateWrapping, "wrapping", "App.configure", "statement opening the configuration block")
	generateCmd.Flags().StringVar(&generateRequire, "require", "", "emit a leading require line for this file")
	generateCmd.Flags().IntVar(&generateIndent, "indent", 2, "indent width in spaces")
	generateCmd.Flags().StringVar(&generateConfigName, "config-name", "config", "block variable name")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	text, err := demoSchema.GenerateConfig(composer.GenerateOptions{
		Wrapping:    generateWrapping,
		RequireFile: generateRequire,
		SpaceCount:  generateIndent,
		ConfigName:  generateConfigName,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}
