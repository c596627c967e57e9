package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgFile      string
	envFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "ui-locator",
	Short: "Locate UI elements in screenshots for desktop automation",
	Long: `ui-locator answers questions like "Where is the Save button?" with the
physical screen coordinates of the element, ready to click.

Resolution tries, in order:
  - OCR text matching (text questions only)
  - Coordinates relative to the focused window
  - Full-screen vision analysis

Results below high confidence are verified against a zoomed crop and
corrected when the vision model reports an offset.

Run "ui-locator serve" to expose the locator as an MCP server over stdio.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.ui-locator/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&envFile, "env-file", ".env", "dotenv file loaded before the configuration",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "json", "output format: json or yaml",
	)

	rootCmd.AddCommand(versionCmd)
}

// printOutput writes v to w in the selected output format.
func printOutput(w io.Writer, v any) error {
	switch outputFormat {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format: %s", outputFormat)
	}
}
