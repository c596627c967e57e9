package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/ocr"
)

// screenOutput reports the display and OCR backend.
type screenOutput struct {
	Backend string               `json:"backend" yaml:"backend"`
	Screen  geometry.ScreenInfo  `json:"screen" yaml:"screen"`
	Window  *geometry.WindowInfo `json:"focused_window,omitempty" yaml:"focused_window,omitempty"`
	OCR     *ocr.Info            `json:"ocr,omitempty" yaml:"ocr,omitempty"`
}

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Show the detected display configuration",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, a, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		a.openDisplay(ctx)
		out := screenOutput{Backend: "configured", Screen: a.conv.Screen()}
		if a.display != nil {
			out.Backend = a.display.Name()
			if win, err := a.display.FocusedWindow(ctx); err == nil {
				out.Window = win
			}
		}
		if a.cfg.OCR.Enabled {
			info := ocr.NewTesseract(a.cfg.OCR.Options()).Info()
			out.OCR = &info
		}
		return printOutput(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)
}
