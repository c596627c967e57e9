package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ui-locator-mcp/internal/imaging"
)

var (
	locateScreenshot string
	locateQuestion   string
	locateModel      string
)

// locateOutput is what the locate command prints.
type locateOutput struct {
	X                 int            `json:"x" yaml:"x"`
	Y                 int            `json:"y" yaml:"y"`
	LogicalX          int            `json:"logical_x" yaml:"logical_x"`
	LogicalY          int            `json:"logical_y" yaml:"logical_y"`
	Confidence        string         `json:"confidence" yaml:"confidence"`
	Method            string         `json:"method" yaml:"method"`
	Verified          bool           `json:"verified" yaml:"verified"`
	CorrectionApplied bool           `json:"correction_applied" yaml:"correction_applied"`
	ElementType       string         `json:"element_type" yaml:"element_type"`
	Model             string         `json:"model" yaml:"model"`
	DurationMS        int64          `json:"duration_ms" yaml:"duration_ms"`
	Metadata          map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Locate one element in a screenshot",
	Long: `Resolve a single question against a screenshot and print the result.

Examples:
  ui-locator locate -s shot.png -q "Where is the Save button?"
  ui-locator locate -s shot.png -q "Where is the gear icon?" --model gpt-4o -o yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		if locateScreenshot == "" {
			return errors.New("--screenshot is required")
		}
		if strings.TrimSpace(locateQuestion) == "" {
			return errors.New("--question is required")
		}

		ctx, a, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		img, err := imaging.NewImageCache().Load(locateScreenshot)
		if err != nil {
			return err
		}
		if err := a.openResolver(ctx); err != nil {
			return err
		}

		model := a.cfg.Vision.ModelConfig()
		if locateModel != "" {
			model.Model = locateModel
			if strings.Contains(locateModel, "/") {
				model.Provider = ""
			}
		}

		res, err := a.resolver.ResolveWithModel(ctx, img, locateQuestion, model)
		if err != nil {
			return err
		}

		logical := a.conv.PhysicalToLogical(res.Point())
		return printOutput(cmd.OutOrStdout(), locateOutput{
			X:                 res.X,
			Y:                 res.Y,
			LogicalX:          logical.X,
			LogicalY:          logical.Y,
			Confidence:        string(res.Confidence),
			Method:            string(res.Method),
			Verified:          res.Verified,
			CorrectionApplied: res.CorrectionApplied,
			ElementType:       string(res.ElementType),
			Model:             res.Model,
			DurationMS:        res.Duration.Milliseconds(),
			Metadata:          res.Metadata,
		})
	},
}

func init() {
	locateCmd.Flags().StringVarP(&locateScreenshot, "screenshot", "s", "", "path to a full-screen screenshot")
	locateCmd.Flags().StringVarP(&locateQuestion, "question", "q", "", "question describing the element")
	locateCmd.Flags().StringVar(&locateModel, "model", "", "vision model override")

	rootCmd.AddCommand(locateCmd)
}
