package locate

import (
	"image"

	"github.com/ironsheep/ui-locator-mcp/internal/imaging"
	"github.com/ironsheep/ui-locator-mcp/internal/vision"
)

// Options tunes the strategies.
type Options struct {
	// MaxElements caps the OCR elements offered to the model, in extractor order.
	MaxElements int `mapstructure:"max_elements" yaml:"max_elements"`
	// RegionSize is the side of the verification square, in physical pixels.
	RegionSize int `mapstructure:"region_size" yaml:"region_size"`
	// MaxCorrection bounds each axis of a verification offset.
	MaxCorrection int `mapstructure:"max_correction" yaml:"max_correction"`
	// MaxImageWidth downscales screenshots before they are sent; 0 disables.
	MaxImageWidth int `mapstructure:"max_image_width" yaml:"max_image_width"`
	// MarkerColor is the verification crosshair colour as #RRGGBB or
	// #RRGGBBAA. Empty picks a colour that contrasts with the background.
	MarkerColor string `mapstructure:"marker_color" yaml:"marker_color"`
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		MaxElements:   100,
		RegionSize:    200,
		MaxCorrection: 100,
		MaxImageWidth: 1920,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxElements <= 0 {
		o.MaxElements = d.MaxElements
	}
	if o.RegionSize <= 0 {
		o.RegionSize = d.RegionSize
	}
	if o.MaxCorrection <= 0 {
		o.MaxCorrection = d.MaxCorrection
	}
	if o.MaxImageWidth < 0 {
		o.MaxImageWidth = 0
	}
	return o
}

// crosshair returns the verification marker style. An unparsable colour
// falls back to the contrast default.
func (o Options) crosshair() (imaging.Crosshair, error) {
	style := imaging.DefaultCrosshair
	if o.MarkerColor == "" {
		return style, nil
	}
	c, err := imaging.ParseHexColor(o.MarkerColor)
	if err != nil {
		return style, err
	}
	style.Color = c
	return style, nil
}

// Request is the input shared by every strategy in one resolution.
type Request struct {
	Screenshot image.Image
	Question   string
	Model      vision.ModelConfig
}
