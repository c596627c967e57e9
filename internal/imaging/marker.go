package imaging

import (
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
)

// Crosshair describes the marker drawn on a verification crop.
type Crosshair struct {
	// Arm is the length of each line on either side of the centre.
	Arm int
	// Thickness is the line width in pixels.
	Thickness int
	// Color is the line colour. A zero value picks ContrastColor against the
	// area under the marker.
	Color color.Color
}

// DefaultCrosshair is a 2px wide cross reaching 10px from its centre.
var DefaultCrosshair = Crosshair{Arm: 10, Thickness: 2}

// DrawCrosshair returns a copy of img with a cross centred on p (image
// pixels). Pixels falling outside the image are skipped, so a marker at the
// edge of a crop is drawn partially.
func DrawCrosshair(img image.Image, p geometry.Point, style Crosshair) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	arm := style.Arm
	if arm <= 0 {
		arm = DefaultCrosshair.Arm
	}
	thickness := style.Thickness
	if thickness <= 0 {
		thickness = DefaultCrosshair.Thickness
	}

	lineColor := style.Color
	if lineColor == nil {
		area := geometry.SquareAround(p, 2*arm+1, geometry.Rect{Width: bounds.Dx(), Height: bounds.Dy()})
		lineColor = ContrastColor(AverageColor(result, area))
	}

	lo := -(thickness / 2)
	hi := lo + thickness

	// Horizontal line
	for x := p.X - arm; x <= p.X+arm; x++ {
		for t := lo; t < hi; t++ {
			setIn(result, x, p.Y+t, lineColor)
		}
	}

	// Vertical line
	for y := p.Y - arm; y <= p.Y+arm; y++ {
		for t := lo; t < hi; t++ {
			setIn(result, p.X+t, y, lineColor)
		}
	}

	return result
}

func setIn(img *image.RGBA, x, y int, c color.Color) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

// ParseHexColor reads a colour written as RRGGBB or RRGGBBAA hex digits,
// with or without a leading '#'. Alpha defaults to opaque.
func ParseHexColor(s string) (color.RGBA, error) {
	digits := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(digits) != 6 && len(digits) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q: want 6 or 8 hex digits", s)
	}
	b, err := hex.DecodeString(digits)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	c := color.RGBA{R: b[0], G: b[1], B: b[2], A: 0xff}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}
