package display

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/imaging"
)

// Static is a Display with a fixed screen description. It serves the focused
// window only if one was supplied and captures by cropping the supplied
// screenshot, which is assumed to cover the whole physical screen.
type Static struct {
	screen     geometry.ScreenInfo
	window     *geometry.WindowInfo
	screenshot image.Image
}

// NewStatic creates a static display. window and screenshot may be nil.
func NewStatic(screen geometry.ScreenInfo, window *geometry.WindowInfo, screenshot image.Image) *Static {
	return &Static{screen: screen, window: window, screenshot: screenshot}
}

// Name implements Display.
func (s *Static) Name() string { return "static" }

// Close implements Display.
func (s *Static) Close() error { return nil }

// ScreenInfo returns the configured screen.
func (s *Static) ScreenInfo(ctx context.Context) (geometry.ScreenInfo, error) {
	return s.screen, nil
}

// FocusedWindow returns a copy of the configured window.
func (s *Static) FocusedWindow(ctx context.Context) (*geometry.WindowInfo, error) {
	if s.window == nil {
		return nil, ErrNoFocusedWindow
	}
	w := *s.window
	return &w, nil
}

// CaptureRegion crops the screenshot, scaling the region from physical pixels
// to screenshot pixels first and the crop back to the region size after.
func (s *Static) CaptureRegion(ctx context.Context, region geometry.Rect) (image.Image, error) {
	if s.screenshot == nil {
		return nil, fmt.Errorf("capture %v: %w", region, ErrUnavailable)
	}
	if region.Empty() {
		return nil, fmt.Errorf("capture: empty region %+v", region)
	}

	imgW, imgH := imaging.Size(s.screenshot)
	sx, sy := 1.0, 1.0
	if s.screen.PhysicalWidth > 0 && s.screen.PhysicalHeight > 0 {
		sx = float64(imgW) / float64(s.screen.PhysicalWidth)
		sy = float64(imgH) / float64(s.screen.PhysicalHeight)
	}
	x0 := int(math.Floor(float64(region.X) * sx))
	y0 := int(math.Floor(float64(region.Y) * sy))
	x1 := int(math.Ceil(float64(region.X+region.Width) * sx))
	y1 := int(math.Ceil(float64(region.Y+region.Height) * sy))

	crop, err := imaging.Crop(s.screenshot, geometry.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0})
	if err != nil {
		return nil, fmt.Errorf("capture %v: %w", region, err)
	}

	if w, h := imaging.Size(crop); w == region.Width && h == region.Height {
		return crop, nil
	}
	return imaging.Resize(crop, region.Width, region.Height)
}

var _ Display = (*Static)(nil)
