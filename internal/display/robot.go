//go:build darwin || windows

package display

import (
	"context"
	"fmt"
	"image"
	"math"

	robotgo "github.com/go-vgo/robotgo"

	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
)

// Robot queries the desktop through robotgo. robotgo works in logical
// points; results are converted to physical pixels with its scale factor.
type Robot struct{}

// Open returns the robotgo display. The display name is ignored.
func Open(ctx context.Context, display string) (Display, error) {
	if w, h := robotgo.GetScreenSize(); w <= 0 || h <= 0 {
		return nil, ErrUnavailable
	}
	return &Robot{}, nil
}

// Name implements Display.
func (r *Robot) Name() string { return "robotgo" }

// Close implements Display.
func (r *Robot) Close() error { return nil }

func (r *Robot) scale() float64 {
	if s := robotgo.ScaleF(); s > 0 {
		return s
	}
	return 1
}

// ScreenInfo reports the main display.
func (r *Robot) ScreenInfo(ctx context.Context) (geometry.ScreenInfo, error) {
	lw, lh := robotgo.GetScreenSize()
	if lw <= 0 || lh <= 0 {
		return geometry.ScreenInfo{}, ErrUnavailable
	}
	s := r.scale()
	pw, ph := int(math.Round(float64(lw)*s)), int(math.Round(float64(lh)*s))
	return geometry.NewScreenInfo(pw, ph, lw, lh, 96*s, 96*s)
}

// FocusedWindow returns the frontmost window of the active process.
func (r *Robot) FocusedWindow(ctx context.Context) (*geometry.WindowInfo, error) {
	pid := robotgo.GetPid()
	if pid <= 0 {
		return nil, ErrNoFocusedWindow
	}

	x, y, w, h := robotgo.GetBounds(pid)
	s := r.scale()
	info := &geometry.WindowInfo{
		Title:   robotgo.GetTitle(),
		OriginX: int(math.Round(float64(x) * s)),
		OriginY: int(math.Round(float64(y) * s)),
		Width:   int(math.Round(float64(w) * s)),
		Height:  int(math.Round(float64(h) * s)),
	}
	if !info.Valid() {
		return nil, fmt.Errorf("window of pid %d has size %dx%d: %w", pid, info.Width, info.Height, ErrNoFocusedWindow)
	}
	return info, nil
}

// CaptureRegion captures a physical region. robotgo takes logical
// coordinates and returns a bitmap at backing resolution.
func (r *Robot) CaptureRegion(ctx context.Context, region geometry.Rect) (image.Image, error) {
	if region.Empty() {
		return nil, fmt.Errorf("capture: empty region %+v", region)
	}
	s := r.scale()
	x := int(math.Floor(float64(region.X) / s))
	y := int(math.Floor(float64(region.Y) / s))
	w := int(math.Ceil(float64(region.Width) / s))
	h := int(math.Ceil(float64(region.Height) / s))

	bitmap := robotgo.CaptureScreen(x, y, w, h)
	if bitmap == nil {
		return nil, fmt.Errorf("failed to capture screen")
	}
	defer robotgo.FreeBitmap(bitmap)

	img := robotgo.ToImage(bitmap)
	if img == nil {
		return nil, fmt.Errorf("failed to convert bitmap to image")
	}
	return img, nil
}

var _ Display = (*Robot)(nil)
