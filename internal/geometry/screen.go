package geometry

import "fmt"

// ScreenInfo describes the active display configuration.
//
// ScaleX and ScaleY always equal Physical/Logical for their axis; use
// NewScreenInfo or DefaultScreenInfo rather than filling the struct by hand.
type ScreenInfo struct {
	PhysicalWidth  int     `json:"physical_width"`
	PhysicalHeight int     `json:"physical_height"`
	LogicalWidth   int     `json:"logical_width"`
	LogicalHeight  int     `json:"logical_height"`
	DPIX           float64 `json:"dpi_x"`
	DPIY           float64 `json:"dpi_y"`
	ScaleX         float64 `json:"scale_x"`
	ScaleY         float64 `json:"scale_y"`

	// Fallback is set when the OS could not be queried and the configured
	// defaults are in use. Results produced under a fallback snapshot should
	// not be trusted as highly as ones measured against the real display.
	Fallback bool `json:"fallback"`
}

// NewScreenInfo builds a ScreenInfo and derives the scale factors.
// A non-positive logical size is taken to mean "same as physical".
func NewScreenInfo(physicalW, physicalH, logicalW, logicalH int, dpiX, dpiY float64) (ScreenInfo, error) {
	if physicalW <= 0 || physicalH <= 0 {
		return ScreenInfo{}, fmt.Errorf("invalid physical size %dx%d", physicalW, physicalH)
	}
	if logicalW <= 0 || logicalH <= 0 {
		logicalW, logicalH = physicalW, physicalH
	}
	return ScreenInfo{
		PhysicalWidth:  physicalW,
		PhysicalHeight: physicalH,
		LogicalWidth:   logicalW,
		LogicalHeight:  logicalH,
		DPIX:           dpiX,
		DPIY:           dpiY,
		ScaleX:         float64(physicalW) / float64(logicalW),
		ScaleY:         float64(physicalH) / float64(logicalH),
	}, nil
}

// DefaultScreenInfo returns the snapshot used when the display cannot be
// queried. Scale values <= 0 are treated as 1.0.
func DefaultScreenInfo(width, height int, scale float64) ScreenInfo {
	if width <= 0 || height <= 0 {
		width, height = 1920, 1080
	}
	if scale <= 0 {
		scale = 1.0
	}
	info, _ := NewScreenInfo(width, height, round(float64(width)/scale), round(float64(height)/scale), 96*scale, 96*scale)
	info.Fallback = true
	return info
}

// PhysicalBounds returns the physical screen as a Rect at the origin.
func (s ScreenInfo) PhysicalBounds() Rect {
	return Rect{Width: s.PhysicalWidth, Height: s.PhysicalHeight}
}

// WindowInfo is the bounding box of the focused application window, in
// physical screen space, at capture time.
type WindowInfo struct {
	Title   string `json:"title"`
	OriginX int    `json:"origin_x"`
	OriginY int    `json:"origin_y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Valid reports whether the window has a usable, positive size.
func (w WindowInfo) Valid() bool {
	return w.Width > 0 && w.Height > 0
}

// Bounds returns the window rectangle in physical space.
func (w WindowInfo) Bounds() Rect {
	return Rect{X: w.OriginX, Y: w.OriginY, Width: w.Width, Height: w.Height}
}
