package geometry

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ironsheep/ui-locator-mcp/internal/logger"
)

// ScreenSource reports the current display configuration.
type ScreenSource interface {
	ScreenInfo(ctx context.Context) (ScreenInfo, error)
}

// Converter maps points between image, window, physical and logical space
// using the most recent ScreenInfo snapshot.
type Converter struct {
	source   ScreenSource
	fallback ScreenInfo
	current  atomic.Pointer[ScreenInfo]
}

// NewConverter creates a converter that reads the display from source and
// uses fallback whenever source is nil or fails. The snapshot starts as the
// fallback; call Refresh to measure the real display.
func NewConverter(source ScreenSource, fallback ScreenInfo) *Converter {
	fallback.Fallback = true
	c := &Converter{source: source, fallback: fallback}
	snap := fallback
	c.current.Store(&snap)
	return c
}

// NewStaticConverter creates a converter pinned to a known display. It never
// refreshes and is mainly useful for tests and offline conversions.
func NewStaticConverter(info ScreenInfo) *Converter {
	c := &Converter{fallback: info}
	snap := info
	c.current.Store(&snap)
	return c
}

// Refresh queries the screen source and swaps in a new snapshot.
// On failure the configured fallback becomes current and is returned.
func (c *Converter) Refresh(ctx context.Context) ScreenInfo {
	if c.source == nil {
		return c.Screen()
	}

	info, err := c.source.ScreenInfo(ctx)
	if err != nil || info.PhysicalWidth <= 0 || info.PhysicalHeight <= 0 {
		logger.L(ctx).Warn("screen query failed, using fallback screen info",
			zap.Error(err),
			zap.Int("fallback_width", c.fallback.PhysicalWidth),
			zap.Int("fallback_height", c.fallback.PhysicalHeight))
		info = c.fallback
	}

	snap := info
	c.current.Store(&snap)
	return snap
}

// Screen returns the current snapshot.
func (c *Converter) Screen() ScreenInfo {
	return *c.current.Load()
}

// Clamp limits p to the physical screen.
func (c *Converter) Clamp(p Point) Point {
	s := c.Screen()
	return clampTo(p, s.PhysicalWidth, s.PhysicalHeight)
}

// InBounds reports whether p lies on the physical screen without clamping.
func (c *Converter) InBounds(p Point) bool {
	return c.Screen().PhysicalBounds().Contains(p)
}

// ImageToPhysical maps a point in a full-screen screenshot of size
// imageW x imageH to physical screen pixels.
//
// Example: a 400x400 screenshot of a 3840x2160 display maps (100, 100) to
// (960, 540).
func (c *Converter) ImageToPhysical(p Point, imageW, imageH int) Point {
	s := c.Screen()
	scaled := scalePoint(p, imageW, imageH, s.PhysicalWidth, s.PhysicalHeight)
	return clampTo(scaled, s.PhysicalWidth, s.PhysicalHeight)
}

// PhysicalToImage is the inverse of ImageToPhysical, clamped to the image.
func (c *Converter) PhysicalToImage(p Point, imageW, imageH int) Point {
	s := c.Screen()
	scaled := scalePoint(p, s.PhysicalWidth, s.PhysicalHeight, imageW, imageH)
	return clampTo(scaled, imageW, imageH)
}

// WindowToPhysical offsets a window-relative point by the window origin.
func (c *Converter) WindowToPhysical(p Point, win WindowInfo) Point {
	return c.Clamp(Point{X: win.OriginX + p.X, Y: win.OriginY + p.Y})
}

// WindowImageToPhysical handles a window capture that was resized before it
// was queried: the point is first scaled from imageW x imageH to the window
// size and then offset by the window origin.
func (c *Converter) WindowImageToPhysical(p Point, imageW, imageH int, win WindowInfo) Point {
	rel := scalePoint(p, imageW, imageH, win.Width, win.Height)
	return c.WindowToPhysical(rel, win)
}

// PhysicalToLogical converts to GUI toolkit pixels. This is the direction
// used when a coordinate is handed to an overlay renderer.
func (c *Converter) PhysicalToLogical(p Point) Point {
	s := c.Screen()
	p = clampTo(p, s.PhysicalWidth, s.PhysicalHeight)
	logical := Point{X: round(float64(p.X) / s.ScaleX), Y: round(float64(p.Y) / s.ScaleY)}
	return clampTo(logical, s.LogicalWidth, s.LogicalHeight)
}

// LogicalToPhysical converts GUI toolkit pixels to physical pixels.
func (c *Converter) LogicalToPhysical(p Point) Point {
	s := c.Screen()
	physical := Point{X: round(float64(p.X) * s.ScaleX), Y: round(float64(p.Y) * s.ScaleY)}
	return clampTo(physical, s.PhysicalWidth, s.PhysicalHeight)
}

// scalePoint rescales p from a fromW x fromH space to a toW x toH space.
// Degenerate source sizes leave the point unscaled.
func scalePoint(p Point, fromW, fromH, toW, toH int) Point {
	if fromW <= 0 || fromH <= 0 || toW <= 0 || toH <= 0 {
		return p
	}
	return Point{
		X: round(float64(p.X) * float64(toW) / float64(fromW)),
		Y: round(float64(p.Y) * float64(toH) / float64(fromH)),
	}
}

func clampTo(p Point, width, height int) Point {
	return Point{X: clampInt(p.X, 0, width-1), Y: clampInt(p.Y, 0, height-1)}
}
