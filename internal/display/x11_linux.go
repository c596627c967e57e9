//go:build linux

package display

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"sync"

	xgb "github.com/BurntSushi/xgb"
	xproto "github.com/BurntSushi/xgb/xproto"
	xgbutil "github.com/BurntSushi/xgbutil"
	ewmh "github.com/BurntSushi/xgbutil/ewmh"
	icccm "github.com/BurntSushi/xgbutil/icccm"
	xgraphics "github.com/BurntSushi/xgbutil/xgraphics"
	xwindow "github.com/BurntSushi/xgbutil/xwindow"
	"go.uber.org/zap"

	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/logger"
)

var quietX11 sync.Once

// X11 queries an X server through xgbutil.
type X11 struct {
	mu      sync.Mutex
	xu      *xgbutil.XUtil
	screen  *xproto.ScreenInfo
	display string
}

// Open connects to the display named by display, or $DISPLAY when empty.
func Open(ctx context.Context, display string) (Display, error) {
	// xgb logs connection chatter to stderr; the logger is ours.
	quietX11.Do(func() {
		xgb.Logger = log.New(io.Discard, "", 0)
		xgbutil.Logger = log.New(io.Discard, "", 0)
	})

	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		logger.L(ctx).Debug("failed to connect to X11 display", zap.String("display", display), zap.Error(err))
		return nil, fmt.Errorf("connect to X11 display %q: %w: %v", display, ErrUnavailable, err)
	}

	return &X11{
		xu:      xu,
		screen:  xproto.Setup(xu.Conn()).DefaultScreen(xu.Conn()),
		display: display,
	}, nil
}

// Name implements Display.
func (c *X11) Name() string { return "x11" }

// Close closes the X11 connection.
func (c *X11) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.xu != nil {
		c.xu.Conn().Close()
		c.xu = nil
	}
	return nil
}

// ScreenInfo reports the default screen. X11 itself has no logical pixels;
// the toolkit scale (GDK_SCALE / QT_SCALE_FACTOR) defines them.
func (c *X11) ScreenInfo(ctx context.Context) (geometry.ScreenInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.xu == nil {
		return geometry.ScreenInfo{}, ErrUnavailable
	}

	pw, ph := int(c.screen.WidthInPixels), int(c.screen.HeightInPixels)
	scale := toolkitScale()
	return geometry.NewScreenInfo(
		pw, ph,
		int(float64(pw)/scale), int(float64(ph)/scale),
		dpiFromMillimeters(pw, int(c.screen.WidthInMillimeters)),
		dpiFromMillimeters(ph, int(c.screen.HeightInMillimeters)),
	)
}

// FocusedWindow returns the EWMH active window with its frame geometry.
func (c *X11) FocusedWindow(ctx context.Context) (*geometry.WindowInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.xu == nil {
		return nil, ErrUnavailable
	}

	win, err := ewmh.ActiveWindowGet(c.xu)
	if err != nil {
		return nil, fmt.Errorf("query active window: %w", err)
	}
	if win == 0 {
		return nil, ErrNoFocusedWindow
	}

	title, err := ewmh.WmNameGet(c.xu, win)
	if err != nil || title == "" {
		title, _ = icccm.WmNameGet(c.xu, win)
	}

	geom, err := xwindow.New(c.xu, win).DecorGeometry()
	if err != nil {
		return nil, fmt.Errorf("query geometry of window %d: %w", win, err)
	}

	info := &geometry.WindowInfo{
		Title:   title,
		OriginX: geom.X(),
		OriginY: geom.Y(),
		Width:   geom.Width(),
		Height:  geom.Height(),
	}
	if !info.Valid() {
		return nil, fmt.Errorf("window %d has size %dx%d: %w", win, info.Width, info.Height, ErrNoFocusedWindow)
	}
	return info, nil
}

// CaptureRegion grabs the root window and returns the requested region.
func (c *X11) CaptureRegion(ctx context.Context, region geometry.Rect) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.xu == nil {
		return nil, ErrUnavailable
	}

	screen := geometry.Rect{Width: int(c.screen.WidthInPixels), Height: int(c.screen.HeightInPixels)}
	clipped := region.Intersect(screen)
	if clipped.Empty() {
		return nil, fmt.Errorf("capture region %+v outside screen", region)
	}

	ximg, err := xgraphics.NewDrawable(c.xu, xproto.Drawable(c.screen.Root))
	if err != nil {
		return nil, fmt.Errorf("failed to create drawable: %w", err)
	}

	return ximg.SubImage(clipped.Image()), nil
}

var _ Display = (*X11)(nil)
