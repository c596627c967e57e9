package display

import (
	"context"
	"errors"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
)

// ErrUnavailable is returned when the platform has no reachable display.
var ErrUnavailable = errors.New("display not available")

// ErrNoFocusedWindow is returned when no window currently has focus.
var ErrNoFocusedWindow = errors.New("no focused window")

// ScreenProvider reports the current display configuration.
type ScreenProvider interface {
	ScreenInfo(ctx context.Context) (geometry.ScreenInfo, error)
}

// WindowProvider reports the focused window in physical pixels.
type WindowProvider interface {
	FocusedWindow(ctx context.Context) (*geometry.WindowInfo, error)
}

// Capturer grabs a region of the live screen, given in physical pixels.
type Capturer interface {
	CaptureRegion(ctx context.Context, region geometry.Rect) (image.Image, error)
}

// Display bundles the three collaborators with a Close for the connection.
type Display interface {
	ScreenProvider
	WindowProvider
	Capturer
	Name() string
	Close() error
}

// toolkitScale reads the GUI toolkit scale factor from the environment.
// GDK_SCALE wins over QT_SCALE_FACTOR; anything unparsable counts as 1.
func toolkitScale() float64 {
	for _, key := range []string{"GDK_SCALE", "QT_SCALE_FACTOR"} {
		if s := parseScale(os.Getenv(key)); s > 0 {
			return s
		}
	}
	return 1
}

func parseScale(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0
	}
	return f
}

// dpiFromMillimeters derives dots per inch from a pixel extent and its
// physical size. Unknown sizes report the conventional 96.
func dpiFromMillimeters(pixels, millimeters int) float64 {
	if pixels <= 0 || millimeters <= 0 {
		return 96
	}
	return float64(pixels) * 25.4 / float64(millimeters)
}
