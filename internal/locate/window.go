package locate

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/ui-locator-mcp/internal/detection"
	"github.com/ironsheep/ui-locator-mcp/internal/display"
	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/logger"
	"github.com/ironsheep/ui-locator-mcp/internal/vision"
)

var errWindowOffScreen = errors.New("focused window is entirely off screen")

// WindowRelativeStrategy asks the model about the focused window only and
// maps the answer back through the window origin. A smaller image with less
// clutter usually gives tighter coordinates than the whole screen.
type WindowRelativeStrategy struct {
	windows  display.WindowProvider
	capturer display.Capturer
	client   vision.Client
	conv     *geometry.Converter
	maxWidth int
}

// NewWindowRelativeStrategy creates the strategy. capturer may be nil, in
// which case the window is cut out of the request screenshot.
func NewWindowRelativeStrategy(windows display.WindowProvider, capturer display.Capturer, client vision.Client, conv *geometry.Converter, opts Options) *WindowRelativeStrategy {
	return &WindowRelativeStrategy{
		windows:  windows,
		capturer: capturer,
		client:   client,
		conv:     conv,
		maxWidth: opts.withDefaults().MaxImageWidth,
	}
}

// Method implements Strategy.
func (s *WindowRelativeStrategy) Method() detection.Method { return detection.MethodWindowRelative }

// Locate implements Strategy.
func (s *WindowRelativeStrategy) Locate(ctx context.Context, req Request) (*detection.Result, error) {
	method := s.Method()
	if s.windows == nil {
		return nil, detection.Fail(method, detection.ReasonNoFocusedWindow, display.ErrUnavailable)
	}

	win, err := s.windows.FocusedWindow(ctx)
	if err != nil {
		return nil, detection.Fail(method, detection.ReasonNoFocusedWindow, err)
	}
	if win == nil || !win.Valid() {
		return nil, detection.Fail(method, detection.ReasonNoFocusedWindow, display.ErrNoFocusedWindow)
	}

	// Only the on-screen part of the window can be captured; everything below
	// works against that visible rectangle.
	screen := s.conv.Screen()
	visible := win.Bounds().Intersect(screen.PhysicalBounds())
	if visible.Empty() {
		return nil, detection.Fail(method, detection.ReasonNoFocusedWindow, errWindowOffScreen)
	}
	area := geometry.WindowInfo{Title: win.Title, OriginX: visible.X, OriginY: visible.Y, Width: visible.Width, Height: visible.Height}

	shot, err := captureRegion(ctx, s.capturer, screen, req.Screenshot, visible)
	if err != nil {
		return nil, detection.Fail(method, detection.ReasonCaptureFailed, err)
	}

	data, sentW, sentH, err := encodeForQuery(shot, s.maxWidth)
	if err != nil {
		return nil, detection.Fail(method, detection.ReasonCaptureFailed, err)
	}

	resp, err := s.client.Query(ctx, vision.Request{
		Images: [][]byte{data},
		Prompt: locatePrompt(req.Question, sentW, sentH, windowLabel(win)),
		Schema: locateSchema,
		Model:  req.Model,
	})
	if err != nil {
		return nil, queryFailure(method, err)
	}
	if resp.Coordinate == nil {
		return nil, detection.Fail(method, detection.ReasonMalformedResponse, errors.New("reply has no coordinates"))
	}

	rel := geometry.Point{X: resp.Coordinate.X, Y: resp.Coordinate.Y}
	result := &detection.Result{
		Confidence: labelOrMedium(resp.Confidence),
		Method:     method,
	}
	result.SetPoint(s.conv.WindowImageToPhysical(rel, sentW, sentH, area))
	result.SetMeta("window_title", win.Title)
	result.SetMeta("window_origin", geometry.Point{X: win.OriginX, Y: win.OriginY})
	if visible != win.Bounds() {
		result.SetMeta("window_visible", visible)
	}
	result.SetMeta("relative_x", rel.X)
	result.SetMeta("relative_y", rel.Y)
	if resp.Answer != "" {
		result.SetMeta("answer", resp.Answer)
	}
	if resp.ElementDescription != "" {
		result.SetMeta("element_description", resp.ElementDescription)
	}

	logger.L(ctx).Debug("window relative coordinate",
		zap.String("window", win.Title),
		zap.Stringer("relative", rel),
		zap.Stringer("physical", result.Point()))

	return result, nil
}

// windowLabel names the window for the prompt; untitled windows still need
// a non-empty label so the prompt says "window" rather than "screen".
func windowLabel(win *geometry.WindowInfo) string {
	if win.Title != "" {
		return win.Title
	}
	return fmt.Sprintf("window at %d,%d", win.OriginX, win.OriginY)
}

// labelOrMedium parses a model confidence label, defaulting to medium.
func labelOrMedium(label string) detection.Confidence {
	if c, ok := detection.ParseConfidence(label); ok {
		return c
	}
	return detection.ConfidenceMedium
}
