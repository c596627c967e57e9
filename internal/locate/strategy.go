package locate

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/ui-locator-mcp/internal/detection"
	"github.com/ironsheep/ui-locator-mcp/internal/display"
	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/imaging"
	"github.com/ironsheep/ui-locator-mcp/internal/logger"
	"github.com/ironsheep/ui-locator-mcp/internal/vision"
)

// Strategy produces a physical-screen coordinate for a request, or a
// *detection.Failure.
type Strategy interface {
	Method() detection.Method
	Locate(ctx context.Context, req Request) (*detection.Result, error)
}

// queryFailure classifies a vision client error.
func queryFailure(method detection.Method, err error) *detection.Failure {
	if errors.Is(err, vision.ErrMalformedResponse) || errors.Is(err, vision.ErrEmptyResponse) {
		return detection.Fail(method, detection.ReasonMalformedResponse, err)
	}
	return detection.Fail(method, detection.ReasonServiceError, err)
}

// encodeForQuery downscales img to maxWidth and encodes it, returning the
// size of the image the model will actually see.
func encodeForQuery(img image.Image, maxWidth int) ([]byte, int, int, error) {
	sent := imaging.FitWidth(img, maxWidth)
	data, err := imaging.EncodePNG(sent)
	if err != nil {
		return nil, 0, 0, err
	}
	w, h := imaging.Size(sent)
	return data, w, h, nil
}

// captureRegion grabs region (physical pixels) from the live screen when a
// capturer is configured and falls back to cutting it out of the screenshot.
func captureRegion(ctx context.Context, live display.Capturer, screen geometry.ScreenInfo, shot image.Image, region geometry.Rect) (image.Image, error) {
	var liveErr error
	if live != nil {
		img, err := live.CaptureRegion(ctx, region)
		if err == nil {
			return img, nil
		}
		liveErr = err
		logger.L(ctx).Debug("live capture failed, cropping screenshot", zap.Error(err))
	}

	if shot == nil {
		if liveErr != nil {
			return nil, liveErr
		}
		return nil, fmt.Errorf("no capturer and no screenshot: %w", display.ErrUnavailable)
	}
	return display.NewStatic(screen, nil, shot).CaptureRegion(ctx, region)
}
