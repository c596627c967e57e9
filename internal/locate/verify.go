package locate

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/ironsheep/ui-locator-mcp/internal/detection"
	"github.com/ironsheep/ui-locator-mcp/internal/display"
	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/imaging"
	"github.com/ironsheep/ui-locator-mcp/internal/logger"
	"github.com/ironsheep/ui-locator-mcp/internal/vision"
)

// errOutOfBounds marks a candidate that does not lie on the screen.
var errOutOfBounds = errors.New("candidate outside screen bounds")

// VerificationStrategy re-checks a candidate by showing the model a zoomed
// square around it with a crosshair on the candidate, and applies the
// model's correction when it points elsewhere.
type VerificationStrategy struct {
	capturer      display.Capturer
	client        vision.Client
	conv          *geometry.Converter
	regionSize    int
	maxCorrection int
	marker        imaging.Crosshair
}

// NewVerificationStrategy creates the strategy. capturer may be nil, in
// which case the region is cut out of the request screenshot.
func NewVerificationStrategy(capturer display.Capturer, client vision.Client, conv *geometry.Converter, opts Options) *VerificationStrategy {
	opts = opts.withDefaults()
	marker, err := opts.crosshair()
	if err != nil {
		zap.L().Warn("ignoring marker colour", zap.String("marker_color", opts.MarkerColor), zap.Error(err))
	}
	return &VerificationStrategy{
		capturer:      capturer,
		client:        client,
		conv:          conv,
		regionSize:    opts.RegionSize,
		maxCorrection: opts.MaxCorrection,
		marker:        marker,
	}
}

type verdict struct {
	IsCorrect  bool    `json:"is_correct"`
	Confidence string  `json:"confidence"`
	OffsetX    float64 `json:"offset_x"`
	OffsetY    float64 `json:"offset_y"`
	Reason     string  `json:"reason"`
}

// Verify updates res in place. A confirmed candidate becomes high and
// verified; a corrected one moves by the clamped offset. Whenever the check
// cannot be completed res keeps its coordinate and confidence, is marked
// unverified, and the cause is returned for logging.
func (v *VerificationStrategy) Verify(ctx context.Context, req Request, res *detection.Result) error {
	res.Verified = false
	candidate := res.Point()

	if !v.conv.InBounds(candidate) {
		res.Confidence = detection.ConfidenceLow
		res.SetMeta("verification", string(detection.ReasonOutOfBounds))
		return detection.Fail(res.Method, detection.ReasonOutOfBounds, errOutOfBounds)
	}

	screen := v.conv.Screen()
	region := geometry.SquareAround(candidate, v.regionSize, screen.PhysicalBounds())
	crop, err := captureRegion(ctx, v.capturer, screen, req.Screenshot, region)
	if err != nil {
		res.SetMeta("verification", string(detection.ReasonCaptureFailed))
		return detection.Fail(res.Method, detection.ReasonCaptureFailed, err)
	}

	// The captured image may be at a different resolution than the region.
	imgW, imgH := imaging.Size(crop)
	sx := float64(imgW) / float64(region.Width)
	sy := float64(imgH) / float64(region.Height)
	marker := geometry.Point{
		X: int(math.Round(float64(candidate.X-region.X) * sx)),
		Y: int(math.Round(float64(candidate.Y-region.Y) * sy)),
	}

	marked := imaging.DrawCrosshair(crop, marker, v.marker)
	data, err := imaging.EncodePNG(marked)
	if err != nil {
		res.SetMeta("verification", string(detection.ReasonCaptureFailed))
		return detection.Fail(res.Method, detection.ReasonCaptureFailed, err)
	}

	resp, err := v.client.Query(ctx, vision.Request{
		Images: [][]byte{data},
		Prompt: verificationPrompt(req.Question, candidate, marker, imgW, imgH, v.maxCorrection),
		Schema: verificationSchema,
		Model:  req.Model,
	})
	if err != nil {
		f := queryFailure(res.Method, err)
		res.SetMeta("verification", string(f.Reason))
		return f
	}

	var out verdict
	if err := resp.Decode(&out); err != nil {
		res.SetMeta("verification", string(detection.ReasonMalformedResponse))
		return detection.Fail(res.Method, detection.ReasonMalformedResponse, err)
	}
	if out.Reason != "" {
		res.SetMeta("verification_reason", out.Reason)
	}

	log := logger.L(ctx)

	if out.IsCorrect {
		res.Verified = true
		res.Confidence = detection.ConfidenceHigh
		res.SetMeta("verification", "confirmed")
		log.Debug("verification confirmed candidate", zap.Stringer("point", candidate))
		return nil
	}

	// Offsets come in image pixels of the crop; convert to physical.
	dx := clampOffset(out.OffsetX/sx, v.maxCorrection)
	dy := clampOffset(out.OffsetY/sy, v.maxCorrection)
	if dx == 0 && dy == 0 {
		res.Confidence = detection.ConfidenceLow
		res.SetMeta("verification", "rejected")
		log.Debug("verification rejected candidate without a correction", zap.Stringer("point", candidate))
		return nil
	}

	corrected := v.conv.Clamp(candidate.Add(dx, dy))
	res.SetPoint(corrected)
	res.Verified = true
	res.CorrectionApplied = true
	if label, ok := detection.ParseConfidence(out.Confidence); ok {
		res.Confidence = detection.MinConfidence(res.Confidence, label)
	}
	res.SetMeta("verification", "corrected")
	res.SetMeta("original_x", candidate.X)
	res.SetMeta("original_y", candidate.Y)
	res.SetMeta("offset_x", dx)
	res.SetMeta("offset_y", dy)

	log.Debug("verification corrected candidate",
		zap.Stringer("from", candidate),
		zap.Stringer("to", corrected),
		zap.Int("offset_x", dx),
		zap.Int("offset_y", dy))
	return nil
}

// clampOffset limits v to ±limit before converting, so an oversized value
// cannot overflow the int conversion. NaN counts as no offset.
func clampOffset(v float64, limit int) int {
	if math.IsNaN(v) {
		return 0
	}
	l := float64(limit)
	return int(math.Round(math.Max(-l, math.Min(l, v))))
}
