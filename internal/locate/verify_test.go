package locate

import (
	"errors"
	"image/color"
	"math"
	"testing"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"

	"github.com/ironsheep/ui-locator-mcp/internal/detection"
	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/imaging"
	"github.com/ironsheep/ui-locator-mcp/internal/logger"
)

func candidate(x, y int, conf detection.Confidence) *detection.Result {
	return &detection.Result{X: x, Y: y, Confidence: conf, Method: detection.MethodFullScreen}
}

func TestVerificationStrategy(t *testing.T) {
	req := Request{Screenshot: solidImage(800, 600), Question: "the OK button"}

	t.Run("confirmed candidate becomes high", func(t *testing.T) {
		client := newFakeVision().reply(kindVerification, `{"is_correct": true, "confidence": "high", "reason": "on target"}`)
		v := NewVerificationStrategy(nil, client, testConverter(t), Options{})

		res := candidate(400, 300, detection.ConfidenceMedium)
		require.NoError(t, v.Verify(logger.NopContext(), req, res))
		assert.Equal(t, geometry.Point{X: 400, Y: 300}, res.Point())
		assert.Equal(t, detection.ConfidenceHigh, res.Confidence)
		assert.True(t, res.Verified)
		assert.False(t, res.CorrectionApplied)
		assert.Equal(t, "confirmed", res.Metadata["verification"])
		assert.Equal(t, "on target", res.Metadata["verification_reason"])

		sent := client.last(kindVerification)
		require.Len(t, sent.Images, 1)
		img, err := imaging.Decode(sent.Images[0])
		require.NoError(t, err)
		w, h := imaging.Size(img)
		assert.Equal(t, 200, w)
		assert.Equal(t, 200, h)
		assert.Contains(t, sent.Prompt, "the crosshair is at (100, 100)")
		assert.Contains(t, sent.Prompt, "Proposed screen coordinate: (400, 300)")
	})

	t.Run("crosshair uses the configured marker colour", func(t *testing.T) {
		tests := []struct {
			name  string
			color string
			want  color.Color
		}{
			{"configured", "#00FF00", color.RGBA{0, 255, 0, 255}},
			{"unparsable falls back to contrast", "green", imaging.ContrastColor(color.RGBA{200, 200, 200, 255})},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				client := newFakeVision().reply(kindVerification, `{"is_correct": true}`)
				v := NewVerificationStrategy(nil, client, testConverter(t), Options{MarkerColor: tt.color})

				require.NoError(t, v.Verify(logger.NopContext(), req, candidate(400, 300, detection.ConfidenceMedium)))
				img, err := imaging.Decode(client.last(kindVerification).Images[0])
				require.NoError(t, err)
				assert.Equal(t, color.RGBAModel.Convert(tt.want), color.RGBAModel.Convert(img.At(100, 100)))
			})
		}
	})

	t.Run("correction is clamped per axis", func(t *testing.T) {
		client := newFakeVision().reply(kindVerification, `{"is_correct": false, "confidence": "medium", "offset_x": 500, "offset_y": -500}`)
		v := NewVerificationStrategy(nil, client, testConverter(t), Options{})

		res := candidate(400, 300, detection.ConfidenceMedium)
		require.NoError(t, v.Verify(logger.NopContext(), req, res))
		assert.Equal(t, geometry.Point{X: 500, Y: 200}, res.Point())
		assert.True(t, res.Verified)
		assert.True(t, res.CorrectionApplied)
		assert.Equal(t, detection.ConfidenceMedium, res.Confidence)
		assert.Equal(t, 100, res.Metadata["offset_x"])
		assert.Equal(t, -100, res.Metadata["offset_y"])
		assert.Equal(t, 400, res.Metadata["original_x"])
		assert.Equal(t, 300, res.Metadata["original_y"])
	})

	t.Run("corrected point stays on screen", func(t *testing.T) {
		client := newFakeVision().reply(kindVerification, `{"is_correct": false, "confidence": "high", "offset_x": 90, "offset_y": -90}`)
		v := NewVerificationStrategy(nil, client, testConverter(t), Options{})

		res := candidate(750, 50, detection.ConfidenceLow)
		require.NoError(t, v.Verify(logger.NopContext(), req, res))
		assert.Equal(t, geometry.Point{X: 799, Y: 0}, res.Point())
		// A correction never raises confidence above the candidate's.
		assert.Equal(t, detection.ConfidenceLow, res.Confidence)
	})

	t.Run("correction without label keeps confidence", func(t *testing.T) {
		client := newFakeVision().reply(kindVerification, `{"is_correct": false, "offset_x": 10, "offset_y": 5}`)
		v := NewVerificationStrategy(nil, client, testConverter(t), Options{})

		res := candidate(400, 300, detection.ConfidenceMedium)
		require.NoError(t, v.Verify(logger.NopContext(), req, res))
		assert.Equal(t, geometry.Point{X: 410, Y: 305}, res.Point())
		assert.Equal(t, detection.ConfidenceMedium, res.Confidence)
	})

	t.Run("oversized offsets keep their direction", func(t *testing.T) {
		tests := []struct {
			name  string
			reply string
			want  geometry.Point
		}{
			{"huge positive", `{"is_correct": false, "offset_x": 1e30, "offset_y": 1e19}`, geometry.Point{X: 500, Y: 400}},
			{"huge negative", `{"is_correct": false, "offset_x": -1e30, "offset_y": -1e19}`, geometry.Point{X: 300, Y: 200}},
			{"mixed", `{"is_correct": false, "offset_x": 1e30, "offset_y": -3}`, geometry.Point{X: 500, Y: 297}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				client := newFakeVision().reply(kindVerification, tt.reply)
				v := NewVerificationStrategy(nil, client, testConverter(t), Options{})

				res := candidate(400, 300, detection.ConfidenceMedium)
				require.NoError(t, v.Verify(logger.NopContext(), req, res))
				assert.Equal(t, tt.want, res.Point())
				assert.True(t, res.Verified)
				assert.True(t, res.CorrectionApplied)
			})
		}
	})

	t.Run("live capture offsets scale to physical", func(t *testing.T) {
		capturer := &fakeCapturer{img: solidImage(400, 400)}
		client := newFakeVision().reply(kindVerification, `{"is_correct": false, "confidence": "medium", "offset_x": 100, "offset_y": 60}`)
		v := NewVerificationStrategy(capturer, client, testConverter(t), Options{})

		res := candidate(400, 300, detection.ConfidenceMedium)
		require.NoError(t, v.Verify(logger.NopContext(), req, res))
		require.Len(t, capturer.regions, 1)
		assert.Equal(t, geometry.Rect{X: 300, Y: 200, Width: 200, Height: 200}, capturer.regions[0])
		assert.Contains(t, client.last(kindVerification).Prompt, "the crosshair is at (200, 200)")
		assert.Equal(t, geometry.Point{X: 450, Y: 330}, res.Point())
	})

	t.Run("live capture failure falls back to screenshot", func(t *testing.T) {
		capturer := &fakeCapturer{err: errors.New("x server gone")}
		client := newFakeVision().reply(kindVerification, `{"is_correct": true}`)
		v := NewVerificationStrategy(capturer, client, testConverter(t), Options{})

		res := candidate(400, 300, detection.ConfidenceLow)
		require.NoError(t, v.Verify(logger.NopContext(), req, res))
		assert.True(t, res.Verified)
	})

	t.Run("rejected without offset becomes low", func(t *testing.T) {
		client := newFakeVision().reply(kindVerification, `{"is_correct": false, "confidence": "high", "offset_x": 0, "offset_y": 0}`)
		v := NewVerificationStrategy(nil, client, testConverter(t), Options{})

		res := candidate(400, 300, detection.ConfidenceMedium)
		require.NoError(t, v.Verify(logger.NopContext(), req, res))
		assert.Equal(t, geometry.Point{X: 400, Y: 300}, res.Point())
		assert.Equal(t, detection.ConfidenceLow, res.Confidence)
		assert.False(t, res.Verified)
		assert.False(t, res.CorrectionApplied)
	})

	t.Run("out of bounds skips the model", func(t *testing.T) {
		client := newFakeVision()
		v := NewVerificationStrategy(nil, client, testConverter(t), Options{})

		res := candidate(900, 300, detection.ConfidenceMedium)
		err := v.Verify(logger.NopContext(), req, res)
		requireReason(t, err, detection.ReasonOutOfBounds)
		assert.Equal(t, detection.ConfidenceLow, res.Confidence)
		assert.False(t, res.Verified)
		assert.Empty(t, client.calls)
	})

	t.Run("service failure leaves candidate unverified", func(t *testing.T) {
		client := newFakeVision().fail(kindVerification, errors.New("connection refused"))
		v := NewVerificationStrategy(nil, client, testConverter(t), Options{})

		res := candidate(400, 300, detection.ConfidenceMedium)
		res.Verified = true
		err := v.Verify(logger.NopContext(), req, res)
		requireReason(t, err, detection.ReasonServiceError)
		assert.Equal(t, geometry.Point{X: 400, Y: 300}, res.Point())
		assert.Equal(t, detection.ConfidenceMedium, res.Confidence)
		assert.False(t, res.Verified)
	})

	t.Run("nothing to capture", func(t *testing.T) {
		v := NewVerificationStrategy(nil, newFakeVision(), testConverter(t), Options{})

		res := candidate(400, 300, detection.ConfidenceMedium)
		err := v.Verify(logger.NopContext(), Request{Question: "q"}, res)
		requireReason(t, err, detection.ReasonCaptureFailed)
		assert.False(t, res.Verified)
	})
}

func TestClampOffset(t *testing.T) {
	assert.Equal(t, 100, clampOffset(500, 100))
	assert.Equal(t, -100, clampOffset(-500, 100))
	assert.Equal(t, 42, clampOffset(42, 100))
	assert.Equal(t, 0, clampOffset(0, 100))
	assert.Equal(t, 100, clampOffset(1e30, 100))
	assert.Equal(t, -100, clampOffset(-1e30, 100))
	assert.Equal(t, 100, clampOffset(math.Inf(1), 100))
	assert.Equal(t, 0, clampOffset(math.NaN(), 100))
	assert.Equal(t, 3, clampOffset(2.6, 100))
}
