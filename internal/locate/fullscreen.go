package locate

import (
	"context"
	"errors"

	"github.com/ironsheep/ui-locator-mcp/internal/detection"
	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/vision"
)

// FullScreenStrategy asks the model about the entire screenshot. It is the
// last link of every chain.
type FullScreenStrategy struct {
	client   vision.Client
	conv     *geometry.Converter
	maxWidth int
}

// NewFullScreenStrategy creates the strategy.
func NewFullScreenStrategy(client vision.Client, conv *geometry.Converter, opts Options) *FullScreenStrategy {
	return &FullScreenStrategy{client: client, conv: conv, maxWidth: opts.withDefaults().MaxImageWidth}
}

// Method implements Strategy.
func (s *FullScreenStrategy) Method() detection.Method { return detection.MethodFullScreen }

// Locate implements Strategy.
func (s *FullScreenStrategy) Locate(ctx context.Context, req Request) (*detection.Result, error) {
	method := s.Method()
	if req.Screenshot == nil {
		return nil, detection.Fail(method, detection.ReasonCaptureFailed, errors.New("no screenshot"))
	}

	data, sentW, sentH, err := encodeForQuery(req.Screenshot, s.maxWidth)
	if err != nil {
		return nil, detection.Fail(method, detection.ReasonCaptureFailed, err)
	}

	resp, err := s.client.Query(ctx, vision.Request{
		Images: [][]byte{data},
		Prompt: locatePrompt(req.Question, sentW, sentH, ""),
		Schema: locateSchema,
		Model:  req.Model,
	})
	if err != nil {
		return nil, queryFailure(method, err)
	}
	if resp.Coordinate == nil {
		return nil, detection.Fail(method, detection.ReasonMalformedResponse, errors.New("reply has no coordinates"))
	}

	p := geometry.Point{X: resp.Coordinate.X, Y: resp.Coordinate.Y}
	result := &detection.Result{
		Confidence: labelOrMedium(resp.Confidence),
		Method:     method,
	}
	result.SetPoint(s.conv.ImageToPhysical(p, sentW, sentH))
	result.SetMeta("image_x", p.X)
	result.SetMeta("image_y", p.Y)
	if resp.Answer != "" {
		result.SetMeta("answer", resp.Answer)
	}
	if resp.ElementDescription != "" {
		result.SetMeta("element_description", resp.ElementDescription)
	}
	return result, nil
}
