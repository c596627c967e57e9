package locate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/ui-locator-mcp/internal/detection"
	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/imaging"
	"github.com/ironsheep/ui-locator-mcp/internal/logger"
	"github.com/ironsheep/ui-locator-mcp/internal/ocr"
	"github.com/ironsheep/ui-locator-mcp/internal/vision"
)

// TextMatchStrategy finds the element by OCR and lets the model pick which
// recognised word the question refers to. The model sees only the word list,
// not the image.
type TextMatchStrategy struct {
	extractor   ocr.Extractor
	client      vision.Client
	conv        *geometry.Converter
	maxElements int
}

// NewTextMatchStrategy creates the strategy.
func NewTextMatchStrategy(extractor ocr.Extractor, client vision.Client, conv *geometry.Converter, opts Options) *TextMatchStrategy {
	return &TextMatchStrategy{
		extractor:   extractor,
		client:      client,
		conv:        conv,
		maxElements: opts.withDefaults().MaxElements,
	}
}

// Method implements Strategy.
func (s *TextMatchStrategy) Method() detection.Method { return detection.MethodTextMatch }

type disambiguation struct {
	ElementIndex int    `json:"element_index"`
	Confidence   string `json:"confidence"`
	Reason       string `json:"reason"`
}

// Locate implements Strategy.
func (s *TextMatchStrategy) Locate(ctx context.Context, req Request) (*detection.Result, error) {
	method := s.Method()
	if req.Screenshot == nil {
		return nil, detection.Fail(method, detection.ReasonCaptureFailed, fmt.Errorf("no screenshot"))
	}

	elements, err := s.extractor.Extract(ctx, req.Screenshot)
	if err != nil {
		return nil, detection.Fail(method, detection.ReasonServiceError, err)
	}
	if len(elements) == 0 {
		return nil, detection.Fail(method, detection.ReasonNoTextElements, nil)
	}

	total := len(elements)
	truncated := total > s.maxElements
	if truncated {
		elements = elements[:s.maxElements]
	}

	resp, err := s.client.Query(ctx, vision.Request{
		Prompt: disambiguationPrompt(req.Question, elements),
		Schema: disambiguationSchema,
		Model:  req.Model,
	})
	if err != nil {
		return nil, queryFailure(method, err)
	}

	var pick disambiguation
	if err := resp.Decode(&pick); err != nil {
		return nil, detection.Fail(method, detection.ReasonMalformedResponse, err)
	}
	if pick.ElementIndex < 0 || pick.ElementIndex >= len(elements) {
		return nil, detection.Fail(method, detection.ReasonNoMatch,
			fmt.Errorf("element index %d outside 0..%d", pick.ElementIndex, len(elements)-1))
	}

	matched := elements[pick.ElementIndex]
	aiConfidence, ok := detection.ParseConfidence(pick.Confidence)
	if !ok {
		aiConfidence = detection.ConfidenceMedium
	}

	imgW, imgH := imaging.Size(req.Screenshot)
	result := &detection.Result{
		Confidence: CombineConfidence(matched.Confidence, aiConfidence),
		Method:     method,
	}
	result.SetPoint(s.conv.ImageToPhysical(matched.Center(), imgW, imgH))
	result.SetMeta("matched_text", matched.Text)
	result.SetMeta("ocr_confidence", matched.Confidence)
	result.SetMeta("ai_confidence", string(aiConfidence))
	result.SetMeta("reason", pick.Reason)
	result.SetMeta("element_count", total)
	result.SetMeta("truncated", truncated)

	logger.L(ctx).Debug("text match selected element",
		zap.String("text", matched.Text),
		zap.Int("index", pick.ElementIndex),
		zap.Float64("ocr_confidence", matched.Confidence),
		zap.String("ai_confidence", string(aiConfidence)))

	return result, nil
}

// CombineConfidence merges OCR and model confidence: high needs OCR >= 80
// and a high model label; medium needs OCR >= 60 and at least medium.
func CombineConfidence(ocrConfidence float64, ai detection.Confidence) detection.Confidence {
	switch {
	case ocrConfidence >= 80 && ai == detection.ConfidenceHigh:
		return detection.ConfidenceHigh
	case ocrConfidence >= 60 && ai.AtLeast(detection.ConfidenceMedium):
		return detection.ConfidenceMedium
	default:
		return detection.ConfidenceLow
	}
}
