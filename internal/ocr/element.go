package ocr

import (
	"context"
	"image"
	"strings"

	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
)

// DefaultMinConfidence is the OCR confidence at or below which words are
// discarded.
const DefaultMinConfidence = 30.0

// TextElement is one recognised word with its bounding box in image space.
type TextElement struct {
	Text       string  `json:"text"`
	BoxX       int     `json:"x"`
	BoxY       int     `json:"y"`
	BoxWidth   int     `json:"width"`
	BoxHeight  int     `json:"height"`
	Confidence float64 `json:"confidence"` // 0-100
}

// Center returns the centre of the bounding box.
func (e TextElement) Center() geometry.Point {
	return e.Box().Center()
}

// Box returns the bounding box as a geometry.Rect.
func (e TextElement) Box() geometry.Rect {
	return geometry.Rect{X: e.BoxX, Y: e.BoxY, Width: e.BoxWidth, Height: e.BoxHeight}
}

// Extractor finds text elements in an image.
type Extractor interface {
	Extract(ctx context.Context, img image.Image) ([]TextElement, error)
}

// Filter drops blank words and words whose confidence is not above
// minConfidence, preserving order. Surrounding whitespace is trimmed.
func Filter(elements []TextElement, minConfidence float64) []TextElement {
	kept := make([]TextElement, 0, len(elements))
	for _, e := range elements {
		e.Text = strings.TrimSpace(e.Text)
		if e.Text == "" || e.Confidence <= minConfidence {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// FromBox builds a TextElement from an image.Rectangle, rebasing it so that
// it is relative to origin.
func FromBox(text string, box image.Rectangle, confidence float64, origin image.Point) TextElement {
	box = box.Sub(origin)
	return TextElement{
		Text:       text,
		BoxX:       box.Min.X,
		BoxY:       box.Min.Y,
		BoxWidth:   box.Dx(),
		BoxHeight:  box.Dy(),
		Confidence: confidence,
	}
}
