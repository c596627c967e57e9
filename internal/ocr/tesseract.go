package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"

	"github.com/ironsheep/ui-locator-mcp/internal/imaging"
	"github.com/ironsheep/ui-locator-mcp/internal/logger"
)

// Options configures a Tesseract extractor.
type Options struct {
	// Language is a Tesseract language code such as "eng" or "eng+jpn".
	Language string
	// TessdataPrefix overrides the directory holding *.traineddata files.
	TessdataPrefix string
	// MinConfidence discards words at or below this confidence (0-100).
	MinConfidence float64
	// Preprocess enables grayscale and contrast enhancement.
	Preprocess bool
}

// Tesseract extracts word-level text elements with gosseract.
//
// A gosseract client is not safe for concurrent use, so a fresh client is
// created for every call; Tesseract itself is safe to call concurrently.
type Tesseract struct {
	opts Options
}

// NewTesseract creates an extractor. An empty language defaults to "eng" and
// a zero MinConfidence to DefaultMinConfidence.
func NewTesseract(opts Options) *Tesseract {
	if opts.Language == "" {
		opts.Language = "eng"
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = DefaultMinConfidence
	}
	return &Tesseract{opts: opts}
}

// Extract runs OCR over img and returns the filtered words in reading order.
func (t *Tesseract) Extract(ctx context.Context, img image.Image) ([]TextElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := img
	if t.opts.Preprocess {
		src = Preprocess(img)
	}

	data, err := imaging.EncodePNG(src)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare OCR input: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.opts.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(t.opts.Language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	// Preprocess output starts at (0,0); boxes are relative to the encoded image.
	raw := make([]TextElement, 0, len(boxes))
	for _, box := range boxes {
		raw = append(raw, FromBox(box.Word, box.Box, box.Confidence, image.Point{}))
	}
	elements := Filter(raw, t.opts.MinConfidence)

	logger.L(ctx).Debug("ocr extracted text elements",
		zap.Int("words", len(raw)),
		zap.Int("kept", len(elements)),
		zap.String("language", t.opts.Language))

	return elements, nil
}

// Info describes the OCR backend for diagnostics.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Language  string `json:"language"`
	Backend   string `json:"backend"`
}

// Info reports the installed Tesseract version.
func (t *Tesseract) Info() Info {
	client := gosseract.NewClient()
	defer client.Close()

	version := client.Version()
	return Info{
		Available: version != "",
		Version:   version,
		Language:  t.opts.Language,
		Backend:   "gosseract",
	}
}
