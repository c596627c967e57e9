package ocr

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
)

// contrastBoost is the bild contrast change applied after grayscale
// conversion (-1..1).
const contrastBoost = 0.4

// Preprocess returns a grayscale, contrast-enhanced copy of img with the same
// dimensions, anchored at (0,0).
func Preprocess(img image.Image) image.Image {
	gray := effect.Grayscale(img)
	return adjust.Contrast(gray, contrastBoost)
}
