package locate

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/ocr"
)

var (
	//go:embed schemas/disambiguation.json
	disambiguationSchema []byte

	//go:embed schemas/locate.json
	locateSchema []byte

	//go:embed schemas/verification.json
	verificationSchema []byte
)

// formatTextElements renders one line per element:
//
//	3: 'Save' (pos 120,40, conf 91.0)
func formatTextElements(elements []ocr.TextElement) string {
	var b strings.Builder
	for i, e := range elements {
		fmt.Fprintf(&b, "%d: '%s' (pos %d,%d, conf %.1f)\n", i, e.Text, e.BoxX, e.BoxY, e.Confidence)
	}
	return b.String()
}

func disambiguationPrompt(question string, elements []ocr.TextElement) string {
	return fmt.Sprintf(`From the list of text elements found on screen, pick the one that best answers the user's question.

Text elements:
%s
User question: %s

Reply with JSON only:
{
  "element_index": <integer index from the list>,
  "confidence": "high|medium|low",
  "reason": "<why this element>"
}

Rules:
- element_index must be an integer between 0 and %d.
- Pick the element whose text the user refers to, not merely a similar word.`,
		formatTextElements(elements), question, len(elements)-1)
}

func locatePrompt(question string, width, height int, windowTitle string) string {
	scope := "This image is a screenshot of the whole screen."
	origin := "relative to the image"
	if windowTitle != "" {
		scope = fmt.Sprintf("This image is a screenshot of the active window %q.", windowTitle)
		origin = "relative to the window (not the whole screen)"
	}

	return fmt.Sprintf(`%s
Image size: %d x %d pixels.

User question: %s

Find the element the question refers to and return its centre point %s, with (0,0) at the top-left corner.

Reply with JSON only:
{
  "answer": "<answer to the question>",
  "coordinates": {"x": <integer 0-%d>, "y": <integer 0-%d>},
  "confidence": "high|medium|low",
  "element_description": "<what the element looks like>"
}

Rules:
- Coordinates must be integers.
- Return the centre of the element.`,
		scope, width, height, question, origin, width, height)
}

func verificationPrompt(question string, candidate, marker geometry.Point, width, height, maxCorrection int) string {
	return fmt.Sprintf(`The crosshair in this zoomed screenshot marks a proposed click point.
Does it point at the element the user asked for?

User question: %s
Proposed screen coordinate: (%d, %d)
Image size: %d x %d pixels; the crosshair is at (%d, %d) in the image.

Reply with JSON only:
{
  "is_correct": true|false,
  "confidence": "high|medium|low",
  "offset_x": <pixels to move right to reach the element centre, 0 if correct>,
  "offset_y": <pixels to move down to reach the element centre, 0 if correct>,
  "reason": "<short explanation>"
}

Rules:
- Set is_correct to true when the crosshair is on the centre of the element.
- Otherwise give the offset to the correct position; negative values move left or up.
- Offsets must be between -%d and %d.`,
		question, candidate.X, candidate.Y, width, height, marker.X, marker.Y, maxCorrection, maxCorrection)
}
