package detection

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
)

// Confidence is the coarse trust label attached to a detection.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ParseConfidence normalises a label reported by a model. The second return
// value is false when the label is missing or not one of high/medium/low.
func ParseConfidence(label string) (Confidence, bool) {
	switch Confidence(strings.ToLower(strings.TrimSpace(label))) {
	case ConfidenceHigh:
		return ConfidenceHigh, true
	case ConfidenceMedium:
		return ConfidenceMedium, true
	case ConfidenceLow:
		return ConfidenceLow, true
	default:
		return "", false
	}
}

// rank orders confidences low < medium < high. Unknown labels rank lowest.
func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether c is at least as trusted as other.
func (c Confidence) AtLeast(other Confidence) bool {
	return c.rank() >= other.rank()
}

// MinConfidence returns the less trusted of a and b.
func MinConfidence(a, b Confidence) Confidence {
	if a.rank() <= b.rank() {
		return a
	}
	return b
}

// NeedsVerification reports whether a result with this confidence should be
// re-examined before it is used.
func (c Confidence) NeedsVerification() bool {
	return c != ConfidenceHigh
}

// Method names the strategy that produced a coordinate.
type Method string

const (
	MethodTextMatch      Method = "ocr_text_matching"
	MethodWindowRelative Method = "relative_coordinate"
	MethodFullScreen     Method = "fullscreen_fallback"
)

// ElementType is the closed set of tags the question classifier can return.
type ElementType string

const (
	ElementText  ElementType = "text"
	ElementIcon  ElementType = "icon"
	ElementOther ElementType = "other"
)

// Result is a detected coordinate in physical screen pixels.
//
// X and Y are always physical screen pixels once a strategy has returned the
// result. Verification may move the point and change Confidence before the
// result is recorded; after that it is treated as frozen.
type Result struct {
	X                 int            `json:"x"`
	Y                 int            `json:"y"`
	Confidence        Confidence     `json:"confidence"`
	Method            Method         `json:"method"`
	Verified          bool           `json:"verified"`
	CorrectionApplied bool           `json:"correction_applied"`
	Metadata          map[string]any `json:"metadata,omitempty"`

	Question    string        `json:"question,omitempty"`
	ElementType ElementType   `json:"element_type,omitempty"`
	Model       string        `json:"model,omitempty"`
	Duration    time.Duration `json:"duration_ns,omitempty"`
}

// Point returns the coordinate as a geometry.Point.
func (r *Result) Point() geometry.Point {
	return geometry.Point{X: r.X, Y: r.Y}
}

// SetPoint replaces the coordinate.
func (r *Result) SetPoint(p geometry.Point) {
	r.X, r.Y = p.X, p.Y
}

// SetMeta stores a metadata value, allocating the map on first use.
func (r *Result) SetMeta(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
}

// Clone returns a deep copy of the result. Metadata values are copied through
// a JSON round trip so nested maps and slices are not shared.
func (r *Result) Clone() *Result {
	cp := *r
	if r.Metadata != nil {
		cp.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			cp.Metadata[k] = cloneValue(v)
		}
	}
	return &cp
}

func cloneValue(v any) any {
	switch v.(type) {
	case nil, string, bool, int, int64, float64, Confidence, Method, ElementType:
		return v
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return string(data)
	}
	return out
}

// String formats the result for logs and CLI output.
func (r *Result) String() string {
	return fmt.Sprintf("(%d, %d) confidence=%s method=%s verified=%t corrected=%t",
		r.X, r.Y, r.Confidence, r.Method, r.Verified, r.CorrectionApplied)
}
