package feedback

import (
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/ui-locator-mcp/internal/detection"
)

// Coordinates is the recorded point in physical screen pixels.
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Record is an immutable snapshot of a delivered detection result. One
// record is written per line of the JSONL audit trail.
type Record struct {
	ID                string               `json:"id"`
	Timestamp         time.Time            `json:"timestamp"`
	Coordinates       Coordinates          `json:"coordinates"`
	Confidence        detection.Confidence `json:"confidence"`
	Method            detection.Method     `json:"method"`
	Verified          bool                 `json:"verified"`
	CorrectionApplied bool                 `json:"correction_applied"`
	Question          string               `json:"question,omitempty"`
	ElementType       string               `json:"element_type,omitempty"`
	Model             string               `json:"model,omitempty"`
	DurationMS        int64                `json:"duration_ms,omitempty"`
	Metadata          map[string]any       `json:"metadata,omitempty"`
}

// NewRecord snapshots res. Metadata is deep-copied so later changes to res
// do not reach the record.
func NewRecord(res *detection.Result, now time.Time) Record {
	snap := res.Clone()
	return Record{
		ID:                uuid.NewString(),
		Timestamp:         now.UTC(),
		Coordinates:       Coordinates{X: snap.X, Y: snap.Y},
		Confidence:        snap.Confidence,
		Method:            snap.Method,
		Verified:          snap.Verified,
		CorrectionApplied: snap.CorrectionApplied,
		Question:          snap.Question,
		ElementType:       string(snap.ElementType),
		Model:             snap.Model,
		DurationMS:        snap.Duration.Milliseconds(),
		Metadata:          snap.Metadata,
	}
}

// Result rebuilds a detection result from the record.
func (r Record) Result() *detection.Result {
	return &detection.Result{
		X:                 r.Coordinates.X,
		Y:                 r.Coordinates.Y,
		Confidence:        r.Confidence,
		Method:            r.Method,
		Verified:          r.Verified,
		CorrectionApplied: r.CorrectionApplied,
		Metadata:          r.Metadata,
		Question:          r.Question,
		ElementType:       detection.ElementType(r.ElementType),
		Model:             r.Model,
		Duration:          time.Duration(r.DurationMS) * time.Millisecond,
	}
}

// clone returns a copy that shares no metadata with r.
func (r Record) clone() Record {
	cp := r
	if r.Metadata != nil {
		cp.Metadata = r.Result().Clone().Metadata
	}
	return cp
}
