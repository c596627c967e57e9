package feedback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/ui-locator-mcp/internal/detection"
	"github.com/ironsheep/ui-locator-mcp/internal/logger"
)

// Stats summarises every recorded detection.
type Stats struct {
	TotalCount             int                          `json:"total_count"`
	MethodDistribution     map[detection.Method]int     `json:"method_distribution"`
	ConfidenceDistribution map[detection.Confidence]int `json:"confidence_distribution"`
	VerificationRate       float64                      `json:"verification_rate"`
	CorrectionRate         float64                      `json:"correction_rate"`
}

// Recorder is the append-only history of delivered results. It is safe for
// concurrent use.
type Recorder struct {
	mu      sync.RWMutex
	records []Record
	store   Store
	now     func() time.Time
}

// NewRecorder creates a recorder backed by store and loads its history so
// statistics span sessions. A nil store keeps records in memory only.
func NewRecorder(ctx context.Context, store Store) (*Recorder, error) {
	r := &Recorder{store: store, now: time.Now}
	if store == nil {
		return r, nil
	}

	records, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback history: %w", err)
	}
	r.records = records
	logger.L(ctx).Debug("loaded feedback history", zap.Int("records", len(records)))
	return r, nil
}

// Record snapshots res and appends it. A store failure is logged; the
// in-memory history still receives the record.
func (r *Recorder) Record(ctx context.Context, res *detection.Result) Record {
	rec := NewRecord(res, r.now())

	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.Append(ctx, rec); err != nil {
			logger.L(ctx).Warn("failed to persist feedback record",
				zap.String("id", rec.ID),
				zap.Error(err))
		}
	}
	return rec.clone()
}

// Records returns a copy of the history in recording order.
func (r *Recorder) Records() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.clone()
	}
	return out
}

// Statistics computes the summary in a single pass over the history.
func (r *Recorder) Statistics() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		TotalCount:             len(r.records),
		MethodDistribution:     make(map[detection.Method]int),
		ConfidenceDistribution: make(map[detection.Confidence]int),
	}
	if stats.TotalCount == 0 {
		return stats
	}

	verified, corrected := 0, 0
	for _, rec := range r.records {
		stats.MethodDistribution[rec.Method]++
		stats.ConfidenceDistribution[rec.Confidence]++
		if rec.Verified {
			verified++
		}
		if rec.CorrectionApplied {
			corrected++
		}
	}
	stats.VerificationRate = float64(verified) / float64(stats.TotalCount)
	stats.CorrectionRate = float64(corrected) / float64(stats.TotalCount)
	return stats
}

// Close closes the underlying store.
func (r *Recorder) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}
