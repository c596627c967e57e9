package feedback

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ironsheep/ui-locator-mcp/internal/detection"
)

// SQLiteStore keeps records in a single SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_synchronous=NORMAL&_timeout=30000&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db, path: path}
	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS detections (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		recorded_at TEXT NOT NULL,          -- RFC 3339, UTC
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		confidence TEXT NOT NULL,
		method TEXT NOT NULL,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		correction_applied BOOLEAN NOT NULL DEFAULT FALSE,
		question TEXT DEFAULT '',
		element_type TEXT DEFAULT '',
		model TEXT DEFAULT '',
		duration_ms INTEGER NOT NULL DEFAULT 0,
		metadata TEXT DEFAULT '{}'          -- JSON object
	);

	CREATE INDEX IF NOT EXISTS idx_detections_method ON detections(method);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append inserts rec.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	meta := []byte("{}")
	if len(rec.Metadata) > 0 {
		var err error
		if meta, err = json.Marshal(rec.Metadata); err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO detections (id, recorded_at, x, y, confidence, method, verified, correction_applied,
			question, element_type, model, duration_ms, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Timestamp.UTC().Format(time.RFC3339Nano),
		rec.Coordinates.X,
		rec.Coordinates.Y,
		string(rec.Confidence),
		string(rec.Method),
		rec.Verified,
		rec.CorrectionApplied,
		rec.Question,
		rec.ElementType,
		rec.Model,
		rec.DurationMS,
		string(meta),
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback record: %w", err)
	}
	return nil
}

// Load returns every record in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recorded_at, x, y, confidence, method, verified, correction_applied,
			question, element_type, model, duration_ms, metadata
		FROM detections ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []Record{}
	for rows.Next() {
		var (
			rec                Record
			recordedAt, meta   string
			confidence, method string
		)
		if err := rows.Scan(
			&rec.ID, &recordedAt, &rec.Coordinates.X, &rec.Coordinates.Y,
			&confidence, &method, &rec.Verified, &rec.CorrectionApplied,
			&rec.Question, &rec.ElementType, &rec.Model, &rec.DurationMS, &meta,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feedback record: %w", err)
		}

		rec.Timestamp, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("record %s has invalid timestamp %q: %w", rec.ID, recordedAt, err)
		}
		rec.Confidence = detection.Confidence(confidence)
		rec.Method = detection.Method(method)
		if meta != "" && meta != "{}" {
			if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
				return nil, fmt.Errorf("record %s has invalid metadata: %w", rec.ID, err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Path returns the database file.
func (s *SQLiteStore) Path() string { return s.path }

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
