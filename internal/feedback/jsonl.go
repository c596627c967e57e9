package feedback

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/ironsheep/ui-locator-mcp/internal/logger"
)

// maxLineSize bounds a single JSONL record when loading.
const maxLineSize = 1 << 20

// JSONLStore appends one JSON object per line to a file.
type JSONLStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONLStore creates the parent directory and checks it is writable.
// The file itself is created on the first append.
func NewJSONLStore(path string) (*JSONLStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create feedback directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return nil, fmt.Errorf("feedback directory not writable: %w", err)
	}
	_ = os.Remove(testFile)

	return &JSONLStore{path: path}, nil
}

// Path returns the file the store writes to.
func (s *JSONLStore) Path() string { return s.path }

// Append writes rec as a single line.
func (s *JSONLStore) Append(_ context.Context, rec Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback record: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open feedback file: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append feedback record: %w", err)
	}
	return f.Close()
}

// Load reads every record. A missing file is an empty history; lines that
// fail to parse are skipped with a warning.
func (s *JSONLStore) Load(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open feedback file: %w", err)
	}
	defer func() { _ = f.Close() }()

	records := []Record{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			logger.L(ctx).Warn("skipping malformed feedback record",
				zap.String("path", s.path),
				zap.Int("line", lineNo),
				zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feedback file: %w", err)
	}
	return records, nil
}

// Close implements Store.
func (s *JSONLStore) Close() error { return nil }

var _ Store = (*JSONLStore)(nil)
