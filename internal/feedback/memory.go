package feedback

import (
	"context"
	"sync"
)

// MemoryStore keeps records for the life of the process only.
// This allows statistics to work without persistent storage.
type MemoryStore struct {
	records []Record
	mutex   sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append implements Store.
func (m *MemoryStore) Append(_ context.Context, rec Record) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.records = append(m.records, rec.clone())
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context) ([]Record, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]Record, len(m.records))
	for i, rec := range m.records {
		out[i] = rec.clone()
	}
	return out, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
