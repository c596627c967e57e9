package feedback

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists records across sessions.
type Store interface {
	// Append durably adds one record.
	Append(ctx context.Context, rec Record) error
	// Load returns every stored record in insertion order.
	Load(ctx context.Context) ([]Record, error)
	Close() error
}

// Store types accepted by NewStore.
const (
	StoreJSONL  = "jsonl"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config selects and configures a Store.
type Config struct {
	Type string `mapstructure:"type" yaml:"type"`
	// Path of the JSONL file or SQLite database. Empty uses DefaultPath.
	Path string `mapstructure:"path" yaml:"path"`
}

// DefaultPath returns the default location for a store type.
func DefaultPath(storeType string) string {
	switch storeType {
	case StoreSQLite:
		return "~/.ui-locator/feedback.db"
	default:
		return "~/.ui-locator/feedback.jsonl"
	}
}

// NewStore creates a store based on the provided configuration.
func NewStore(cfg Config) (Store, error) {
	if cfg.Type == "" {
		cfg.Type = StoreJSONL
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath(cfg.Type)
	}

	switch cfg.Type {
	case StoreJSONL:
		return NewJSONLStore(expandPath(cfg.Path))
	case StoreSQLite:
		return NewSQLiteStore(expandPath(cfg.Path))
	case StoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported feedback store type: %s", cfg.Type)
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
