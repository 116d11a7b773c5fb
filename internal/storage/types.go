package storage

import (
	"context"
	"fmt"

	"github.com/runnerr0/frecent/internal/history"
)

// Backend names a persistence implementation.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendJSON   Backend = "json"
)

// Backend-agnostic view of a persistence adapter used by the CLI.
type Adapter interface {
	history.Persister
	Size(ctx context.Context) int64
	Close() error
}

// Open returns the adapter for backend at path.
func Open(ctx context.Context, backend Backend, path, journalMode string) (Adapter, error) {
	switch backend {
	case BackendSQLite, "":
		s, err := OpenSQLite(ctx, path, journalMode)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendJSON:
		return NewFileStore(path), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
