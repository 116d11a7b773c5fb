package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/runnerr0/frecent/internal/history"
)

const lockRetryDelay = 25 * time.Millisecond

// FileStore persists history as a JSON array in a single file. Writes go to
// a temporary file that is renamed into place, under an advisory lock so
// concurrent processes never interleave.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore returns a FileStore for path. Nothing is touched on disk
// until the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the JSON file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the collection. A missing file yields history.ErrNotFound and
// malformed JSON yields history.ErrDecode.
func (f *FileStore) Load(ctx context.Context) ([]history.Entry, error) {
	if _, err := os.Stat(f.path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", history.ErrNotFound, f.path)
	}

	locked, err := f.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", f.path, err)
	}
	if locked {
		defer f.lock.Unlock() //nolint:errcheck
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", history.ErrNotFound, f.path)
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var entries []history.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", history.ErrDecode, f.path, err)
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	return entries, nil
}

// Save writes the collection atomically.
func (f *FileStore) Save(ctx context.Context, entries []history.Entry) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	locked, err := f.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", f.path, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", f.path)
	}
	defer f.lock.Unlock() //nolint:errcheck

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}

// Size returns the file size in bytes, or 0 if it does not exist yet.
func (f *FileStore) Size(ctx context.Context) int64 {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Close is a no-op; it exists so both backends share a lifecycle.
func (f *FileStore) Close() error {
	return nil
}
