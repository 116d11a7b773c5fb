package history

import (
	"context"
	"time"
)

// Persister stores the whole entry collection durably. Load returns
// ErrNotFound when nothing was saved yet and ErrDecode when the saved data
// cannot be read back; the Store treats both as an empty history.
type Persister interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

const saveTimeout = 30 * time.Second

// schedulePersist asks the save loop for a write without blocking. Requests
// that arrive while a write is in flight collapse into a single follow-up
// write of the then-current collection.
func (s *Store) schedulePersist() {
	if s.persister == nil {
		return
	}
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *Store) saveLoop() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case <-s.kick:
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			if err := s.saveNow(ctx); err != nil {
				s.log.Warn("save history failed, keeping changes in memory", "err", err)
			}
			cancel()
		}
	}
}

// saveNow writes the current collection if it changed since the last
// successful write. Failed writes leave the store dirty so the next
// mutation or Flush retries them.
func (s *Store) saveNow(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	gen := s.gen
	if gen == s.savedGen {
		s.mu.RUnlock()
		return nil
	}
	snap := s.snapshotLocked()
	s.mu.RUnlock()

	if err := s.persister.Save(ctx, snap); err != nil {
		s.mu.Lock()
		s.saveErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.savedGen = gen
	s.saveErr = nil
	s.mu.Unlock()
	s.log.Debug("history saved", "entries", len(snap))
	return nil
}

// Flush synchronously writes any unsaved changes.
func (s *Store) Flush(ctx context.Context) error {
	return s.saveNow(ctx)
}

// LastSaveError returns the error from the most recent failed write, or
// nil once a later write succeeds.
func (s *Store) LastSaveError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveErr
}

// Close stops background saving and flushes pending changes.
func (s *Store) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		if s.persister != nil {
			close(s.stop)
			<-s.done
		}
		err = s.saveNow(ctx)
		s.cache.close()
	})
	return err
}
