package history

import "sync"

// ChangeKind identifies what kind of mutation a Change reports.
type ChangeKind int

const (
	ChangeLoaded ChangeKind = iota
	ChangeRecorded
	ChangeRemoved
	ChangeCleared
	ChangeFaviconUpdated
	ChangePruned
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeLoaded:
		return "loaded"
	case ChangeRecorded:
		return "recorded"
	case ChangeRemoved:
		return "removed"
	case ChangeCleared:
		return "cleared"
	case ChangeFaviconUpdated:
		return "favicon_updated"
	case ChangePruned:
		return "pruned"
	}
	return "unknown"
}

// Change is delivered to subscribers after the store has been mutated.
// Address is set for single-entry changes; Removed counts entries dropped
// by the mutation, including any cleanup it triggered.
type Change struct {
	Kind    ChangeKind
	Address string
	Removed int
	Len     int
}

type subscribers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(Change)
}

func (s *subscribers) add(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(Change))
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.fns, id)
		s.mu.Unlock()
	}
}

func (s *subscribers) publish(c Change) {
	s.mu.Lock()
	fns := make([]func(Change), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}
