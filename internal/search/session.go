// Package search provides a debounced query front-end over the history
// store, suitable for driving a URL bar from keystrokes.
package search

import (
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/runnerr0/frecent/internal/history"
)

// DefaultInterval is the quiet period a query must survive before it is
// dispatched.
const DefaultInterval = 300 * time.Millisecond

// Searcher is the part of history.Store a Session needs.
type Searcher interface {
	Search(query string, limit int) []history.Entry
	Autocomplete(query string) (string, bool)
}

// Options configures a Session.
type Options struct {
	Interval time.Duration
	Limit    int
	// OnChange is called after every state transition, outside any lock.
	OnChange func(State)
}

// State is a snapshot of what the session currently shows.
type State struct {
	Query      string
	Results    []history.Entry
	Suggestion string
	Searching  bool
}

// Session collapses bursts of Query calls into one search per quiet
// period. Only the result of the latest query is ever published.
type Session struct {
	src       Searcher
	limit     int
	debounced func(f func())
	onChange  func(State)

	mu     sync.Mutex
	gen    uint64
	state  State
	closed bool

	// serialises dispatches so two searches never deliver concurrently
	dispatchMu sync.Mutex
}

// New returns a Session reading from src.
func New(src Searcher, opts Options) *Session {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Limit <= 0 {
		opts.Limit = history.DefaultSearchLimit
	}
	return &Session{
		src:       src,
		limit:     opts.Limit,
		debounced: debounce.New(opts.Interval),
		onChange:  opts.OnChange,
	}
}

// Query schedules a search for text, superseding any pending query. An
// empty text clears the results at once without waiting.
func (s *Session) Query(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	s.state.Query = text
	if text == "" {
		s.state.Results = nil
		s.state.Suggestion = ""
		s.state.Searching = false
	} else {
		s.state.Searching = true
	}
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(st)
	if text != "" {
		s.debounced(func() { s.dispatch(gen, text) })
	}
}

// Clear cancels any pending query and empties the results.
func (s *Session) Clear() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.gen++
	s.state = State{}
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(st)
}

// ShowRecent cancels any pending query and immediately shows the most
// recently visited entries, with no suggestion.
func (s *Session) ShowRecent() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	s.state = State{Searching: true}
	s.mu.Unlock()

	s.dispatchMu.Lock()
	results := s.src.Search("", s.limit)
	s.dispatchMu.Unlock()

	s.publish(gen, results, "")
}

func (s *Session) dispatch(gen uint64, text string) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	if !s.current(gen) {
		return
	}
	results := s.src.Search(text, s.limit)
	suggestion, _ := s.src.Autocomplete(text)
	s.publish(gen, results, suggestion)
}

// publish installs results if gen is still the latest query.
func (s *Session) publish(gen uint64, results []history.Entry, suggestion string) {
	s.mu.Lock()
	if gen != s.gen || s.closed {
		s.mu.Unlock()
		return
	}
	s.state.Results = results
	s.state.Suggestion = suggestion
	s.state.Searching = false
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(st)
}

func (s *Session) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen && !s.closed
}

func (s *Session) notify(st State) {
	if s.onChange != nil {
		s.onChange(st)
	}
}

func (s *Session) snapshotLocked() State {
	st := s.state
	if st.Results != nil {
		st.Results = append([]history.Entry(nil), st.Results...)
	}
	return st
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Results returns the latest published result list.
func (s *Session) Results() []history.Entry {
	return s.State().Results
}

// IsSearching reports whether a query is waiting for its results.
func (s *Session) IsSearching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Searching
}

// Suggestion returns the autocomplete address for the latest query.
func (s *Session) Suggestion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Suggestion
}

// Close discards any pending query. Later calls are no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.closed = true
}
