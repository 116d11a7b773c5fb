package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/frecent/internal/history"
)

const testInterval = 30 * time.Millisecond

// fakeSearcher records every call and answers with one entry per query.
type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	gate    chan struct{} // when non-nil, the first search blocks on it
	gated   bool
}

func (f *fakeSearcher) Search(query string, limit int) []history.Entry {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	gate := f.gate
	if gate != nil && !f.gated {
		f.gated = true
	} else {
		gate = nil
	}
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if query == "" {
		return []history.Entry{{Address: "https://recent.test"}}
	}
	return []history.Entry{{Address: "https://" + query + ".test"}}
}

func (f *fakeSearcher) Autocomplete(query string) (string, bool) {
	return "https://" + query + ".test", true
}

func (f *fakeSearcher) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func newTestSession(t *testing.T, src Searcher) *Session {
	t.Helper()
	s := New(src, Options{Interval: testInterval, Limit: 5})
	t.Cleanup(s.Close)
	return s
}

func TestSession_BurstCollapsesToOneSearch(t *testing.T) {
	src := &fakeSearcher{}
	s := newTestSession(t, src)

	for _, q := range []string{"g", "gi", "git", "gith", "githu"} {
		s.Query(q)
	}

	assert.Eventually(t, func() bool { return len(src.calls()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(4 * testInterval)

	assert.Equal(t, []string{"githu"}, src.calls())
	st := s.State()
	assert.Equal(t, "githu", st.Query)
	require.Len(t, st.Results, 1)
	assert.Equal(t, "https://githu.test", st.Results[0].Address)
	assert.Equal(t, "https://githu.test", st.Suggestion)
	assert.False(t, st.Searching)
}

func TestSession_SearchingUntilResultsArrive(t *testing.T) {
	src := &fakeSearcher{}
	s := newTestSession(t, src)

	s.Query("go")
	assert.True(t, s.IsSearching())
	assert.Empty(t, s.Results())

	assert.Eventually(t, func() bool { return !s.IsSearching() }, time.Second, 5*time.Millisecond)
	assert.Len(t, s.Results(), 1)
	assert.Equal(t, "https://go.test", s.Suggestion())
}

func TestSession_EmptyQueryClearsImmediately(t *testing.T) {
	src := &fakeSearcher{}
	s := newTestSession(t, src)

	s.Query("go")
	assert.Eventually(t, func() bool { return len(s.Results()) == 1 }, time.Second, 5*time.Millisecond)

	s.Query("gol")
	s.Query("")

	st := s.State()
	assert.Empty(t, st.Results)
	assert.Empty(t, st.Suggestion)
	assert.False(t, st.Searching)

	time.Sleep(4 * testInterval)
	assert.Equal(t, []string{"go"}, src.calls(), "pending query must be cancelled")
	assert.Empty(t, s.Results())
}

func TestSession_LaterQuerySupersedesInFlightSearch(t *testing.T) {
	src := &fakeSearcher{gate: make(chan struct{})}
	s := newTestSession(t, src)

	s.Query("old")
	assert.Eventually(t, func() bool { return len(src.calls()) == 1 }, time.Second, 5*time.Millisecond)

	s.Query("new")
	// Let the "new" timer fire while "old" is still blocked.
	time.Sleep(3 * testInterval)
	close(src.gate)

	assert.Eventually(t, func() bool { return len(src.calls()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return !s.IsSearching() }, time.Second, 5*time.Millisecond)

	st := s.State()
	require.Len(t, st.Results, 1)
	assert.Equal(t, "https://new.test", st.Results[0].Address)
	assert.Equal(t, "new", st.Query)
}

func TestSession_ClearCancelsPending(t *testing.T) {
	src := &fakeSearcher{}
	s := newTestSession(t, src)

	s.Query("go")
	s.Clear()
	assert.Equal(t, State{}, s.State())

	time.Sleep(4 * testInterval)
	assert.Empty(t, src.calls())
}

func TestSession_ShowRecentIsImmediate(t *testing.T) {
	src := &fakeSearcher{}
	s := newTestSession(t, src)

	s.Query("pending")
	s.ShowRecent()

	st := s.State()
	require.Len(t, st.Results, 1)
	assert.Equal(t, "https://recent.test", st.Results[0].Address)
	assert.Empty(t, st.Suggestion)
	assert.False(t, st.Searching)

	time.Sleep(4 * testInterval)
	assert.Equal(t, []string{""}, src.calls())
}

func TestSession_OnChangeObservesTransitions(t *testing.T) {
	var mu sync.Mutex
	var seen []State
	s := New(&fakeSearcher{}, Options{
		Interval: testInterval,
		OnChange: func(st State) {
			mu.Lock()
			seen = append(seen, st)
			mu.Unlock()
		},
	})
	defer s.Close()

	s.Query("go")
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, seen[0].Searching)
	assert.False(t, seen[1].Searching)
	assert.Len(t, seen[1].Results, 1)
}

func TestSession_CloseDropsPendingQuery(t *testing.T) {
	src := &fakeSearcher{}
	s := New(src, Options{Interval: testInterval})

	s.Query("go")
	s.Close()
	s.Query("again")

	time.Sleep(4 * testInterval)
	assert.Empty(t, src.calls())
}

func TestSession_OverHistoryStore(t *testing.T) {
	ctx := context.Background()
	store, err := history.Open(ctx, nil, history.Options{})
	require.NoError(t, err)
	defer store.Close(ctx)

	require.NoError(t, store.Record("https://example.com/docs", "Example Docs", history.TransitionTyped))
	require.NoError(t, store.Record("https://golang.org/", "Go", history.TransitionLink))

	s := newTestSession(t, store)
	s.Query("exa")

	assert.Eventually(t, func() bool { return !s.IsSearching() }, time.Second, 5*time.Millisecond)
	st := s.State()
	require.Len(t, st.Results, 1)
	assert.Equal(t, "https://example.com/docs", st.Results[0].Address)
	assert.Equal(t, "https://example.com/docs", st.Suggestion)
}
