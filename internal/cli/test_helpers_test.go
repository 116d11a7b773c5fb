package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/frecent/internal/config"
	"github.com/runnerr0/frecent/internal/history"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// newTestApp returns an app with an in-memory store, default config after
// applying mutate, and a controllable clock.
func newTestApp(t *testing.T, mutate ...func(*config.Config)) (*app, *testClock) {
	t.Helper()
	cfg := config.DefaultConfig()
	for _, m := range mutate {
		m(cfg)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	exclusions, err := history.NewExclusions(cfg.DenylistDomains(), cfg.Capture.DenylistRegex)
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	opts := storeOptions(cfg, exclusions, log)
	opts.Now = clock.Now

	store, err := history.Open(context.Background(), nil, opts)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(context.Background()) })

	return &app{
		cfg:        cfg,
		log:        log,
		store:      store,
		path:       ":memory:",
		exclusions: exclusions,
		now:        clock.Now,
	}, clock
}

// seed records one visit per address, each a minute apart.
func seed(t *testing.T, a *app, clock *testClock, addresses ...string) {
	t.Helper()
	for _, addr := range addresses {
		require.NoError(t, a.store.Record(addr, "", history.TransitionLink))
		clock.Advance(time.Minute)
	}
}
