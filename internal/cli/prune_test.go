package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/frecent/internal/config"
)

// setupPruneTest seeds stale entries older than the retention horizon and
// fresh ones inside it.
func setupPruneTest(t *testing.T, stale, fresh int) *app {
	t.Helper()
	a, clock := newTestApp(t, func(cfg *config.Config) { cfg.Retention.Days = 30 })
	for i := 0; i < stale; i++ {
		seed(t, a, clock, "https://stale.test/"+string(rune('a'+i)))
	}
	clock.Advance(45 * 24 * time.Hour)
	for i := 0; i < fresh; i++ {
		seed(t, a, clock, "https://fresh.test/"+string(rune('a'+i)))
	}
	return a
}

func TestPrune_RemovesExpired(t *testing.T) {
	a := setupPruneTest(t, 5, 3)
	// Recording fresh entries already ran the retention pass.
	require.Equal(t, 3, a.store.Len())

	output := captureOutput(t, func() {
		require.NoError(t, (&PruneCommand{globals: &GlobalFlags{}}).execute(a))
	})
	assert.Contains(t, output, "Pruned 0 entries (retention 30 days, cap 10,000)")
}

func TestPrune_DryRunListsCandidates(t *testing.T) {
	a, clock := newTestApp(t, func(cfg *config.Config) { cfg.Retention.Days = 30 })
	seed(t, a, clock, "https://stale.test/a", "https://stale.test/b")
	clock.Advance(45 * 24 * time.Hour)

	output := captureOutput(t, func() {
		require.NoError(t, (&PruneCommand{DryRun: true, globals: &GlobalFlags{}}).execute(a))
	})
	assert.Contains(t, output, "Would prune 2 entries")
	assert.Contains(t, output, "https://stale.test/a")
	assert.Equal(t, 2, a.store.Len(), "dry run must not delete")

	output = captureOutput(t, func() {
		require.NoError(t, (&PruneCommand{globals: &GlobalFlags{JSON: true}}).execute(a))
	})
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, float64(2), got["removed"])
	assert.Equal(t, float64(0), got["remaining"])
}

func TestPrune_EnforcesCap(t *testing.T) {
	a, clock := newTestApp(t, func(cfg *config.Config) { cfg.Retention.MaxEntries = 2 })
	seed(t, a, clock, "https://a.test/", "https://b.test/", "https://c.test/")

	// The cap is applied on every record, so only the newest two remain.
	assert.Equal(t, 2, a.store.Len())
	_, ok := a.store.Get("https://a.test/")
	assert.False(t, ok)

	output := captureOutput(t, func() {
		require.NoError(t, (&PruneCommand{DryRun: true, globals: &GlobalFlags{JSON: true}}).execute(a))
	})
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, float64(0), got["would_drop"])
}
