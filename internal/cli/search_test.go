package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/frecent/internal/history"
)

func TestSearch_RanksMatches(t *testing.T) {
	a, clock := newTestApp(t)
	seed(t, a, clock, "https://docs.example.com/", "https://github.com/golang/go", "https://example.org/blog")
	require.NoError(t, a.store.Record("https://github.com/golang/go", "The Go repo", history.TransitionTyped))

	cmd := &SearchCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.execute(a, []string{"golang"}))
	})

	assert.Contains(t, output, `Found 1 result for "golang"`)
	assert.Contains(t, output, "1. The Go repo · github.com")
	assert.Contains(t, output, "https://github.com/golang/go")
	assert.Contains(t, output, "2 visits · typed 1")
}

func TestSearch_EmptyQueryListsRecent(t *testing.T) {
	a, clock := newTestApp(t)
	seed(t, a, clock, "https://a.test/", "https://b.test/", "https://c.test/")

	cmd := &SearchCommand{Limit: 2, globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.execute(a, nil))
	})

	var got jsonSearchOutput
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	require.Equal(t, 2, got.Count)
	assert.Equal(t, "https://c.test/", got.Results[0].Address)
	assert.Equal(t, "https://b.test/", got.Results[1].Address)
	require.NotNil(t, got.Results[0].Score)
}

func TestSearch_JSONIncludesRankScore(t *testing.T) {
	a, clock := newTestApp(t)
	seed(t, a, clock, "https://go.dev/")

	cmd := &SearchCommand{globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.execute(a, []string{"https://go"}))
	})

	var got jsonSearchOutput
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	require.Equal(t, 1, got.Count)
	// address prefix 800 + recency 100 + one visit 100
	assert.Equal(t, 1000.0, *got.Results[0].Score)
}

func TestSearch_NoResults(t *testing.T) {
	a, _ := newTestApp(t)
	cmd := &SearchCommand{globals: &GlobalFlags{}}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.execute(a, []string{"nothing"}))
	})
	assert.Contains(t, output, `No results found for "nothing"`)

	output = captureOutput(t, func() {
		require.NoError(t, cmd.execute(a, nil))
	})
	assert.Contains(t, output, "History is empty")
}

func TestComplete(t *testing.T) {
	a, clock := newTestApp(t)
	seed(t, a, clock, "https://example.com/path")

	cmd := &CompleteCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.execute(a, []string{"exa"}))
	})
	assert.Equal(t, "https://example.com/path\n", output)

	output = captureOutput(t, func() {
		require.NoError(t, cmd.execute(a, []string{"path"}))
	})
	assert.Contains(t, output, `No completion for "path"`)

	cmd.globals.JSON = true
	output = captureOutput(t, func() {
		require.NoError(t, cmd.execute(a, []string{"https://ex"}))
	})
	var got completeJSON
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.True(t, got.Found)
	assert.Equal(t, "https://example.com/path", got.Completion)
}
