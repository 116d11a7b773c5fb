package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 365, cfg.Retention.Days)
	assert.Equal(t, 10000, cfg.Retention.MaxEntries)
	assert.Empty(t, cfg.Capture.DenylistDomains)
	assert.False(t, cfg.Capture.UseDefaultDenylist)
	assert.Equal(t, "~/.config/frecent", cfg.Storage.Path)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "history.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "history.json", cfg.Storage.JSONFile)
	assert.Equal(t, "wal", cfg.Storage.SQLiteJournalMode)
	assert.Equal(t, 300, cfg.Search.DebounceMS)
	assert.Equal(t, 10, cfg.Search.Limit)
	assert.Equal(t, 30, cfg.Search.CacheTTLSeconds)
	assert.Equal(t, 256, cfg.Search.CacheSize)
	assert.Equal(t, 0, cfg.Favicon.MaxBytes)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "frecent.log", cfg.Logging.File)
	assert.Equal(t, 10485760, cfg.Logging.MaxSize)
	assert.Equal(t, 3, cfg.Logging.MaxBackups)

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceInterval())
	assert.Equal(t, 30*time.Second, cfg.CacheTTL())
}

func TestDefaultDenylistIsPopulated(t *testing.T) {
	domains := DefaultDenylistDomains()
	assert.Greater(t, len(domains), 10)
	assert.IsIncreasing(t, domains)

	assert.Contains(t, domains, "chase.com")
	assert.Contains(t, domains, "1password.com")
	assert.Contains(t, domains, "mychart.com")
}

func TestDenylistDomains_MergesDefaultsWhenEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capture.DenylistDomains = []string{"example.com"}
	assert.Equal(t, []string{"example.com"}, cfg.DenylistDomains())

	cfg.Capture.UseDefaultDenylist = true
	domains := cfg.DenylistDomains()
	assert.Contains(t, domains, "example.com")
	assert.Contains(t, domains, "paypal.com")
	assert.Equal(t, []string{"example.com"}, cfg.Capture.DenylistDomains, "config slice must not be mutated")
}

func TestLoadValidYAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
retention:
  days: 90
  max_entries: 500
storage:
  backend: json
search:
  debounce_ms: 150
logging:
  level: "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.Retention.Days)
	assert.Equal(t, 500, cfg.Retention.MaxEntries)
	assert.Equal(t, "json", cfg.Storage.Backend)
	assert.Equal(t, 150*time.Millisecond, cfg.DebounceInterval())
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Non-overridden values remain defaults
	assert.Equal(t, "history.json", cfg.Storage.JSONFile)
	assert.Equal(t, 10, cfg.Search.Limit)
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	_, err := Load(writeConfig(t, ":::not valid yaml{{{"))
	assert.Error(t, err)
}

func TestLoadNonExistentFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing", "config.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero retention", "retention:\n  days: 0\n"},
		{"negative cap", "retention:\n  max_entries: -1\n"},
		{"unknown backend", "storage:\n  backend: bolt\n"},
		{"negative debounce", "search:\n  debounce_ms: -5\n"},
		{"negative favicon", "favicon:\n  max_bytes: -1\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"bad regex", "capture:\n  denylist_regex: ['(unclosed']\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestValidateJoinsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Retention.Days = 0
	cfg.Storage.Backend = "bolt"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retention.days")
	assert.Contains(t, err.Error(), "storage.backend")
}

func TestLoadOrCreateCreatesDefaultsWhenMissing(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sub", "deep", "config.yaml")

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 365, cfg.Retention.Days)
	assert.FileExists(t, cfgPath)

	cfg2, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, cfg2)
}

func TestLoadOrCreateLoadsExistingFile(t *testing.T) {
	cfg, err := LoadOrCreateAt(writeConfig(t, "retention:\n  days: 7\n"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Retention.Days)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
}

func TestLoadWithDenylist(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
capture:
  denylist_domains:
    - "example.com"
    - "secret.org"
  denylist_regex:
    - "^internal\\."
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "secret.org"}, cfg.Capture.DenylistDomains)
	assert.Equal(t, []string{`^internal\.`}, cfg.Capture.DenylistRegex)
}

func TestHistoryFileFollowsBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/var/lib/frecent"

	path, err := cfg.HistoryFile()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/frecent/history.db", path)

	cfg.Storage.Backend = "json"
	path, err = cfg.HistoryFile()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/frecent/history.json", path)
}

func TestLogFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/data"

	path, err := cfg.LogFile()
	require.NoError(t, err)
	assert.Equal(t, "/data/frecent.log", path)

	cfg.Logging.File = "/tmp/x.log"
	path, err = cfg.LogFile()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.log", path)

	cfg.Logging.File = ""
	path, err = cfg.LogFile()
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/.config/frecent")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config/frecent"), got)

	got, err = ExpandPath("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}
