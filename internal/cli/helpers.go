package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/runnerr0/frecent/internal/config"
	"github.com/runnerr0/frecent/internal/history"
	"github.com/runnerr0/frecent/internal/logging"
	"github.com/runnerr0/frecent/internal/storage"
)

// app is everything a command needs: configuration, logger, and an open
// history store.
type app struct {
	cfg        *config.Config
	log        *slog.Logger
	store      *history.Store
	adapter    storage.Adapter // nil when history is kept in memory only
	path       string
	exclusions *history.Exclusions
	logCloser  io.Closer
	now        func() time.Time
}

// withApp opens the app, runs fn, then flushes history to disk. A failed
// flush is reported even when fn succeeded.
func withApp(globals *GlobalFlags, fn func(*app) error) error {
	ctx := context.Background()
	a, err := openApp(ctx, globals)
	if err != nil {
		return err
	}
	runErr := fn(a)
	closeErr := a.Close(ctx)
	if runErr != nil {
		return runErr
	}
	return closeErr
}

// openApp resolves configuration and opens history storage. Storage that
// cannot be opened is logged and the store runs in memory only.
func openApp(ctx context.Context, globals *GlobalFlags) (*app, error) {
	cfg, err := loadConfig(globals.Config)
	if err != nil {
		return nil, err
	}

	logFile, err := cfg.LogFile()
	if err != nil {
		return nil, err
	}
	log, logCloser, err := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		File:       logFile,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		Verbose:    globals.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}

	exclusions, err := history.NewExclusions(cfg.DenylistDomains(), cfg.Capture.DenylistRegex)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	path, err := cfg.HistoryFile()
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	a := &app{cfg: cfg, log: log, path: path, exclusions: exclusions, logCloser: logCloser, now: time.Now}

	var persister history.Persister
	adapter, err := storage.Open(ctx, storage.Backend(cfg.Storage.Backend), path, cfg.Storage.SQLiteJournalMode)
	if err != nil {
		log.Warn("history storage unavailable, keeping history in memory only", "path", path, "err", err)
		fmt.Fprintf(os.Stderr, "warning: cannot open %s (%v); changes will not be saved\n", path, err)
	} else {
		a.adapter = adapter
		persister = adapter
	}

	store, err := history.Open(ctx, persister, storeOptions(cfg, exclusions, log))
	if err != nil {
		a.closeResources()
		return nil, err
	}
	a.store = store
	return a, nil
}

func storeOptions(cfg *config.Config, exclusions *history.Exclusions, log *slog.Logger) history.Options {
	return history.Options{
		RetentionDays:   cfg.Retention.Days,
		MaxEntries:      cfg.Retention.MaxEntries,
		MaxFaviconBytes: cfg.Favicon.MaxBytes,
		Exclusions:      exclusions,
		CacheTTL:        cfg.CacheTTL(),
		CacheSize:       cfg.Search.CacheSize,
		Logger:          log,
	}
}

// loadConfig reads an explicit config path strictly. The default path is
// created on first use and falls back to defaults if unusable.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, err := config.LoadOrCreate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; using default configuration\n", err)
		return config.DefaultConfig(), nil
	}
	return cfg, nil
}

// Close flushes pending history and releases storage and the log file.
func (a *app) Close(ctx context.Context) error {
	var err error
	if a.store != nil {
		if cerr := a.store.Close(ctx); cerr != nil {
			err = fmt.Errorf("saving history to %s: %w", a.path, cerr)
		}
	}
	a.closeResources()
	return err
}

func (a *app) closeResources() {
	if a.adapter != nil {
		a.adapter.Close()
	}
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}

// searchLimit picks the flag value when set, otherwise the configured one.
func (a *app) searchLimit(flag int) int {
	if flag > 0 {
		return flag
	}
	return a.cfg.Search.Limit
}

// parseDays parses a period like "30d", "2w" or a bare day count into days.
func parseDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid period: empty string")
	}

	mult := 1
	numStr := s
	switch s[len(s)-1] {
	case 'd':
		numStr = s[:len(s)-1]
	case 'w':
		mult = 7
		numStr = s[:len(s)-1]
	}

	n, err := strconv.Atoi(numStr)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid period %q (use a day count with optional d or w suffix)", s)
	}
	return n * mult, nil
}

// formatAge renders how long ago t was, e.g. "3 days ago".
func formatAge(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < 0:
		return "in the future"
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	default:
		return plural(int(d.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
