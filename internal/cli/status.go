package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/frecent/internal/history"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version       string          `json:"version"`
	Backend       string          `json:"backend"`
	StoragePath   string          `json:"storage_path"`
	StorageBytes  int64           `json:"storage_bytes"`
	Persistent    bool            `json:"persistent"`
	Entries       int             `json:"entries"`
	TypedEntries  int             `json:"typed_entries"`
	TotalVisits   int64           `json:"total_visits"`
	FaviconBytes  int64           `json:"favicon_bytes"`
	OldestVisit   string          `json:"oldest_visit,omitempty"`
	NewestVisit   string          `json:"newest_visit,omitempty"`
	RetentionDays int             `json:"retention_days"`
	MaxEntries    int             `json:"max_entries"`
	DenylistRules int             `json:"denylist_rules"`
	LastSaveError string          `json:"last_save_error,omitempty"`
	TopHosts      []hostCountJSON `json:"top_hosts"`
}

type hostCountJSON struct {
	Host   string `json:"host"`
	Visits int64  `json:"visits"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	return withApp(c.globals, c.execute)
}

func (c *StatusCommand) execute(a *app) error {
	stats := a.store.Stats()

	var size int64
	if a.adapter != nil {
		size = a.adapter.Size(context.Background())
	}

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(a, stats, size)
	}
	return c.printStatusHuman(a, stats, size)
}

func (c *StatusCommand) printStatusHuman(a *app, stats history.Stats, size int64) error {
	fmt.Println("frecent status")
	fmt.Println("==============")
	fmt.Printf("Version:       %s\n", c.version)
	if a.adapter != nil {
		fmt.Printf("Storage:       %s (%s, %s)\n", a.path, a.cfg.Storage.Backend, formatBytes(size))
	} else {
		fmt.Printf("Storage:       in memory only (%s unavailable)\n", a.path)
	}
	fmt.Printf("Entries:       %s\n", formatNumber(int64(stats.Entries)))
	fmt.Printf("Typed:         %s\n", formatNumber(int64(stats.TypedEntries)))
	fmt.Printf("Visits:        %s\n", formatNumber(stats.TotalVisits))
	if stats.FaviconBytes > 0 {
		fmt.Printf("Favicons:      %s\n", formatBytes(stats.FaviconBytes))
	}

	if stats.Entries > 0 {
		fmt.Printf("Oldest:        %s\n", stats.OldestVisit.Local().Format("2006-01-02"))
		fmt.Printf("Newest:        %s\n", stats.NewestVisit.Local().Format("2006-01-02"))
	}

	fmt.Printf("Retention:     %d days, at most %s entries\n",
		a.cfg.Retention.Days, formatNumber(int64(a.cfg.Retention.MaxEntries)))
	fmt.Printf("Denylist:      %d rules\n", a.exclusions.Len())
	if err := a.store.LastSaveError(); err != nil {
		fmt.Printf("Last save:     failed: %v\n", err)
	}

	if len(stats.TopHosts) > 0 {
		fmt.Println()
		fmt.Println("Top Hosts:")
		for _, h := range stats.TopHosts {
			fmt.Printf("  %-30s %s\n", fit(h.Host, 30), formatNumber(h.Visits))
		}
	}
	return nil
}

func (c *StatusCommand) printStatusJSON(a *app, stats history.Stats, size int64) error {
	out := statusJSON{
		Version:       c.version,
		Backend:       a.cfg.Storage.Backend,
		StoragePath:   a.path,
		StorageBytes:  size,
		Persistent:    a.adapter != nil,
		Entries:       stats.Entries,
		TypedEntries:  stats.TypedEntries,
		TotalVisits:   stats.TotalVisits,
		FaviconBytes:  stats.FaviconBytes,
		RetentionDays: a.cfg.Retention.Days,
		MaxEntries:    a.cfg.Retention.MaxEntries,
		DenylistRules: a.exclusions.Len(),
		TopHosts:      make([]hostCountJSON, len(stats.TopHosts)),
	}

	if stats.Entries > 0 {
		out.OldestVisit = stats.OldestVisit.UTC().Format(time.RFC3339)
		out.NewestVisit = stats.NewestVisit.UTC().Format(time.RFC3339)
	}
	if err := a.store.LastSaveError(); err != nil {
		out.LastSaveError = err.Error()
	}
	for i, h := range stats.TopHosts {
		out.TopHosts[i] = hostCountJSON{Host: h.Host, Visits: h.Visits}
	}
	return printJSON(out)
}
