package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/runnerr0/frecent/internal/history"
)

const defaultWidth = 100

// entryJSON is the JSON shape of one history entry.
type entryJSON struct {
	ID         string   `json:"id"`
	Address    string   `json:"address"`
	Title      string   `json:"title"`
	Host       string   `json:"host,omitempty"`
	LastVisit  string   `json:"last_visit"`
	VisitCount int      `json:"visit_count"`
	TypedCount int      `json:"typed_count"`
	Favicon    int      `json:"favicon_bytes"`
	Score      *float64 `json:"score,omitempty"`
}

func toEntryJSON(e history.Entry) entryJSON {
	return entryJSON{
		ID:         e.ID,
		Address:    e.Address,
		Title:      e.Title,
		Host:       e.Host(),
		LastVisit:  e.LastVisit.UTC().Format(time.RFC3339),
		VisitCount: e.VisitCount,
		TypedCount: e.TypedCount,
		Favicon:    len(e.Favicon),
	}
}

// stdoutWidth returns the terminal width, or a fixed width when stdout is
// not a terminal.
func stdoutWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// fit truncates s to width display cells. Wide characters count double.
func fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats n with comma separators.
func formatNumber(n int64) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	s := strconv.FormatInt(n, 10)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
