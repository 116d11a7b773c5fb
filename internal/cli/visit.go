package cli

import (
	"fmt"

	"github.com/runnerr0/frecent/internal/history"
)

// Execute implements the go-flags Commander interface for VisitCommand.
func (c *VisitCommand) Execute(args []string) error {
	if c.URL == "" {
		return fmt.Errorf("--url is required for visit command")
	}
	return withApp(c.globals, c.execute)
}

func (c *VisitCommand) execute(a *app) error {
	kind, err := history.ParseTransition(c.Transition)
	if err != nil {
		return err
	}
	addr, err := history.NormalizeAddress(c.URL)
	if err != nil {
		return err
	}

	// The store drops excluded visits silently; the CLI user gets told.
	if a.store.IsExcluded(addr) {
		return fmt.Errorf("address %q is excluded by denylist rules", addr)
	}

	if err := a.store.Record(addr, c.Title, kind); err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	e, ok := a.store.Get(addr)
	if !ok {
		// Evicted by the entry cap in the same pass.
		return fmt.Errorf("visit to %s was not retained", addr)
	}

	if c.globals.JSON {
		return printJSON(toEntryJSON(e))
	}

	fmt.Printf("Recorded %s visit to %s\n", kind, e.Address)
	fmt.Printf("  ID:     %s\n", e.ID)
	fmt.Printf("  Title:  %s\n", e.Title)
	fmt.Printf("  Visits: %d (typed %d)\n", e.VisitCount, e.TypedCount)
	return nil
}
