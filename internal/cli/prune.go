package cli

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/runnerr0/frecent/internal/history"
)

// Execute implements the go-flags Commander interface for PruneCommand.
func (c *PruneCommand) Execute(args []string) error {
	return withApp(c.globals, c.execute)
}

func (c *PruneCommand) execute(a *app) error {
	retention := a.cfg.Retention
	if c.DryRun {
		candidates := a.store.PruneCandidates()
		if c.globals.JSON {
			return printJSON(map[string]any{
				"dry_run":    true,
				"would_drop": len(candidates),
				"entries":    lo.Map(candidates, func(e history.Entry, _ int) entryJSON { return toEntryJSON(e) }),
			})
		}
		fmt.Printf("Would prune %s (retention %d days, cap %s)\n",
			entries(len(candidates)), retention.Days, formatNumber(int64(retention.MaxEntries)))
		for _, e := range candidates {
			fmt.Printf("  %s  %s\n", e.LastVisit.Local().Format("2006-01-02"), e.Address)
		}
		return nil
	}

	removed := a.store.Prune()
	a.log.Info("prune complete", "removed", removed, "remaining", a.store.Len())

	if c.globals.JSON {
		return printJSON(map[string]any{"dry_run": false, "removed": removed, "remaining": a.store.Len()})
	}
	fmt.Printf("Pruned %s (retention %d days, cap %s)\n",
		entries(removed), retention.Days, formatNumber(int64(retention.MaxEntries)))
	return nil
}
