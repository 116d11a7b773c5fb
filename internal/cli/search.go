package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/runnerr0/frecent/internal/history"
)

// Execute implements the go-flags Commander interface for SearchCommand.
func (c *SearchCommand) Execute(args []string) error {
	return withApp(c.globals, func(a *app) error { return c.execute(a, args) })
}

func (c *SearchCommand) execute(a *app, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	results := a.store.Search(query, a.searchLimit(c.Limit))

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(query, results, a.now())
	}
	return c.printHuman(query, results, a.now())
}

func (c *SearchCommand) printHuman(query string, results []history.Entry, now time.Time) error {
	if len(results) == 0 {
		if query != "" {
			fmt.Printf("No results found for %q\n", query)
		} else {
			fmt.Println("History is empty")
		}
		return nil
	}

	resultWord := "results"
	if len(results) == 1 {
		resultWord = "result"
	}
	if query != "" {
		fmt.Printf("Found %d %s for %q\n\n", len(results), resultWord, query)
	} else {
		fmt.Printf("%d most recent %s\n\n", len(results), resultWord)
	}

	width := stdoutWidth() - 3
	for i, e := range results {
		title := e.Title
		if host := e.Host(); host != "" && title != e.Address {
			title += " · " + host
		}
		fmt.Printf("%d. %s\n", i+1, fit(title, width-len(fmt.Sprint(i+1))))
		fmt.Printf("   %s\n", fit(e.Address, width))

		meta := fmt.Sprintf("%s · %s", formatAge(e.LastVisit, now), plural(e.VisitCount, "visit"))
		if e.TypedCount > 0 {
			meta += fmt.Sprintf(" · typed %d", e.TypedCount)
		}
		fmt.Printf("   %s\n", meta)

		if i < len(results)-1 {
			fmt.Println()
		}
	}
	return nil
}

type jsonSearchOutput struct {
	Count   int         `json:"count"`
	Query   string      `json:"query"`
	Results []entryJSON `json:"results"`
}

func (c *SearchCommand) printJSON(query string, results []history.Entry, now time.Time) error {
	out := jsonSearchOutput{
		Count:   len(results),
		Query:   query,
		Results: make([]entryJSON, len(results)),
	}

	for i, e := range results {
		score := history.FrecencyScore(e, now)
		if query != "" {
			score = history.RankScore(e, query, now)
		}
		out.Results[i] = toEntryJSON(e)
		out.Results[i].Score = &score
	}
	return printJSON(out)
}
