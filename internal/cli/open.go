package cli

import (
	"fmt"

	"github.com/runnerr0/frecent/internal/history"
)

// Execute implements the go-flags Commander interface for OpenCommand.
func (c *OpenCommand) Execute(args []string) error {
	if (c.ID == "") == (c.URL == "") {
		return fmt.Errorf("open requires exactly one of --id or --url")
	}
	return withApp(c.globals, c.execute)
}

func (c *OpenCommand) execute(a *app) error {
	var (
		e  history.Entry
		ok bool
	)
	if c.ID != "" {
		e, ok = a.store.GetByID(c.ID)
	} else {
		e, ok = a.store.Get(c.URL)
	}
	if !ok {
		return fmt.Errorf("entry not found: %s%s", c.ID, c.URL)
	}

	if c.globals.JSON {
		return printJSON(toEntryJSON(e))
	}

	switch c.Format {
	case "url":
		fmt.Println(e.Address)
	case "title":
		fmt.Println(e.Title)
	case "json":
		return printJSON(toEntryJSON(e))
	case "full", "":
		c.outputFull(e)
	default:
		return fmt.Errorf("unknown format %q (use full, json, url or title)", c.Format)
	}
	return nil
}

func (c *OpenCommand) outputFull(e history.Entry) {
	fmt.Println(e.ID)
	fmt.Printf("Title:       %s\n", e.Title)
	fmt.Printf("Address:     %s\n", e.Address)
	fmt.Printf("Host:        %s\n", e.Host())
	fmt.Printf("Last visit:  %s\n", e.LastVisit.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Visits:      %d\n", e.VisitCount)
	fmt.Printf("Typed:       %d\n", e.TypedCount)
	if len(e.Favicon) > 0 {
		fmt.Printf("Favicon:     %s\n", formatBytes(int64(len(e.Favicon))))
	} else {
		fmt.Println("Favicon:     none")
	}
}
