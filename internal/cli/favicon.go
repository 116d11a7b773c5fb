package cli

import (
	"fmt"
	"os"
)

// Execute implements the go-flags Commander interface for FaviconCommand.
func (c *FaviconCommand) Execute(args []string) error {
	if c.URL == "" || c.File == "" {
		return fmt.Errorf("--url and --file are required for favicon command")
	}
	return withApp(c.globals, c.execute)
}

func (c *FaviconCommand) execute(a *app) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("reading favicon: %w", err)
	}

	_, exists := a.store.Get(c.URL)
	if err := a.store.UpdateFavicon(c.URL, data); err != nil {
		return err
	}

	if c.globals.JSON {
		return printJSON(map[string]any{"address": c.URL, "bytes": len(data), "stored": exists})
	}
	if !exists {
		fmt.Printf("No history entry for %s; favicon not stored\n", c.URL)
		return nil
	}
	fmt.Printf("Stored %s favicon for %s\n", formatBytes(int64(len(data))), c.URL)
	return nil
}
