package cli

import "fmt"

// Execute implements the go-flags Commander interface for RemoveCommand.
func (c *RemoveCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for remove command")
	}
	return withApp(c.globals, c.execute)
}

func (c *RemoveCommand) execute(a *app) error {
	e, _ := a.store.GetByID(c.ID)
	if err := a.store.RemoveEntry(c.ID); err != nil {
		return err
	}

	if c.globals.JSON {
		return printJSON(map[string]any{"removed": true, "id": c.ID, "address": e.Address})
	}
	fmt.Printf("Removed %s (%s)\n", e.Address, c.ID)
	return nil
}
