package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const clearConfirmation = "CLEAR"

// Execute implements the go-flags Commander interface for ClearCommand.
func (c *ClearCommand) Execute(args []string) error {
	if err := c.validate(); err != nil {
		return err
	}
	return withApp(c.globals, c.execute)
}

func (c *ClearCommand) validate() error {
	if c.All == (c.OlderThan != "") {
		return fmt.Errorf("clear requires exactly one of --all or --older-than")
	}
	return nil
}

func (c *ClearCommand) execute(a *app) error {
	if err := c.validate(); err != nil {
		return err
	}

	days := 0
	if c.OlderThan != "" {
		var err error
		if days, err = parseDays(c.OlderThan); err != nil {
			return err
		}
	}

	if !c.Force {
		if err := c.confirm(days); err != nil {
			return err
		}
	}

	var removed int
	if c.All {
		removed = a.store.ClearAll()
	} else {
		removed = a.store.ClearOlderThan(days)
	}
	a.log.Info("history cleared", "removed", removed, "all", c.All, "older_than_days", days)

	if c.globals.JSON {
		return printJSON(map[string]any{"removed": removed, "remaining": a.store.Len()})
	}
	fmt.Printf("Removed %s, %d remaining.\n", entries(removed), a.store.Len())
	return nil
}

// confirm asks the user to type the confirmation word. Without a terminal
// there is nobody to ask, so --force is required.
func (c *ClearCommand) confirm(days int) error {
	isTTY := c.isTTY
	if isTTY == nil {
		isTTY = stdinIsTerminal
	}
	if !isTTY() {
		return fmt.Errorf("refusing to clear history without --force when stdin is not a terminal")
	}

	if c.All {
		fmt.Println("WARNING: This will permanently delete ALL browsing history.")
	} else {
		fmt.Printf("WARNING: This will permanently delete history not visited in the last %s.\n", plural(days, "day"))
	}
	fmt.Println("This action cannot be undone.")
	fmt.Println()
	fmt.Printf("Type %q to confirm: ", clearConfirmation)

	var in io.Reader = os.Stdin
	if c.stdin != nil {
		in = c.stdin
	}
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return fmt.Errorf("aborted: no input received")
	}
	if strings.TrimSpace(scanner.Text()) != clearConfirmation {
		return fmt.Errorf("aborted: confirmation text did not match")
	}
	return nil
}

func entries(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}
