package cli

import (
	"fmt"
	"strings"
)

type completeJSON struct {
	Query      string `json:"query"`
	Completion string `json:"completion,omitempty"`
	Found      bool   `json:"found"`
}

// Execute implements the go-flags Commander interface for CompleteCommand.
func (c *CompleteCommand) Execute(args []string) error {
	return withApp(c.globals, func(a *app) error { return c.execute(a, args) })
}

func (c *CompleteCommand) execute(a *app, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	completion, ok := a.store.Autocomplete(query)

	if c.globals.JSON {
		return printJSON(completeJSON{Query: query, Completion: completion, Found: ok})
	}
	if !ok {
		fmt.Printf("No completion for %q\n", query)
		return nil
	}
	fmt.Println(completion)
	return nil
}
