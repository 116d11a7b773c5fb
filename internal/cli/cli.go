package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Visit    *VisitCommand
	Search   *SearchCommand
	Complete *CompleteCommand
	Open     *OpenCommand
	Remove   *RemoveCommand
	Clear    *ClearCommand
	Favicon  *FaviconCommand
	Prune    *PruneCommand
	Status   *StatusCommand
	URLBar   *URLBarCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "frecent"
	parser.LongDescription = "Local browsing history with frecency-ranked search and URL-bar completion."

	cmds := &commands{
		Visit:    &VisitCommand{globals: &globals},
		Search:   &SearchCommand{globals: &globals},
		Complete: &CompleteCommand{globals: &globals},
		Open:     &OpenCommand{globals: &globals},
		Remove:   &RemoveCommand{globals: &globals},
		Clear:    &ClearCommand{globals: &globals},
		Favicon:  &FaviconCommand{globals: &globals},
		Prune:    &PruneCommand{globals: &globals},
		Status:   &StatusCommand{globals: &globals, version: version},
		URLBar:   &URLBarCommand{globals: &globals},
	}

	parser.AddCommand("visit", "Record a visit", "Record a navigation to an address, updating its visit counts.", cmds.Visit)
	parser.AddCommand("search", "Search history", "Rank history entries against a query. With no query, list the most recent entries.", cmds.Search)
	parser.AddCommand("complete", "Complete a partial address", "Print the address the URL bar would complete the query to.", cmds.Complete)
	parser.AddCommand("open", "Print a stored entry", "Print a single history entry by id or address.", cmds.Open)
	parser.AddCommand("remove", "Remove an entry", "Remove a single history entry by id.", cmds.Remove)
	parser.AddCommand("clear", "Clear history", "Delete all history, or history older than a period. Destructive operation with safety prompt.", cmds.Clear)
	parser.AddCommand("favicon", "Attach a favicon", "Store icon bytes for an existing entry.", cmds.Favicon)
	parser.AddCommand("prune", "Apply retention", "Drop entries beyond the retention horizon or the entry cap.", cmds.Prune)
	parser.AddCommand("status", "Show history statistics", "Show history statistics, storage location and configuration summary.", cmds.Status)
	parser.AddCommand("urlbar", "Interactive address bar", "Type to search history interactively; Enter records a typed visit.", cmds.URLBar)

	return parser, &globals, cmds
}

// Run is the main entry point for the frecent CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// go-flags requires a subcommand, but --version is valid without one.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("frecent %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
