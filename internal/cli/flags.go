package cli

import "io"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// VisitCommand records a navigation.
type VisitCommand struct {
	URL        string `long:"url" description:"Address that was visited (required)"`
	Title      string `long:"title" description:"Page title"`
	Transition string `long:"transition" description:"How the page was reached: typed | link | reload | form_submit | other" default:"link"`

	globals *GlobalFlags
}

// SearchCommand ranks history against a query.
type SearchCommand struct {
	Limit int `long:"limit" description:"Maximum results (0 uses the configured limit)" default:"0"`

	globals *GlobalFlags
}

// CompleteCommand prints the inline completion for a partial address.
type CompleteCommand struct {
	globals *GlobalFlags
}

// OpenCommand prints one stored entry.
type OpenCommand struct {
	ID     string `long:"id" description:"Entry ID"`
	URL    string `long:"url" description:"Entry address"`
	Format string `long:"format" description:"Output format: full | json | url | title" default:"full"`

	globals *GlobalFlags
}

// RemoveCommand deletes one entry by id.
type RemoveCommand struct {
	ID string `long:"id" description:"Entry ID (required)"`

	globals *GlobalFlags
}

// ClearCommand deletes all history or history older than a cutoff.
type ClearCommand struct {
	All       bool   `long:"all" description:"Delete every entry"`
	OlderThan string `long:"older-than" description:"Delete entries not visited within this period (e.g. 7d, 2w, 0d)"`
	Force     bool   `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	stdin   io.Reader   // injectable for testing; nil means os.Stdin
	isTTY   func() bool // injectable for testing; nil checks os.Stdin
}

// FaviconCommand attaches icon bytes to an existing entry.
type FaviconCommand struct {
	URL  string `long:"url" description:"Entry address (required)"`
	File string `long:"file" description:"Path to the icon file (required)"`

	globals *GlobalFlags
}

// PruneCommand applies the retention policy now.
type PruneCommand struct {
	DryRun bool `long:"dry-run" description:"Show what would be pruned without deleting"`

	globals *GlobalFlags
}

// StatusCommand shows history statistics and configuration.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// URLBarCommand runs an interactive, debounced address bar.
type URLBarCommand struct {
	Limit int `long:"limit" description:"Maximum suggestions shown (0 uses the configured limit)" default:"0"`

	globals *GlobalFlags
}
