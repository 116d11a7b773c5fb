package cli

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/chzyer/readline"

	"github.com/runnerr0/frecent/internal/history"
	"github.com/runnerr0/frecent/internal/search"
)

// Execute implements the go-flags Commander interface for URLBarCommand.
func (c *URLBarCommand) Execute(args []string) error {
	return withApp(c.globals, c.execute)
}

func (c *URLBarCommand) execute(a *app) error {
	var sess *search.Session
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "url> ",
		HistoryLimit: -1,
		AutoComplete: &suffixCompleter{store: a.store},
		Listener: readline.FuncListener(func(line []rune, pos int, key rune) ([]rune, int, bool) {
			if sess != nil && key != readline.CharEnter {
				sess.Query(string(line))
			}
			return nil, 0, false
		}),
	})
	if err != nil {
		return fmt.Errorf("start line editor: %w", err)
	}
	defer rl.Close()

	width := stdoutWidth()
	out := rl.Stdout()
	sess = search.New(a.store, search.Options{
		Interval: a.cfg.DebounceInterval(),
		Limit:    a.searchLimit(c.Limit),
		OnChange: func(st search.State) {
			if !st.Searching {
				fmt.Fprint(out, renderState(st, width))
			}
		},
	})
	defer sess.Close()

	fmt.Fprintln(out, "Type to search history. Enter visits, Tab completes, Ctrl-D quits.")
	sess.ShowRecent()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			sess.Clear()
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			sess.ShowRecent()
			continue
		}

		target := resolveTarget(line, sess.State())
		if err := a.store.Record(target, "", history.TransitionTyped); err != nil {
			fmt.Fprintf(out, "cannot visit %q: %v\n", line, err)
			continue
		}
		fmt.Fprintf(out, "visited %s\n", target)
		sess.ShowRecent()
	}
}

// resolveTarget picks the address Enter should open: the inline suggestion
// for the text as typed, the text itself when it is already an address or
// a host:port, then the best result, and finally the text as an https host.
func resolveTarget(line string, st search.State) string {
	if st.Query == line && st.Suggestion != "" {
		return st.Suggestion
	}
	if addr, err := history.NormalizeAddress(line); err == nil {
		return addr
	}
	if addr, ok := hostPortAddress(line); ok {
		return addr
	}
	if st.Query == line && len(st.Results) > 0 {
		return st.Results[0].Address
	}
	return "https://" + line
}

// hostPortAddress turns "localhost:3000" into "https://localhost:3000".
func hostPortAddress(line string) (string, bool) {
	if strings.ContainsAny(line, " \t") {
		return "", false
	}
	u, err := url.Parse("https://" + line)
	if err != nil || u.Port() == "" {
		return "", false
	}
	addr, err := history.NormalizeAddress(u.String())
	return addr, err == nil
}

// renderState formats a result list below the prompt.
func renderState(st search.State, width int) string {
	var b strings.Builder
	if st.Suggestion != "" {
		fmt.Fprintf(&b, "  => %s\n", fit(st.Suggestion, width-5))
	}
	if len(st.Results) == 0 {
		if st.Query != "" {
			fmt.Fprintf(&b, "  no matches for %q\n", st.Query)
		}
		return b.String()
	}
	for i, e := range st.Results {
		label := e.Address
		if e.Title != "" && e.Title != e.Address {
			label = e.Title + "  " + e.Address
		}
		fmt.Fprintf(&b, "  %2d %s\n", i+1, fit(label, width-5))
	}
	return b.String()
}

// suffixCompleter completes the typed text to the suggested address when
// the suggestion extends it literally.
type suffixCompleter struct {
	store *history.Store
}

func (c *suffixCompleter) Do(line []rune, pos int) ([][]rune, int) {
	typed := string(line[:pos])
	completion, ok := c.store.Autocomplete(typed)
	if !ok || len(completion) <= len(typed) ||
		!strings.EqualFold(completion[:len(typed)], typed) {
		return nil, 0
	}
	return [][]rune{[]rune(completion[len(typed):])}, len([]rune(typed))
}
