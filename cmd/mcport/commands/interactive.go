package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mcport/mcport/internal/cli/prompt"
	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/registry"
)

// runInteractiveActivate lets the user pick one match and activates it
// on the selected agents. On a terminal the fuzzy finder drives the
// selection; otherwise a numbered prompt reads from stdin.
func runInteractiveActivate(cmd *cobra.Command, query string, matches []registry.Match) error {
	if len(matches) == 0 {
		if query == "" {
			fmt.Println("No registry entries matched the filters")
		} else {
			fmt.Printf("No registry entries matched %q\n", query)
		}
		return nil
	}

	// The fuzzy finder takes over the terminal, so piped input falls
	// back to a numbered selection prompt.
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		entry, err := prompt.NewSelector().SelectEntry(query, matches)
		if err != nil {
			if errors.Is(err, prompt.ErrSelectionCancelled) {
				return nil
			}
			return err
		}
		return activateEntry(cmd, entry)
	}

	idx, err := fuzzyfinder.Find(
		matches,
		func(i int) string {
			e := matches[i].Entry
			return fmt.Sprintf("%s: %s (%s)", e.ID, e.Title, e.Classification)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			e := matches[i].Entry
			launch := e.Install.Command + " " + strings.Join(e.Install.Args, " ")
			if e.Install.URL != "" {
				launch = e.Install.URL
			}
			return fmt.Sprintf("ID: %s\nTitle: %s\nClass: %s\nTransport: %s\nLaunch: %s\nTags: %s\n\n%s",
				e.ID,
				e.Title,
				e.Classification,
				e.Install.Transport,
				strings.TrimSpace(launch),
				strings.Join(e.Tags, ", "),
				e.Description,
			)
		}),
	)

	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive search failed")
	}

	return activateEntry(cmd, matches[idx].Entry)
}
