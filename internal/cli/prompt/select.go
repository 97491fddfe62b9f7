// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/registry"
)

// Sentinel errors for entry selection.
var (
	ErrNoEntries          = errors.New("no entries to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector handles interactive selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
	}
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// SelectEntry prompts the user to choose from ranked registry matches.
//
// Returns:
//   - ErrNoEntries if the list is empty
//   - The entry if only one match exists (auto-selects without prompting)
//   - The selected entry based on user input
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) SelectEntry(query string, matches []registry.Match) (*registry.Entry, error) {
	if len(matches) == 0 {
		return nil, ErrNoEntries
	}

	// Auto-select if only one match
	if len(matches) == 1 {
		return matches[0].Entry, nil
	}

	fmt.Fprintf(s.writer, "Multiple servers found for %q:\n", query)
	for i, m := range matches {
		fmt.Fprintf(s.writer, "  [%d] %s - %s (%s)\n", i+1, m.Entry.ID, m.Entry.Title, m.Entry.Classification)
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)

	// Default to the top-ranked match if empty
	if input == "" {
		return matches[0].Entry, nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if selection < 1 || selection > len(matches) {
		return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(matches))
	}

	return matches[selection-1].Entry, nil
}

// Confirm asks a yes/no question, defaulting to no.
func (s *Selector) Confirm(question string) (bool, error) {
	fmt.Fprintf(s.writer, "%s [y/N]: ", question)

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, errors.Wrap(err, "reading confirmation")
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
