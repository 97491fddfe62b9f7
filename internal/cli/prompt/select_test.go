package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/registry"
)

func matchesFor(ids ...string) []registry.Match {
	matches := make([]registry.Match, 0, len(ids))
	for _, id := range ids {
		matches = append(matches, registry.Match{
			Entry: &registry.Entry{ID: id, Title: strings.ToUpper(id), Classification: registry.ClassCommunity},
		})
	}
	return matches
}

func TestSelectEntryEmpty(t *testing.T) {
	s := NewSelectorWithIO(strings.NewReader(""), &bytes.Buffer{})
	_, err := s.SelectEntry("query", nil)
	assert.True(t, errors.Is(err, ErrNoEntries))
}

func TestSelectEntrySingleAutoSelects(t *testing.T) {
	var out bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader(""), &out)

	entry, err := s.SelectEntry("github", matchesFor("github"))
	require.NoError(t, err)
	assert.Equal(t, "github", entry.ID)
	assert.Empty(t, out.String(), "no prompt for a single match")
}

func TestSelectEntryByNumber(t *testing.T) {
	var out bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader("2\n"), &out)

	entry, err := s.SelectEntry("git", matchesFor("git", "github", "gitlab"))
	require.NoError(t, err)
	assert.Equal(t, "github", entry.ID)
	assert.Contains(t, out.String(), "[1] git")
	assert.Contains(t, out.String(), "[3] gitlab")
}

func TestSelectEntryDefaultsToTopRanked(t *testing.T) {
	s := NewSelectorWithIO(strings.NewReader("\n"), &bytes.Buffer{})

	entry, err := s.SelectEntry("git", matchesFor("git", "github"))
	require.NoError(t, err)
	assert.Equal(t, "git", entry.ID)
}

func TestSelectEntryInvalid(t *testing.T) {
	s := NewSelectorWithIO(strings.NewReader("banana\n"), &bytes.Buffer{})
	_, err := s.SelectEntry("git", matchesFor("git", "github"))
	assert.True(t, errors.Is(err, ErrInvalidSelection))

	s = NewSelectorWithIO(strings.NewReader("9\n"), &bytes.Buffer{})
	_, err = s.SelectEntry("git", matchesFor("git", "github"))
	assert.True(t, errors.Is(err, ErrInvalidSelection))
}

func TestSelectEntryCancelled(t *testing.T) {
	s := NewSelectorWithIO(strings.NewReader(""), &bytes.Buffer{})
	_, err := s.SelectEntry("git", matchesFor("git", "github"))
	assert.True(t, errors.Is(err, ErrSelectionCancelled))
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"Y\n", true},
		{"n\n", false},
		{"\n", false},
		{"whatever\n", false},
	}
	for _, tt := range tests {
		s := NewSelectorWithIO(strings.NewReader(tt.input), &bytes.Buffer{})
		got, err := s.Confirm("proceed?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
