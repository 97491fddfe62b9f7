package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mcport/mcport/internal/registry"
)

func TestSearchCommand_Metadata(t *testing.T) {
	for _, flag := range []string{"transport", "category", "classification", "tag", "limit", "offset", "json", "interactive"} {
		if searchCmd.Flags().Lookup(flag) == nil {
			t.Errorf("--%s flag should be defined", flag)
		}
	}
}

func TestWriteSearchResults_NoMatches(t *testing.T) {
	var buf bytes.Buffer
	if err := writeSearchResults(&buf, "nonexistent", nil); err != nil {
		t.Fatalf("writeSearchResults() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"nonexistent"`) {
		t.Errorf("empty result should echo the term, got %q", buf.String())
	}
}

func TestWriteSearchResults_Tabular(t *testing.T) {
	matches := []registry.Match{
		{
			Entry: &registry.Entry{
				ID:             "github",
				Title:          "GitHub",
				Description:    "GitHub repositories, issues, and pull requests",
				Classification: registry.ClassOfficial,
				Install:        registry.InstallSpec{URL: "https://api.githubcopilot.com/mcp/", Transport: "http"},
			},
			Score: 100,
		},
	}

	var buf bytes.Buffer
	if err := writeSearchResults(&buf, "github", matches); err != nil {
		t.Fatalf("writeSearchResults() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"github", "GitHub", "http", "official"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	saved := searchJSON
	searchJSON = true
	defer func() { searchJSON = saved }()

	matches := []registry.Match{
		{
			Entry: &registry.Entry{ID: "git", Title: "Git", Install: registry.InstallSpec{Command: "uvx", Transport: "stdio"}},
			Score: 100,
		},
	}

	var buf bytes.Buffer
	if err := writeSearchResults(&buf, "git", matches); err != nil {
		t.Fatalf("writeSearchResults() error = %v", err)
	}

	var results []struct {
		ID    string `json:"id"`
		Score int    `json:"score"`
	}
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(results) != 1 || results[0].ID != "git" || results[0].Score != 100 {
		t.Errorf("unexpected results: %+v", results)
	}
}

