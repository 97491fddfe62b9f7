package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mcport/mcport/internal/mcp"
)

func TestLoadImportSourceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "servers.json")
	content := `{
  "mcpServers": {
    "filesystem": {
      "command": "npx",
      "args": ["-y", "@modelcontextprotocol/server-filesystem", "/tmp"]
    },
    "fetch": {
      "command": "uvx",
      "args": ["mcp-server-fetch"]
    }
  }
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	servers, label, err := loadImportSource(path)
	if err != nil {
		t.Fatalf("loadImportSource() error = %v", err)
	}
	if label != path {
		t.Errorf("label = %q, want the file path", label)
	}
	if len(servers) != 2 {
		t.Fatalf("got %d servers, want 2", len(servers))
	}
	// Names() is sorted, so fetch comes first.
	if servers[0].Name != "fetch" || servers[1].Name != "filesystem" {
		t.Errorf("unexpected order: %s, %s", servers[0].Name, servers[1].Name)
	}
}

func TestLoadImportSourceRejectsMissingFile(t *testing.T) {
	_, _, err := loadImportSource(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestFilterServers(t *testing.T) {
	servers := []*mcp.Server{
		{Name: "github", Command: "npx"},
		{Name: "git", Command: "uvx"},
	}

	filtered, err := filterServers(servers, []string{"git"})
	if err != nil {
		t.Fatalf("filterServers() error = %v", err)
	}
	if len(filtered) != 1 || filtered[0].Name != "git" {
		t.Errorf("unexpected filter result: %+v", filtered)
	}

	if _, err := filterServers(servers, []string{"gitlab"}); err == nil {
		t.Error("expected error for unknown server name")
	}
}
