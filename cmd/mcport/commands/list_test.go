package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcport/mcport/internal/agent"
	"github.com/mcport/mcport/internal/mcp"
)

func testManager(t *testing.T, agentName string) *agent.Manager {
	t.Helper()
	def, err := agent.Get(agentName)
	if err != nil {
		t.Fatalf("agent.Get(%q) error = %v", agentName, err)
	}
	path := filepath.Join(t.TempDir(), "config.json")
	return agent.NewManager(def, agent.WithConfigPath(path))
}

func TestListCommand_Metadata(t *testing.T) {
	if listCmd.Use != "list" {
		t.Errorf("Use = %q, want %q", listCmd.Use, "list")
	}
	if listCmd.Flags().Lookup("json") == nil {
		t.Error("--json flag should be defined")
	}
	if listCmd.Flags().Lookup("show-secrets") == nil {
		t.Error("--show-secrets flag should be defined")
	}
}

func testStash(t *testing.T) *agent.Stash {
	t.Helper()
	return agent.NewStash(t.TempDir())
}

func TestOutputListTabular_EmptyState(t *testing.T) {
	m := testManager(t, "claude")

	var buf bytes.Buffer
	if err := outputListTabular(&buf, []*agent.Manager{m}, testStash(t)); err != nil {
		t.Fatalf("outputListTabular() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Claude Desktop") {
		t.Error("output should contain the agent display name")
	}
	if !strings.Contains(output, "(no MCP servers configured)") {
		t.Error("output should indicate empty state")
	}
}

func TestOutputListTabular_MasksSecrets(t *testing.T) {
	m := testManager(t, "claude")
	err := m.Add(&mcp.Server{
		Name:    "github",
		Command: "npx",
		Args:    []string{"-y", "@modelcontextprotocol/server-github"},
		Env:     map[string]string{"GITHUB_TOKEN": "ghp_secret1234abcd"},
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	saved := listShowSecrets
	listShowSecrets = false
	defer func() { listShowSecrets = saved }()

	var buf bytes.Buffer
	if err := outputListTabular(&buf, []*agent.Manager{m}, testStash(t)); err != nil {
		t.Fatalf("outputListTabular() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "github") {
		t.Error("output should contain the server name")
	}
	if strings.Contains(output, "ghp_secret1234abcd") {
		t.Error("output must not contain the plaintext token")
	}
}

func TestOutputListTabular_MarksStashed(t *testing.T) {
	m := testManager(t, "cursor")
	stash := testStash(t)
	err := stash.Put("cursor", &mcp.Server{Name: "git", Command: "uvx", Args: []string{"mcp-server-git"}})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	var buf bytes.Buffer
	if err := outputListTabular(&buf, []*agent.Manager{m}, stash); err != nil {
		t.Fatalf("outputListTabular() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "git") || !strings.Contains(output, "stashed") {
		t.Errorf("stashed server should be listed with its marker:\n%s", output)
	}
}

func TestOutputListJSON(t *testing.T) {
	m := testManager(t, "cursor")
	err := m.Add(&mcp.Server{
		Name: "sentry",
		URL:  "https://mcp.sentry.dev/sse",
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	var buf bytes.Buffer
	if err := outputListJSON(&buf, []*agent.Manager{m}, testStash(t)); err != nil {
		t.Fatalf("outputListJSON() error = %v", err)
	}

	var output []listAgentOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(output) != 1 || output[0].Agent != "cursor" {
		t.Fatalf("unexpected output structure: %+v", output)
	}
	if len(output[0].Servers) != 1 {
		t.Fatalf("got %d servers, want 1", len(output[0].Servers))
	}
	s := output[0].Servers[0]
	if s.Name != "sentry" {
		t.Errorf("server name = %q, want sentry", s.Name)
	}
	if s.Transport == "" {
		t.Error("transport should be inferred for remote servers")
	}
}
