package commands

import (
	"strings"
	"testing"

	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/internal/registry"
)

func TestActivateCommand_Metadata(t *testing.T) {
	if activateCmd.Flags().Lookup("resolve-secrets") == nil {
		t.Error("--resolve-secrets flag should be defined")
	}
	if activateCmd.Flags().Lookup("arg") == nil {
		t.Error("--arg flag should be defined")
	}
}

func TestParseArgValues(t *testing.T) {
	values, err := parseArgValues([]string{"root=/srv", "name=a=b"})
	if err != nil {
		t.Fatalf("parseArgValues() error = %v", err)
	}
	if values["root"] != "/srv" {
		t.Errorf("root = %q", values["root"])
	}
	if values["name"] != "a=b" {
		t.Errorf("value with '=' should keep the remainder, got %q", values["name"])
	}

	if _, err := parseArgValues([]string{"novalue"}); err == nil {
		t.Error("expected error for pair without '='")
	}
	if _, err := parseArgValues([]string{"=oops"}); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestFillPlaceholders(t *testing.T) {
	values := map[string]string{"root": "/srv/data"}
	if got := fillPlaceholders("{root}", values); got != "/srv/data" {
		t.Errorf("fillPlaceholders() = %q", got)
	}
	if got := fillPlaceholders("--dir={root}", values); got != "--dir=/srv/data" {
		t.Errorf("fillPlaceholders() = %q", got)
	}
	if got := fillPlaceholders("{other}", values); got != "{other}" {
		t.Errorf("unknown token should stay put, got %q", got)
	}
}

func TestBuildRegistryServerFillsArgs(t *testing.T) {
	savedArgs := activateArgs
	activateArgs = []string{"root=/srv/data"}
	defer func() { activateArgs = savedArgs }()

	entry := &registry.Entry{
		ID: "filesystem",
		Install: registry.InstallSpec{
			Command:   "npx",
			Args:      []string{"-y", "@modelcontextprotocol/server-filesystem", "{root}"},
			Transport: "stdio",
		},
	}

	server, err := buildRegistryServer(entry)
	if err != nil {
		t.Fatalf("buildRegistryServer() error = %v", err)
	}
	if server.Args[2] != "/srv/data" {
		t.Errorf("placeholder not filled: %v", server.Args)
	}
}

func TestPendingSecretsHint(t *testing.T) {
	entry := &registry.Entry{
		Install: registry.InstallSpec{RequiredEnv: []string{"GITHUB_TOKEN"}},
	}
	server := &mcp.Server{
		Env: map[string]string{"GITHUB_TOKEN": "${keychain:GITHUB_TOKEN}"},
	}
	hint := pendingSecretsHint(entry, server)
	if !strings.Contains(hint, "mcport keychain set GITHUB_TOKEN") {
		t.Errorf("hint should name the keychain command, got %q", hint)
	}

	// A literal value means nothing is pending.
	server.Env["GITHUB_TOKEN"] = "ghp_alreadyset"
	if got := pendingSecretsHint(entry, server); got != "" {
		t.Errorf("expected no hint, got %q", got)
	}
}
