package claude

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mcport/mcport/internal/mcp"
)

func TestToCanonical(t *testing.T) {
	raw := []byte(`{
		"mcpServers": {
			"filesystem": {
				"command": "npx",
				"args": ["-y", "@modelcontextprotocol/server-filesystem", "/home/dev"],
				"env": {"LOG_LEVEL": "debug"}
			},
			"linear": {
				"url": "https://mcp.linear.app/sse",
				"type": "sse",
				"headers": {"Authorization": "Bearer x"}
			}
		},
		"globalShortcut": "Ctrl+Space"
	}`)

	tr := NewTranslator()
	cfg, err := tr.ToCanonical(raw)
	if err != nil {
		t.Fatalf("ToCanonical() error = %v", err)
	}

	fs := cfg.Servers["filesystem"]
	if fs == nil {
		t.Fatal("filesystem server missing")
	}
	if fs.Command != "npx" || fs.Transport != mcp.TransportStdio {
		t.Errorf("filesystem = %+v", fs)
	}
	if fs.Env["LOG_LEVEL"] != "debug" {
		t.Errorf("env not translated: %v", fs.Env)
	}

	linear := cfg.Servers["linear"]
	if linear == nil {
		t.Fatal("linear server missing")
	}
	if linear.Transport != mcp.TransportSSE || linear.URL != "https://mcp.linear.app/sse" {
		t.Errorf("linear = %+v", linear)
	}

	if _, ok := cfg.UnknownField("globalShortcut"); !ok {
		t.Error("top-level sibling field not preserved")
	}
}

func TestToCanonicalEmptyInput(t *testing.T) {
	tr := NewTranslator()

	for _, raw := range [][]byte{nil, {}} {
		cfg, err := tr.ToCanonical(raw)
		if err != nil {
			t.Fatalf("ToCanonical(empty) error = %v", err)
		}
		if len(cfg.Servers) != 0 {
			t.Errorf("expected empty config, got %d servers", len(cfg.Servers))
		}
	}
}

func TestToCanonicalMalformed(t *testing.T) {
	tr := NewTranslator()
	if _, err := tr.ToCanonical([]byte(`{"mcpServers": "not-a-map"}`)); err == nil {
		t.Error("expected error for malformed mcpServers")
	}
}

func TestFromCanonical(t *testing.T) {
	cfg := mcp.NewConfig()
	cfg.Servers["github"] = &mcp.Server{
		Name:    "github",
		Command: "npx",
		Args:    []string{"-y", "@modelcontextprotocol/server-github"},
		Env:     map[string]string{"GITHUB_TOKEN": "${keychain:github/GITHUB_TOKEN}"},
	}
	cfg.Servers["remote"] = &mcp.Server{
		Name:      "remote",
		URL:       "https://mcp.example.com",
		Transport: mcp.TransportHTTP,
	}

	tr := NewTranslator()
	out, err := tr.FromCanonical(cfg)
	if err != nil {
		t.Fatalf("FromCanonical() error = %v", err)
	}

	var got map[string]map[string]map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("output not valid JSON: %v", err)
	}

	gh := got["mcpServers"]["github"]
	if gh["command"] != "npx" {
		t.Errorf("github entry = %v", gh)
	}
	if _, hasType := gh["type"]; hasType {
		t.Error("stdio server should omit type key")
	}

	remote := got["mcpServers"]["remote"]
	if remote["type"] != "http" || remote["url"] != "https://mcp.example.com" {
		t.Errorf("remote entry = %v", remote)
	}
}

func TestFromCanonicalRejectsInvalidServer(t *testing.T) {
	cfg := mcp.NewConfig()
	cfg.Servers["broken"] = &mcp.Server{Name: "broken"} // no command, no url

	tr := NewTranslator()
	if _, err := tr.FromCanonical(cfg); err == nil {
		t.Error("expected validation error")
	}
}

func TestRoundTripPreservesUnknownFields(t *testing.T) {
	raw := []byte(`{
		"mcpServers": {
			"custom": {
				"command": "python",
				"args": ["-m", "my_server"],
				"experimentalFlag": true
			}
		},
		"theme": "dark"
	}`)

	tr := NewTranslator()
	cfg, err := tr.ToCanonical(raw)
	if err != nil {
		t.Fatal(err)
	}
	out, err := tr.FromCanonical(cfg)
	if err != nil {
		t.Fatal(err)
	}

	var got, want map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, &want); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}
