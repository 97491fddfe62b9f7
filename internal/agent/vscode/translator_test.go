package vscode

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mcport/mcport/internal/mcp"
)

func TestToCanonicalWithInputs(t *testing.T) {
	raw := []byte(`{
		"inputs": [
			{"id": "github-token", "type": "promptString", "password": true}
		],
		"servers": {
			"github": {
				"type": "stdio",
				"command": "npx",
				"args": ["-y", "@modelcontextprotocol/server-github"],
				"env": {"GITHUB_TOKEN": "${input:github-token}"}
			},
			"sentry": {
				"type": "http",
				"url": "https://mcp.sentry.dev/mcp"
			}
		}
	}`)

	tr := NewTranslator(VariantVSCode)
	cfg, err := tr.ToCanonical(raw)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := cfg.UnknownField("inputs"); !ok {
		t.Error("inputs array not preserved")
	}

	gh := cfg.Servers["github"]
	if gh == nil || gh.Transport != mcp.TransportStdio {
		t.Errorf("github = %+v", gh)
	}
	sentry := cfg.Servers["sentry"]
	if sentry == nil || sentry.Transport != mcp.TransportHTTP {
		t.Errorf("sentry = %+v", sentry)
	}
}

func TestFromCanonicalAlwaysWritesType(t *testing.T) {
	cfg := mcp.NewConfig()
	cfg.Servers["fs"] = &mcp.Server{Name: "fs", Command: "npx"}

	out, err := NewTranslator(VariantVSCode).FromCanonical(cfg)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]map[string]map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if got["servers"]["fs"]["type"] != "stdio" {
		t.Errorf("type missing from stdio entry: %v", got["servers"]["fs"])
	}
}

func TestRoundTrip(t *testing.T) {
	raw := []byte(`{
		"inputs": [{"id": "db-url", "type": "promptString"}],
		"servers": {
			"postgres": {
				"type": "stdio",
				"command": "npx",
				"args": ["-y", "@modelcontextprotocol/server-postgres"],
				"env": {"POSTGRES_URL": "${input:db-url}"}
			}
		}
	}`)

	tr := NewTranslator(VariantVisualStudio)
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

func TestDecodeRejectsEntryWithoutTransportSource(t *testing.T) {
	raw := []byte(`{"servers": {"broken": {"type": "stdio"}}}`)

	if _, err := NewTranslator(VariantVSCode).ToCanonical(raw); err == nil {
		t.Error("expected error for server with neither command nor url")
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	raw := []byte(`{"servers": {"x": {"type": "websocket", "url": "wss://x"}}}`)

	if _, err := NewTranslator(VariantVSCode).ToCanonical(raw); err == nil {
		t.Error("expected error for unrecognized type")
	}
}
