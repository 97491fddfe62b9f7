package mcp

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestServerTransportInference(t *testing.T) {
	tests := []struct {
		name       string
		server     Server
		wantLocal  bool
		wantRemote bool
		wantEff    string
	}{
		{
			name:      "command implies stdio",
			server:    Server{Name: "fs", Command: "npx"},
			wantLocal: true,
			wantEff:   TransportStdio,
		},
		{
			name:       "url implies http",
			server:     Server{Name: "api", URL: "https://mcp.example.com"},
			wantRemote: true,
			wantEff:    TransportHTTP,
		},
		{
			name:       "explicit sse",
			server:     Server{Name: "events", URL: "https://mcp.example.com/sse", Transport: TransportSSE},
			wantRemote: true,
			wantEff:    TransportSSE,
		},
		{
			name:      "explicit stdio wins over url presence",
			server:    Server{Name: "both", Command: "npx", URL: "https://x", Transport: TransportStdio},
			wantLocal: true,
			wantEff:   TransportStdio,
		},
		{
			name:    "empty server has no transport",
			server:  Server{Name: "empty"},
			wantEff: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.server.IsLocal(); got != tt.wantLocal {
				t.Errorf("IsLocal() = %v, want %v", got, tt.wantLocal)
			}
			if got := tt.server.IsRemote(); got != tt.wantRemote {
				t.Errorf("IsRemote() = %v, want %v", got, tt.wantRemote)
			}
			if got := tt.server.EffectiveTransport(); got != tt.wantEff {
				t.Errorf("EffectiveTransport() = %q, want %q", got, tt.wantEff)
			}
		})
	}
}

func TestServerUnknownFieldRoundTrip(t *testing.T) {
	input := []byte(`{
		"name": "github",
		"command": "npx",
		"args": ["-y", "@modelcontextprotocol/server-github"],
		"env": {"GITHUB_TOKEN": "${keychain:github/GITHUB_TOKEN}"},
		"futureField": {"nested": true},
		"timeout": 30000
	}`)

	var s Server
	if err := json.Unmarshal(input, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if s.Name != "github" || s.Command != "npx" {
		t.Errorf("known fields not parsed: %+v", s)
	}
	if _, ok := s.UnknownField("futureField"); !ok {
		t.Error("unknown field not captured")
	}

	out, err := json.Marshal(&s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got, want map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(input, &want); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigUnknownFieldRoundTrip(t *testing.T) {
	input := []byte(`{
		"servers": {"fs": {"name": "fs", "command": "npx"}},
		"schemaVersion": 2
	}`)

	var c Config
	if err := json.Unmarshal(input, &c); err != nil {
		t.Fatal(err)
	}
	if len(c.Servers) != 1 {
		t.Fatalf("Servers = %d, want 1", len(c.Servers))
	}

	out, err := json.Marshal(&c)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if got["schemaVersion"] != float64(2) {
		t.Errorf("unknown top-level field lost: %v", got)
	}
}

func TestServerClone(t *testing.T) {
	orig := &Server{
		Name:    "github",
		Command: "npx",
		Args:    []string{"-y"},
		Env:     map[string]string{"A": "1"},
	}
	clone := orig.Clone()

	clone.Args[0] = "changed"
	clone.Env["A"] = "2"

	if orig.Args[0] != "-y" {
		t.Error("Clone shares Args slice")
	}
	if orig.Env["A"] != "1" {
		t.Error("Clone shares Env map")
	}
}

func TestConfigNamesSorted(t *testing.T) {
	c := NewConfig()
	c.Servers["zeta"] = &Server{Name: "zeta", Command: "z"}
	c.Servers["alpha"] = &Server{Name: "alpha", Command: "a"}
	c.Servers["mid"] = &Server{Name: "mid", Command: "m"}

	got := c.Names()
	want := []string{"alpha", "mid", "zeta"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		server  *Server
		wantErr bool
	}{
		{"valid stdio", &Server{Name: "fs", Command: "npx"}, false},
		{"valid remote", &Server{Name: "api", URL: "https://x", Transport: TransportSSE}, false},
		{"missing name", &Server{Command: "npx"}, true},
		{"no command or url", &Server{Name: "empty"}, true},
		{"stdio without command", &Server{Name: "x", URL: "https://x", Transport: TransportStdio}, true},
		{"sse without url", &Server{Name: "x", Command: "npx", Transport: TransportSSE}, true},
		{"bogus transport", &Server{Name: "x", Command: "npx", Transport: "carrier-pigeon"}, true},
		{"nil", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.server)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
