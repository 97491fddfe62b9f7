// Package gemini translates between the canonical MCP model and Gemini
// CLI's settings format.
//
// Gemini CLI keeps MCP servers in an "mcpServers" object inside
// ~/.gemini/settings.json, alongside general settings (theme, auth,
// telemetry). Everything outside mcpServers is preserved verbatim, and
// per-server extras like "timeout" and "trust" ride along untouched.
package gemini

import (
	"encoding/json"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/internal/paths"
)

const serversKey = "mcpServers"

// Translator converts between canonical and Gemini CLI settings formats.
type Translator struct{}

// NewTranslator creates a new Gemini CLI translator.
func NewTranslator() *Translator {
	return &Translator{}
}

// Agent returns the agent identifier for this translator.
func (t *Translator) Agent() string {
	return paths.AgentGemini
}

// ToCanonical converts Gemini settings to canonical format.
// Empty input yields an empty config.
func (t *Translator) ToCanonical(raw []byte) (*mcp.Config, error) {
	cfg := mcp.NewConfig()
	if len(raw) == 0 {
		return cfg, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, errors.Wrap(err, "parsing Gemini settings")
	}

	for key, val := range top {
		if key != serversKey {
			cfg.SetUnknownField(key, val)
		}
	}

	serversRaw, ok := top[serversKey]
	if !ok {
		return cfg, nil
	}

	var servers map[string]json.RawMessage
	if err := json.Unmarshal(serversRaw, &servers); err != nil {
		return nil, errors.Wrap(err, "parsing mcpServers")
	}

	for name, entry := range servers {
		server, err := decodeServer(name, entry)
		if err != nil {
			return nil, errors.Wrapf(err, "server %q", name)
		}
		cfg.Servers[name] = server
	}

	return cfg, nil
}

func decodeServer(name string, entry json.RawMessage) (*mcp.Server, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil {
		return nil, err
	}

	server := &mcp.Server{Name: name}

	var httpURL, sseURL string
	for key, val := range fields {
		var err error
		switch key {
		case "command":
			err = json.Unmarshal(val, &server.Command)
		case "args":
			err = json.Unmarshal(val, &server.Args)
		case "env":
			err = json.Unmarshal(val, &server.Env)
		case "httpUrl":
			err = json.Unmarshal(val, &httpURL)
		case "url":
			err = json.Unmarshal(val, &sseURL)
		case "headers":
			err = json.Unmarshal(val, &server.Headers)
		default:
			// timeout, trust, cwd, includeTools, excludeTools, ...
			server.SetUnknownField(key, val)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", key)
		}
	}

	// Gemini distinguishes remotes by key: httpUrl for streamable HTTP,
	// url for SSE.
	switch {
	case httpURL != "":
		server.URL = httpURL
		server.Transport = mcp.TransportHTTP
	case sseURL != "":
		server.URL = sseURL
		server.Transport = mcp.TransportSSE
	case server.Command != "":
		server.Transport = mcp.TransportStdio
	}

	return server, nil
}

// FromCanonical converts canonical MCP configuration to Gemini settings.
// Sibling settings captured during ToCanonical are written back, so the
// output is a complete settings.json, not just the server map.
func (t *Translator) FromCanonical(cfg *mcp.Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	top := make(map[string]any)
	for key, val := range cfg.UnknownFields() {
		top[key] = val
	}

	servers := make(map[string]any, len(cfg.Servers))
	for name, server := range cfg.Servers {
		entry, err := encodeServer(server)
		if err != nil {
			return nil, errors.Wrapf(err, "server %q", name)
		}
		servers[name] = entry
	}
	top[serversKey] = servers

	data, err := json.MarshalIndent(top, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling Gemini settings")
	}
	return data, nil
}

func encodeServer(server *mcp.Server) (map[string]any, error) {
	if err := mcp.Validate(server); err != nil {
		return nil, err
	}

	entry := make(map[string]any)
	for key, val := range server.UnknownFields() {
		entry[key] = val
	}

	if server.IsLocal() {
		entry["command"] = server.Command
		if len(server.Args) > 0 {
			entry["args"] = server.Args
		}
		if len(server.Env) > 0 {
			entry["env"] = server.Env
		}
	} else {
		switch server.EffectiveTransport() {
		case mcp.TransportSSE:
			entry["url"] = server.URL
		default:
			entry["httpUrl"] = server.URL
		}
		if len(server.Headers) > 0 {
			entry["headers"] = server.Headers
		}
	}

	// Gemini has no disabled flag; deactivation removes the entry.
	return entry, nil
}
