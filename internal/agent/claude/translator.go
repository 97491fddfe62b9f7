// Package claude translates between the canonical MCP model and Claude
// Desktop's configuration format.
//
// Claude Desktop stores servers under a "mcpServers" key in
// claude_desktop_config.json. Local servers carry command/args/env; remote
// servers carry a url and an optional "type" of "http" or "sse". Top-level
// siblings of mcpServers (e.g. "globalShortcut") are preserved verbatim.
package claude

import (
	"encoding/json"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/internal/paths"
)

// serversKey is the top-level key holding the server map.
const serversKey = "mcpServers"

// Translator converts between canonical and Claude Desktop MCP formats.
type Translator struct{}

// NewTranslator creates a new Claude Desktop translator.
func NewTranslator() *Translator {
	return &Translator{}
}

// Agent returns the agent identifier for this translator.
func (t *Translator) Agent() string {
	return paths.AgentClaude
}

// ToCanonical converts Claude Desktop configuration to canonical format.
// Empty input yields an empty config. The "type" values "http" and "sse"
// map directly to canonical transports; absent type is inferred.
func (t *Translator) ToCanonical(raw []byte) (*mcp.Config, error) {
	cfg := mcp.NewConfig()
	if len(raw) == 0 {
		return cfg, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, errors.Wrap(err, "parsing Claude Desktop config")
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

// decodeServer parses a single Claude server entry, capturing unknown fields.
func decodeServer(name string, entry json.RawMessage) (*mcp.Server, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil {
		return nil, err
	}

	server := &mcp.Server{Name: name}

	var typ string
	for key, val := range fields {
		var err error
		switch key {
		case "command":
			err = json.Unmarshal(val, &server.Command)
		case "args":
			err = json.Unmarshal(val, &server.Args)
		case "env":
			err = json.Unmarshal(val, &server.Env)
		case "url":
			err = json.Unmarshal(val, &server.URL)
		case "type":
			err = json.Unmarshal(val, &typ)
		case "headers":
			err = json.Unmarshal(val, &server.Headers)
		case "disabled":
			err = json.Unmarshal(val, &server.Disabled)
		default:
			server.SetUnknownField(key, val)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", key)
		}
	}

	server.Transport = transportFromType(typ, server.URL, server.Command)
	return server, nil
}

// transportFromType maps Claude's "type" value to a canonical transport.
func transportFromType(typ, url, command string) string {
	switch typ {
	case "stdio":
		return mcp.TransportStdio
	case "http":
		return mcp.TransportHTTP
	case "sse":
		return mcp.TransportSSE
	default:
		if url != "" {
			return mcp.TransportHTTP
		}
		if command != "" {
			return mcp.TransportStdio
		}
		return ""
	}
}

// FromCanonical converts canonical MCP configuration to Claude Desktop format.
// Stdio servers omit the "type" key (Claude Desktop's default); remote
// servers carry "type": "http" or "sse". Output is 2-space indented.
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
		return nil, errors.Wrap(err, "marshaling Claude Desktop config")
	}
	return data, nil
}

// encodeServer builds the Claude JSON object for a canonical server.
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
		entry["url"] = server.URL
		switch server.EffectiveTransport() {
		case mcp.TransportSSE:
			entry["type"] = "sse"
		default:
			entry["type"] = "http"
		}
		if len(server.Headers) > 0 {
			entry["headers"] = server.Headers
		}
	}

	if server.Disabled {
		entry["disabled"] = true
	}

	return entry, nil
}
