// Package vscode translates between the canonical MCP model and the
// "servers" file format used by VS Code and Visual Studio.
//
// Both agents store servers under a "servers" key with an explicit "type"
// per entry. VS Code's mcp.json additionally carries an "inputs" array of
// variable prompts, which is preserved verbatim through translation.
package vscode

import (
	"encoding/json"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/internal/paths"
)

const serversKey = "servers"

// Variant selects which agent's dialect the translator speaks.
type Variant string

// Supported variants of the servers file format.
const (
	VariantVSCode       Variant = paths.AgentVSCode
	VariantVisualStudio Variant = paths.AgentVisualStudio
)

// Translator converts between canonical and the servers file format.
type Translator struct {
	variant Variant
}

// NewTranslator creates a translator for the given variant.
func NewTranslator(variant Variant) *Translator {
	return &Translator{variant: variant}
}

// Agent returns the agent identifier for this translator's variant.
func (t *Translator) Agent() string {
	return string(t.variant)
}

// ToCanonical converts a servers file to canonical format.
// Empty input yields an empty config. "inputs" and any other top-level
// siblings are preserved.
func (t *Translator) ToCanonical(raw []byte) (*mcp.Config, error) {
	cfg := mcp.NewConfig()
	if len(raw) == 0 {
		return cfg, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, errors.Wrapf(err, "parsing %s config", t.variant)
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
		return nil, errors.Wrap(err, "parsing servers")
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
		default:
			server.SetUnknownField(key, val)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", key)
		}
	}

	switch typ {
	case "stdio":
		server.Transport = mcp.TransportStdio
	case "http":
		server.Transport = mcp.TransportHTTP
	case "sse":
		server.Transport = mcp.TransportSSE
	case "":
		server.Transport = server.EffectiveTransport()
	default:
		return nil, errors.Newf("unrecognized server type %q", typ)
	}

	if server.Command == "" && server.URL == "" {
		return nil, errors.Wrap(mcp.ErrRequiredFieldMissing, "command or url")
	}

	return server, nil
}

// FromCanonical converts canonical MCP configuration to the servers format.
// The "type" key is always written: VS Code requires it.
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
		return nil, errors.Wrapf(err, "marshaling %s config", t.variant)
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
		entry["type"] = "stdio"
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
			entry["type"] = "sse"
		default:
			entry["type"] = "http"
		}
		entry["url"] = server.URL
		if len(server.Headers) > 0 {
			entry["headers"] = server.Headers
		}
	}

	// The servers format has no disabled flag; deactivation is handled by
	// removing the entry, so Disabled is intentionally dropped here.
	return entry, nil
}
