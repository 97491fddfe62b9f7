// Package cursor translates between the canonical MCP model and the
// "mcpServers" file format shared by Cursor, Windsurf, and Cline.
//
// All three agents keep a dedicated JSON file whose only payload is the
// server map. Cline extends each entry with "disabled" and "autoApprove"
// fields; the others carry only command/args/env or url/headers.
package cursor

import (
	"encoding/json"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/internal/paths"
)

const serversKey = "mcpServers"

// Variant selects which agent's dialect the translator speaks.
type Variant string

// Supported variants of the mcpServers file format.
const (
	VariantCursor   Variant = paths.AgentCursor
	VariantWindsurf Variant = paths.AgentWindsurf
	VariantCline    Variant = paths.AgentCline
)

// Translator converts between canonical and the mcpServers file format.
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

// supportsDisabled reports whether the variant has a native disabled flag.
func (t *Translator) supportsDisabled() bool {
	return t.variant == VariantCline
}

// ToCanonical converts an mcpServers file to canonical format.
// Empty input yields an empty config.
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
		return nil, errors.Wrap(err, "parsing mcpServers")
	}

	for name, entry := range servers {
		server, err := t.decodeServer(name, entry)
		if err != nil {
			return nil, errors.Wrapf(err, "server %q", name)
		}
		cfg.Servers[name] = server
	}

	return cfg, nil
}

func (t *Translator) decodeServer(name string, entry json.RawMessage) (*mcp.Server, error) {
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
		case "type", "transport":
			err = json.Unmarshal(val, &typ)
		case "headers":
			err = json.Unmarshal(val, &server.Headers)
		case "disabled":
			if t.supportsDisabled() {
				err = json.Unmarshal(val, &server.Disabled)
			} else {
				server.SetUnknownField(key, val)
			}
		default:
			// Cline's autoApprove and anything else ride along untouched.
			server.SetUnknownField(key, val)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", key)
		}
	}

	switch typ {
	case "stdio":
		server.Transport = mcp.TransportStdio
	case "http", "streamableHttp":
		server.Transport = mcp.TransportHTTP
	case "sse":
		server.Transport = mcp.TransportSSE
	default:
		server.Transport = server.EffectiveTransport()
	}

	return server, nil
}

// FromCanonical converts canonical MCP configuration to the mcpServers format.
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
		entry, err := t.encodeServer(server)
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

func (t *Translator) encodeServer(server *mcp.Server) (map[string]any, error) {
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
		if server.EffectiveTransport() == mcp.TransportSSE {
			entry["type"] = "sse"
		}
		if len(server.Headers) > 0 {
			entry["headers"] = server.Headers
		}
	}

	if server.Disabled && t.supportsDisabled() {
		entry["disabled"] = true
	}

	return entry, nil
}
