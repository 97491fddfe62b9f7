// Package mcp defines the canonical MCP server configuration model and the
// Translator contract used by agent adapters.
//
// Every agent stores MCP servers in a slightly different JSON shape. The
// canonical model here is the interchange format: adapters translate their
// native shape to and from it, preserving any fields they do not understand.
package mcp

import (
	"encoding/json"
	"sort"
)

// Transport type constants for MCP server communication.
const (
	// TransportStdio indicates local process communication via stdin/stdout.
	// This is the default transport when a Command is specified.
	TransportStdio = "stdio"

	// TransportHTTP indicates remote server communication via streamable HTTP.
	// This is the default transport when a URL is specified.
	TransportHTTP = "http"

	// TransportSSE indicates remote server communication via Server-Sent Events.
	TransportSSE = "sse"
)

// ValidTransport returns true for a recognized transport name.
func ValidTransport(t string) bool {
	switch t {
	case TransportStdio, TransportHTTP, TransportSSE:
		return true
	}
	return false
}

// Server represents a canonical MCP server configuration that can be
// translated to and from agent-specific formats.
type Server struct {
	// Name is the server's unique identifier.
	// This is typically used as the map key in configuration files.
	Name string `json:"name"`

	// Command is the executable path for local (stdio) servers.
	Command string `json:"command,omitempty"`

	// Args are command-line arguments passed to the Command executable.
	Args []string `json:"args,omitempty"`

	// URL is the server endpoint for remote (http/sse) servers.
	URL string `json:"url,omitempty"`

	// Transport specifies the communication protocol: stdio, http, or sse.
	// Defaults to stdio if Command is set, http if URL is set.
	Transport string `json:"transport,omitempty"`

	// Env contains environment variables passed to the server process.
	// Values may be literal or `${keychain:NAME}` placeholders.
	Env map[string]string `json:"env,omitempty"`

	// Headers contains HTTP headers for remote transport connections.
	Headers map[string]string `json:"headers,omitempty"`

	// Disabled indicates whether the server is temporarily disabled.
	Disabled bool `json:"disabled,omitempty"`

	// unknownFields stores JSON fields not explicitly defined in this struct.
	// This ensures forward compatibility when agents add new server fields.
	unknownFields map[string]json.RawMessage
}

// IsLocal returns true if this server uses local (stdio) transport.
func (s *Server) IsLocal() bool {
	if s.Transport == TransportStdio {
		return true
	}
	return s.Transport == "" && s.Command != ""
}

// IsRemote returns true if this server uses a remote (http or sse) transport.
func (s *Server) IsRemote() bool {
	if s.Transport == TransportHTTP || s.Transport == TransportSSE {
		return true
	}
	return s.Transport == "" && s.URL != "" && s.Command == ""
}

// EffectiveTransport returns the explicit transport, or the one inferred
// from Command/URL when unset.
func (s *Server) EffectiveTransport() string {
	if s.Transport != "" {
		return s.Transport
	}
	if s.Command != "" {
		return TransportStdio
	}
	if s.URL != "" {
		return TransportHTTP
	}
	return ""
}

// Clone returns a deep copy of the server.
func (s *Server) Clone() *Server {
	if s == nil {
		return nil
	}
	out := *s
	if s.Args != nil {
		out.Args = append([]string(nil), s.Args...)
	}
	if s.Env != nil {
		out.Env = make(map[string]string, len(s.Env))
		for k, v := range s.Env {
			out.Env[k] = v
		}
	}
	if s.Headers != nil {
		out.Headers = make(map[string]string, len(s.Headers))
		for k, v := range s.Headers {
			out.Headers[k] = v
		}
	}
	if s.unknownFields != nil {
		out.unknownFields = make(map[string]json.RawMessage, len(s.unknownFields))
		for k, v := range s.unknownFields {
			out.unknownFields[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &out
}

// SetUnknownField stores a raw field for round-trip preservation.
// Used by translators for agent-specific fields the canonical model
// does not represent.
func (s *Server) SetUnknownField(key string, raw json.RawMessage) {
	if s.unknownFields == nil {
		s.unknownFields = make(map[string]json.RawMessage)
	}
	s.unknownFields[key] = raw
}

// UnknownField returns a preserved raw field, if present.
func (s *Server) UnknownField(key string) (json.RawMessage, bool) {
	raw, ok := s.unknownFields[key]
	return raw, ok
}

// UnknownFields returns the preserved fields keyed by name.
// The returned map must not be mutated.
func (s *Server) UnknownFields() map[string]json.RawMessage {
	return s.unknownFields
}

// MarshalJSON implements json.Marshaler to include unknown fields in output.
func (s *Server) MarshalJSON() ([]byte, error) {
	result := make(map[string]any)

	// Copy unknown fields first so known fields take precedence.
	for k, v := range s.unknownFields {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, err
		}
		result[k] = val
	}

	result["name"] = s.Name
	if s.Command != "" {
		result["command"] = s.Command
	}
	if len(s.Args) > 0 {
		result["args"] = s.Args
	}
	if s.URL != "" {
		result["url"] = s.URL
	}
	if s.Transport != "" {
		result["transport"] = s.Transport
	}
	if len(s.Env) > 0 {
		result["env"] = s.Env
	}
	if len(s.Headers) > 0 {
		result["headers"] = s.Headers
	}
	if s.Disabled {
		result["disabled"] = s.Disabled
	}

	return json.Marshal(result)
}

// UnmarshalJSON implements json.Unmarshaler to capture unknown fields.
func (s *Server) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	known := map[string]any{
		"name":      &s.Name,
		"command":   &s.Command,
		"args":      &s.Args,
		"url":       &s.URL,
		"transport": &s.Transport,
		"env":       &s.Env,
		"headers":   &s.Headers,
		"disabled":  &s.Disabled,
	}

	for key, dst := range known {
		if v, ok := raw[key]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				return err
			}
			delete(raw, key)
		}
	}

	if len(raw) > 0 {
		s.unknownFields = raw
	}

	return nil
}

// Config represents a canonical MCP configuration containing server definitions.
type Config struct {
	// Servers maps server names to their configurations.
	Servers map[string]*Server `json:"servers"`

	// unknownFields stores JSON fields not explicitly defined in this struct.
	unknownFields map[string]json.RawMessage
}

// NewConfig creates a new Config with initialized maps.
func NewConfig() *Config {
	return &Config{
		Servers: make(map[string]*Server),
	}
}

// Names returns the server names in sorted order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Servers))
	for name := range c.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetUnknownField stores a raw top-level field for round-trip preservation.
// Used by translators for agent config fields that sit beside the server map
// (VS Code "inputs", Gemini sibling settings).
func (c *Config) SetUnknownField(key string, raw json.RawMessage) {
	if c.unknownFields == nil {
		c.unknownFields = make(map[string]json.RawMessage)
	}
	c.unknownFields[key] = raw
}

// UnknownField returns a preserved raw top-level field, if present.
func (c *Config) UnknownField(key string) (json.RawMessage, bool) {
	raw, ok := c.unknownFields[key]
	return raw, ok
}

// UnknownFields returns the preserved top-level fields keyed by name.
// The returned map must not be mutated.
func (c *Config) UnknownFields() map[string]json.RawMessage {
	return c.unknownFields
}

// MarshalJSON implements json.Marshaler to include unknown fields in output.
func (c *Config) MarshalJSON() ([]byte, error) {
	result := make(map[string]any)

	for k, v := range c.unknownFields {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, err
		}
		result[k] = val
	}

	result["servers"] = c.Servers

	return json.Marshal(result)
}

// UnmarshalJSON implements json.Unmarshaler to capture unknown fields.
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if serversData, ok := raw["servers"]; ok {
		if err := json.Unmarshal(serversData, &c.Servers); err != nil {
			return err
		}
		delete(raw, "servers")
	}

	if len(raw) > 0 {
		c.unknownFields = raw
	}

	return nil
}
