package mcp

import "github.com/mcport/mcport/internal/errors"

// Translator converts between canonical and agent-specific MCP formats.
//
// Each agent adapter (Claude Desktop, Cursor, VS Code, Gemini CLI, Windsurf,
// Cline, Visual Studio) implements this interface to enable bidirectional
// translation of MCP server configurations.
//
// When reading an agent config:
//
//	agentJSON -> Translator.ToCanonical() -> *Config
//
// When writing an agent config:
//
//	*Config -> Translator.FromCanonical() -> agentJSON
//
// Implementations must preserve unknown fields during translation. Agent
// configs may contain fields not defined in the canonical format (VS Code
// "inputs", Gemini sibling settings, Cline "autoApprove"), and these must
// be retained through the round-trip to avoid data loss.
type Translator interface {
	// ToCanonical converts agent-specific MCP configuration to canonical format.
	//
	// The raw parameter contains the agent's config file bytes. Empty or
	// nil input yields an empty canonical config.
	ToCanonical(raw []byte) (*Config, error)

	// FromCanonical converts canonical MCP configuration to the agent format.
	//
	// Returns JSON bytes suitable for writing directly to the agent's config
	// file, formatted with 2-space indentation.
	//
	// Returns ErrFieldNotSupported (wrapped) if the canonical config contains
	// fields that cannot be represented in the agent format; callers should
	// warn the user about the data loss.
	FromCanonical(cfg *Config) ([]byte, error)

	// Agent returns the identifier of the agent this translator handles.
	// The value matches a constant in the paths package.
	Agent() string
}

// Sentinel errors for translation operations.
var (
	// ErrFieldNotSupported indicates a canonical field cannot be represented
	// in the target agent format.
	ErrFieldNotSupported = errors.New("field not supported by agent")

	// ErrRequiredFieldMissing indicates the agent data is missing a field
	// required to construct a valid canonical representation.
	//
	// Example: a server entry has neither "command" nor "url", making it
	// impossible to determine the transport type.
	ErrRequiredFieldMissing = errors.New("required field missing from agent data")
)

// Validate checks that a canonical server is well-formed enough to write:
// it must have a name and exactly one of command/url unless explicitly
// given a transport matching what is present.
func Validate(s *Server) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if s.Name == "" {
		return errors.Wrap(ErrRequiredFieldMissing, "name")
	}
	if s.Command == "" && s.URL == "" {
		return errors.Wrapf(ErrRequiredFieldMissing, "server %q needs a command or url", s.Name)
	}
	if s.Transport != "" && !ValidTransport(s.Transport) {
		return errors.Newf("server %q has invalid transport %q", s.Name, s.Transport)
	}
	if s.Transport == TransportStdio && s.Command == "" {
		return errors.Wrapf(ErrRequiredFieldMissing, "stdio server %q needs a command", s.Name)
	}
	if (s.Transport == TransportHTTP || s.Transport == TransportSSE) && s.URL == "" {
		return errors.Wrapf(ErrRequiredFieldMissing, "remote server %q needs a url", s.Name)
	}
	return nil
}
