// Package agent provides the adapter framework for AI coding tool
// configuration management.
//
// Each supported agent (Claude Desktop, Cursor, VS Code, Gemini CLI,
// Windsurf, Cline, Visual Studio) is described by a Definition pairing its
// config file location with the Translator for its wire schema. A single
// shared Manager implements read/translate/mutate/backup/write on top of
// any Definition; the agents differ only in path and schema, and the
// Translator already captures the schema.
package agent

import (
	"github.com/mcport/mcport/internal/agent/claude"
	"github.com/mcport/mcport/internal/agent/cursor"
	"github.com/mcport/mcport/internal/agent/gemini"
	"github.com/mcport/mcport/internal/agent/vscode"
	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/internal/paths"
)

// Definition describes one supported agent.
type Definition struct {
	// Name is the agent identifier (claude, cursor, vscode, ...).
	// It matches a constant in the paths package.
	Name string

	// DisplayName is the human-readable agent name for output.
	DisplayName string

	// Translator converts between the agent's wire schema and the
	// canonical model.
	Translator mcp.Translator

	// SupportsDisabled indicates the agent's native schema has a
	// disabled flag. Agents without one handle deactivation by
	// removing the entry and stashing it.
	SupportsDisabled bool
}

// ConfigPath returns the agent's config file path on this system.
func (d *Definition) ConfigPath() string {
	return paths.ConfigPath(d.Name)
}

// Definitions returns all supported agent definitions in the deterministic
// order defined by paths.Agents().
func Definitions() []*Definition {
	return []*Definition{
		{
			Name:        paths.AgentClaude,
			DisplayName: "Claude Desktop",
			Translator:  claude.NewTranslator(),
		},
		{
			Name:        paths.AgentCursor,
			DisplayName: "Cursor",
			Translator:  cursor.NewTranslator(cursor.VariantCursor),
		},
		{
			Name:        paths.AgentVSCode,
			DisplayName: "VS Code",
			Translator:  vscode.NewTranslator(vscode.VariantVSCode),
		},
		{
			Name:        paths.AgentGemini,
			DisplayName: "Gemini CLI",
			Translator:  gemini.NewTranslator(),
		},
		{
			Name:        paths.AgentWindsurf,
			DisplayName: "Windsurf",
			Translator:  cursor.NewTranslator(cursor.VariantWindsurf),
		},
		{
			Name:             paths.AgentCline,
			DisplayName:      "Cline",
			Translator:       cursor.NewTranslator(cursor.VariantCline),
			SupportsDisabled: true,
		},
		{
			Name:        paths.AgentVisualStudio,
			DisplayName: "Visual Studio",
			Translator:  vscode.NewTranslator(vscode.VariantVisualStudio),
		},
	}
}

// Get returns the definition for the named agent.
// Returns errors.ErrUnknownAgent if the name is not recognized.
func Get(name string) (*Definition, error) {
	for _, def := range Definitions() {
		if def.Name == name {
			return def, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrUnknownAgent, "%q", name)
}

// Resolve maps a list of agent names to definitions.
// An empty list resolves to all installed agents; if none are installed,
// it resolves to nothing and the caller decides how to report that.
func Resolve(names []string) ([]*Definition, error) {
	if len(names) == 0 {
		var defs []*Definition
		for _, result := range DetectInstalled() {
			def, err := Get(result.Name)
			if err != nil {
				return nil, err
			}
			defs = append(defs, def)
		}
		return defs, nil
	}

	defs := make([]*Definition, 0, len(names))
	for _, name := range names {
		def, err := Get(name)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
