// Package registry provides the searchable catalog of known MCP servers
// used by search, activate, and the interactive picker.
//
// A snapshot of the catalog is embedded in the binary so search works
// offline; a local JSON file can override or extend it.
package registry

import (
	_ "embed"
	"encoding/json"
	"os"
	"sort"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/internal/security"
)

//go:embed registry.json
var embedded []byte

// Classification describes who maintains a catalog entry.
const (
	ClassOfficial  = "official"  // maintained by the service vendor
	ClassReference = "reference" // maintained by the MCP project
	ClassCommunity = "community"
)

// InstallSpec describes how to run a server once activated. Local
// servers carry a command, remote ones a URL.
type InstallSpec struct {
	Command   string   `json:"command,omitempty"`
	Args      []string `json:"args,omitempty"`
	URL       string   `json:"url,omitempty"`
	Transport string   `json:"transport,omitempty"`

	// RequiredEnv lists environment variables the server needs, usually
	// credentials. Activation wires them as keychain placeholders.
	RequiredEnv []string `json:"required_env,omitempty"`
}

// Entry is one catalog record.
type Entry struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Maintainer     string   `json:"maintainer,omitempty"`
	Classification string   `json:"classification"`
	Homepage       string   `json:"homepage,omitempty"`
	Category       string   `json:"category,omitempty"`
	Tags           []string `json:"tags,omitempty"`

	// Agents restricts the entry to specific agents. Empty means all.
	Agents []string `json:"agents,omitempty"`

	// Popularity is a 0-100 signal used as a ranking tiebreaker.
	Popularity int `json:"popularity,omitempty"`

	Install InstallSpec `json:"install"`
}

// SupportsAgent reports whether the entry can be installed for the agent.
func (e *Entry) SupportsAgent(agent string) bool {
	if len(e.Agents) == 0 {
		return true
	}
	for _, a := range e.Agents {
		if a == agent {
			return true
		}
	}
	return false
}

// SupportsTransport reports whether the entry uses the given transport.
func (e *Entry) SupportsTransport(transport string) bool {
	return e.Install.Transport == transport
}

// HasTag reports whether the entry carries the tag exactly.
func (e *Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Server builds the canonical server for this entry. Required env vars
// become keychain placeholders; the secret values themselves never
// enter the canonical config.
func (e *Entry) Server() *mcp.Server {
	server := &mcp.Server{
		Name:      e.ID,
		Command:   e.Install.Command,
		URL:       e.Install.URL,
		Transport: e.Install.Transport,
	}
	if len(e.Install.Args) > 0 {
		server.Args = append([]string(nil), e.Install.Args...)
	}
	if len(e.Install.RequiredEnv) > 0 {
		server.Env = make(map[string]string, len(e.Install.RequiredEnv))
		for _, name := range e.Install.RequiredEnv {
			server.Env[name] = security.Placeholder(name)
		}
	}
	return server
}

// Registry is a loaded catalog.
type Registry struct {
	entries []*Entry
	byID    map[string]*Entry
}

func build(entries []*Entry) (*Registry, error) {
	r := &Registry{
		entries: entries,
		byID:    make(map[string]*Entry, len(entries)),
	}
	for _, entry := range entries {
		if entry.ID == "" {
			return nil, errors.New("registry entry missing id")
		}
		if _, dup := r.byID[entry.ID]; dup {
			return nil, errors.Newf("duplicate registry entry %q", entry.ID)
		}
		r.byID[entry.ID] = entry
	}
	sort.Slice(r.entries, func(i, j int) bool { return r.entries[i].ID < r.entries[j].ID })
	return r, nil
}

func parse(raw []byte) (*Registry, error) {
	var doc struct {
		Servers []*Entry `json:"servers"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing registry")
	}
	return build(doc.Servers)
}

// Load returns the catalog. When overridePath names a file, its entries
// replace embedded entries with the same id and add the rest.
func Load(overridePath string) (*Registry, error) {
	reg, err := parse(embedded)
	if err != nil {
		return nil, errors.Wrap(err, "embedded registry is corrupt")
	}
	if overridePath == "" {
		return reg, nil
	}

	raw, err := os.ReadFile(overridePath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading registry override %s", overridePath)
	}
	override, err := parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing registry override %s", overridePath)
	}

	merged := make([]*Entry, 0, len(reg.entries)+len(override.entries))
	for _, entry := range reg.entries {
		if _, replaced := override.byID[entry.ID]; !replaced {
			merged = append(merged, entry)
		}
	}
	merged = append(merged, override.entries...)
	return build(merged)
}

// Get returns the entry with the given id.
func (r *Registry) Get(id string) (*Entry, error) {
	entry, ok := r.byID[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "registry entry %q", id)
	}
	return entry, nil
}

// All returns every entry, sorted by id.
func (r *Registry) All() []*Entry {
	return r.entries
}

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.entries) }
