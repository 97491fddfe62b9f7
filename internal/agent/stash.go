package agent

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/internal/paths"
	"github.com/mcport/mcport/pkg/fileutil"
)

// Stash holds deactivated server definitions for agents whose schema has
// no disabled flag. Deactivating removes the entry from the agent config
// and parks the canonical JSON here; activating restores it.
//
// Layout: <stash>/<agent>/<server>.json, one canonical server per file.
type Stash struct {
	dir string
}

// NewStash creates a stash rooted at dir. An empty dir uses the default
// location under the XDG data home.
func NewStash(dir string) *Stash {
	if dir == "" {
		dir = paths.StashDir()
	}
	return &Stash{dir: dir}
}

// Dir returns the stash root directory.
func (s *Stash) Dir() string { return s.dir }

func (s *Stash) entryPath(agent, name string) string {
	return filepath.Join(s.dir, agent, name+".json")
}

// Put stores a deactivated server for the given agent, replacing any
// previous stash entry with the same name.
func (s *Stash) Put(agent string, server *mcp.Server) error {
	dir := filepath.Join(s.dir, agent)
	if err := paths.EnsureDir(dir); err != nil {
		return errors.Wrap(err, "creating stash directory")
	}
	if err := fileutil.AtomicWriteJSON(s.entryPath(agent, server.Name), server); err != nil {
		return errors.Wrapf(err, "stashing server %q", server.Name)
	}
	return nil
}

// Get returns a stashed server. Returns errors.ErrNotFound if the agent
// has no stash entry with that name.
func (s *Stash) Get(agent, name string) (*mcp.Server, error) {
	raw, err := fileutil.ReadFileWithLimit(s.entryPath(agent, name), fileutil.MaxFileSize)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(errors.ErrNotFound, "stashed server %q for %s", name, agent)
		}
		return nil, errors.Wrap(err, "reading stash entry")
	}

	var server mcp.Server
	if err := json.Unmarshal(raw, &server); err != nil {
		return nil, errors.Wrapf(err, "parsing stash entry for %q", name)
	}
	server.Name = name
	return &server, nil
}

// List returns all stashed servers for an agent, sorted by name.
func (s *Stash) List(agent string) ([]*mcp.Server, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, agent))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading stash directory")
	}

	var servers []*mcp.Server
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		server, err := s.Get(agent, name)
		if err != nil {
			return nil, err
		}
		servers = append(servers, server)
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].Name < servers[j].Name })
	return servers, nil
}

// Remove deletes a stash entry. Removing a missing entry is not an
// error: activation removes the stash copy after restoring it, and the
// copy may already be gone.
func (s *Stash) Remove(agent, name string) error {
	err := os.Remove(s.entryPath(agent, name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing stash entry")
	}
	return nil
}
