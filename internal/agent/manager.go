package agent

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/pkg/fileutil"
)

// BackupFunc is called with the agent name and config path before the
// first destructive write. It is pluggable so tests can observe or
// suppress backups.
type BackupFunc func(agent, configPath string) error

// Manager performs server operations against one agent's config file.
// All mutations follow the same sequence: read, translate to canonical,
// mutate, back up the original once, translate back, write atomically.
type Manager struct {
	def        *Definition
	configPath string
	backupFn   BackupFunc
}

// Option customizes a Manager.
type Option func(*Manager)

// WithConfigPath overrides the agent's default config file location.
func WithConfigPath(path string) Option {
	return func(m *Manager) { m.configPath = path }
}

// WithBackupFunc sets the pre-write backup hook. A nil func disables
// backups.
func WithBackupFunc(fn BackupFunc) Option {
	return func(m *Manager) { m.backupFn = fn }
}

// NewManager creates a manager for the given agent definition.
func NewManager(def *Definition, opts ...Option) *Manager {
	m := &Manager{
		def:        def,
		configPath: def.ConfigPath(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Definition returns the agent definition this manager operates on.
func (m *Manager) Definition() *Definition { return m.def }

// ConfigPath returns the config file path this manager reads and writes.
func (m *Manager) ConfigPath() string { return m.configPath }

// Load reads and translates the agent's config file.
// A missing file yields an empty config, not an error: every agent
// starts out without an MCP config and the first Add creates it.
func (m *Manager) Load() (*mcp.Config, error) {
	raw, err := fileutil.ReadFileWithLimit(m.configPath, fileutil.MaxFileSize)
	if err != nil {
		// The read error carries wrap context, so unwrap via errors.Is.
		if errors.Is(err, os.ErrNotExist) {
			return mcp.NewConfig(), nil
		}
		return nil, errors.Wrapf(err, "reading %s config", m.def.Name)
	}

	cfg, err := m.def.Translator.ToCanonical(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", m.configPath)
	}
	return cfg, nil
}

// Save translates the canonical config back to the agent schema and
// writes it atomically, backing up the existing file first.
func (m *Manager) Save(cfg *mcp.Config) error {
	raw, err := m.def.Translator.FromCanonical(cfg)
	if err != nil {
		return errors.Wrapf(err, "encoding %s config", m.def.Name)
	}

	if m.backupFn != nil {
		if err := m.backupFn(m.def.Name, m.configPath); err != nil {
			return errors.Wrapf(err, "backing up %s config", m.def.Name)
		}
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteFile(m.configPath, raw, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", m.configPath)
	}
	return nil
}

// List returns all servers sorted by name.
func (m *Manager) List() ([]*mcp.Server, error) {
	cfg, err := m.Load()
	if err != nil {
		return nil, err
	}

	servers := make([]*mcp.Server, 0, len(cfg.Servers))
	for _, name := range cfg.Names() {
		servers = append(servers, cfg.Servers[name])
	}
	return servers, nil
}

// Get returns the named server.
func (m *Manager) Get(name string) (*mcp.Server, error) {
	cfg, err := m.Load()
	if err != nil {
		return nil, err
	}
	server, ok := cfg.Servers[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "server %q in %s", name, m.def.Name)
	}
	return server, nil
}

// Add inserts or replaces a server.
func (m *Manager) Add(server *mcp.Server) error {
	if err := mcp.Validate(server); err != nil {
		return err
	}
	cfg, err := m.Load()
	if err != nil {
		return err
	}
	cfg.Servers[server.Name] = server
	return m.Save(cfg)
}

// Remove deletes the named server. Returns errors.ErrNotFound if the
// server is not configured.
func (m *Manager) Remove(name string) error {
	cfg, err := m.Load()
	if err != nil {
		return err
	}
	if _, ok := cfg.Servers[name]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "server %q in %s", name, m.def.Name)
	}
	delete(cfg.Servers, name)
	return m.Save(cfg)
}

// SetDisabled flips the disabled flag on the named server. Only valid
// for agents whose schema carries the flag natively; callers handle the
// stash-based path for the rest.
func (m *Manager) SetDisabled(name string, disabled bool) error {
	if !m.def.SupportsDisabled {
		return errors.Newf("%s does not support a native disabled flag", m.def.Name)
	}
	cfg, err := m.Load()
	if err != nil {
		return err
	}
	server, ok := cfg.Servers[name]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "server %q in %s", name, m.def.Name)
	}
	server.Disabled = disabled
	return m.Save(cfg)
}

// MergeResult reports the outcome of a Merge.
type MergeResult struct {
	Added   []string
	Skipped []string
}

// Merge inserts servers into the config. Existing names are skipped
// unless overwrite is set. Names in the result are sorted.
func (m *Manager) Merge(servers []*mcp.Server, overwrite bool) (*MergeResult, error) {
	cfg, err := m.Load()
	if err != nil {
		return nil, err
	}

	result := &MergeResult{}
	for _, server := range servers {
		if err := mcp.Validate(server); err != nil {
			return nil, err
		}
		if _, exists := cfg.Servers[server.Name]; exists && !overwrite {
			result.Skipped = append(result.Skipped, server.Name)
			continue
		}
		cfg.Servers[server.Name] = server
		result.Added = append(result.Added, server.Name)
	}
	sort.Strings(result.Added)
	sort.Strings(result.Skipped)

	if len(result.Added) == 0 {
		return result, nil
	}
	return result, m.Save(cfg)
}
