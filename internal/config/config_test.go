package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/paths"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	Init()
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	resetViper(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.Empty(t, cfg.DefaultAgents)
	assert.Equal(t, 10, cfg.Backup.Retention)
	assert.Equal(t, "auto", cfg.Keychain.Backend)
}

func TestLoadExplicitFile(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: 1
default_agents:
  - claude
  - cursor
backup:
  retention: 3
agents:
  cursor:
    config_path: /custom/mcp.json
keychain:
  backend: file
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"claude", "cursor"}, cfg.DefaultAgents)
	assert.Equal(t, 3, cfg.Backup.Retention)
	assert.Equal(t, "file", cfg.Keychain.Backend)
	assert.Equal(t, "/custom/mcp.json", cfg.ConfigPathFor(paths.AgentCursor))
	assert.Equal(t, paths.ConfigPath(paths.AgentClaude), cfg.ConfigPathFor(paths.AgentClaude))
}

func TestLoadExplicitFileMissing(t *testing.T) {
	resetViper(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults are valid", func(c *Config) {}, nil},
		{"version zero", func(c *Config) { c.Version = 0 }, ErrVersionTooLow},
		{"unknown default agent", func(c *Config) { c.DefaultAgents = []string{"emacs"} }, ErrInvalidAgent},
		{"unknown override agent", func(c *Config) {
			c.Agents = map[string]AgentOverride{"emacs": {}}
		}, ErrInvalidAgent},
		{"bad override path", func(c *Config) {
			c.Agents = map[string]AgentOverride{"cursor": {ConfigPath: "."}}
		}, ErrInvalidPath},
		{"bad keychain backend", func(c *Config) { c.Keychain.Backend = "vault" }, ErrInvalidBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := Validate(cfg)
			if tt.wantErr == nil {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			assert.True(t, errors.Is(errs[0], tt.wantErr), "got %v", errs[0])
		})
	}
}

func TestValidateNil(t *testing.T) {
	assert.NotEmpty(t, Validate(nil))
}

func TestSaveRoundTrip(t *testing.T) {
	resetViper(t)

	cfg := Default()
	cfg.DefaultAgents = []string{paths.AgentClaude, paths.AgentGemini}
	cfg.Backup.Retention = 5

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.DefaultAgents, loaded.DefaultAgents)
	assert.Equal(t, 5, loaded.Backup.Retention)
}

func TestSaveRejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Keychain.Backend = "vault"
	err := Save(cfg, filepath.Join(t.TempDir(), "config.yaml"))
	require.Error(t, err)
}
