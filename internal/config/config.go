// Package config provides configuration management for mcport using Viper.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/keychain"
	"github.com/mcport/mcport/internal/paths"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// DefaultAgents is the agent set commands operate on when --agent
	// is not given. Empty means "all installed agents". The switch
	// command rewrites this list.
	DefaultAgents []string `mapstructure:"default_agents" yaml:"default_agents"`

	// Agents holds per-agent overrides.
	Agents map[string]AgentOverride `mapstructure:"agents" yaml:"agents"`

	Backup   BackupConfig   `mapstructure:"backup" yaml:"backup"`
	Registry RegistryConfig `mapstructure:"registry" yaml:"registry"`
	Keychain KeychainConfig `mapstructure:"keychain" yaml:"keychain"`
}

// AgentOverride contains configuration overrides for a specific agent.
type AgentOverride struct {
	ConfigPath string `mapstructure:"config_path" yaml:"config_path"`
}

// BackupConfig controls pre-write snapshots.
type BackupConfig struct {
	Dir       string `mapstructure:"dir" yaml:"dir"`
	Retention int    `mapstructure:"retention" yaml:"retention"`
}

// RegistryConfig points at a local catalog override.
type RegistryConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// KeychainConfig selects the secret store backend.
type KeychainConfig struct {
	Backend  string `mapstructure:"backend" yaml:"backend"`
	FilePath string `mapstructure:"file_path" yaml:"file_path"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(paths.AppConfigDir())

	viper.SetEnvPrefix("MCPORT")
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("default_agents", []string{})
	viper.SetDefault("backup.retention", 10)
	viper.SetDefault("keychain.backend", keychain.BackendAuto)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file; a missing file
// is then an error. With an empty path the default locations are
// searched and defaults apply when no file exists.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load without a file uses defaults.
		case path != "":
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}

// LoadDefault loads from the default location, falling back to defaults
// when no config file exists, and validates the result.
func LoadDefault() (*Config, error) {
	cfg, err := Load("")
	if err != nil {
		return nil, err
	}
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, errors.Wrapf(errs[0], "invalid config")
	}
	return cfg, nil
}

// Default returns a configuration with default values, without touching
// Viper state.
func Default() *Config {
	return &Config{
		Version:  1,
		Backup:   BackupConfig{Retention: 10},
		Keychain: KeychainConfig{Backend: keychain.BackendAuto},
	}
}

// Path returns the default config file location.
func Path() string {
	return paths.AppConfigFile()
}

// ConfigPathFor resolves the config file path for an agent, honoring a
// per-agent override.
func (c *Config) ConfigPathFor(agent string) string {
	if override, ok := c.Agents[agent]; ok && override.ConfigPath != "" {
		return filepath.Clean(override.ConfigPath)
	}
	return paths.ConfigPath(agent)
}
