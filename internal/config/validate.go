package config

import (
	"path/filepath"
	"strings"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/keychain"
	"github.com/mcport/mcport/internal/paths"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidAgent indicates an unrecognized agent name.
	ErrInvalidAgent = errors.New("invalid agent")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidBackend indicates an unrecognized keychain backend.
	ErrInvalidBackend = errors.New("invalid keychain backend")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	for _, agent := range cfg.DefaultAgents {
		if !paths.ValidAgent(agent) {
			errs = append(errs, &AgentError{Agent: agent, Err: ErrInvalidAgent})
		}
	}
	for agent, override := range cfg.Agents {
		if !paths.ValidAgent(agent) {
			errs = append(errs, &AgentError{Agent: agent, Err: ErrInvalidAgent})
		}
		if override.ConfigPath != "" {
			if err := validatePath(override.ConfigPath); err != nil {
				errs = append(errs, &PathError{Field: "agents." + agent + ".config_path", Path: override.ConfigPath, Err: err})
			}
		}
	}

	if cfg.Backup.Retention < 0 {
		errs = append(errs, errors.New("backup.retention must be >= 0"))
	}
	if cfg.Backup.Dir != "" {
		if err := validatePath(cfg.Backup.Dir); err != nil {
			errs = append(errs, &PathError{Field: "backup.dir", Path: cfg.Backup.Dir, Err: err})
		}
	}
	if cfg.Registry.Path != "" {
		if err := validatePath(cfg.Registry.Path); err != nil {
			errs = append(errs, &PathError{Field: "registry.path", Path: cfg.Registry.Path, Err: err})
		}
	}

	switch cfg.Keychain.Backend {
	case "", keychain.BackendAuto, keychain.BackendSystem, keychain.BackendFile:
	default:
		errs = append(errs, errors.Wrapf(ErrInvalidBackend, "%q", cfg.Keychain.Backend))
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}
	return nil
}

// AgentError represents an error for a specific agent.
type AgentError struct {
	Agent string
	Err   error
}

func (e *AgentError) Error() string {
	return e.Err.Error() + ": " + e.Agent
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
