package commands

import (
	"github.com/mcport/mcport/internal/agent"
	"github.com/mcport/mcport/internal/backup"
	"github.com/mcport/mcport/internal/config"
	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/registry"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// ErrNoAgentsAvailable is returned when no agents are detected and none
// were named explicitly.
var ErrNoAgentsAvailable = errors.New("no agents detected on this system")

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// currentConfig returns the loaded app config, falling back to defaults
// when initialization has not run (tests call command helpers directly).
func currentConfig() *config.Config {
	if appConfig != nil {
		return appConfig
	}
	return config.Default()
}

// backupManager builds the backup manager from config.
func backupManager() *backup.Manager {
	cfg := currentConfig()
	opts := []backup.Option{backup.WithRetention(cfg.Backup.Retention)}
	if cfg.Backup.Dir != "" {
		opts = append(opts, backup.WithDir(cfg.Backup.Dir))
	}
	return backup.NewManager(opts...)
}

// resolveManagers maps the agent selection to managers wired with the
// per-agent config path overrides and the pre-write backup hook.
//
// Selection precedence: explicit names argument, then the --agent flag,
// then default_agents from config, then all detected agents.
func resolveManagers(names []string) ([]*agent.Manager, error) {
	cfg := currentConfig()

	if len(names) == 0 {
		names = GetAgentFlag()
	}
	if len(names) == 0 {
		names = cfg.DefaultAgents
	}

	defs, err := agent.Resolve(names)
	if err != nil {
		return nil, errors.NewUserError(err, "Run 'mcport doctor' to see detected agents")
	}
	if len(defs) == 0 {
		return nil, errors.NewUserError(ErrNoAgentsAvailable,
			"Name an agent explicitly: mcport list --agent claude")
	}

	bm := backupManager()
	managers := make([]*agent.Manager, 0, len(defs))
	for _, def := range defs {
		managers = append(managers, agent.NewManager(def,
			agent.WithConfigPath(cfg.ConfigPathFor(def.Name)),
			agent.WithBackupFunc(func(agentName, configPath string) error {
				return bm.EnsureBackedUp(agentName, configPath)
			}),
		))
	}
	return managers, nil
}

// loadRegistry loads the catalog, honoring the config's override path.
func loadRegistry() (*registry.Registry, error) {
	reg, err := registry.Load(currentConfig().Registry.Path)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	return reg, nil
}
