// Package paths resolves configuration file locations for every supported
// agent across operating systems, plus the mcport-owned directories
// (config, data, stash, backups).
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"

	"github.com/mcport/mcport/internal/errors"
)

// AppName is the application name used for directory and config file naming.
const AppName = "mcport"

// Agent identifiers for supported AI coding tools.
const (
	AgentClaude       = "claude"
	AgentCursor       = "cursor"
	AgentVSCode       = "vscode"
	AgentGemini       = "gemini"
	AgentWindsurf     = "windsurf"
	AgentCline        = "cline"
	AgentVisualStudio = "visualstudio"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// Agents returns all supported agent identifiers in deterministic order.
func Agents() []string {
	return []string{
		AgentClaude,
		AgentCursor,
		AgentVSCode,
		AgentGemini,
		AgentWindsurf,
		AgentCline,
		AgentVisualStudio,
	}
}

// ValidAgent returns true if the agent name is recognized.
func ValidAgent(agent string) bool {
	for _, a := range Agents() {
		if a == agent {
			return true
		}
	}
	return false
}

// EnsureDir creates the directory and any necessary parents with
// DefaultDirPerm. Every mcport-owned directory (stash, backups, config,
// keychain index) is private to the user. Idempotent.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DefaultDirPerm)
}

// Home returns the user's home directory, or an empty string on error.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
func DataHome() string {
	return xdg.DataHome
}

// AppConfigDir returns the mcport config directory: <ConfigHome>/mcport/
func AppConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// AppConfigFile returns the mcport config file path: <ConfigHome>/mcport/config.yaml
func AppConfigFile() string {
	return filepath.Join(AppConfigDir(), "config.yaml")
}

// DataDir returns the mcport data directory: <DataHome>/mcport/
func DataDir() string {
	return filepath.Join(DataHome(), AppName)
}

// StashDir returns the directory holding deactivated server definitions.
// Returns: <DataHome>/mcport/stash/
func StashDir() string {
	return filepath.Join(DataDir(), "stash")
}

// BackupDir returns the root backup directory: <ConfigHome>/mcport/backups/
func BackupDir() string {
	return filepath.Join(AppConfigDir(), "backups")
}

// ConfigPath returns the MCP configuration file path for an agent on the
// current operating system. Returns an empty string for unknown agents.
//
// Agent paths (darwin / linux / windows):
//   - claude:       ~/Library/Application Support/Claude/claude_desktop_config.json
//     / ~/.config/Claude/claude_desktop_config.json
//     / %APPDATA%\Claude\claude_desktop_config.json
//   - cursor:       ~/.cursor/mcp.json (all)
//   - vscode:       <VS Code user dir>/mcp.json
//   - gemini:       ~/.gemini/settings.json (all)
//   - windsurf:     ~/.codeium/windsurf/mcp_config.json (all)
//   - cline:        <VS Code user dir>/globalStorage/saoudrizwan.claude-dev/settings/cline_mcp_settings.json
//   - visualstudio: ~/.mcp.json (all)
func ConfigPath(agent string) string {
	return configPathFor(agent, runtime.GOOS, Home(), roamingAppData())
}

// configPathFor is the testable core of ConfigPath: the OS, home directory
// and Windows roaming dir are injected.
func configPathFor(agent, goos, home, appData string) string {
	if home == "" {
		return ""
	}

	switch agent {
	case AgentClaude:
		switch goos {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
		case "windows":
			return filepath.Join(appData, "Claude", "claude_desktop_config.json")
		default:
			return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
		}

	case AgentCursor:
		return filepath.Join(home, ".cursor", "mcp.json")

	case AgentVSCode:
		return filepath.Join(vscodeUserDir(goos, home, appData), "mcp.json")

	case AgentGemini:
		return filepath.Join(home, ".gemini", "settings.json")

	case AgentWindsurf:
		return filepath.Join(home, ".codeium", "windsurf", "mcp_config.json")

	case AgentCline:
		return filepath.Join(vscodeUserDir(goos, home, appData),
			"globalStorage", "saoudrizwan.claude-dev", "settings", "cline_mcp_settings.json")

	case AgentVisualStudio:
		return filepath.Join(home, ".mcp.json")
	}

	return ""
}

// vscodeUserDir returns the VS Code "User" settings directory.
func vscodeUserDir(goos, home, appData string) string {
	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Code", "User")
	case "windows":
		return filepath.Join(appData, "Code", "User")
	default:
		return filepath.Join(home, ".config", "Code", "User")
	}
}

// ConfigDir returns the directory containing an agent's config file.
// Used for install detection. Returns an empty string for unknown agents.
func ConfigDir(agent string) string {
	p := ConfigPath(agent)
	if p == "" {
		return ""
	}
	return filepath.Dir(p)
}

// roamingAppData returns %APPDATA%, falling back to the conventional
// location under the home directory when the variable is unset.
func roamingAppData() string {
	if v := os.Getenv("APPDATA"); v != "" {
		return v
	}
	home := Home()
	if home == "" {
		return ""
	}
	return filepath.Join(home, "AppData", "Roaming")
}
