package agent

import (
	"os"
	"path/filepath"
)

// Status describes the installation state of an agent on this system.
type Status string

const (
	// StatusInstalled means the agent's MCP config file exists.
	StatusInstalled Status = "installed"

	// StatusPartial means the agent's config directory exists but no
	// MCP config file has been written yet. The agent is likely
	// installed but has no servers configured.
	StatusPartial Status = "partial"

	// StatusNotInstalled means neither the config file nor its
	// directory exists.
	StatusNotInstalled Status = "not_installed"
)

// DetectionResult reports the state of one agent.
type DetectionResult struct {
	Name        string
	DisplayName string
	ConfigPath  string
	Status      Status
}

// Detect inspects the filesystem for a single agent definition.
func Detect(def *Definition) DetectionResult {
	result := DetectionResult{
		Name:        def.Name,
		DisplayName: def.DisplayName,
		ConfigPath:  def.ConfigPath(),
		Status:      StatusNotInstalled,
	}

	if _, err := os.Stat(result.ConfigPath); err == nil {
		result.Status = StatusInstalled
		return result
	}
	if _, err := os.Stat(filepath.Dir(result.ConfigPath)); err == nil {
		result.Status = StatusPartial
	}
	return result
}

// DetectAll inspects every supported agent.
func DetectAll() []DetectionResult {
	defs := Definitions()
	results := make([]DetectionResult, 0, len(defs))
	for _, def := range defs {
		results = append(results, Detect(def))
	}
	return results
}

// DetectInstalled returns results for agents whose config file exists.
func DetectInstalled() []DetectionResult {
	var installed []DetectionResult
	for _, result := range DetectAll() {
		if result.Status == StatusInstalled {
			installed = append(installed, result)
		}
	}
	return installed
}
