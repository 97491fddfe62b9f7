package doctor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/mcport/mcport/internal/agent"
	"github.com/mcport/mcport/internal/backup"
	"github.com/mcport/mcport/internal/security"
	"github.com/mcport/mcport/pkg/fileutil"
)

// AgentDetectionCheck reports which agents are present on this system.
type AgentDetectionCheck struct{}

func (AgentDetectionCheck) Name() string     { return "agent-detection" }
func (AgentDetectionCheck) Category() string { return "agent" }

func (c AgentDetectionCheck) Run(ctx context.Context) []*CheckResult {
	var results []*CheckResult
	for _, detection := range agent.DetectAll() {
		result := &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Details: map[string]any{
				"agent":       detection.Name,
				"config_path": detection.ConfigPath,
			},
		}
		switch detection.Status {
		case agent.StatusInstalled:
			result.Status = SeverityPass
			result.Message = fmt.Sprintf("%s: config found at %s", detection.DisplayName, detection.ConfigPath)
		case agent.StatusPartial:
			result.Status = SeverityInfo
			result.Message = fmt.Sprintf("%s: installed but no MCP config yet", detection.DisplayName)
		default:
			result.Status = SeverityInfo
			result.Message = fmt.Sprintf("%s: not installed", detection.DisplayName)
		}
		results = append(results, result)
	}
	return results
}

// ConfigSyntaxCheck verifies each installed agent's config parses under
// its schema.
type ConfigSyntaxCheck struct {
	Managers []*agent.Manager
}

func (ConfigSyntaxCheck) Name() string     { return "config-syntax" }
func (ConfigSyntaxCheck) Category() string { return "config" }

func (c ConfigSyntaxCheck) Run(ctx context.Context) []*CheckResult {
	var results []*CheckResult
	for _, m := range c.Managers {
		name := m.Definition().Name
		result := &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Details:  map[string]any{"agent": name, "config_path": m.ConfigPath()},
		}

		cfg, err := m.Load()
		if err != nil {
			result.Status = SeverityError
			result.Message = fmt.Sprintf("%s: %v", name, err)
			result.FixHint = fmt.Sprintf("Restore a known-good copy: mcport backup restore --agent %s", name)
		} else {
			result.Status = SeverityPass
			result.Message = fmt.Sprintf("%s: %d server(s) parse cleanly", name, len(cfg.Servers))
		}
		results = append(results, result)
	}
	return results
}

// RoundTripCheck verifies that translating a config out of and back
// into the canonical model is lossless, so a future write will not
// destroy data.
type RoundTripCheck struct {
	Managers []*agent.Manager
}

func (RoundTripCheck) Name() string     { return "round-trip" }
func (RoundTripCheck) Category() string { return "config" }

func (c RoundTripCheck) Run(ctx context.Context) []*CheckResult {
	var results []*CheckResult
	for _, m := range c.Managers {
		name := m.Definition().Name
		result := &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Details:  map[string]any{"agent": name},
		}

		cfg, err := m.Load()
		if err != nil {
			// config-syntax already reports the parse failure.
			continue
		}

		translator := m.Definition().Translator
		encoded, err := translator.FromCanonical(cfg)
		if err != nil {
			result.Status = SeverityError
			result.Message = fmt.Sprintf("%s: config cannot be re-encoded: %v", name, err)
			results = append(results, result)
			continue
		}
		reparsed, err := translator.ToCanonical(encoded)
		if err != nil {
			result.Status = SeverityError
			result.Message = fmt.Sprintf("%s: re-encoded config does not parse: %v", name, err)
			results = append(results, result)
			continue
		}

		before, _ := json.Marshal(cfg)
		after, _ := json.Marshal(reparsed)
		if !bytes.Equal(before, after) {
			result.Status = SeverityWarning
			result.Message = fmt.Sprintf("%s: round-trip is not lossless", name)
			result.FixHint = "Unrecognized schema constructs would be dropped on the next write"
		} else {
			result.Status = SeverityPass
			result.Message = fmt.Sprintf("%s: round-trip is lossless", name)
		}
		results = append(results, result)
	}
	return results
}

// SecretsCheck scans configs for plaintext credentials.
type SecretsCheck struct {
	Managers []*agent.Manager
}

func (SecretsCheck) Name() string     { return "plaintext-secrets" }
func (SecretsCheck) Category() string { return "secrets" }

func (c SecretsCheck) Run(ctx context.Context) []*CheckResult {
	var results []*CheckResult
	for _, m := range c.Managers {
		name := m.Definition().Name
		cfg, err := m.Load()
		if err != nil {
			continue
		}

		findings := security.ScanConfig(name, cfg)
		if len(findings) == 0 {
			results = append(results, &CheckResult{
				Name:     c.Name(),
				Category: c.Category(),
				Status:   SeverityPass,
				Message:  fmt.Sprintf("%s: no plaintext secrets", name),
				Details:  map[string]any{"agent": name},
			})
			continue
		}

		for _, finding := range findings {
			results = append(results, &CheckResult{
				Name:     c.Name(),
				Category: c.Category(),
				Status:   SeverityWarning,
				Message: fmt.Sprintf("%s: %s/%s: %s (%s)",
					name, finding.Server, finding.Location, finding.Reason, finding.Masked),
				Details: map[string]any{"agent": name, "server": finding.Server},
				FixHint: finding.Suggestion,
			})
		}
	}
	return results
}

// PermissionsCheck warns when a config containing secrets is readable
// by other users. Skipped on Windows, where POSIX bits are meaningless.
type PermissionsCheck struct {
	Managers []*agent.Manager
}

func (PermissionsCheck) Name() string     { return "file-permissions" }
func (PermissionsCheck) Category() string { return "secrets" }

func (c PermissionsCheck) Run(ctx context.Context) []*CheckResult {
	if runtime.GOOS == "windows" {
		return nil
	}

	var results []*CheckResult
	for _, m := range c.Managers {
		name := m.Definition().Name
		info, err := os.Stat(m.ConfigPath())
		if err != nil {
			continue
		}

		result := &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Details:  map[string]any{"agent": name, "mode": info.Mode().Perm().String()},
		}
		if info.Mode().Perm()&0o002 != 0 {
			result.Status = SeverityError
			result.Message = fmt.Sprintf("%s: %s is world-writable", name, m.ConfigPath())
			result.FixHint = fmt.Sprintf("chmod 600 %s", m.ConfigPath())
		} else if info.Mode().Perm()&0o044 != 0 && hasSecrets(m) {
			result.Status = SeverityWarning
			result.Message = fmt.Sprintf("%s: %s holds secrets but is readable by others", name, m.ConfigPath())
			result.FixHint = fmt.Sprintf("chmod 600 %s", m.ConfigPath())
		} else {
			result.Status = SeverityPass
			result.Message = fmt.Sprintf("%s: permissions ok (%s)", name, info.Mode().Perm())
		}
		results = append(results, result)
	}
	return results
}

func hasSecrets(m *agent.Manager) bool {
	cfg, err := m.Load()
	if err != nil {
		return false
	}
	return len(security.ScanConfig(m.Definition().Name, cfg)) > 0
}

// BackupDirCheck verifies the backup directory is usable.
type BackupDirCheck struct {
	Manager *backup.Manager
}

func (BackupDirCheck) Name() string     { return "backup-dir" }
func (BackupDirCheck) Category() string { return "backup" }

func (c BackupDirCheck) Run(ctx context.Context) []*CheckResult {
	dir := c.Manager.Dir()
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"dir": dir},
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("backup directory %s cannot be created: %v", dir, err)
		return []*CheckResult{result}
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("backup directory %s is not writable: %v", dir, err)
		return []*CheckResult{result}
	}
	probe.Close()
	os.Remove(probe.Name())

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("backup directory %s is writable", dir)
	return []*CheckResult{result}
}

// FileSizeCheck warns about configs near the parser's size cap.
type FileSizeCheck struct {
	Managers []*agent.Manager
}

func (FileSizeCheck) Name() string     { return "config-size" }
func (FileSizeCheck) Category() string { return "config" }

func (c FileSizeCheck) Run(ctx context.Context) []*CheckResult {
	var results []*CheckResult
	for _, m := range c.Managers {
		info, err := os.Stat(m.ConfigPath())
		if err != nil {
			continue
		}
		if info.Size() < fileutil.MaxFileSize/2 {
			continue
		}
		results = append(results, &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message: fmt.Sprintf("%s: config is %d bytes, parser cap is %d",
				m.Definition().Name, info.Size(), int64(fileutil.MaxFileSize)),
			Details: map[string]any{"agent": m.Definition().Name},
		})
	}
	return results
}
