package security

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mcport/mcport/internal/mcp"
)

// Severity ranks scan findings.
type Severity string

const (
	SeverityHigh Severity = "high"
	SeverityWarn Severity = "warning"
	SeverityInfo Severity = "info"
)

// Finding reports one plaintext secret discovered in an agent config.
type Finding struct {
	Agent    string   `json:"agent"`
	Server   string   `json:"server"`
	Location string   `json:"location"` // e.g. "env.GITHUB_TOKEN", "headers.Authorization", "url"
	Reason   string   `json:"reason"`
	Severity Severity `json:"severity"`

	// Masked is the redacted value, safe to print.
	Masked string `json:"masked"`

	// Suggestion is the remediation command, when one applies.
	Suggestion string `json:"suggestion,omitempty"`
}

// ScanServer inspects a single canonical server for embedded secrets.
// Keychain placeholders are already safe and produce no findings.
func ScanServer(agent string, server *mcp.Server) []Finding {
	var findings []Finding

	envKeys := make([]string, 0, len(server.Env))
	for k := range server.Env {
		envKeys = append(envKeys, k)
	}
	sort.Strings(envKeys)

	for _, key := range envKeys {
		value := server.Env[key]
		if value == "" || IsPlaceholder(value) {
			continue
		}

		var reason string
		severity := SeverityHigh
		switch {
		case ContainsTokenPrefix(value):
			reason = "value matches a known token format"
		case ShouldMask(key):
			reason = fmt.Sprintf("key name %q suggests a secret", key)
		case LooksRandom(value):
			reason = "value has the entropy profile of a generated token"
			severity = SeverityWarn
		default:
			continue
		}

		findings = append(findings, Finding{
			Agent:      agent,
			Server:     server.Name,
			Location:   "env." + key,
			Reason:     reason,
			Severity:   severity,
			Masked:     MaskValue(value),
			Suggestion: fmt.Sprintf("mcport keychain set %s --server %s --env %s", key, server.Name, key),
		})
	}

	headerKeys := make([]string, 0, len(server.Headers))
	for k := range server.Headers {
		headerKeys = append(headerKeys, k)
	}
	sort.Strings(headerKeys)

	for _, key := range headerKeys {
		value := server.Headers[key]
		if value == "" || IsPlaceholder(value) {
			continue
		}
		if !headerCarriesCredential(key, value) {
			continue
		}
		findings = append(findings, Finding{
			Agent:    agent,
			Server:   server.Name,
			Location: "headers." + key,
			Reason:   fmt.Sprintf("header %q carries a credential", key),
			Severity: SeverityHigh,
			Masked:   MaskValue(credentialPart(value)),
		})
	}

	if server.URL != "" && MaskURL(server.URL) != server.URL {
		findings = append(findings, Finding{
			Agent:    agent,
			Server:   server.Name,
			Location: "url",
			Reason:   "URL embeds credentials",
			Severity: SeverityHigh,
			Masked:   MaskURL(server.URL),
		})
	}

	return findings
}

// ScanConfig inspects every server in a canonical config.
func ScanConfig(agent string, cfg *mcp.Config) []Finding {
	var findings []Finding
	for _, name := range cfg.Names() {
		findings = append(findings, ScanServer(agent, cfg.Servers[name])...)
	}
	return findings
}

func headerCarriesCredential(key, value string) bool {
	if ShouldMask(key) {
		return true
	}
	switch strings.ToLower(key) {
	case "authorization", "proxy-authorization", "x-api-key", "x-auth-token":
		return true
	}
	return ContainsTokenPrefix(credentialPart(value))
}

// credentialPart strips an auth scheme ("Bearer ", "Basic ") so masking
// and prefix checks see the token itself.
func credentialPart(value string) string {
	if i := strings.IndexByte(value, ' '); i > 0 {
		return value[i+1:]
	}
	return value
}
