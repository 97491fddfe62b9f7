// Package security provides secret detection, masking, and the symmetric
// encryption used by the file-backed keychain fallback.
package security

import (
	"net/url"
	"strings"
)

// SecretKeyPatterns contains substrings that indicate a key likely holds
// sensitive data. Keys are matched case-insensitively.
var SecretKeyPatterns = []string{
	"TOKEN",
	"KEY",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"API_KEY",
	"PRIVATE",
}

// TokenPrefixes contains known API token prefixes that mark a value as
// sensitive regardless of its key name.
var TokenPrefixes = []string{
	"ghp_",  // GitHub personal access token
	"gho_",  // GitHub OAuth token
	"ghu_",  // GitHub user-to-server token
	"ghs_",  // GitHub server-to-server token
	"ghr_",  // GitHub refresh token
	"sk-",   // OpenAI/Anthropic keys
	"pk-",   // Public keys that shouldn't be exposed
	"AKIA",  // AWS access key prefix
	"xoxb-", // Slack bot token
	"xoxp-", // Slack user token
	"xoxa-", // Slack app token
	"xoxr-", // Slack refresh token
}

// PlaceholderPrefix marks env values that reference the keychain instead
// of embedding a secret, e.g. "${keychain:GITHUB_TOKEN}".
const PlaceholderPrefix = "${keychain:"

// IsPlaceholder reports whether a value is a keychain reference rather
// than a literal secret.
func IsPlaceholder(value string) bool {
	return strings.HasPrefix(value, PlaceholderPrefix) && strings.HasSuffix(value, "}")
}

// PlaceholderName extracts the keychain entry name from a placeholder.
// Returns "" if the value is not a placeholder.
func PlaceholderName(value string) string {
	if !IsPlaceholder(value) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(value, PlaceholderPrefix), "}")
}

// Placeholder builds the keychain reference for an entry name.
func Placeholder(name string) string {
	return PlaceholderPrefix + name + "}"
}

// MaskSecrets masks sensitive values in an environment variable map.
// Keys matching SecretKeyPatterns or values matching TokenPrefixes are
// masked; keychain placeholders pass through untouched since they carry
// no secret material. Returns a new map.
func MaskSecrets(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}

	masked := make(map[string]string, len(env))
	for k, v := range env {
		if IsPlaceholder(v) {
			masked[k] = v
			continue
		}
		if ShouldMask(k) || ContainsTokenPrefix(v) {
			masked[k] = MaskValue(v)
		} else {
			masked[k] = v
		}
	}
	return masked
}

// MaskValue masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// MaskURL redacts credentials embedded in URLs (user:pass@host).
// If the URL cannot be parsed, it is returned unchanged.
func MaskURL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if parsed.User == nil {
		return rawURL
	}

	password, hasPassword := parsed.User.Password()
	if !hasPassword || password == "" {
		return rawURL
	}

	parsed.User = url.UserPassword(parsed.User.Username(), MaskValue(password))
	return parsed.String()
}

// ShouldMask returns true if the key name suggests sensitive data.
// Matching is case-insensitive.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range SecretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix returns true if the value starts with a known token
// prefix. This catches values that are clearly tokens even when the key
// name gives nothing away (e.g. "MY_VAR=ghp_abc123").
func ContainsTokenPrefix(value string) bool {
	for _, prefix := range TokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
