// Package keychain stores secrets referenced by config placeholders.
//
// The primary backend is the operating system credential store (macOS
// Keychain, Windows Credential Manager, Secret Service on Linux). An
// encrypted-file backend serves headless machines where no system store
// is available.
package keychain

import (
	"regexp"

	"github.com/mcport/mcport/internal/errors"
)

// Service is the credential-store service name all entries live under.
const Service = "mcport"

// ErrNotFound is returned when a named entry does not exist.
var ErrNotFound = errors.Wrap(errors.ErrNotFound, "keychain entry")

// Store is a named secret store.
type Store interface {
	// Set stores a secret, replacing any existing entry with the name.
	Set(name, value string) error

	// Get retrieves a secret. Returns ErrNotFound for missing entries.
	Get(name string) (string, error)

	// Delete removes a secret. Returns ErrNotFound for missing entries.
	Delete(name string) error

	// List returns all entry names, sorted.
	List() ([]string, error)
}

var validName = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_./-]*$`)

// ValidateName rejects entry names that cannot round-trip through
// placeholders or credential-store APIs.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("keychain entry name must not be empty")
	}
	if !validName.MatchString(name) {
		return errors.Newf("invalid keychain entry name %q: use letters, digits, '_', '.', '-', '/'", name)
	}
	return nil
}

// EntryName builds the conventional entry name for a server's env var,
// e.g. "github/GITHUB_TOKEN".
func EntryName(server, envVar string) string {
	if server == "" {
		return envVar
	}
	return server + "/" + envVar
}
