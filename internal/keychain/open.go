package keychain

import (
	"os"

	"github.com/mcport/mcport/internal/errors"
)

var (
	_ Store = (*SystemStore)(nil)
	_ Store = (*FileStore)(nil)
)

// Backend selects a keychain implementation.
const (
	BackendAuto   = "auto"
	BackendSystem = "system"
	BackendFile   = "file"
)

// Open returns a store for the configured backend. BackendAuto prefers
// the OS credential store and falls back to the encrypted file when the
// system store is unreachable and a passphrase is set.
func Open(backend, filePath string) (Store, error) {
	switch backend {
	case BackendSystem:
		return NewSystemStore(""), nil
	case BackendFile:
		return NewFileStore(filePath, os.Getenv(PassphraseEnv))
	case BackendAuto, "":
		system := NewSystemStore("")
		if system.Available() {
			return system, nil
		}
		if os.Getenv(PassphraseEnv) != "" {
			return NewFileStore(filePath, os.Getenv(PassphraseEnv))
		}
		return nil, errors.Newf("no system credential store available: set %s to use the encrypted file backend", PassphraseEnv)
	default:
		return nil, errors.Newf("unknown keychain backend %q (use system, file, or auto)", backend)
	}
}
