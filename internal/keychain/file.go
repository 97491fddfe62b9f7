package keychain

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/paths"
	"github.com/mcport/mcport/internal/security"
	"github.com/mcport/mcport/pkg/fileutil"
)

// PassphraseEnv names the environment variable holding the file-store
// passphrase.
const PassphraseEnv = "MCPORT_PASSPHRASE"

// FileStore backs secrets with a single encrypted file. It is the
// fallback for headless machines without an OS credential store. The
// whole entry map is sealed as one blob, so every mutation re-encrypts
// the file with a fresh salt and IV.
type FileStore struct {
	path       string
	passphrase string
}

// NewFileStore creates a file-backed store at path (empty uses the
// default under the data directory) sealed with passphrase.
func NewFileStore(path, passphrase string) (*FileStore, error) {
	if passphrase == "" {
		return nil, errors.Newf("file keychain requires a passphrase: set %s", PassphraseEnv)
	}
	if path == "" {
		path = filepath.Join(paths.DataDir(), "keychain.enc")
	}
	return &FileStore{path: path, passphrase: passphrase}, nil
}

// Path returns the encrypted file location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) load() (map[string]string, error) {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.Wrap(err, "reading keychain file")
	}

	plaintext, err := security.Decrypt(blob, s.passphrase)
	if err != nil {
		return nil, errors.Wrapf(err, "unlocking %s (wrong %s?)", s.path, PassphraseEnv)
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(plaintext, &entries); err != nil {
		return nil, errors.Wrap(err, "parsing keychain file")
	}
	return entries, nil
}

func (s *FileStore) save(entries map[string]string) error {
	plaintext, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "encoding keychain entries")
	}
	blob, err := security.Encrypt(plaintext, s.passphrase)
	if err != nil {
		return err
	}

	if err := paths.EnsureDir(filepath.Dir(s.path)); err != nil {
		return errors.Wrap(err, "creating data directory")
	}
	if err := fileutil.AtomicWriteFile(s.path, blob, 0o600); err != nil {
		return errors.Wrap(err, "writing keychain file")
	}
	return nil
}

// Set stores a secret.
func (s *FileStore) Set(name, value string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	entries, err := s.load()
	if err != nil {
		return err
	}
	entries[name] = value
	return s.save(entries)
}

// Get retrieves a secret.
func (s *FileStore) Get(name string) (string, error) {
	entries, err := s.load()
	if err != nil {
		return "", err
	}
	value, ok := entries[name]
	if !ok {
		return "", errors.Wrapf(ErrNotFound, "%q", name)
	}
	return value, nil
}

// Delete removes a secret.
func (s *FileStore) Delete(name string) error {
	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[name]; !ok {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	delete(entries, name)
	return s.save(entries)
}

// List returns all entry names, sorted.
func (s *FileStore) List() ([]string, error) {
	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
