package keychain

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/zalando/go-keyring"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/paths"
	"github.com/mcport/mcport/pkg/fileutil"
)

// SystemStore backs secrets with the OS credential store. Credential
// APIs cannot enumerate entries by service on every platform, so the
// store maintains a name index on disk. The index holds only names,
// never secret material.
type SystemStore struct {
	indexPath string
}

// NewSystemStore creates a system-backed store. indexDir overrides the
// index location; empty uses the app config directory.
func NewSystemStore(indexDir string) *SystemStore {
	if indexDir == "" {
		indexDir = paths.AppConfigDir()
	}
	return &SystemStore{indexPath: filepath.Join(indexDir, "keychain-index.json")}
}

// Available reports whether the OS credential store can be reached.
func (s *SystemStore) Available() bool {
	// A read against a nonexistent entry exercises the backend without
	// touching real data. Only a transport-level failure means the
	// store is unreachable.
	_, err := keyring.Get(Service, "mcport-availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

func (s *SystemStore) readIndex() ([]string, error) {
	var names []string
	err := fileutil.ReadJSON(s.indexPath, &names)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading keychain index")
	}
	return names, nil
}

func (s *SystemStore) writeIndex(names []string) error {
	sort.Strings(names)
	if err := paths.EnsureDir(filepath.Dir(s.indexPath)); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteJSON(s.indexPath, names); err != nil {
		return errors.Wrap(err, "writing keychain index")
	}
	return nil
}

// Set stores a secret in the OS credential store and records its name
// in the index.
func (s *SystemStore) Set(name, value string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := keyring.Set(Service, name, value); err != nil {
		return errors.Wrapf(err, "storing keychain entry %q", name)
	}

	names, err := s.readIndex()
	if err != nil {
		return err
	}
	for _, existing := range names {
		if existing == name {
			return nil
		}
	}
	return s.writeIndex(append(names, name))
}

// Get retrieves a secret from the OS credential store.
func (s *SystemStore) Get(name string) (string, error) {
	value, err := keyring.Get(Service, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", errors.Wrapf(ErrNotFound, "%q", name)
		}
		return "", errors.Wrapf(err, "reading keychain entry %q", name)
	}
	return value, nil
}

// Delete removes a secret and its index record.
func (s *SystemStore) Delete(name string) error {
	err := keyring.Delete(Service, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.Wrapf(ErrNotFound, "%q", name)
		}
		return errors.Wrapf(err, "deleting keychain entry %q", name)
	}

	names, err := s.readIndex()
	if err != nil {
		return err
	}
	kept := names[:0]
	for _, existing := range names {
		if existing != name {
			kept = append(kept, existing)
		}
	}
	return s.writeIndex(kept)
}

// List returns the names of all stored entries.
func (s *SystemStore) List() ([]string, error) {
	names, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
