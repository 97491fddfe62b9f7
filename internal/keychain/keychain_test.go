package keychain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcport/mcport/internal/errors"
)

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("GITHUB_TOKEN"))
	assert.NoError(t, ValidateName("github/GITHUB_TOKEN"))
	assert.NoError(t, ValidateName("server-1.prod"))
	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("bad name"))
	assert.Error(t, ValidateName("-leading"))
	assert.Error(t, ValidateName("${keychain:X}"))
}

func TestEntryName(t *testing.T) {
	assert.Equal(t, "github/GITHUB_TOKEN", EntryName("github", "GITHUB_TOKEN"))
	assert.Equal(t, "GITHUB_TOKEN", EntryName("", "GITHUB_TOKEN"))
}

func testFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "keychain.enc"), "test passphrase")
	require.NoError(t, err)
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := testFileStore(t)

	require.NoError(t, store.Set("github/GITHUB_TOKEN", "ghp_abcdef1234567890"))
	require.NoError(t, store.Set("openai/API_KEY", "sk-live-xyz"))

	value, err := store.Get("github/GITHUB_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "ghp_abcdef1234567890", value)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"github/GITHUB_TOKEN", "openai/API_KEY"}, names)

	require.NoError(t, store.Delete("github/GITHUB_TOKEN"))
	_, err = store.Get("github/GITHUB_TOKEN")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = store.Delete("github/GITHUB_TOKEN")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStoreCiphertextOnDisk(t *testing.T) {
	store := testFileStore(t)
	require.NoError(t, store.Set("TOKEN", "ghp_supersecretvalue"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "ghp_supersecretvalue")
	assert.NotContains(t, string(raw), "TOKEN")

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	if info.Mode().Perm() != 0o600 {
		t.Skipf("filesystem does not preserve 0600 (got %v)", info.Mode().Perm())
	}
}

func TestFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keychain.enc")
	store, err := NewFileStore(path, "right")
	require.NoError(t, err)
	require.NoError(t, store.Set("TOKEN", "value"))

	wrong, err := NewFileStore(path, "wrong")
	require.NoError(t, err)
	_, err = wrong.Get("TOKEN")
	require.Error(t, err)
}

func TestFileStoreRequiresPassphrase(t *testing.T) {
	_, err := NewFileStore("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), PassphraseEnv)
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	store := testFileStore(t)
	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("vault", "")
	require.Error(t, err)
}

func TestOpenFileBackend(t *testing.T) {
	t.Setenv(PassphraseEnv, "pass")
	store, err := Open(BackendFile, filepath.Join(t.TempDir(), "kc.enc"))
	require.NoError(t, err)
	_, ok := store.(*FileStore)
	assert.True(t, ok)
}
