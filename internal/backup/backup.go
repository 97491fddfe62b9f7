// Package backup snapshots agent config files before destructive writes
// and restores them on demand.
//
// Layout: <backups>/<agent>/<id>/ holds a copy of each config file plus
// a manifest.json recording original paths, permissions, and SHA-256
// digests. The id is a UTC timestamp, so lexical order is creation
// order.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/paths"
	"github.com/mcport/mcport/pkg/fileutil"
)

const manifestName = "manifest.json"

// DefaultRetention is how many backups per agent Prune keeps when the
// config does not say otherwise.
const DefaultRetention = 10

// FileRecord describes one file inside a backup.
type FileRecord struct {
	// RelPath is the file's name inside the backup directory.
	RelPath string `json:"rel_path"`

	// OriginalPath is where the file came from and where Restore puts
	// it back.
	OriginalPath string `json:"original_path"`

	SHA256 string      `json:"sha256"`
	Mode   os.FileMode `json:"mode"`
	Size   int64       `json:"size"`
}

// Manifest describes one backup.
type Manifest struct {
	ID        string       `json:"id"`
	Agent     string       `json:"agent"`
	CreatedAt time.Time    `json:"created_at"`
	Files     []FileRecord `json:"files"`
}

// Manager creates, lists, restores, and prunes backups.
type Manager struct {
	dir       string
	retention int
	now       func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithDir overrides the backup root directory.
func WithDir(dir string) Option {
	return func(m *Manager) { m.dir = dir }
}

// WithRetention sets how many backups per agent Prune keeps.
func WithRetention(n int) Option {
	return func(m *Manager) { m.retention = n }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a backup manager rooted at the default backup
// directory unless overridden.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		dir:       paths.BackupDir(),
		retention: DefaultRetention,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the backup root directory.
func (m *Manager) Dir() string { return m.dir }

func (m *Manager) agentDir(agent string) string {
	return filepath.Join(m.dir, agent)
}

// Backup snapshots the given files for an agent. Files that do not
// exist are skipped; if none exist, no backup is created and the
// returned manifest is nil.
func (m *Manager) Backup(agent string, files ...string) (*Manifest, error) {
	var existing []string
	for _, path := range files {
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}
	if len(existing) == 0 {
		return nil, nil
	}

	id := m.now().UTC().Format("20060102-150405")
	dir := filepath.Join(m.agentDir(agent), id)
	for i := 1; ; i++ {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			break
		}
		dir = filepath.Join(m.agentDir(agent), fmt.Sprintf("%s.%d", id, i))
	}
	if err := paths.EnsureDir(dir); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	manifest := &Manifest{
		ID:        filepath.Base(dir),
		Agent:     agent,
		CreatedAt: m.now().UTC(),
	}
	for _, path := range existing {
		record, err := copyIn(path, dir)
		if err != nil {
			return nil, errors.Wrapf(err, "backing up %s", path)
		}
		manifest.Files = append(manifest.Files, *record)
	}

	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, manifestName), manifest); err != nil {
		return nil, errors.Wrap(err, "writing manifest")
	}
	return manifest, nil
}

// copyIn copies src into dir, hashing it along the way.
func copyIn(src, dir string) (*FileRecord, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return nil, err
	}

	relPath := filepath.Base(src)
	out, err := os.OpenFile(filepath.Join(dir, relPath), os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return nil, err
	}
	defer out.Close()

	hash := sha256.New()
	size, err := io.Copy(io.MultiWriter(out, hash), in)
	if err != nil {
		return nil, err
	}
	if err := out.Close(); err != nil {
		return nil, err
	}

	return &FileRecord{
		RelPath:      relPath,
		OriginalPath: src,
		SHA256:       hex.EncodeToString(hash.Sum(nil)),
		Mode:         info.Mode().Perm(),
		Size:         size,
	}, nil
}

// Get loads the manifest for one backup.
func (m *Manager) Get(agent, id string) (*Manifest, error) {
	raw, err := fileutil.ReadFileWithLimit(filepath.Join(m.agentDir(agent), id, manifestName), fileutil.MaxFileSize)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(errors.ErrNotFound, "backup %s/%s", agent, id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, errors.Wrapf(err, "parsing manifest for backup %s/%s", agent, id)
	}
	return &manifest, nil
}

// List returns all manifests for an agent, newest first.
func (m *Manager) List(agent string) ([]*Manifest, error) {
	entries, err := os.ReadDir(m.agentDir(agent))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	var manifests []*Manifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(agent, entry.Name())
		if err != nil {
			// A directory without a readable manifest is a partial
			// backup from an interrupted run; skip it.
			continue
		}
		manifests = append(manifests, manifest)
	}
	sort.Slice(manifests, func(i, j int) bool { return manifests[i].ID > manifests[j].ID })
	return manifests, nil
}

// Latest returns the newest backup for an agent, or ErrNotFound.
func (m *Manager) Latest(agent string) (*Manifest, error) {
	manifests, err := m.List(agent)
	if err != nil {
		return nil, err
	}
	if len(manifests) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "backups for %s", agent)
	}
	return manifests[0], nil
}

// Restore writes every file in a backup back to its original path,
// verifying digests first so a corrupted snapshot is never restored.
func (m *Manager) Restore(agent, id string) (*Manifest, error) {
	manifest, err := m.Get(agent, id)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(m.agentDir(agent), id)

	// Verify before touching anything.
	contents := make(map[string][]byte, len(manifest.Files))
	for _, record := range manifest.Files {
		data, err := os.ReadFile(filepath.Join(dir, record.RelPath))
		if err != nil {
			return nil, errors.Wrapf(err, "reading backup file %s", record.RelPath)
		}
		sum := sha256.Sum256(data)
		if hex.EncodeToString(sum[:]) != record.SHA256 {
			return nil, errors.Newf("backup %s/%s is corrupt: %s digest mismatch", agent, id, record.RelPath)
		}
		contents[record.RelPath] = data
	}

	for _, record := range manifest.Files {
		if err := os.MkdirAll(filepath.Dir(record.OriginalPath), 0o755); err != nil {
			return nil, errors.Wrap(err, "creating target directory")
		}
		if err := fileutil.AtomicWriteFile(record.OriginalPath, contents[record.RelPath], record.Mode); err != nil {
			return nil, errors.Wrapf(err, "restoring %s", record.OriginalPath)
		}
	}
	return manifest, nil
}

// Prune deletes backups beyond the retention count, oldest first.
// Returns the ids it removed.
func (m *Manager) Prune(agent string) ([]string, error) {
	if m.retention <= 0 {
		return nil, nil
	}
	manifests, err := m.List(agent)
	if err != nil {
		return nil, err
	}
	if len(manifests) <= m.retention {
		return nil, nil
	}

	var pruned []string
	for _, manifest := range manifests[m.retention:] {
		if err := os.RemoveAll(filepath.Join(m.agentDir(agent), manifest.ID)); err != nil {
			return pruned, errors.Wrapf(err, "pruning backup %s", manifest.ID)
		}
		pruned = append(pruned, manifest.ID)
	}
	return pruned, nil
}
