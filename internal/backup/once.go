package backup

import "sync"

// A single mcport invocation may write an agent's config several times
// (import, merge, then prune). Only the state before the first write is
// worth keeping, so EnsureBackedUp snapshots each agent at most once
// per process.
var (
	onceMu sync.Mutex
	onces  = make(map[string]*sync.Once)
)

// EnsureBackedUp backs up the agent's config files on first call for
// that agent in this process; later calls are no-ops. It also prunes
// old backups after a successful snapshot.
func (m *Manager) EnsureBackedUp(agent string, files ...string) error {
	onceMu.Lock()
	once, ok := onces[agent]
	if !ok {
		once = &sync.Once{}
		onces[agent] = once
	}
	onceMu.Unlock()

	var err error
	once.Do(func() {
		if _, err = m.Backup(agent, files...); err != nil {
			return
		}
		_, err = m.Prune(agent)
	})
	return err
}

// ResetOnce clears the per-agent backup guard. Tests only.
func ResetOnce() {
	onceMu.Lock()
	defer onceMu.Unlock()
	onces = make(map[string]*sync.Once)
}
