package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/internal/paths"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	def, err := Get(paths.AgentClaude)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "claude_desktop_config.json")
	return NewManager(def, WithConfigPath(path))
}

func TestDefinitionsCoverAllAgents(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, len(paths.Agents()))
	for i, name := range paths.Agents() {
		assert.Equal(t, name, defs[i].Name)
		assert.NotNil(t, defs[i].Translator)
		assert.Equal(t, name, defs[i].Translator.Agent())
	}
}

func TestGetUnknownAgent(t *testing.T) {
	_, err := Get("emacs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownAgent))
}

func TestManagerLoadMissingFile(t *testing.T) {
	m := testManager(t)

	cfg, err := m.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Servers)
}

func TestManagerAddGetRemove(t *testing.T) {
	m := testManager(t)

	err := m.Add(&mcp.Server{
		Name:    "github",
		Command: "npx",
		Args:    []string{"-y", "@modelcontextprotocol/server-github"},
	})
	require.NoError(t, err)

	server, err := m.Get("github")
	require.NoError(t, err)
	assert.Equal(t, "npx", server.Command)
	assert.Equal(t, mcp.TransportStdio, server.EffectiveTransport())

	servers, err := m.List()
	require.NoError(t, err)
	require.Len(t, servers, 1)

	require.NoError(t, m.Remove("github"))

	_, err = m.Get("github")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	err = m.Remove("github")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestManagerAddRejectsInvalidServer(t *testing.T) {
	m := testManager(t)

	err := m.Add(&mcp.Server{Name: "broken"})
	require.Error(t, err)

	// Nothing was written.
	_, statErr := os.Stat(m.ConfigPath())
	assert.True(t, os.IsNotExist(statErr))
}

func TestManagerBackupHookRunsOncePerSave(t *testing.T) {
	var calls []string
	m := testManager(t)
	m.backupFn = func(agent, configPath string) error {
		calls = append(calls, agent)
		return nil
	}

	require.NoError(t, m.Add(&mcp.Server{Name: "a", Command: "a"}))
	require.NoError(t, m.Add(&mcp.Server{Name: "b", Command: "b"}))

	assert.Equal(t, []string{paths.AgentClaude, paths.AgentClaude}, calls)
}

func TestManagerMerge(t *testing.T) {
	m := testManager(t)
	require.NoError(t, m.Add(&mcp.Server{Name: "existing", Command: "old"}))

	incoming := []*mcp.Server{
		{Name: "existing", Command: "new"},
		{Name: "fresh", URL: "https://mcp.example.com/sse", Transport: mcp.TransportSSE},
	}

	result, err := m.Merge(incoming, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, result.Added)
	assert.Equal(t, []string{"existing"}, result.Skipped)

	server, err := m.Get("existing")
	require.NoError(t, err)
	assert.Equal(t, "old", server.Command)

	result, err = m.Merge(incoming, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"existing", "fresh"}, result.Added)
	assert.Empty(t, result.Skipped)

	server, err = m.Get("existing")
	require.NoError(t, err)
	assert.Equal(t, "new", server.Command)
}

func TestManagerSetDisabledRequiresNativeSupport(t *testing.T) {
	m := testManager(t)
	require.NoError(t, m.Add(&mcp.Server{Name: "srv", Command: "srv"}))

	err := m.SetDisabled("srv", true)
	require.Error(t, err)
}

func TestManagerSetDisabledCline(t *testing.T) {
	def, err := Get(paths.AgentCline)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "cline_mcp_settings.json")
	m := NewManager(def, WithConfigPath(path))

	require.NoError(t, m.Add(&mcp.Server{Name: "srv", Command: "srv"}))
	require.NoError(t, m.SetDisabled("srv", true))

	server, err := m.Get("srv")
	require.NoError(t, err)
	assert.True(t, server.Disabled)
}

func TestStashRoundTrip(t *testing.T) {
	s := NewStash(t.TempDir())

	server := &mcp.Server{
		Name:    "github",
		Command: "npx",
		Args:    []string{"-y", "@modelcontextprotocol/server-github"},
		Env:     map[string]string{"GITHUB_TOKEN": "${keychain:GITHUB_TOKEN}"},
	}
	require.NoError(t, s.Put(paths.AgentCursor, server))

	got, err := s.Get(paths.AgentCursor, "github")
	require.NoError(t, err)
	assert.Equal(t, server.Command, got.Command)
	assert.Equal(t, server.Args, got.Args)
	assert.Equal(t, server.Env, got.Env)

	// Entries are scoped per agent.
	_, err = s.Get(paths.AgentClaude, "github")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	servers, err := s.List(paths.AgentCursor)
	require.NoError(t, err)
	require.Len(t, servers, 1)

	require.NoError(t, s.Remove(paths.AgentCursor, "github"))
	require.NoError(t, s.Remove(paths.AgentCursor, "github")) // idempotent

	servers, err = s.List(paths.AgentCursor)
	require.NoError(t, err)
	assert.Empty(t, servers)
}

func TestDetect(t *testing.T) {
	def, err := Get(paths.AgentClaude)
	require.NoError(t, err)

	result := Detect(def)
	assert.Equal(t, paths.AgentClaude, result.Name)
	assert.Equal(t, def.ConfigPath(), result.ConfigPath)
	assert.Contains(t, []Status{StatusInstalled, StatusPartial, StatusNotInstalled}, result.Status)

	results := DetectAll()
	assert.Len(t, results, len(paths.Agents()))
}
