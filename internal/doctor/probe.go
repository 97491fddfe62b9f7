package doctor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/mcport/mcport/internal/agent"
	"github.com/mcport/mcport/internal/mcp"
)

// probeConcurrency bounds how many server processes a probe run spawns
// at once.
const probeConcurrency = 4

// DefaultProbeTimeout bounds the initialize handshake per server.
const DefaultProbeTimeout = 10 * time.Second

// ProbeCheck launches each configured stdio server and performs the MCP
// initialize handshake, verifying the entry actually points at a
// working server. Remote servers are skipped: reaching out to every
// configured URL is not something a diagnostic should do by default.
type ProbeCheck struct {
	Managers []*agent.Manager
	Timeout  time.Duration
}

func (ProbeCheck) Name() string     { return "server-probe" }
func (ProbeCheck) Category() string { return "probe" }

type probeTarget struct {
	agent  string
	server *mcp.Server
}

func (c ProbeCheck) Run(ctx context.Context) []*CheckResult {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	// Probe each distinct command once even when several agents share
	// the server.
	seen := make(map[string]bool)
	var targets []probeTarget
	for _, m := range c.Managers {
		cfg, err := m.Load()
		if err != nil {
			continue
		}
		for _, name := range cfg.Names() {
			server := cfg.Servers[name]
			if server.IsRemote() || server.Disabled {
				continue
			}
			key := server.Command + "\x00" + fmt.Sprint(server.Args)
			if seen[key] {
				continue
			}
			seen[key] = true
			targets = append(targets, probeTarget{agent: m.Definition().Name, server: server})
		}
	}

	results := make([]*CheckResult, 0, len(targets))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)
	for _, target := range targets {
		target := target
		g.Go(func() error {
			result := c.probe(gctx, target, timeout)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	sort.Slice(results, func(i, j int) bool {
		return results[i].Details["server"].(string) < results[j].Details["server"].(string)
	})
	return results
}

func (c ProbeCheck) probe(ctx context.Context, target probeTarget, timeout time.Duration) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details: map[string]any{
			"agent":  target.agent,
			"server": target.server.Name,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	env := make([]string, 0, len(target.server.Env))
	for _, k := range sortedKeys(target.server.Env) {
		env = append(env, k+"="+target.server.Env[k])
	}

	client, err := mcpclient.NewStdioMCPClient(target.server.Command, env, target.server.Args...)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%s: failed to start: %v", target.server.Name, err)
		result.FixHint = fmt.Sprintf("Check that %q is installed and on PATH", target.server.Command)
		return result
	}
	defer client.Close()

	req := mcpgo.InitializeRequest{}
	req.Params.ProtocolVersion = mcpgo.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcpgo.Implementation{Name: "mcport", Version: "doctor"}

	info, err := client.Initialize(ctx, req)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%s: initialize handshake failed: %v", target.server.Name, err)
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%s: %s %s responded",
		target.server.Name, info.ServerInfo.Name, info.ServerInfo.Version)
	result.Details["server_name"] = info.ServerInfo.Name
	result.Details["server_version"] = info.ServerInfo.Version
	return result
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
