package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcport/mcport/internal/agent"
	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/internal/security"
)

var (
	listJSON        bool
	listShowSecrets bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listShowSecrets, "show-secrets", false, "Reveal masked secrets in env values")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured MCP servers",
	Long: `List all configured MCP servers grouped by agent.

By default, lists servers for all detected agents. Use the --agent flag
to limit to specific agents.

Environment variables containing secrets (TOKEN, KEY, SECRET, PASSWORD,
AUTH, CREDENTIAL, API_KEY) are masked by default. Use --show-secrets to
reveal them. Keychain placeholders are always shown as-is, since they
contain no secret material.

Examples:
  # List all servers
  mcport list

  # List servers for a specific agent
  mcport list --agent claude

  # Output as JSON
  mcport list --json`,
	RunE: runList,
}

// listAgentOutput represents a single agent's servers in JSON output.
type listAgentOutput struct {
	Agent   string           `json:"agent"`
	Servers []serverInfoJSON `json:"servers"`
}

// serverInfoJSON represents an MCP server in JSON output format.
type serverInfoJSON struct {
	Name      string            `json:"name"`
	Transport string            `json:"transport"`
	Command   string            `json:"command,omitempty"`
	URL       string            `json:"url,omitempty"`
	Disabled  bool              `json:"disabled"`
	Stashed   bool              `json:"stashed,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

func runList(_ *cobra.Command, _ []string) error {
	return runListWithWriter(os.Stdout)
}

// runListWithWriter allows injecting a writer for testing.
func runListWithWriter(w io.Writer) error {
	managers, err := resolveManagers(nil)
	if err != nil {
		return err
	}

	stash := agent.NewStash("")
	if listJSON {
		return outputListJSON(w, managers, stash)
	}
	return outputListTabular(w, managers, stash)
}

func displayEnv(env map[string]string) map[string]string {
	if listShowSecrets {
		return env
	}
	return security.MaskSecrets(env)
}

// outputListJSON outputs servers in JSON format.
func outputListJSON(w io.Writer, managers []*agent.Manager, stash *agent.Stash) error {
	output := make([]listAgentOutput, 0, len(managers))

	for _, m := range managers {
		agentName := m.Definition().Name
		servers, err := m.List()
		if err != nil {
			return fmt.Errorf("listing servers for %s: %w", agentName, err)
		}
		stashed, err := stash.List(agentName)
		if err != nil {
			return fmt.Errorf("listing stash for %s: %w", agentName, err)
		}

		infos := make([]serverInfoJSON, 0, len(servers)+len(stashed))
		for _, s := range servers {
			infos = append(infos, serverInfoJSON{
				Name:      s.Name,
				Transport: s.EffectiveTransport(),
				Command:   s.Command,
				URL:       security.MaskURL(s.URL),
				Disabled:  s.Disabled,
				Env:       displayEnv(s.Env),
			})
		}
		for _, s := range stashed {
			infos = append(infos, serverInfoJSON{
				Name:      s.Name,
				Transport: s.EffectiveTransport(),
				Command:   s.Command,
				URL:       security.MaskURL(s.URL),
				Stashed:   true,
				Env:       displayEnv(s.Env),
			})
		}
		output = append(output, listAgentOutput{
			Agent:   agentName,
			Servers: infos,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// outputListTabular outputs servers in tabular format grouped by agent.
// Stashed (deactivated) servers are listed after the configured ones.
func outputListTabular(w io.Writer, managers []*agent.Manager, stash *agent.Stash) error {
	hasServers := false

	for i, m := range managers {
		agentName := m.Definition().Name
		servers, err := m.List()
		if err != nil {
			return fmt.Errorf("listing servers for %s: %w", agentName, err)
		}
		stashed, err := stash.List(agentName)
		if err != nil {
			return fmt.Errorf("listing stash for %s: %w", agentName, err)
		}

		if len(servers)+len(stashed) > 0 {
			hasServers = true
		}

		// Blank line between agents (but not before first)
		if i > 0 {
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "%sAgent: %s%s\n", colorCyan+colorBold, m.Definition().DisplayName, colorReset)

		if len(servers)+len(stashed) == 0 {
			fmt.Fprintf(w, "  %s(no MCP servers configured)%s\n", colorGray, colorReset)
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  %sNAME%s\t%sTRANSPORT%s\t%sCOMMAND/URL%s\t%sSTATUS%s\n",
			colorBold, colorReset,
			colorBold, colorReset,
			colorBold, colorReset,
			colorBold, colorReset)

		for _, s := range servers {
			status := "enabled"
			statusColor := colorGreen
			if s.Disabled {
				status = "disabled"
				statusColor = colorGray
			}
			writeListRow(tw, s, status, statusColor)
		}
		for _, s := range stashed {
			writeListRow(tw, s, "stashed", colorYellow)
		}
		tw.Flush()
	}

	if !hasServers {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No MCP servers configured")
	}

	return nil
}

func writeListRow(tw *tabwriter.Writer, s *mcp.Server, status, statusColor string) {
	endpoint := s.Command
	if s.URL != "" {
		endpoint = security.MaskURL(s.URL)
	}
	endpoint = truncate(endpoint, 50)

	fmt.Fprintf(tw, "  %s%s%s\t%s\t%s\t%s%s%s\n",
		colorGreen, s.Name, colorReset,
		s.EffectiveTransport(),
		endpoint,
		statusColor, status, colorReset)
}
