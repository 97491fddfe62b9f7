package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcport/mcport/internal/agent"
	"github.com/mcport/mcport/internal/agent/claude"
	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/internal/paths"
	"github.com/mcport/mcport/pkg/fileutil"
)

var (
	importFrom      string
	importTo        []string
	importOverwrite bool
	importDryRun    bool
	importServers   []string
)

func init() {
	importCmd.Flags().StringVar(&importFrom, "from", "",
		"Source: an agent name or a path to an mcpServers JSON file (required)")
	importCmd.Flags().StringSliceVar(&importTo, "to", nil,
		"Target agent(s); shorthand for --agent on this command")
	importCmd.Flags().BoolVar(&importOverwrite, "overwrite", false,
		"Replace servers that already exist on the target")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false,
		"Show what would change without writing")
	importCmd.Flags().StringSliceVar(&importServers, "server", nil,
		"Import only the named server(s)")
	_ = importCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import --from <source> [--to <agents>]",
	Short: "Import MCP servers from another agent or a file",
	Long: `Import servers into the target agents.

The source is either an agent name, in which case its config is read
through that agent's schema, or a path to a JSON file using the common
mcpServers layout. Existing servers are kept unless --overwrite is
given.`,
	Example: `  # Copy everything Claude Desktop has into Cursor
  mcport import --from claude --agent cursor

  # Import from an exported file, replacing duplicates
  mcport import --from ./team-servers.json --overwrite

  # Preview only
  mcport import --from claude --agent vscode --dry-run`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func runImport(_ *cobra.Command, _ []string) error {
	servers, sourceLabel, err := loadImportSource(importFrom)
	if err != nil {
		return err
	}
	if len(importServers) > 0 {
		servers, err = filterServers(servers, importServers)
		if err != nil {
			return err
		}
	}
	if len(servers) == 0 {
		fmt.Printf("Nothing to import from %s\n", sourceLabel)
		return nil
	}

	managers, err := resolveManagers(importTo)
	if err != nil {
		return err
	}

	for _, m := range managers {
		agentName := m.Definition().Name
		if agentName == importFrom {
			// Importing an agent into itself is a no-op.
			continue
		}

		if importDryRun {
			cfg, err := m.Load()
			if err != nil {
				return err
			}
			for _, s := range servers {
				if _, exists := cfg.Servers[s.Name]; exists && !importOverwrite {
					fmt.Printf("%s: would skip %s (exists)\n", agentName, s.Name)
				} else {
					fmt.Printf("%s: would import %s\n", agentName, s.Name)
				}
			}
			continue
		}

		result, err := m.Merge(servers, importOverwrite)
		if err != nil {
			return err
		}
		fmt.Printf("%s✓%s %s: imported %d server(s) from %s",
			colorGreen, colorReset, agentName, len(result.Added), sourceLabel)
		if len(result.Skipped) > 0 {
			fmt.Printf(" (skipped existing: %s)", strings.Join(result.Skipped, ", "))
		}
		fmt.Println()
	}
	return nil
}

// loadImportSource reads servers from an agent or a file.
func loadImportSource(source string) ([]*mcp.Server, string, error) {
	if paths.ValidAgent(source) {
		def, err := agent.Get(source)
		if err != nil {
			return nil, "", err
		}
		m := agent.NewManager(def, agent.WithConfigPath(currentConfig().ConfigPathFor(source)))
		servers, err := m.List()
		if err != nil {
			return nil, "", err
		}
		return servers, source, nil
	}

	// Treat the source as a file in the common mcpServers layout.
	raw, err := fileutil.ReadFileWithLimit(source, fileutil.MaxFileSize)
	if err != nil {
		return nil, "", errors.NewUserError(
			errors.Wrapf(err, "source %q is neither an agent nor a readable file", source),
			"Valid agents: "+strings.Join(paths.Agents(), ", "))
	}
	cfg, err := claude.NewTranslator().ToCanonical(raw)
	if err != nil {
		return nil, "", errors.Wrapf(err, "parsing %s", source)
	}

	servers := make([]*mcp.Server, 0, len(cfg.Servers))
	for _, name := range cfg.Names() {
		servers = append(servers, cfg.Servers[name])
	}
	return servers, source, nil
}

func filterServers(servers []*mcp.Server, names []string) ([]*mcp.Server, error) {
	byName := make(map[string]*mcp.Server, len(servers))
	for _, s := range servers {
		byName[s.Name] = s
	}

	filtered := make([]*mcp.Server, 0, len(names))
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			return nil, errors.NewUserError(
				errors.Wrapf(errors.ErrNotFound, "server %q in import source", name), "")
		}
		filtered = append(filtered, s)
	}
	return filtered, nil
}
