package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mcport/mcport/internal/agent"
	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/internal/paths"
)

var generateFormat string

func init() {
	generateCmd.Flags().StringVarP(&generateFormat, "format", "f", "json",
		"Output format (json, toml, yaml)")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <id>",
	Short: "Print a config snippet for a registry server",
	Long: `Print the configuration snippet for a registry server in the
target agent's format without touching any files.

The snippet is rendered as the agent would store it, so it can be
pasted straight into the agent's config file. Required credentials are
emitted as ${keychain:NAME} placeholders.`,
	Example: `  mcport generate github --agent cursor
  mcport generate postgres --agent claude --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func runGenerate(_ *cobra.Command, args []string) error {
	switch generateFormat {
	case "json", "toml", "yaml":
	default:
		return errors.NewUserError(
			errors.Newf("unknown format %q", generateFormat),
			"Valid formats: json, toml, yaml")
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	entry, err := reg.Get(args[0])
	if err != nil {
		return errors.NewUserError(err, "Run: mcport search "+args[0])
	}

	names := GetAgentFlag()
	agentName := paths.AgentClaude
	if len(names) > 1 {
		return errors.NewUserError(errors.New("generate targets a single agent"),
			"Pass exactly one --agent")
	}
	if len(names) == 1 {
		agentName = names[0]
	}
	def, err := agent.Get(agentName)
	if err != nil {
		return errors.NewUserError(err, "")
	}
	if !entry.SupportsAgent(def.Name) {
		return errors.NewUserError(
			errors.Newf("%s does not support agent %s", entry.ID, def.Name), "")
	}

	cfg := mcp.NewConfig()
	server := entry.Server()
	cfg.Servers[server.Name] = server

	raw, err := def.Translator.FromCanonical(cfg)
	if err != nil {
		return err
	}

	out, err := renderSnippet(raw, generateFormat)
	if err != nil {
		return err
	}
	os.Stdout.Write(out)

	if hint := len(entry.Install.RequiredEnv); hint > 0 {
		fmt.Fprintf(os.Stderr, "\n%sStore the required credentials first:%s\n", colorYellow, colorReset)
		for _, env := range entry.Install.RequiredEnv {
			fmt.Fprintf(os.Stderr, "  mcport keychain set %s\n", env)
		}
	}
	return nil
}

// renderSnippet re-encodes the agent's JSON config in the requested
// format. TOML and YAML go through a generic map so key order and
// nesting survive.
func renderSnippet(raw []byte, format string) ([]byte, error) {
	if format == "json" {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, errors.Wrap(err, "indenting config")
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	switch format {
	case "toml":
		out, err := toml.Marshal(doc)
		if err != nil {
			return nil, errors.Wrap(err, "encoding toml")
		}
		return out, nil
	default:
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, errors.Wrap(err, "encoding yaml")
		}
		return out, nil
	}
}
