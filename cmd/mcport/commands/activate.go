package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mcport/mcport/internal/agent"
	"github.com/mcport/mcport/internal/cli/prompt"
	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/mcp"
	"github.com/mcport/mcport/internal/registry"
	"github.com/mcport/mcport/internal/security"
)

var (
	activateResolveSecrets bool
	activateArgs           []string
)

func init() {
	activateCmd.Flags().BoolVar(&activateResolveSecrets, "resolve-secrets", false,
		"Write literal secret values instead of keychain placeholders")
	activateCmd.Flags().StringArrayVar(&activateArgs, "arg", nil,
		"Fill an install argument placeholder: --arg key=value")
	rootCmd.AddCommand(activateCmd)
}

var activateCmd = &cobra.Command{
	Use:   "activate <server>",
	Short: "Activate an MCP server for one or more agents",
	Long: `Activate a server on the target agents.

The server is looked up in this order:
  1. Already configured but disabled: it is re-enabled.
  2. Previously deactivated (stashed): the stashed definition is restored.
  3. The registry: a fresh definition is installed.

Registry servers that need credentials are prompted for without echo;
values go into the keychain and the config gets ${keychain:NAME}
placeholders. Pass --resolve-secrets for agents that cannot expand
placeholders, at the cost of plaintext in the config file. Install
arguments with {placeholder} tokens are filled from --arg key=value.`,
	Example: `  # Activate for all detected agents
  mcport activate github

  # Activate for one agent only
  mcport activate github --agent cursor

  # Fill an install argument
  mcport activate filesystem --arg root=/home/me/src`,
	Args: cobra.ExactArgs(1),
	RunE: runActivate,
}

func runActivate(cmd *cobra.Command, args []string) error {
	name := args[0]

	managers, err := resolveManagers(nil)
	if err != nil {
		return err
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	entry, entryErr := reg.Get(name)

	// The registry server is built once and shared across agents, so
	// secrets are prompted for at most once.
	var installServer *mcp.Server
	if entryErr == nil {
		installServer, err = buildRegistryServer(entry)
		if err != nil {
			return err
		}
	}

	stash := agent.NewStash("")
	activated := 0
	for _, m := range managers {
		agentName := m.Definition().Name

		done, err := activateExisting(m, stash, name)
		if err != nil {
			return err
		}
		if done {
			fmt.Printf("%s✓%s %s: activated %s\n", colorGreen, colorReset, agentName, name)
			activated++
			continue
		}

		if entryErr != nil {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrNotFound, "server %q is not configured for %s and not in the registry", name, agentName),
				"Run: mcport search "+name)
		}
		if !entry.SupportsAgent(agentName) {
			fmt.Printf("%s-%s %s: %s does not support this agent, skipping\n", colorGray, colorReset, agentName, name)
			continue
		}
		if err := m.Add(installServer.Clone()); err != nil {
			return err
		}
		fmt.Printf("%s✓%s %s: installed %s from registry\n", colorGreen, colorReset, agentName, name)
		activated++
	}

	if activated > 0 && entryErr == nil {
		if hint := pendingSecretsHint(entry, installServer); hint != "" {
			fmt.Println()
			fmt.Println(hint)
		}
	}
	return nil
}

// buildRegistryServer turns an entry into the server to install: --arg
// values fill install argument placeholders, and required secrets are
// collected when a terminal is attached.
func buildRegistryServer(entry *registry.Entry) (*mcp.Server, error) {
	server := entry.Server()

	argValues, err := parseArgValues(activateArgs)
	if err != nil {
		return nil, err
	}
	for i, arg := range server.Args {
		server.Args[i] = fillPlaceholders(arg, argValues)
	}

	if len(entry.Install.RequiredEnv) == 0 || !term.IsTerminal(int(os.Stdin.Fd())) {
		return server, nil
	}

	var store interface {
		Set(name, value string) error
	}
	if !activateResolveSecrets {
		s, err := openStore()
		if err != nil {
			return nil, err
		}
		store = s
	}

	for _, env := range entry.Install.RequiredEnv {
		value, err := prompt.ReadSecret(env + " (empty to set later)")
		if err != nil {
			return nil, err
		}
		if value == "" {
			continue
		}
		if activateResolveSecrets {
			server.Env[env] = value
			continue
		}
		if err := store.Set(env, value); err != nil {
			return nil, err
		}
		server.Env[env] = security.Placeholder(env)
	}
	return server, nil
}

// parseArgValues splits --arg key=value pairs.
func parseArgValues(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.NewUserError(
				errors.Newf("malformed --arg %q", pair), "Use --arg key=value")
		}
		values[key] = value
	}
	return values, nil
}

// fillPlaceholders substitutes {key} tokens in an install argument.
func fillPlaceholders(arg string, values map[string]string) string {
	for key, value := range values {
		arg = strings.ReplaceAll(arg, "{"+key+"}", value)
	}
	return arg
}

// pendingSecretsHint lists keychain commands for required env vars still
// holding a placeholder with no stored value behind it.
func pendingSecretsHint(entry *registry.Entry, server *mcp.Server) string {
	var pending []string
	for _, env := range entry.Install.RequiredEnv {
		if security.IsPlaceholder(server.Env[env]) {
			pending = append(pending, "  mcport keychain set "+env)
		}
	}
	if len(pending) == 0 {
		return ""
	}
	return "Set required secrets:\n" + strings.Join(pending, "\n")
}

// activateExisting re-enables a disabled entry or restores a stashed
// one. Returns true when the server is active afterwards.
func activateExisting(m *agent.Manager, stash *agent.Stash, name string) (bool, error) {
	agentName := m.Definition().Name

	server, err := m.Get(name)
	switch {
	case err == nil:
		if !server.Disabled {
			return true, nil
		}
		if m.Definition().SupportsDisabled {
			return true, m.SetDisabled(name, false)
		}
		server.Disabled = false
		return true, m.Add(server)
	case errors.Is(err, errors.ErrNotFound):
	default:
		return false, err
	}

	stashed, err := stash.Get(agentName, name)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	stashed.Disabled = false
	if err := m.Add(stashed); err != nil {
		return false, err
	}
	return true, stash.Remove(agentName, name)
}

// activateEntry installs a registry entry on the selected agents. Used
// by the interactive search flow.
func activateEntry(_ *cobra.Command, entry *registry.Entry) error {
	managers, err := resolveManagers(nil)
	if err != nil {
		return err
	}

	server, err := buildRegistryServer(entry)
	if err != nil {
		return err
	}

	for _, m := range managers {
		agentName := m.Definition().Name
		if !entry.SupportsAgent(agentName) {
			fmt.Printf("%s-%s %s: %s does not support this agent, skipping\n", colorGray, colorReset, agentName, entry.ID)
			continue
		}
		if err := m.Add(server.Clone()); err != nil {
			return err
		}
		fmt.Printf("%s✓%s %s: installed %s from registry\n", colorGreen, colorReset, agentName, entry.ID)
	}

	if hint := pendingSecretsHint(entry, server); hint != "" {
		fmt.Println()
		fmt.Println(hint)
	}
	return nil
}
