package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcport/mcport/internal/agent"
	"github.com/mcport/mcport/internal/errors"
)

func init() {
	rootCmd.AddCommand(deactivateCmd)
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate <server>",
	Short: "Deactivate an MCP server without losing its definition",
	Long: `Deactivate a server on the target agents.

Agents whose schema has a native disabled flag (Cline) keep the entry
in place, flagged off. For every other agent the entry is removed from
the config and its canonical definition is stashed, so a later
'mcport activate' restores it exactly, env vars and all.`,
	Example: `  mcport deactivate github
  mcport deactivate github --agent cursor`,
	Args: cobra.ExactArgs(1),
	RunE: runDeactivate,
}

func runDeactivate(_ *cobra.Command, args []string) error {
	name := args[0]

	managers, err := resolveManagers(nil)
	if err != nil {
		return err
	}

	stash := agent.NewStash("")
	found := false
	for _, m := range managers {
		agentName := m.Definition().Name

		server, err := m.Get(name)
		if err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				continue
			}
			return err
		}
		found = true

		if m.Definition().SupportsDisabled {
			if err := m.SetDisabled(name, true); err != nil {
				return err
			}
			fmt.Printf("%s✓%s %s: disabled %s\n", colorGreen, colorReset, agentName, name)
			continue
		}

		if err := stash.Put(agentName, server); err != nil {
			return err
		}
		if err := m.Remove(name); err != nil {
			return err
		}
		fmt.Printf("%s✓%s %s: deactivated %s (stashed, reactivate with 'mcport activate %s')\n",
			colorGreen, colorReset, agentName, name, name)
	}

	if !found {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrNotFound, "server %q on the selected agents", name),
			"Run: mcport list")
	}
	return nil
}
