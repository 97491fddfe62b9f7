package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcport/mcport/internal/agent"
	"github.com/mcport/mcport/internal/errors"
)

var (
	removeYes   bool
	removePurge bool
)

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Skip the confirmation prompt")
	removeCmd.Flags().BoolVar(&removePurge, "purge", false, "Also delete any stashed copy")
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <server>",
	Aliases: []string{"rm"},
	Short:   "Remove an MCP server permanently",
	Long: `Remove a server from the target agents.

Unlike deactivate, remove deletes the definition outright. A stashed
copy from an earlier deactivate survives unless --purge is given. The
pre-write backup still captures the previous config, so 'mcport backup
restore' can undo an accidental removal. Removing a server that is not
configured is not an error.`,
	Example: `  mcport remove github
  mcport remove github --agent cursor --yes --purge`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(_ *cobra.Command, args []string) error {
	name := args[0]

	managers, err := resolveManagers(nil)
	if err != nil {
		return err
	}

	if !removeYes {
		if !confirmStdin(fmt.Sprintf("Permanently remove %q from %d agent(s)?", name, len(managers))) {
			fmt.Println("Aborted")
			return nil
		}
	}

	stash := agent.NewStash("")
	removed := 0
	for _, m := range managers {
		agentName := m.Definition().Name

		err := m.Remove(name)
		switch {
		case err == nil:
			removed++
			fmt.Printf("%s✓%s %s: removed %s\n", colorGreen, colorReset, agentName, name)
		case errors.Is(err, errors.ErrNotFound):
		default:
			return err
		}

		if removePurge {
			if _, err := stash.Get(agentName, name); err == nil {
				if err := stash.Remove(agentName, name); err != nil {
					return err
				}
				removed++
				fmt.Printf("%s✓%s %s: purged stashed %s\n", colorGreen, colorReset, agentName, name)
			}
		}
	}

	if removed == 0 {
		fmt.Printf("Server %q is not configured on the selected agents; nothing to do\n", name)
	}
	return nil
}
