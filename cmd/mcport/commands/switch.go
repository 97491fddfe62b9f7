package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcport/mcport/internal/agent"
	"github.com/mcport/mcport/internal/config"
	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/paths"
)

func init() {
	rootCmd.AddCommand(switchCmd)
}

var switchCmd = &cobra.Command{
	Use:   "switch <agent>...",
	Short: "Set the default target agents",
	Long: `Set which agents commands operate on when --agent is not given.

The selection is persisted in the mcport config file. Pass 'all' to
clear the selection and go back to targeting every detected agent.`,
	Example: `  # Work on Cursor only from now on
  mcport switch cursor

  # Work on Claude Desktop and VS Code
  mcport switch claude vscode

  # Back to all detected agents
  mcport switch all`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSwitch,
}

func runSwitch(_ *cobra.Command, args []string) error {
	cfg := currentConfig()

	if len(args) == 1 && args[0] == "all" {
		cfg.DefaultAgents = nil
		if err := config.Save(cfg, ""); err != nil {
			return err
		}
		fmt.Println("Default agents cleared; commands target all detected agents")
		return nil
	}

	var agents []string
	for _, name := range args {
		if !paths.ValidAgent(name) {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrUnknownAgent, "%q", name),
				"Valid agents: "+strings.Join(paths.Agents(), ", ")+", or 'all'")
		}
		agents = append(agents, name)
	}

	cfg.DefaultAgents = agents
	if err := config.Save(cfg, ""); err != nil {
		return err
	}

	fmt.Printf("Default agents set to: %s\n", strings.Join(agents, ", "))
	for _, name := range agents {
		def, err := agent.Get(name)
		if err != nil {
			continue
		}
		if result := agent.Detect(def); result.Status != agent.StatusInstalled {
			fmt.Printf("%s!%s %s has no config file yet (%s)\n",
				colorYellow, colorReset, name, result.ConfigPath)
		}
	}
	return nil
}
