package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcport/mcport/internal/agent"
	"github.com/mcport/mcport/internal/cli/prompt"
	"github.com/mcport/mcport/internal/config"
	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/paths"
)

var (
	initYes    bool
	initAgents string
	initForce  bool
)

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Non-interactive mode, accept all defaults")
	initCmd.Flags().StringVar(&initAgents, "agents", "", "Comma-separated list of agents to use as defaults (overrides auto-detection)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize mcport configuration",
	Long: `Bootstrap mcport configuration with automatic agent detection.

Creates the mcport config file with the set of detected AI coding
agents as the default targets. Agents are detected by checking for
their MCP config files and directories.`,
	Example: `  # Initialize with interactive prompts
  mcport init

  # Initialize non-interactively, accepting defaults
  mcport init --yes

  # Initialize with an explicit default agent set
  mcport init --agents claude,cursor

  # Force overwrite existing configuration
  mcport init --force`,
	RunE: runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	configPath := config.Path()

	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Printf("Configuration already exists at %s\n", configPath)
		fmt.Println("Use --force to overwrite")
		return nil
	}

	agents := detectedAgentNames()
	if initAgents != "" {
		var err error
		agents, err = parseAgentList(initAgents)
		if err != nil {
			return errors.NewUserError(err, "Valid agents: "+strings.Join(paths.Agents(), ", "))
		}
	}

	if !initYes {
		fmt.Printf("Detected agents: %s\n", formatAgentList(agents))
		fmt.Println()
		fmt.Println("This will create:")
		fmt.Printf("  %s\n", configPath)
		fmt.Println()

		if !confirmStdin("Proceed?") {
			fmt.Println("Aborted")
			return nil
		}
	} else {
		fmt.Printf("Detected agents: %s\n", formatAgentList(agents))
	}

	cfg := config.Default()
	cfg.DefaultAgents = agents
	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	if err := paths.EnsureDir(backupManager().Dir()); err != nil {
		return errors.Wrap(err, "creating backup directory")
	}

	fmt.Printf("Created %s\n", configPath)
	return nil
}

// detectedAgentNames returns the names of installed agents.
func detectedAgentNames() []string {
	var installed []string
	for _, result := range agent.DetectInstalled() {
		installed = append(installed, result.Name)
	}
	return installed
}

func formatAgentList(agents []string) string {
	if len(agents) == 0 {
		return "(none)"
	}
	return strings.Join(agents, ", ")
}

// parseAgentList splits a comma-separated agent list and validates it.
func parseAgentList(s string) ([]string, error) {
	var agents []string
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !paths.ValidAgent(name) {
			return nil, errors.Wrapf(errors.ErrUnknownAgent, "%q", name)
		}
		agents = append(agents, name)
	}
	return agents, nil
}

// confirmStdin asks a yes/no question on stdin, defaulting to no.
func confirmStdin(question string) bool {
	ok, err := prompt.NewSelector().Confirm(question)
	return err == nil && ok
}
