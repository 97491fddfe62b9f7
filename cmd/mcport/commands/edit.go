package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcport/mcport/internal/editor"
	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/pkg/fileutil"
)

func init() {
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit [agent]",
	Short: "Edit an agent's MCP config in your editor",
	Long: `Open one agent's MCP config in $EDITOR.

The edit happens on a temporary copy. After the editor exits the result
is validated against the agent's schema; only a valid config is written
back, atomically, with the usual pre-write backup. An invalid edit
leaves the real file untouched.`,
	Example: `  mcport edit cursor
  mcport edit --agent claude`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func runEdit(_ *cobra.Command, args []string) error {
	managers, err := resolveManagers(args)
	if err != nil {
		return err
	}
	if len(managers) != 1 {
		return errors.NewUserError(
			errors.New("edit targets exactly one agent"),
			"Name it: mcport edit cursor")
	}
	m := managers[0]
	agentName := m.Definition().Name

	original, err := fileutil.ReadFileWithLimit(m.ConfigPath(), fileutil.MaxFileSize)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return errors.Wrapf(err, "reading %s", m.ConfigPath())
		}
		// Start from an empty config in the agent's own dialect.
		cfg, loadErr := m.Load()
		if loadErr != nil {
			return loadErr
		}
		original, err = m.Definition().Translator.FromCanonical(cfg)
		if err != nil {
			return err
		}
	}

	edited, err := editor.EditBytes("mcport-"+agentName+"-*.json", original)
	if err != nil {
		return err
	}
	if string(edited) == string(original) {
		fmt.Println("No changes")
		return nil
	}

	// Validation gate: the edit must parse under the agent's schema.
	cfg, err := m.Definition().Translator.ToCanonical(edited)
	if err != nil {
		return errors.NewUserError(
			errors.Wrapf(err, "edited config is not valid for %s; original left untouched", agentName),
			"A known-good snapshot can be restored: mcport backup restore --agent "+agentName)
	}

	if err := m.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("%s✓%s %s: wrote %s (%d server(s))\n",
		colorGreen, colorReset, agentName, m.ConfigPath(), len(cfg.Servers))
	return nil
}
