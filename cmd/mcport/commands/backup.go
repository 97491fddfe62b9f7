package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcport/mcport/internal/backup"
	"github.com/mcport/mcport/internal/errors"
)

func init() {
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupPruneCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage agent config backups",
	Long: `Manage timestamped snapshots of agent configuration files.

mcport snapshots a config automatically before its first write in a
run. These subcommands create snapshots on demand, list what exists,
restore a snapshot, and prune old ones past the retention limit.`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Snapshot the current agent configs",
	RunE: func(_ *cobra.Command, _ []string) error {
		managers, err := resolveManagers(nil)
		if err != nil {
			return err
		}
		bm := backupManager()

		created := 0
		for _, m := range managers {
			name := m.Definition().Name
			manifest, err := bm.Backup(name, m.ConfigPath())
			if err != nil {
				return errors.NewSystemError(err, "")
			}
			if manifest == nil {
				fmt.Printf("%s·%s %s: no config file to back up\n", colorGray, colorReset, name)
				continue
			}
			created++
			fmt.Printf("%s✓%s %s: backup %s (%d file)\n",
				colorGreen, colorReset, name, manifest.ID, len(manifest.Files))
		}
		if created == 0 {
			fmt.Println("Nothing to back up")
		}
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	RunE: func(_ *cobra.Command, _ []string) error {
		managers, err := resolveManagers(nil)
		if err != nil {
			return err
		}
		bm := backupManager()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintln(w, "AGENT\tID\tCREATED\tFILES")

		total := 0
		for _, m := range managers {
			name := m.Definition().Name
			manifests, err := bm.List(name)
			if err != nil {
				return errors.NewSystemError(err, "")
			}
			for _, manifest := range manifests {
				total++
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
					name, manifest.ID,
					manifest.CreatedAt.Format("2006-01-02 15:04:05"),
					len(manifest.Files))
			}
		}
		if total == 0 {
			w.Flush()
			fmt.Println("No backups found")
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [id]",
	Short: "Restore a backup",
	Long: `Restore an agent's config files from a backup.

Targets a single agent. Without an id the latest backup is restored.
Every file's digest is verified before anything is written back.`,
	Example: `  mcport backup restore --agent claude
  mcport backup restore 20250103-142233 --agent cursor`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		managers, err := resolveManagers(nil)
		if err != nil {
			return err
		}
		if len(managers) != 1 {
			return errors.NewUserError(errors.New("restore targets a single agent"),
				"Pass exactly one --agent")
		}
		name := managers[0].Definition().Name
		bm := backupManager()

		var manifest *backup.Manifest
		if len(args) == 1 {
			manifest, err = bm.Restore(name, args[0])
		} else {
			var latest *backup.Manifest
			latest, err = bm.Latest(name)
			if err == nil {
				manifest, err = bm.Restore(name, latest.ID)
			}
		}
		if err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				return errors.NewUserError(err, "Run: mcport backup list --agent "+name)
			}
			return errors.NewSystemError(err, "")
		}

		fmt.Printf("%s✓%s Restored %s backup %s\n", colorGreen, colorReset, name, manifest.ID)
		for _, f := range manifest.Files {
			fmt.Printf("  %s\n", f.OriginalPath)
		}
		return nil
	},
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete backups beyond the retention limit",
	RunE: func(_ *cobra.Command, _ []string) error {
		managers, err := resolveManagers(nil)
		if err != nil {
			return err
		}
		bm := backupManager()

		pruned := 0
		for _, m := range managers {
			name := m.Definition().Name
			ids, err := bm.Prune(name)
			if err != nil {
				return errors.NewSystemError(err, "")
			}
			for _, id := range ids {
				pruned++
				fmt.Printf("%s✓%s %s: pruned %s\n", colorGreen, colorReset, name, id)
			}
		}
		if pruned == 0 {
			fmt.Println("Nothing to prune")
		}
		return nil
	},
}
