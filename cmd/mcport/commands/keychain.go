package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcport/mcport/internal/cli/prompt"
	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/keychain"
	"github.com/mcport/mcport/internal/security"
)

var (
	keychainSetServer string
	keychainSetEnv    string
	keychainGetShow   bool
)

func init() {
	keychainSetCmd.Flags().StringVar(&keychainSetServer, "server", "",
		"Also rewrite this server's env var to a keychain placeholder")
	keychainSetCmd.Flags().StringVar(&keychainSetEnv, "env", "",
		"Env var to rewrite (requires --server)")
	keychainGetCmd.Flags().BoolVar(&keychainGetShow, "show", false, "Print the secret value unmasked")

	keychainCmd.AddCommand(keychainSetCmd)
	keychainCmd.AddCommand(keychainGetCmd)
	keychainCmd.AddCommand(keychainDeleteCmd)
	keychainCmd.AddCommand(keychainListCmd)
	rootCmd.AddCommand(keychainCmd)
}

var keychainCmd = &cobra.Command{
	Use:   "keychain",
	Short: "Manage secrets referenced by config placeholders",
	Long: `Manage the secret store behind ${keychain:NAME} placeholders.

Secrets live in the operating system credential store (macOS Keychain,
Windows Credential Manager, Secret Service). On headless machines an
encrypted file store is used instead; select it with keychain.backend
in the config and the ` + keychain.PassphraseEnv + ` environment variable.`,
}

func openStore() (keychain.Store, error) {
	cfg := currentConfig()
	store, err := keychain.Open(cfg.Keychain.Backend, cfg.Keychain.FilePath)
	if err != nil {
		return nil, errors.NewSystemError(err, "Set keychain.backend in the mcport config")
	}
	return store, nil
}

var keychainSetCmd = &cobra.Command{
	Use:   "set <name> [value]",
	Short: "Store a secret",
	Long: `Store a secret under a name.

The value is prompted for without echo when not given on the command
line. With --server and --env, the matching env var on the target
agents is rewritten to a ${keychain:NAME} placeholder, taking the
plaintext out of the config files.`,
	Example: `  # Prompted, value never appears in shell history
  mcport keychain set GITHUB_TOKEN

  # Store and fix up the cursor config in one step
  mcport keychain set GITHUB_TOKEN --server github --env GITHUB_TOKEN --agent cursor`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runKeychainSet,
}

func runKeychainSet(_ *cobra.Command, args []string) error {
	name := args[0]
	if err := keychain.ValidateName(name); err != nil {
		return errors.NewUserError(err, "")
	}
	if keychainSetEnv != "" && keychainSetServer == "" {
		return errors.NewUserError(errors.New("--env requires --server"), "")
	}

	value := ""
	if len(args) == 2 {
		value = args[1]
	} else {
		var err error
		value, err = prompt.ReadSecret("Value for " + name)
		if err != nil {
			return err
		}
	}
	if value == "" {
		return errors.NewUserError(errors.New("empty secret value"), "")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.Set(name, value); err != nil {
		return err
	}
	fmt.Printf("%s✓%s Stored %s\n", colorGreen, colorReset, name)

	if keychainSetServer == "" {
		return nil
	}

	envVar := keychainSetEnv
	if envVar == "" {
		envVar = name
	}
	return wirePlaceholder(keychainSetServer, envVar, name)
}

// wirePlaceholder rewrites server env vars to keychain placeholders on
// the target agents.
func wirePlaceholder(serverName, envVar, secretName string) error {
	managers, err := resolveManagers(nil)
	if err != nil {
		return err
	}

	for _, m := range managers {
		agentName := m.Definition().Name
		server, err := m.Get(serverName)
		if err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				continue
			}
			return err
		}

		if server.Env == nil {
			server.Env = make(map[string]string)
		}
		server.Env[envVar] = security.Placeholder(secretName)
		if err := m.Add(server); err != nil {
			return err
		}
		fmt.Printf("%s✓%s %s: %s.env.%s now references the keychain\n",
			colorGreen, colorReset, agentName, serverName, envVar)
	}
	return nil
}

var keychainGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Retrieve a secret",
	Long: `Retrieve a secret by name.

The value is masked unless --show is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		value, err := store.Get(args[0])
		if err != nil {
			if errors.Is(err, keychain.ErrNotFound) {
				return errors.NewUserError(err, "Run: mcport keychain list")
			}
			return err
		}
		if !keychainGetShow {
			value = security.MaskValue(value)
		}
		fmt.Println(value)
		return nil
	},
}

var keychainDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a secret",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			if errors.Is(err, keychain.ErrNotFound) {
				return errors.NewUserError(err, "Run: mcport keychain list")
			}
			return err
		}
		fmt.Printf("%s✓%s Deleted %s\n", colorGreen, colorReset, args[0])
		return nil
	},
}

var keychainListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored secret names",
	Long:  "List the names of stored secrets. Values are never printed.",
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		names, err := store.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No secrets stored")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}
