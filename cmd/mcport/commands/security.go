package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/keychain"
	"github.com/mcport/mcport/internal/security"
)

var (
	securityScan bool
	securityFix  bool
	securityJSON bool
)

func init() {
	securityCmd.Flags().BoolVar(&securityScan, "scan", false, "Scan agent configs for plaintext secrets")
	securityCmd.Flags().BoolVar(&securityFix, "fix", false, "Move plaintext secrets into the keychain")
	securityCmd.Flags().BoolVar(&securityJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(securityCmd)
}

var securityCmd = &cobra.Command{
	Use:   "security --scan",
	Short: "Scan agent configs for plaintext secrets",
	Long: `Scan the target agents' configs for embedded credentials.

Detection combines key-name patterns (TOKEN, KEY, SECRET, ...), known
token formats (ghp_, sk-, AKIA, ...), entropy analysis for generated
values, credential-bearing headers, and credentials embedded in URLs.
Keychain placeholders are considered safe.

With --scan, findings are printed with values masked and the config
files are never modified; exit code 1 signals findings. With --fix,
env var secrets are moved into the keychain and the configs rewritten
to ${keychain:NAME} placeholders. Header and URL credentials are
reported but left for manual cleanup.`,
	Example: `  mcport security --scan
  mcport security --scan --agent cursor --json
  mcport security --fix`,
	RunE: runSecurity,
}

func runSecurity(cmd *cobra.Command, _ []string) error {
	if securityFix {
		return runSecurityFix()
	}
	if !securityScan {
		return cmd.Help()
	}

	managers, err := resolveManagers(nil)
	if err != nil {
		return err
	}

	var findings []security.Finding
	for _, m := range managers {
		cfg, err := m.Load()
		if err != nil {
			return err
		}
		findings = append(findings, security.ScanConfig(m.Definition().Name, cfg)...)
	}

	if err := writeFindings(os.Stdout, findings); err != nil {
		return err
	}
	if len(findings) > 0 {
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}

// runSecurityFix moves env var secrets into the keychain, rewriting the
// configs to placeholders. One secret value is stored once even when
// several agents carry it.
func runSecurityFix() error {
	managers, err := resolveManagers(nil)
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}

	fixed := 0
	var remaining []security.Finding
	for _, m := range managers {
		agentName := m.Definition().Name
		cfg, err := m.Load()
		if err != nil {
			return err
		}

		changed := false
		for _, name := range cfg.Names() {
			server := cfg.Servers[name]
			for _, f := range security.ScanServer(agentName, server) {
				key, ok := strings.CutPrefix(f.Location, "env.")
				if !ok {
					remaining = append(remaining, f)
					continue
				}

				secretName, err := keychainNameFor(store, server.Name, key, server.Env[key])
				if err != nil {
					return err
				}
				server.Env[key] = security.Placeholder(secretName)
				changed = true
				fixed++
				fmt.Printf("%s✓%s %s: %s.env.%s -> %s\n",
					colorGreen, colorReset, agentName, server.Name, key,
					security.Placeholder(secretName))
			}
		}

		if changed {
			if err := m.Save(cfg); err != nil {
				return err
			}
		}
	}

	if fixed == 0 && len(remaining) == 0 {
		fmt.Printf("%s✓%s No plaintext secrets found\n", colorGreen, colorReset)
		return nil
	}
	for _, f := range remaining {
		fmt.Printf("%s!%s %s: %s.%s needs manual cleanup (%s)\n",
			colorYellow, colorReset, f.Agent, f.Server, f.Location, f.Reason)
	}
	return nil
}

// keychainNameFor stores the secret and returns the name it lives
// under. The bare env var name is preferred; when it already holds a
// different value the server-scoped form is used instead.
func keychainNameFor(store keychain.Store, server, env, value string) (string, error) {
	existing, err := store.Get(env)
	switch {
	case err == nil && existing == value:
		return env, nil
	case errors.Is(err, keychain.ErrNotFound):
		return env, store.Set(env, value)
	case err != nil:
		return "", err
	}

	name := keychain.EntryName(server, env)
	return name, store.Set(name, value)
}

func writeFindings(w io.Writer, findings []security.Finding) error {
	if securityJSON {
		if findings == nil {
			findings = []security.Finding{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(findings)
	}

	if len(findings) == 0 {
		fmt.Fprintf(w, "%s✓%s No plaintext secrets found\n", colorGreen, colorReset)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sAGENT%s\t%sSERVER%s\t%sLOCATION%s\t%sVALUE%s\t%sREASON%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)
	for _, f := range findings {
		color := colorYellow
		if f.Severity == security.SeverityHigh {
			color = colorRed
		}
		fmt.Fprintf(tw, "%s\t%s\t%s%s%s\t%s\t%s\n",
			f.Agent, f.Server, color, f.Location, colorReset, f.Masked, f.Reason)
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d finding(s). Move secrets to the keychain:\n", len(findings))
	for _, f := range findings {
		if f.Suggestion != "" {
			fmt.Fprintf(w, "  %s\n", f.Suggestion)
		}
	}
	return nil
}
