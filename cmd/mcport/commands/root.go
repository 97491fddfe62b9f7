// Package commands implements the CLI commands for mcport.
package commands

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcport/mcport/internal/config"
	"github.com/mcport/mcport/internal/errors"
	"github.com/mcport/mcport/internal/logging"
	"github.com/mcport/mcport/internal/paths"
)

// version is set at build time via ldflags.
// Default to a development version for local builds.
const version = "0.1.0"

// agentFlag holds the value of the --agent flag.
var agentFlag []string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// appConfig is the loaded mcport configuration.
var appConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringSliceVarP(&agentFlag, "agent", "a", nil,
		`target agent(s): `+strings.Join(paths.Agents(), ", ")+` (default: all detected)`)
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mcport version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	appConfig, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "mcport",
	Short: "Normalize MCP server configuration across AI coding agents",
	Long: `mcport manages Model Context Protocol server configuration across
AI coding agents: Claude Desktop, Cursor, VS Code, Gemini CLI, Windsurf,
Cline, and Visual Studio.

Each agent stores MCP servers in its own file with its own schema.
mcport reads and writes every dialect through one canonical model, so a
server defined once can be activated everywhere, moved between agents,
and kept out of version-controlled plaintext.

Use the --agent flag to target specific agents, or omit it to target
all detected/installed agents.`,
	Example: `  # Initialize configuration
  mcport init

  # List configured servers everywhere
  mcport list

  # Find and activate a server from the registry
  mcport search github
  mcport activate github --agent cursor

  # Check config health
  mcport doctor`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return validateAgentFlag(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("MCPORT_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// validateAgentFlag checks that all specified agents are valid.
func validateAgentFlag(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	if len(agentFlag) == 0 {
		return nil
	}

	var invalid []string
	for _, a := range agentFlag {
		if !paths.ValidAgent(a) {
			invalid = append(invalid, a)
		}
	}

	if len(invalid) > 0 {
		err := errors.Newf("invalid agent(s): %s (valid: %s)",
			strings.Join(invalid, ", "),
			strings.Join(paths.Agents(), ", "))
		return errors.NewUserError(err, "Run 'mcport --help' to see valid agents")
	}

	return nil
}

// GetAgentFlag returns the current value of the --agent flag.
// This is used by subcommands to access the flag value.
func GetAgentFlag() []string {
	return agentFlag
}

// SetAgentFlag sets the agent flag value.
// This is used for programmatic override (e.g., interactive mode).
func SetAgentFlag(agents []string) {
	agentFlag = agents
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
