package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcport/mcport/internal/doctor"
	"github.com/mcport/mcport/internal/errors"
)

var (
	doctorJSON         bool
	doctorProbe        bool
	doctorProbeTimeout time.Duration
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorProbe, "probe", false,
		"Launch each configured stdio server and verify the MCP handshake")
	doctorCmd.Flags().DurationVar(&doctorProbeTimeout, "probe-timeout", doctor.DefaultProbeTimeout,
		"Per-server probe timeout")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose agent configs and the mcport setup",
	Long: `Run diagnostic checks against the detected agents.

Checks cover agent detection, config syntax, round-trip safety of each
schema translation, plaintext secrets, file permissions, and the backup
directory. With --probe, each configured stdio server is additionally
launched and greeted with an MCP initialize handshake.

The exit code reflects the worst finding: 0 when everything passes,
1 with warnings, 2 with errors.`,
	Example: `  mcport doctor
  mcport doctor --agent cursor --json
  mcport doctor --probe`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	managers, err := resolveManagers(nil)
	if err != nil {
		return err
	}

	runner := doctor.NewRunner()
	runner.AddCheck(doctor.AgentDetectionCheck{})
	runner.AddCheck(doctor.ConfigSyntaxCheck{Managers: managers})
	runner.AddCheck(doctor.RoundTripCheck{Managers: managers})
	runner.AddCheck(doctor.SecretsCheck{Managers: managers})
	runner.AddCheck(doctor.PermissionsCheck{Managers: managers})
	runner.AddCheck(doctor.FileSizeCheck{Managers: managers})
	runner.AddCheck(doctor.BackupDirCheck{Manager: backupManager()})
	if doctorProbe {
		runner.AddCheck(doctor.ProbeCheck{Managers: managers, Timeout: doctorProbeTimeout})
	}

	report := runner.Run(cmd.Context())

	if doctorJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		writeDoctorReport(os.Stdout, report)
	}

	return doctorExitErr(report)
}

// doctorExitErr maps a report to the command's exit status. Warnings are
// advisory only; the exit status reflects errors alone.
func doctorExitErr(report *doctor.Report) error {
	if report.HasErrors() {
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}

func writeDoctorReport(w io.Writer, report *doctor.Report) {
	var lastCategory string
	for _, result := range report.Results {
		if result.Category != lastCategory {
			if lastCategory != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s%s%s\n", colorCyan+colorBold, result.Category, colorReset)
			lastCategory = result.Category
		}

		var marker string
		switch result.Status {
		case doctor.SeverityPass:
			marker = colorGreen + "✓" + colorReset
		case doctor.SeverityInfo:
			marker = colorGray + "·" + colorReset
		case doctor.SeverityWarning:
			marker = colorYellow + "!" + colorReset
		default:
			marker = colorRed + "✗" + colorReset
		}
		fmt.Fprintf(w, "  %s %s\n", marker, result.Message)
		if result.FixHint != "" {
			fmt.Fprintf(w, "    %s%s%s\n", colorGray, result.FixHint, colorReset)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d passed, %d info, %d warning(s), %d error(s)\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}
