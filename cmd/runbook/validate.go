// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/syntax"

	"runbook-cli/pkg/runfile"
)

var validateCmd = &cobra.Command{
	Use:   "validate [task-file]",
	Short: "Check the task file for problems",
	Long: `Load the task file and check every action: commands are parsed with a
POSIX shell parser, empty commands and missing working directories are
reported as warnings.

The exit code is non-zero only when a command fails to parse.`,
	Example: `  runbook validate
  runbook validate ops/tasks.cfg`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true

		file, err := loadTaskFile(cmd.ErrOrStderr(), args)
		if err != nil {
			return &ExitError{Code: 1, Err: err}
		}

		diags := validateFile(file)
		errCount := printDiagnostics(cmd.OutOrStdout(), file, diags)
		if errCount > 0 {
			return &ExitError{Code: 1, Err: fmt.Errorf("%d action(s) failed validation", errCount)}
		}
		return nil
	},
}

type (
	// diagLevel separates hard failures from advisory findings.
	diagLevel int

	// diagnostic is one finding for one action or application.
	diagnostic struct {
		App     string
		Action  string
		Level   diagLevel
		Message string
	}
)

const (
	diagWarning diagLevel = iota
	diagError
)

// validateFile checks every action of the task file. Shell syntax errors are
// level error; empty commands and missing working directories are warnings
// because execution may still be intended (the directory can be created, the
// command filled in later).
func validateFile(file *runfile.File) []diagnostic {
	var diags []diagnostic

	parser := syntax.NewParser()
	for _, app := range file.Apps() {
		// Host working directories are checked only when commands run on the
		// host; inside a container the path is the container's concern.
		if file.Container() == "" && app.WorkingDirRaw != "" {
			if info, err := os.Stat(app.WorkingDir); err != nil || !info.IsDir() {
				diags = append(diags, diagnostic{
					App:     app.Name,
					Level:   diagWarning,
					Message: fmt.Sprintf("working directory %q does not exist", app.WorkingDir),
				})
			}
		}

		for _, act := range app.Actions {
			if strings.TrimSpace(act.Command) == "" {
				diags = append(diags, diagnostic{
					App:     app.Name,
					Action:  act.Name,
					Level:   diagWarning,
					Message: "action has no command",
				})
				continue
			}

			name := app.Name + "/" + act.Name
			if _, err := parser.Parse(strings.NewReader(act.Command), name); err != nil {
				diags = append(diags, diagnostic{
					App:     app.Name,
					Action:  act.Name,
					Level:   diagError,
					Message: fmt.Sprintf("syntax error: %v", err),
				})
			}
		}
	}

	return diags
}

// printDiagnostics reports all findings and returns the number of errors.
func printDiagnostics(w io.Writer, file *runfile.File, diags []diagnostic) int {
	fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("Validating"), file.Path())

	errCount := 0
	for _, d := range diags {
		subject := d.App
		if d.Action != "" {
			subject += " - " + d.Action
		}

		switch d.Level {
		case diagError:
			errCount++
			fmt.Fprintf(w, "%s %s: %s\n", ErrorStyle.Render("✗"), subject, d.Message)
		case diagWarning:
			fmt.Fprintf(w, "%s %s: %s\n", WarningStyle.Render("!"), subject, d.Message)
		}
	}

	actions := len(file.AllActions())
	if errCount == 0 {
		fmt.Fprintf(w, "%s\n", SuccessStyle.Render(
			fmt.Sprintf("✓ %d action(s) valid (%d warning(s))", actions, len(diags))))
	} else {
		fmt.Fprintf(w, "%s\n", ErrorStyle.Render(
			fmt.Sprintf("✗ %d of %d action(s) invalid", errCount, actions)))
	}
	return errCount
}
