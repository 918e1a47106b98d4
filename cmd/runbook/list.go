// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"runbook-cli/internal/issue"
	"runbook-cli/internal/pattern"
	"runbook-cli/pkg/runfile"
)

// Structured output formats shared by `list` and `history`.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var (
	listOutput string

	listCmd = &cobra.Command{
		Use:   "list [app-pattern]",
		Short: "List applications and actions from the task file",
		Example: `  # Everything the task file defines
  runbook list

  # Only applications matching a pattern
  runbook list web

  # Machine-readable output
  runbook list --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			file, err := loadTaskFile(cmd.ErrOrStderr(), nil)
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}

			appPattern := ""
			if len(args) > 0 {
				appPattern = args[0]
			}

			if err := renderList(cmd.OutOrStdout(), file, appPattern, listOutput); err != nil {
				var pe *patternError
				if errors.As(err, &pe) {
					fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+pe.Error())
					renderIssue(cmd.ErrOrStderr(), issue.NoMatchId)
				}
				return &ExitError{Code: 1, Err: err}
			}
			return nil
		},
	}
)

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", outputTable, "output format: table, json, or yaml")
}

type (
	// listedApp is the structured-output shape of one application.
	listedApp struct {
		Name       string         `json:"name" yaml:"name"`
		WorkingDir string         `json:"working_dir,omitempty" yaml:"working_dir,omitempty"`
		Actions    []listedAction `json:"actions" yaml:"actions"`
	}

	listedAction struct {
		Name    string `json:"name" yaml:"name"`
		Command string `json:"command" yaml:"command"`
	}

	// patternError marks a list failure caused by a non-matching pattern so
	// the command can attach catalog guidance.
	patternError struct {
		pattern string
	}
)

func (e *patternError) Error() string {
	return fmt.Sprintf("no applications match %q", e.pattern)
}

// renderList writes the selected applications in the requested format.
func renderList(w io.Writer, file *runfile.File, appPattern, format string) error {
	apps := file.Apps()
	if appPattern != "" {
		names := make([]string, len(apps))
		for i := range apps {
			names[i] = apps[i].Name
		}
		matched := pattern.MatchSet(appPattern, names)
		if len(matched) == 0 {
			return &patternError{pattern: appPattern}
		}

		selected := make([]runfile.App, 0, len(matched))
		for _, name := range matched {
			if app, ok := file.App(name); ok {
				selected = append(selected, app)
			}
		}
		apps = selected
	}

	listed := make([]listedApp, 0, len(apps))
	for _, app := range apps {
		la := listedApp{Name: app.Name, WorkingDir: app.WorkingDirRaw}
		for _, act := range app.Actions {
			la.Actions = append(la.Actions, listedAction{Name: act.Name, Command: act.Command})
		}
		listed = append(listed, la)
	}

	switch format {
	case outputTable:
		renderListTable(w, file, listed)
		return nil
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(listed)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(listed)
	default:
		return fmt.Errorf("unknown output format %q (expected table, json, or yaml)", format)
	}
}

func renderListTable(w io.Writer, file *runfile.File, apps []listedApp) {
	fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("Task file:"), file.Path())

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"APP", "ACTION", "COMMAND"})

	actions := 0
	for _, app := range apps {
		for i, act := range app.Actions {
			actions++
			// Print the application name once per group.
			name := ""
			if i == 0 {
				name = app.Name
			}
			t.AppendRow(table.Row{name, act.Name, act.Command})
		}
	}
	t.Render()

	fmt.Fprintf(w, "%s\n", SubtitleStyle.Render(
		fmt.Sprintf("%d application(s), %d action(s)", len(apps), actions)))
}
