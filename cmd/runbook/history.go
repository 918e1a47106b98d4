// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"runbook-cli/internal/history"
	"runbook-cli/internal/issue"
)

var (
	historyLimit  int
	historyApp    string
	historyFailed bool
	historyOutput string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded executions",
	Long: `Show past executions recorded in the history database, most recent
first. Recording is controlled by the history section of the settings
file; this command reads whatever has been recorded regardless.`,
	Example: `  runbook history
  runbook history --app web --limit 10
  runbook history --failed -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true

		path, err := settings.History.ResolvePath()
		if err != nil {
			renderIssue(cmd.ErrOrStderr(), issue.HistoryUnavailableId)
			return &ExitError{Code: 1, Err: err}
		}

		// Open creates the database file; stat first so a read-only command
		// does not leave an empty store behind.
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No executions recorded yet.")
			return nil
		}

		store, err := history.Open(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", formatErrorForDisplay(err, verbose))
			renderIssue(cmd.ErrOrStderr(), issue.HistoryUnavailableId)
			return &ExitError{Code: 1, Err: err}
		}
		defer store.Close()

		entries, err := store.List(cmd.Context(), history.Filter{
			Limit:      historyLimit,
			App:        historyApp,
			FailedOnly: historyFailed,
		})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", formatErrorForDisplay(err, verbose))
			return &ExitError{Code: 1, Err: err}
		}

		return renderHistory(cmd.OutOrStdout(), entries, historyOutput)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries to show")
	historyCmd.Flags().StringVar(&historyApp, "app", "", "only show executions of this application")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "only show failed executions")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", outputTable, "output format (table, json, yaml)")
}

// historyRow is the serialization shape for one entry in json/yaml output.
type historyRow struct {
	App        string `json:"app" yaml:"app"`
	Action     string `json:"action" yaml:"action"`
	Command    string `json:"command" yaml:"command"`
	Success    bool   `json:"success" yaml:"success"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt  string `json:"started_at" yaml:"started_at"`
	FinishedAt string `json:"finished_at" yaml:"finished_at"`
	Duration   string `json:"duration" yaml:"duration"`
}

func renderHistory(w io.Writer, entries []history.Entry, format string) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No executions recorded yet.")
		return nil
	}

	switch format {
	case outputTable:
		renderHistoryTable(w, entries)
		return nil
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(historyRows(entries))
	case outputYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(historyRows(entries))
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func historyRows(entries []history.Entry) []historyRow {
	rows := make([]historyRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, historyRow{
			App:        e.App,
			Action:     e.Action,
			Command:    e.Command,
			Success:    e.Success,
			Error:      e.Error,
			StartedAt:  e.StartedAt.Format(time.RFC3339),
			FinishedAt: e.FinishedAt.Format(time.RFC3339),
			Duration:   e.Duration().Round(time.Millisecond).String(),
		})
	}
	return rows
}

func renderHistoryTable(w io.Writer, entries []history.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"APP", "ACTION", "STATUS", "STARTED", "DURATION"})

	failed := 0
	for _, e := range entries {
		status := SuccessStyle.Render("ok")
		if !e.Success {
			status = ErrorStyle.Render("failed")
			failed++
		}
		t.AppendRow(table.Row{
			e.App,
			e.Action,
			status,
			e.StartedAt.Format("2006-01-02 15:04:05"),
			e.Duration().Round(time.Millisecond).String(),
		})
	}
	t.Render()
	fmt.Fprintf(w, "%d execution(s), %d failed\n", len(entries), failed)
}
