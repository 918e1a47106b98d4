// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"runbook-cli/internal/batch"
	"runbook-cli/internal/issue"
	"runbook-cli/internal/runtime"
	"runbook-cli/internal/watch"
)

var (
	// watchFlag re-runs the batch whenever the task file changes.
	watchFlag bool

	runCmd = &cobra.Command{
		Use:   "run <app-pattern> <action-pattern>",
		Short: "Run matching actions in parallel (batch mode)",
		Long: `Run every action selected by the patterns in parallel, streaming output
to the console. Designed for CI pipelines: the exit code is 0 only when
every action succeeded.

Patterns match application and action names: an exact name matches first,
'*' patterns match as globs, anything else as a case-insensitive
substring. Comma-separated lists combine patterns, and the action pattern
'all' selects every action of the matched applications.`,
		Example: `  # Run the build action of the Web application
  runbook run Web build

  # Run every action of every application
  runbook run all all

  # Substring and glob selection (quote globs from your shell)
  runbook run web "test*"

  # Re-run on task file changes
  runbook run Web build --watch`,
		Args: cobra.ExactArgs(2),
		RunE: runBatch,
	}
)

func init() {
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "re-run the batch when the task file changes")
}

// runBatch executes one batch, or keeps re-running it on task file changes
// in --watch mode.
func runBatch(cmd *cobra.Command, args []string) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	store, closeStore := openRecorder(stderr)
	defer closeStore()

	// The task file is reloaded per execution so watch mode picks up edits.
	exec := func(ctx context.Context) error {
		file, err := loadTaskFile(stderr, nil)
		if err != nil {
			return err
		}

		opts := batch.Options{Out: stdout, Err: stderr}
		if store != nil {
			opts.Recorder = store
		}
		return batch.New(file, opts).Run(ctx, args[0], args[1])
	}

	if !watchFlag {
		if err := exec(cmd.Context()); err != nil {
			reportBatchError(stderr, err)
			return &ExitError{Code: 1, Err: err}
		}
		return nil
	}

	// Watch mode reports failures and keeps watching instead of exiting.
	if err := exec(cmd.Context()); err != nil {
		reportBatchError(stderr, err)
	}

	path := resolveTaskFilePath(nil)
	w, err := watch.ForFile(path, watch.Config{
		Debounce:    settings.Watch.Debounce(),
		ClearScreen: true,
		Stdout:      stdout,
		Stderr:      stderr,
		OnChange: func(ctx context.Context, _ []string) error {
			if runErr := exec(ctx); runErr != nil {
				reportBatchError(stderr, runErr)
			}
			return nil
		},
	})
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintln(stdout, SubtitleStyle.Render(
		fmt.Sprintf("Watching %s for changes. Press Ctrl+C to stop.", path)))
	if err := w.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}

// reportBatchError prints catalog guidance for classifiable failures. Load
// failures were already rendered and execution failures summarized by the
// batch driver.
func reportBatchError(stderr io.Writer, err error) {
	if errors.Is(err, batch.ErrNoAppsMatched) || errors.Is(err, batch.ErrNoActionsMatched) {
		fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+err.Error())
		renderIssue(stderr, issue.NoMatchId)
		return
	}

	// A failed batch renders guidance for well-known per-task causes, each
	// at most once.
	var fe *batch.FailureError
	if !errors.As(err, &fe) {
		return
	}
	rendered := make(map[issue.Id]bool)
	for _, cause := range fe.Causes {
		var id issue.Id
		switch {
		case errors.Is(cause, runtime.ErrNoCommand):
			id = issue.NoCommandId
		case errors.Is(cause, runtime.ErrWorkingDirNotFound):
			id = issue.WorkingDirNotFoundId
		default:
			continue
		}
		if !rendered[id] {
			rendered[id] = true
			renderIssue(stderr, id)
		}
	}
}
