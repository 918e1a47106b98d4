// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"runbook-cli/internal/history"
	"runbook-cli/internal/issue"
	"runbook-cli/pkg/runfile"
)

// resolveTaskFilePath selects the task file: a positional argument wins over
// the --file flag, which wins over ./runbook.cfg.
func resolveTaskFilePath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if taskFileFlag != "" {
		return taskFileFlag
	}
	return runfile.DefaultName
}

// loadTaskFile loads the selected task file. Fatal load errors are rendered
// to stderr with their issue catalog entry before being returned.
func loadTaskFile(stderr io.Writer, args []string) (*runfile.File, error) {
	file, err := runfile.Load(resolveTaskFilePath(args))
	if err != nil {
		renderLoadIssue(stderr, err)
		return nil, err
	}
	return file, nil
}

// renderLoadIssue prints a task file load error with its catalog guidance.
func renderLoadIssue(stderr io.Writer, err error) {
	var id issue.Id
	switch {
	case errors.Is(err, runfile.ErrNotFound):
		id = issue.TaskFileNotFoundId
	case errors.Is(err, runfile.ErrEmpty):
		id = issue.TaskFileEmptyId
	case errors.Is(err, runfile.ErrParse):
		id = issue.TaskFileParseErrorId
	default:
		fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+err.Error())
		return
	}

	fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+err.Error())
	renderIssue(stderr, id)
}

// openRecorder opens the history store when settings enable it. The returned
// close function is always safe to call. A nil store disables recording;
// callers must check for nil before handing it to an interface field.
func openRecorder(stderr io.Writer) (*history.Store, func()) {
	noop := func() {}
	if !settings.History.Enabled {
		return nil, noop
	}

	path, err := settings.History.ResolvePath()
	if err == nil {
		store, openErr := history.Open(path)
		if openErr == nil {
			return store, func() { _ = store.Close() }
		}
		err = openErr
	}

	log.Debug("history store unavailable", "err", err)
	fmt.Fprintln(stderr, WarningStyle.Render("Warning: ")+"executions will not be recorded: "+err.Error())
	return nil, noop
}
