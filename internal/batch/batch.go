// SPDX-License-Identifier: MPL-2.0

// Package batch drives non-interactive execution for CI pipelines.
//
// A Driver resolves fuzzy app and action patterns against a task file, runs
// the resulting cross product in parallel with output streamed straight to
// the console, and prints a summary. The process exit code is the caller's
// concern: Run reports failures through typed errors.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"runbook-cli/internal/pattern"
	"runbook-cli/internal/runtime"
	"runbook-cli/pkg/runfile"
)

// bannerWidth is the width of the separator rules around the run banner.
const bannerWidth = 40

type (
	// Recorder persists finished executions. A nil Recorder disables
	// recording; failures never affect the batch outcome.
	Recorder interface {
		Record(ctx context.Context, res runtime.Result) error
	}

	// Options configures a Driver. Zero-value writers default to the
	// process streams.
	Options struct {
		Out      io.Writer
		Err      io.Writer
		Recorder Recorder
	}

	// Driver executes pattern-selected actions against one task file.
	Driver struct {
		file   *runfile.File
		runner *runtime.Runner
		out    io.Writer
		errOut io.Writer
		rec    Recorder
		styles styleSet
	}

	styleSet struct {
		header  lipgloss.Style
		success lipgloss.Style
		failure lipgloss.Style
		warning lipgloss.Style
		dim     lipgloss.Style
	}

	// plan is the resolved work for one Run call.
	plan struct {
		apps  []string
		tasks []runtime.Task
	}
)

func defaultStyles() styleSet {
	return styleSet{
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

// New creates a Driver over a loaded task file. Child output in CI mode
// streams to the same writers the Driver prints to.
func New(file *runfile.File, opts Options) *Driver {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	return &Driver{
		file:   file,
		runner: runtime.NewRunner(file).WithStreams(out, errOut),
		out:    out,
		errOut: errOut,
		rec:    opts.Recorder,
		styles: defaultStyles(),
	}
}

// Run resolves the patterns, executes every selected action in parallel and
// prints per-task status plus a final summary. The error is nil only when
// every action succeeded.
func (d *Driver) Run(ctx context.Context, appPattern, actionPattern string) error {
	p, err := d.resolve(appPattern, actionPattern)
	if err != nil {
		return err
	}

	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(d.out, "%s\n", d.styles.header.Render("runbook batch execution (parallel)"))
	fmt.Fprintf(d.out, "App pattern: %q  matched: %s\n", appPattern, strings.Join(p.apps, ", "))
	fmt.Fprintf(d.out, "Action pattern: %q\n", actionPattern)
	fmt.Fprintf(d.out, "Task file: %s\n", d.file.Path())
	fmt.Fprintln(d.out, rule)
	fmt.Fprintf(d.out, "Running %d action(s) in parallel...\n", len(p.tasks))
	fmt.Fprintln(d.out, rule)

	for _, task := range p.tasks {
		fmt.Fprintf(d.out, "%s Starting: %s - %s\n",
			d.styles.dim.Render("•"), task.App.Name, task.Action.Name)
	}

	results := d.runner.RunParallel(ctx, p.tasks, runtime.CI)

	fmt.Fprintln(d.out, rule)
	failed := 0
	var causes []error
	for _, res := range results {
		d.record(res)
		if res.Success {
			fmt.Fprintf(d.out, "%s Completed: %s - %s (%s)\n",
				d.styles.success.Render("✓"), res.AppName, res.ActionName,
				res.Duration().Round(time.Millisecond))
			continue
		}
		failed++
		fmt.Fprintf(d.out, "%s Failed: %s - %s (%s)\n",
			d.styles.failure.Render("✗"), res.AppName, res.ActionName,
			res.Duration().Round(time.Millisecond))
		if res.Err != nil {
			causes = append(causes, res.Err)
			fmt.Fprintf(d.out, "    %v\n", res.Err)
		}
	}

	fmt.Fprintln(d.out, rule)
	fmt.Fprintf(d.out, "Actions executed: %d\n", len(results))
	fmt.Fprintf(d.out, "%s\n", d.styles.success.Render(fmt.Sprintf("✓ Succeeded: %d", len(results)-failed)))
	if failed > 0 {
		fmt.Fprintf(d.out, "%s\n", d.styles.failure.Render(fmt.Sprintf("✗ Failed: %d", failed)))
		for _, res := range results {
			if !res.Success {
				fmt.Fprintf(d.out, "%s\n", d.styles.failure.Render(fmt.Sprintf("    %s - %s", res.AppName, res.ActionName)))
			}
		}
		return &FailureError{Failed: failed, Total: len(results), Causes: causes}
	}

	fmt.Fprintf(d.out, "%s\n", d.styles.success.Render("All actions completed successfully"))
	return nil
}

// resolve expands the patterns into concrete tasks. An application with no
// matching actions produces a warning and drops out; the run only aborts
// when nothing at all matches.
func (d *Driver) resolve(appPattern, actionPattern string) (plan, error) {
	apps := d.file.Apps()
	names := make([]string, len(apps))
	for i := range apps {
		names[i] = apps[i].Name
	}

	matched := pattern.MatchSet(appPattern, names)
	if len(matched) == 0 {
		return plan{}, &NoAppsError{Pattern: appPattern, Available: names}
	}

	p := plan{apps: matched}
	for _, name := range matched {
		app, ok := d.file.App(name)
		if !ok {
			continue
		}

		actionNames := app.ActionNames()
		selected := pattern.MatchActions(actionPattern, actionNames)
		if len(selected) == 0 {
			fmt.Fprintf(d.errOut, "%s no actions match %q for %s (available: %s)\n",
				d.styles.warning.Render("Warning:"), actionPattern, name,
				strings.Join(actionNames, ", "))
			continue
		}

		for _, actionName := range selected {
			if act, ok := app.Action(actionName); ok {
				p.tasks = append(p.tasks, runtime.Task{App: app, Action: act})
			}
		}
	}

	if len(p.tasks) == 0 {
		return plan{}, &NoActionsError{Pattern: actionPattern}
	}
	return p, nil
}

// record persists one result. Best effort; a failure is a debug-level note.
func (d *Driver) record(res runtime.Result) {
	if d.rec == nil {
		return
	}
	if err := d.rec.Record(context.Background(), res); err != nil {
		log.Debug("history record failed",
			"app", res.AppName, "action", res.ActionName, "err", err)
	}
}
