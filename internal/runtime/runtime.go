// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"

	"runbook-cli/pkg/runfile"
)

const (
	// SingleInteractive runs one action with output mirrored live to the
	// caller's writer and to the log file simultaneously.
	SingleInteractive Mode = iota
	// BatchInteractive runs actions with output captured to log files only.
	BatchInteractive
	// CI streams output directly to the console and never creates log files.
	CI
)

type (
	// Mode selects where command output is mirrored. It never changes how the
	// command line itself is constructed.
	Mode int

	// Task is one executable unit: an action together with its owning app.
	Task struct {
		App    runfile.App
		Action runfile.Action
	}

	// RunParams customizes a single execution. Stdout/Stderr are optional
	// mirror targets in addition to the log file; when Stderr is nil the
	// child's stderr joins the combined stdout stream.
	RunParams struct {
		Mode   Mode
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result is the immutable record of one execution attempt.
	Result struct {
		ID         string
		AppName    string
		ActionName string
		Command    string
		FullCmd    string
		LogPath    string
		Success    bool
		Err        error
		StartedAt  time.Time
		FinishedAt time.Time
	}

	// Runner executes tasks against a loaded task file.
	Runner struct {
		file  *runfile.File
		ciOut io.Writer
		ciErr io.Writer
	}
)

// String returns the mode name used in logs and debug output.
func (m Mode) String() string {
	switch m {
	case SingleInteractive:
		return "single"
	case BatchInteractive:
		return "batch"
	case CI:
		return "ci"
	default:
		return "unknown"
	}
}

// Duration returns the wall-clock time the execution took.
func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewRunner creates a Runner for the given task file. CI-mode output goes to
// the process's stdout/stderr unless overridden with WithStreams.
func NewRunner(file *runfile.File) *Runner {
	return &Runner{
		file:  file,
		ciOut: os.Stdout,
		ciErr: os.Stderr,
	}
}

// WithStreams overrides the CI console writers and returns the Runner.
func (r *Runner) WithStreams(out, errOut io.Writer) *Runner {
	r.ciOut = out
	r.ciErr = errOut
	return r
}

// File returns the task file this Runner executes against.
func (r *Runner) File() *runfile.File { return r.file }

// Run executes a single task and returns its Result. Failures are captured
// in the Result, never returned as a process-fatal error.
func (r *Runner) Run(ctx context.Context, task Task, params RunParams) Result {
	res := Result{
		ID:         uuid.NewString(),
		AppName:    task.App.Name,
		ActionName: task.Action.Name,
		Command:    task.Action.Command,
		StartedAt:  time.Now(),
	}

	logFile, logPath, err := r.openLog(task, params.Mode)
	if err != nil {
		res.Err = err
		res.FinishedAt = time.Now()
		return res
	}
	res.LogPath = logPath

	cmd, display, err := r.buildCommand(ctx, task)
	res.FullCmd = display
	if err != nil {
		res.Err = err
		res.FinishedAt = time.Now()
		if logFile != nil {
			logFile.Close()
		}
		return res
	}

	runErr := runProcess(cmd, logFile, params)
	res.FinishedAt = time.Now()
	if runErr != nil {
		res.Err = runErr
	} else {
		res.Success = true
	}

	if logFile != nil {
		logFile.Close()
	}

	return res
}

// RunParallel executes tasks concurrently, one goroutine per task with no
// concurrency cap, and waits for all of them. The returned slice preserves
// the input order regardless of completion order.
func (r *Runner) RunParallel(ctx context.Context, tasks []Task, mode Mode) []Result {
	results := make([]Result, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			params := RunParams{Mode: mode}
			if mode == CI {
				params.Stdout = r.ciOut
				params.Stderr = r.ciErr
			}
			results[i] = r.Run(ctx, task, params)
		}()
	}

	wg.Wait()
	return results
}

// runProcess wires output routing and runs the child to completion. The log
// file always receives combined output; params writers are additional mirror
// targets. Single-interactive runs go through the terminal-backed path so
// live mirroring preserves interleaving.
func runProcess(cmd *exec.Cmd, logFile *os.File, params RunParams) error {
	if params.Mode == SingleInteractive && params.Stdout != nil && logFile != nil {
		return runOnTerminal(cmd, io.MultiWriter(logFile, params.Stdout))
	}

	var writers []io.Writer
	if logFile != nil {
		writers = append(writers, logFile)
	}
	if params.Stdout != nil {
		writers = append(writers, params.Stdout)
	}

	if params.Stderr != nil && params.Stderr != params.Stdout {
		cmd.Stderr = params.Stderr
	}
	if len(writers) > 0 {
		multi := io.MultiWriter(writers...)
		cmd.Stdout = multi
		if cmd.Stderr == nil {
			cmd.Stderr = multi
		}
	}

	if cmd.Stdout == nil {
		cmd.Stdout = io.Discard
	}
	if cmd.Stderr == nil {
		cmd.Stderr = io.Discard
	}

	return cmd.Run()
}
