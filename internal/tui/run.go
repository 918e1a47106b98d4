// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"runbook-cli/internal/runtime"
)

const (
	// outputBuffer smooths bursts of child output between pump wakeups.
	outputBuffer = 64
	// liveTailMax bounds the retained live-output lines.
	liveTailMax = 500
)

// chanWriter forwards writes to a channel drained by the update loop.
type chanWriter struct {
	ch chan<- string
}

func (w *chanWriter) Write(p []byte) (int, error) {
	w.ch <- string(p)
	return len(p), nil
}

// runSingleCmd executes one action, mirroring its output through sink while
// it runs.
func runSingleCmd(ctx context.Context, runner *runtime.Runner, task runtime.Task, sink chan string, rec Recorder) tea.Cmd {
	return func() tea.Msg {
		params := runtime.RunParams{
			Mode:   runtime.SingleInteractive,
			Stdout: &chanWriter{ch: sink},
		}
		res := runner.Run(ctx, task, params)
		close(sink)
		record(rec, res)
		return runResultsMsg{results: []runtime.Result{res}, mode: runtime.SingleInteractive}
	}
}

// runBatchCmd executes the tasks in parallel and delivers every result once
// the join barrier releases.
func runBatchCmd(ctx context.Context, runner *runtime.Runner, tasks []runtime.Task, rec Recorder) tea.Cmd {
	return func() tea.Msg {
		results := runner.RunParallel(ctx, tasks, runtime.BatchInteractive)
		for _, res := range results {
			record(rec, res)
		}
		return runResultsMsg{results: results, mode: runtime.BatchInteractive}
	}
}

// record persists one result. Recording is best effort: failures are logged
// at debug level, never surfaced in the interface.
func record(rec Recorder, res runtime.Result) {
	if rec == nil {
		return
	}
	if err := rec.Record(context.Background(), res); err != nil {
		log.Debug("history record failed",
			"app", res.AppName, "action", res.ActionName, "err", err)
	}
}

// waitForOutput delivers the next chunk of live output, or the end-of-stream
// marker once the channel closes.
func waitForOutput(ch chan string) tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-ch
		if !ok {
			return outputClosedMsg{}
		}
		return outputMsg{chunk: chunk}
	}
}

// appendTail merges chunk into tail, splitting on newlines and keeping at
// most max lines. The final element is the still-open line.
func appendTail(tail []string, chunk string, max int) []string {
	chunk = strings.ReplaceAll(chunk, "\r\n", "\n")
	chunk = strings.ReplaceAll(chunk, "\r", "\n")

	parts := strings.Split(chunk, "\n")
	if len(tail) == 0 {
		tail = append(tail, parts[0])
	} else {
		tail[len(tail)-1] += parts[0]
	}
	tail = append(tail, parts[1:]...)

	if len(tail) > max {
		tail = tail[len(tail)-max:]
	}
	return tail
}
