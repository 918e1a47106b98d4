// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"
)

func requireBash(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
}

func TestRun_Success(t *testing.T) {
	t.Parallel()
	requireBash(t)

	f := loadTestFile(t, "[Web]\ngreet=echo hello\n")
	r := NewRunner(f)

	res := r.Run(context.Background(), taskFor(t, f, "Web", "greet"), RunParams{Mode: BatchInteractive})

	if !res.Success {
		t.Fatalf("Run() failed: %v", res.Err)
	}
	if res.ID == "" {
		t.Error("Result.ID is empty, want a generated id")
	}
	if res.AppName != "Web" || res.ActionName != "greet" {
		t.Errorf("Result names = %s/%s, want Web/greet", res.AppName, res.ActionName)
	}
	if res.FullCmd != "bash -lc 'echo hello'" {
		t.Errorf("FullCmd = %q, want %q", res.FullCmd, "bash -lc 'echo hello'")
	}
	if res.FinishedAt.Before(res.StartedAt) {
		t.Errorf("FinishedAt %v precedes StartedAt %v", res.FinishedAt, res.StartedAt)
	}

	data, err := os.ReadFile(res.LogPath)
	if err != nil {
		t.Fatalf("read log %q: %v", res.LogPath, err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log contents = %q, want it to contain %q", data, "hello")
	}
}

func TestRun_FailureIsCapturedNotFatal(t *testing.T) {
	t.Parallel()
	requireBash(t)

	f := loadTestFile(t, "[Web]\nfail=exit 3\n")
	r := NewRunner(f)

	res := r.Run(context.Background(), taskFor(t, f, "Web", "fail"), RunParams{Mode: BatchInteractive})

	if res.Success {
		t.Fatal("Run() reported success for a failing command")
	}
	var exitErr *exec.ExitError
	if !errors.As(res.Err, &exitErr) {
		t.Errorf("Result.Err = %v, want an *exec.ExitError", res.Err)
	}
}

func TestRun_NoCommand(t *testing.T) {
	t.Parallel()

	f := loadTestFile(t, "[Web]\nnoop=\n")
	r := NewRunner(f)

	res := r.Run(context.Background(), taskFor(t, f, "Web", "noop"), RunParams{Mode: BatchInteractive})

	if res.Success {
		t.Fatal("Run() reported success for an empty command")
	}
	if !errors.Is(res.Err, ErrNoCommand) {
		t.Errorf("Result.Err = %v, want ErrNoCommand", res.Err)
	}
}

func TestRun_CIStreamsAndSkipsLog(t *testing.T) {
	t.Parallel()
	requireBash(t)

	f := loadTestFile(t, "[Web]\ngreet=echo streamed\n")
	r := NewRunner(f)

	var out bytes.Buffer
	res := r.Run(context.Background(), taskFor(t, f, "Web", "greet"), RunParams{Mode: CI, Stdout: &out, Stderr: &out})

	if !res.Success {
		t.Fatalf("Run() failed: %v", res.Err)
	}
	if res.LogPath != "" {
		t.Errorf("LogPath = %q, want empty in CI mode", res.LogPath)
	}
	if !strings.Contains(out.String(), "streamed") {
		t.Errorf("console output = %q, want it to contain %q", out.String(), "streamed")
	}
}

func TestRun_ContextCancellationKillsChild(t *testing.T) {
	t.Parallel()
	requireBash(t)

	f := loadTestFile(t, "[Web]\nwait=sleep 30\n")
	r := NewRunner(f)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res := r.Run(ctx, taskFor(t, f, "Web", "wait"), RunParams{Mode: BatchInteractive})

	if res.Success {
		t.Fatal("Run() reported success for a cancelled command")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took %v, want prompt termination", elapsed)
	}
}

func TestRunParallel_PreservesInputOrder(t *testing.T) {
	t.Parallel()
	requireBash(t)

	// Reverse-staggered sleeps: the first task finishes last.
	f := loadTestFile(t, "[Web]\nslow=sleep 0.4 && echo slow\nmid=sleep 0.2 && echo mid\nfast=echo fast\n")
	r := NewRunner(f)

	tasks := []Task{
		taskFor(t, f, "Web", "slow"),
		taskFor(t, f, "Web", "mid"),
		taskFor(t, f, "Web", "fast"),
	}

	start := time.Now()
	results := r.RunParallel(context.Background(), tasks, BatchInteractive)
	elapsed := time.Since(start)

	if len(results) != len(tasks) {
		t.Fatalf("RunParallel() returned %d results, want %d", len(results), len(tasks))
	}
	for i, task := range tasks {
		if results[i].ActionName != task.Action.Name {
			t.Errorf("results[%d] = %s, want %s (input order)", i, results[i].ActionName, task.Action.Name)
		}
		if !results[i].Success {
			t.Errorf("results[%d] (%s) failed: %v", i, results[i].ActionName, results[i].Err)
		}
	}

	// Concurrency bound: roughly the slowest task, far below the 0.6s sum.
	if elapsed > 2*time.Second {
		t.Errorf("RunParallel() took %v, want parallel execution", elapsed)
	}
}

func TestRunParallel_CollectsMixedResults(t *testing.T) {
	t.Parallel()
	requireBash(t)

	f := loadTestFile(t, "[Web]\nok1=true\nbad=false\nok2=true\n")
	r := NewRunner(f)

	tasks := []Task{
		taskFor(t, f, "Web", "ok1"),
		taskFor(t, f, "Web", "bad"),
		taskFor(t, f, "Web", "ok2"),
	}

	results := r.RunParallel(context.Background(), tasks, BatchInteractive)

	var successes, failures int
	var failedName string
	for _, res := range results {
		if res.Success {
			successes++
		} else {
			failures++
			failedName = res.ActionName
		}
	}

	if successes != 2 || failures != 1 {
		t.Errorf("got %d successes and %d failures, want 2 and 1", successes, failures)
	}
	if failedName != "bad" {
		t.Errorf("failed action = %q, want %q", failedName, "bad")
	}
}

func TestRun_SingleInteractiveMirrorsLive(t *testing.T) {
	t.Parallel()
	requireBash(t)
	probe, err := os.OpenFile("/dev/ptmx", os.O_RDWR, 0)
	if err != nil {
		t.Skip("no pty support in this environment")
	}
	probe.Close()

	f := loadTestFile(t, "[Web]\ngreet=echo mirrored\n")
	r := NewRunner(f)

	var live syncBuffer
	res := r.Run(context.Background(), taskFor(t, f, "Web", "greet"), RunParams{Mode: SingleInteractive, Stdout: &live})

	if !res.Success {
		t.Fatalf("Run() failed: %v", res.Err)
	}
	if !strings.Contains(live.String(), "mirrored") {
		t.Errorf("live output = %q, want it to contain %q", live.String(), "mirrored")
	}

	data, err := os.ReadFile(res.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "mirrored") {
		t.Errorf("log contents = %q, want it to contain %q", data, "mirrored")
	}
}

// syncBuffer is a race-safe bytes.Buffer for writers shared with the runner.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
