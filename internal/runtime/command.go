// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"strings"
)

const (
	// shellName and shellFlag form the shell invoker: every command runs
	// through `bash -lc` so the command text stays opaque to the engine.
	shellName = "bash"
	shellFlag = "-lc"
)

// Quote renders s as a single shell word: strings with no characters the
// shell could interpret pass through bare, everything else is wrapped in
// single quotes with embedded single quotes escaped as '\''. The empty string
// quotes to ''. This is the only escaping implementation in the engine; both
// host and container construction use it.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'\\$`") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// buildCommand constructs the child process and its display command line.
//
// Container mode nests the command inside the wrapper:
//
//	<container> bash -lc '<cd raw-working-dir && >command'
//
// and the whole line runs through the host shell from the task file's
// directory, with no host-side working directory check. Host mode runs the
// command directly with the resolved working directory, which must exist.
func (r *Runner) buildCommand(ctx context.Context, task Task) (*exec.Cmd, string, error) {
	command := strings.TrimSpace(task.Action.Command)
	if command == "" {
		return nil, "", &NoCommandError{App: task.App.Name, Action: task.Action.Name}
	}

	if container := r.file.Container(); container != "" {
		inner := command
		if raw := strings.TrimSpace(task.App.WorkingDirRaw); raw != "" {
			inner = "cd " + Quote(raw) + " && " + command
		}

		full := container + " " + shellName + " " + shellFlag + " " + Quote(inner)
		cmd := exec.CommandContext(ctx, shellName, shellFlag, full)
		cmd.Dir = r.file.BaseDir()
		return cmd, full, nil
	}

	dir := strings.TrimSpace(task.App.WorkingDir)
	if dir == "" {
		dir = r.file.BaseDir()
	}
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", &WorkingDirError{App: task.App.Name, Dir: dir}
		}
		return nil, "", err
	}

	cmd := exec.CommandContext(ctx, shellName, shellFlag, command)
	cmd.Dir = dir
	return cmd, shellName + " " + shellFlag + " " + Quote(command), nil
}
