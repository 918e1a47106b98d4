// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runtime

import (
	"io"
	"os/exec"

	"github.com/creack/pty"
)

// runOnTerminal runs cmd on a pseudo-terminal, draining combined output into
// sink. The PTY merges stdout and stderr in real order and lets interactive
// children detect a terminal.
func runOnTerminal(cmd *exec.Cmd, sink io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}
	defer ptmx.Close()

	// The copy ends with a read error when the child closes its side of the
	// PTY; that is the normal shutdown path, not a failure.
	_, _ = io.Copy(sink, ptmx)

	return cmd.Wait()
}
