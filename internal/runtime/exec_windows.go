// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runtime

import (
	"io"
	"os/exec"
)

// runOnTerminal runs cmd with combined output piped into sink. Windows has no
// PTY support here, so live mirroring loses terminal semantics but keeps the
// tee behavior.
func runOnTerminal(cmd *exec.Cmd, sink io.Writer) error {
	cmd.Stdout = sink
	cmd.Stderr = sink
	return cmd.Run()
}
