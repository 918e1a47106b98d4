// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCommand is the sentinel error wrapped by NoCommandError.
	ErrNoCommand = errors.New("no command configured")
	// ErrWorkingDirNotFound is the sentinel error wrapped by WorkingDirError.
	ErrWorkingDirNotFound = errors.New("working directory does not exist")
)

type (
	// NoCommandError is returned when a task's command is empty or
	// whitespace-only. No process is spawned. It wraps ErrNoCommand for
	// errors.Is() compatibility.
	NoCommandError struct {
		App    string
		Action string
	}

	// WorkingDirError is returned when a host-mode working directory does not
	// exist at spawn time. It wraps ErrWorkingDirNotFound for errors.Is()
	// compatibility. Container mode never produces it: the directory only
	// needs to exist inside the container.
	WorkingDirError struct {
		App string
		Dir string
	}
)

// Error implements the error interface for NoCommandError.
func (e *NoCommandError) Error() string {
	return fmt.Sprintf("no command configured for action %q in app %q", e.Action, e.App)
}

// Unwrap returns ErrNoCommand for errors.Is() compatibility.
func (e *NoCommandError) Unwrap() error { return ErrNoCommand }

// Error implements the error interface for WorkingDirError.
func (e *WorkingDirError) Error() string {
	return fmt.Sprintf("working directory %q does not exist for app %q", e.Dir, e.App)
}

// Unwrap returns ErrWorkingDirNotFound for errors.Is() compatibility.
func (e *WorkingDirError) Unwrap() error { return ErrWorkingDirNotFound }
