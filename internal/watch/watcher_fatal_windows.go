// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// Win32 error codes that leave the watcher unrecoverable.
const (
	// ERROR_TOO_MANY_OPEN_FILES: per-process handle limit, the EMFILE analog.
	errnoTooManyOpenFiles = syscall.Errno(4)
	// ERROR_INVALID_HANDLE: the watched directory was deleted or unmounted.
	errnoInvalidHandle = syscall.Errno(6)
	// ERROR_NOT_ENOUGH_MEMORY: ReadDirectoryChangesW buffer allocation failed.
	errnoNotEnoughMemory = syscall.Errno(8)
)

// isFatalFsnotifyError reports whether an fsnotify error means the watcher
// cannot recover. ReadDirectoryChangesW has no inotify-style watch limits,
// but handle exhaustion and invalidated handles still end the watch.
func isFatalFsnotifyError(err error) bool {
	return errors.Is(err, errnoTooManyOpenFiles) ||
		errors.Is(err, errnoInvalidHandle) ||
		errors.Is(err, errnoNotEnoughMemory)
}
