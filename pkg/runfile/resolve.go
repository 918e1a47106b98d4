// SPDX-License-Identifier: MPL-2.0

package runfile

import (
	"os"
	"path/filepath"
	"strings"
)

// finalize resolves every path in the file. Called exactly once by Load,
// after parsing; the File is immutable from then on.
func (f *File) finalize() {
	f.logDir = f.resolvePath(f.logDirRaw)
	if f.logDir == "" {
		f.logDir = filepath.Join(f.baseDir, "logs")
	}

	for i := range f.apps {
		app := &f.apps[i]
		app.WorkingDir = f.resolveWorkingDir(app.WorkingDirRaw)
		app.LogDir = f.resolveLogDir(app.LogDirRaw)
	}
}

// resolvePath resolves a user-supplied path against the task file location:
// absolute paths pass through, a leading tilde expands to the user's home,
// and anything else is relative to the task file's directory. Empty input
// resolves to "".
func (f *File) resolvePath(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	expanded := expandHome(trimmed)
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded)
	}
	return filepath.Clean(filepath.Join(f.baseDir, expanded))
}

// resolveWorkingDir resolves an application working directory. In container
// mode the raw value is kept as-is (resolution happens inside the container)
// and the host-side result is empty. On the host, an unset value defaults to
// the task file's directory.
func (f *File) resolveWorkingDir(value string) string {
	trimmed := strings.TrimSpace(value)
	if f.container != "" {
		return ""
	}
	if trimmed == "" {
		return f.baseDir
	}
	return f.resolvePath(trimmed)
}

// resolveLogDir resolves an application log directory: app override, then the
// file-level default. Log directories always resolve host-side, container
// mode or not, because log files are host artifacts.
func (f *File) resolveLogDir(value string) string {
	resolved := f.resolvePath(value)
	if resolved == "" {
		return f.logDir
	}
	return resolved
}

// expandHome expands "~" and "~/..." against the user's home directory.
// Other tilde forms and lookup failures leave the value unchanged.
func expandHome(value string) string {
	if value == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return value
		}
		return home
	}

	if rest, ok := strings.CutPrefix(value, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return value
		}
		return filepath.Join(home, rest)
	}

	return value
}
