// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// logTimeFormat is the timestamp prefix of log file names.
const logTimeFormat = "20060102_150405"

// openLog creates the log file for one execution. CI mode never logs to a
// file. Directory creation is idempotent, so parallel tasks sharing a log
// directory never race each other into an error.
func (r *Runner) openLog(task Task, mode Mode) (*os.File, string, error) {
	if mode == CI {
		return nil, "", nil
	}

	logDir := task.App.LogDir
	if logDir == "" {
		logDir = r.file.DefaultLogDir()
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create log directory %q: %w", logDir, err)
	}

	name := fmt.Sprintf("%s_%s_%s.log",
		time.Now().Format(logTimeFormat),
		sanitizeName(task.App.Name),
		sanitizeName(task.Action.Name))
	path := filepath.Join(logDir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("create log file %q: %w", path, err)
	}

	return f, path, nil
}

// sanitizeName reduces a name to [A-Za-z0-9_-] for use in log file names.
// Disallowed runes become underscores, leading/trailing underscores are
// trimmed, and a name with nothing left falls back to "task".
func sanitizeName(value string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '-' || r == '_':
			return r
		case r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= 'a' && r <= 'z':
			return r
		default:
			return '_'
		}
	}, value)

	cleaned = strings.Trim(cleaned, "_")
	if cleaned == "" {
		return "task"
	}
	return cleaned
}
