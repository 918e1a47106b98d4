// SPDX-License-Identifier: MPL-2.0

package runfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// keyWorkingDir is the reserved per-application working directory key.
	keyWorkingDir = "working_dir"
	// keyLogDir is the log directory key, global before the first section and
	// per-application inside one.
	keyLogDir = "log_dir"
	// keyContainer is the global container wrapper key.
	keyContainer = "container"
)

// Load reads and parses the task file at path.
//
// It returns a NotFoundError when the file does not exist and an EmptyError
// when no applications are defined. Any other parse failure is a ParseError.
func Load(path string) (*File, error) {
	r, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("open task file %q: %w", path, err)
	}
	defer r.Close()

	baseDir := filepath.Dir(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
		baseDir = filepath.Dir(abs)
	}

	f := &File{
		path:    path,
		baseDir: baseDir,
		index:   make(map[string]int),
	}

	if err := f.parse(r); err != nil {
		return nil, err
	}
	if len(f.apps) == 0 {
		return nil, &EmptyError{Path: f.path}
	}

	f.finalize()
	return f, nil
}

// parse consumes the task file line by line. Lines that are neither blank,
// comment, section header, nor key=value are skipped without error; they are
// surfaced at debug level so typos can be found with verbose logging enabled.
func (f *File) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	current := -1
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		if lineNum == 1 {
			raw = strings.TrimPrefix(raw, "\uFEFF")
		}

		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSpace(line[1 : len(line)-1])
			if name == "" {
				return &ParseError{Path: f.path, Line: lineNum, Msg: "empty application name"}
			}

			if i, ok := f.index[name]; ok {
				// Reopening a section continues the existing application.
				current = i
				continue
			}

			f.apps = append(f.apps, App{Name: name, index: make(map[string]int)})
			current = len(f.apps) - 1
			f.index[name] = current
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			log.Debug("skipping unrecognized task file line", "path", f.path, "line", lineNum)
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if current < 0 {
			switch key {
			case keyLogDir:
				f.logDirRaw = value
			case keyContainer:
				f.container = value
			default:
				log.Debug("ignoring key before first section", "path", f.path, "line", lineNum, "key", key)
			}
			continue
		}

		app := &f.apps[current]
		switch key {
		case keyWorkingDir:
			app.WorkingDirRaw = value
		case keyLogDir:
			app.LogDirRaw = value
		default:
			if i, exists := app.index[key]; exists {
				app.Actions[i].Command = value
				continue
			}
			app.index[key] = len(app.Actions)
			app.Actions = append(app.Actions, Action{Name: key, Command: value})
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read task file %q: %w", f.path, err)
	}

	return nil
}
