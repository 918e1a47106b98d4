// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// ValidationError represents a CUE validation error with context.
type ValidationError struct {
	// FilePath is the file being validated.
	FilePath string

	// CUEPath is the JSON path to the invalid value (e.g., "ui.color_scheme").
	CUEPath CUEPath

	// Message is the validation error message.
	Message string

	// Suggestion is an optional hint for fixing the error.
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Unwrap returns nil (ValidationError is a leaf error).
func (e *ValidationError) Unwrap() error {
	return nil
}

// FormatError formats a CUE error with JSON path prefixes for clear error messages.
//
// Error format: <file-path>: <json-path>: <message>
//
// Examples:
//   - config.cue: watch.debounce_ms: invalid value -5 (out of bound >=0)
//   - config.cue: ui.alt_screen: conflicting values true and "yes"
//
// Single-cause errors are returned as *ValidationError so callers can
// recover the path with errors.As. This function is exposed for packages
// that need custom error formatting beyond what ParseAndDecode provides.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	// Extract all CUE errors
	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		// Fallback: not a CUE error, return as-is
		return fmt.Errorf("%s: %w", filePath, err)
	}

	type located struct {
		path string
		msg  string
	}

	var causes []located
	for _, e := range cueErrors {
		// Get the path to the problematic field
		path := errors.Path(e)
		pathStr := formatPath(path)
		msg := e.Error()

		// Remove redundant path prefix from message if present
		// CUE sometimes includes the path in the message itself
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimPrefix(msg, pathStr)
			msg = strings.TrimPrefix(msg, ":")
			msg = strings.TrimSpace(msg)
		}

		causes = append(causes, located{path: pathStr, msg: msg})
	}

	if len(causes) == 1 {
		return &ValidationError{
			FilePath: filePath,
			CUEPath:  CUEPath(causes[0].path),
			Message:  causes[0].msg,
		}
	}

	var lines []string
	for _, c := range causes {
		if c.path != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", c.path, c.msg))
		} else {
			lines = append(lines, c.msg)
		}
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath converts a CUE error path to JSON-path notation for user-facing messages.
// CUE provides error paths as flat string slices (e.g., ["apps", "0", "name"]) where
// numeric elements represent array indices. This function converts to JSON-path notation
// (e.g., "apps[0].name") which is more familiar to users.
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	// Join with dots but handle array indices specially
	var result strings.Builder
	for i, part := range path {
		// Check if this looks like an array index (purely numeric)
		isIndex := true
		for _, c := range part {
			if c < '0' || c > '9' {
				isIndex = false
				break
			}
		}

		if isIndex && i > 0 {
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
		} else {
			if i > 0 {
				result.WriteString(".")
			}
			result.WriteString(part)
		}
	}

	return result.String()
}

// CheckFileSize verifies that data does not exceed the specified maximum size.
// Returns an error if the size limit is exceeded.
//
// This is exposed for use cases where the caller needs to check size before
// reading the full file (e.g., when streaming).
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
