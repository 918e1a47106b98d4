// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCUEPath is the sentinel error wrapped by InvalidCUEPathError.
var ErrInvalidCUEPath = errors.New("invalid CUE path")

// CUEPath is a JSON-path style locator into a CUE document,
// e.g. "ui.color_scheme" or "apps[0].name".
type CUEPath string

// InvalidCUEPathError is returned when a CUEPath is empty or whitespace-only.
// It wraps ErrInvalidCUEPath for errors.Is() compatibility.
type InvalidCUEPathError struct {
	Value CUEPath
}

// Error implements the error interface for InvalidCUEPathError.
func (e *InvalidCUEPathError) Error() string {
	return fmt.Sprintf("invalid CUE path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidCUEPath for errors.Is() compatibility.
func (e *InvalidCUEPathError) Unwrap() error { return ErrInvalidCUEPath }

// String returns the string representation of the CUEPath.
func (p CUEPath) String() string { return string(p) }

// Validate reports whether the path is usable as a schema lookup.
func (p CUEPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidCUEPathError{Value: p}
	}
	return nil
}
