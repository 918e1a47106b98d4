// SPDX-License-Identifier: MPL-2.0

package runfile

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the sentinel error wrapped by NotFoundError.
	ErrNotFound = errors.New("task file not found")
	// ErrEmpty is the sentinel error wrapped by EmptyError.
	ErrEmpty = errors.New("task file defines no applications")
	// ErrParse is the sentinel error wrapped by ParseError.
	ErrParse = errors.New("invalid task file syntax")
)

type (
	// NotFoundError is returned by Load when the task file does not exist.
	// It wraps ErrNotFound for errors.Is() compatibility.
	NotFoundError struct {
		Path string
	}

	// EmptyError is returned by Load when parsing succeeds but zero
	// applications are defined. It wraps ErrEmpty for errors.Is() compatibility.
	EmptyError struct {
		Path string
	}

	// ParseError is returned by Load for lines the parser must reject, such as
	// a section header with an empty name. It wraps ErrParse for errors.Is()
	// compatibility.
	ParseError struct {
		Path string
		Line int
		Msg  string
	}
)

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task file %q not found", e.Path)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface for EmptyError.
func (e *EmptyError) Error() string {
	return fmt.Sprintf("task file %q defines no applications", e.Path)
}

// Unwrap returns ErrEmpty for errors.Is() compatibility.
func (e *EmptyError) Unwrap() error { return ErrEmpty }

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// Unwrap returns ErrParse for errors.Is() compatibility.
func (e *ParseError) Unwrap() error { return ErrParse }
