// SPDX-License-Identifier: MPL-2.0

package batch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoAppsMatched is the sentinel error wrapped by NoAppsError.
	ErrNoAppsMatched = errors.New("no applications matched")
	// ErrNoActionsMatched is the sentinel error wrapped by NoActionsError.
	ErrNoActionsMatched = errors.New("no actions matched")
	// ErrActionsFailed is the sentinel error wrapped by FailureError.
	ErrActionsFailed = errors.New("actions failed")
)

type (
	// NoAppsError is returned by Run when the application pattern selects
	// nothing. It wraps ErrNoAppsMatched for errors.Is() compatibility.
	NoAppsError struct {
		Pattern   string
		Available []string
	}

	// NoActionsError is returned by Run when no action in any selected
	// application matches the action pattern. It wraps ErrNoActionsMatched
	// for errors.Is() compatibility.
	NoActionsError struct {
		Pattern string
	}

	// FailureError is returned by Run when the batch completed but at least
	// one action failed. It wraps ErrActionsFailed for errors.Is()
	// compatibility. Causes holds the error of every failed task so callers
	// can classify what went wrong without re-parsing output.
	FailureError struct {
		Failed int
		Total  int
		Causes []error
	}
)

// Error implements the error interface for NoAppsError.
func (e *NoAppsError) Error() string {
	return fmt.Sprintf("no applications match %q (available: %s)",
		e.Pattern, strings.Join(e.Available, ", "))
}

// Unwrap returns ErrNoAppsMatched for errors.Is() compatibility.
func (e *NoAppsError) Unwrap() error { return ErrNoAppsMatched }

// Error implements the error interface for NoActionsError.
func (e *NoActionsError) Error() string {
	return fmt.Sprintf("no actions match %q in any selected application", e.Pattern)
}

// Unwrap returns ErrNoActionsMatched for errors.Is() compatibility.
func (e *NoActionsError) Unwrap() error { return ErrNoActionsMatched }

// Error implements the error interface for FailureError.
func (e *FailureError) Error() string {
	return fmt.Sprintf("%d of %d actions failed", e.Failed, e.Total)
}

// Unwrap returns ErrActionsFailed for errors.Is() compatibility.
func (e *FailureError) Unwrap() error { return ErrActionsFailed }
