// SPDX-License-Identifier: MPL-2.0

// Package runtime executes task actions as child shell processes.
//
// A Runner is constructed over a loaded runfile and provides Run for a single
// task and RunParallel for a batch. Execution mode controls only where output
// is mirrored: SingleInteractive tees combined output to the log file and a
// live writer, BatchInteractive captures to the log file only, and CI streams
// to the configured console writers without creating log files.
//
// Command construction is mode-independent. On the host the action command is
// handed verbatim to `bash -lc` with the resolved working directory; when a
// container wrapper is configured the command (prefixed with a `cd` into the
// raw working directory, if any) is single-quoted and nested inside
// `<container> bash -lc '...'`. Quote is the one escaping implementation
// shared by both forms.
//
// On Unix, single-interactive commands run on a pseudo-terminal so that
// stdout/stderr interleaving is preserved and interactive children keep
// working; see exec_unix.go.
package runtime
