// SPDX-License-Identifier: MPL-2.0

// Package runfile provides the parsed, immutable representation of a runbook
// task file.
//
// A task file is line-oriented text: global `log_dir` and `container` keys
// before the first section, `[Name]` sections for applications, reserved
// `working_dir`/`log_dir` keys inside a section, and every other `key=value`
// line defining an action (a named shell command). Action order follows first
// definition; redefining an action replaces its command in place.
//
// Load parses a file once and resolves every path eagerly. The resulting File
// is a value: reloading means calling Load again, never mutating an existing
// File. Accessors return copies; callers must not mutate the shared Actions
// backing arrays.
package runfile
