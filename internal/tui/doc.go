// SPDX-License-Identifier: MPL-2.0

// Package tui implements the interactive task-runner interface.
//
// The interface is a bubbletea state machine over five views: the task list
// (filter, cursor, multi-select), a transient running view, the execution
// summary, a per-application details view and a log viewer. Terminal input is
// interpreted in exactly one place (decodeKey); every state handler consumes
// logical key events, so the whole machine is exercised by tests without a
// terminal.
package tui
