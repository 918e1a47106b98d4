// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"

	"runbook-cli/pkg/runfile"
)

const (
	entryAction entryType = iota
	entryDetails
)

type (
	// entryType distinguishes runnable actions from per-app detail rows.
	entryType int

	// entry is one row of the task list: an (app, action) pair or the
	// trailing details row of an application. match is the precomputed
	// lowercase text the filter searches.
	entry struct {
		typ     entryType
		app     string
		action  string
		command string
		match   string
	}
)

// buildEntries flattens the task file into list rows: every action of every
// application in definition order, each application followed by its details
// row.
func buildEntries(file *runfile.File) []entry {
	var entries []entry
	for _, app := range file.Apps() {
		for _, act := range app.Actions {
			entries = append(entries, entry{
				typ:     entryAction,
				app:     app.Name,
				action:  act.Name,
				command: act.Command,
				match:   strings.ToLower(app.Name + " " + act.Name),
			})
		}
		entries = append(entries, entry{
			typ:   entryDetails,
			app:   app.Name,
			match: "show details",
		})
	}
	return entries
}

// filterEntries returns the indices of entries whose match text contains
// filter, case-insensitively. An empty filter matches everything.
func filterEntries(entries []entry, filter string) []int {
	out := make([]int, 0, len(entries))
	needle := strings.ToLower(filter)
	for i, ent := range entries {
		if needle == "" || strings.Contains(ent.match, needle) {
			out = append(out, i)
		}
	}
	return out
}
