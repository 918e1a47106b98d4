// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for runbook.
//
// This package implements the Cobra command hierarchy for the runbook CLI:
// the root command launches the interactive task list, and subcommands cover
// batch execution, task file inspection and validation, execution history,
// tool settings, documentation and self-upgrade.
package cmd
