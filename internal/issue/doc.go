// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// This package defines error types that include remediation steps, plus a small
// catalog of Markdown-rendered explanations for the failure modes runbook can
// hit, improving the user experience when errors occur during CLI operations.
package issue
