// SPDX-License-Identifier: MPL-2.0

// Package config handles tool settings using Viper with CUE as the file format.
//
// Settings are loaded from ~/.config/runbook/config.cue (or XDG equivalent on
// Linux, ~/Library/Application Support/runbook/config.cue on macOS,
// %APPDATA%\runbook\config.cue on Windows), with a config.cue in the current
// directory as a project-local fallback. Settings tune how runbook itself
// behaves (UI color scheme, alternate screen, history recording, watch
// debounce); they never change what a task file means.
//
// Configuration validation is performed against a CUE schema (config_schema.cue)
// to ensure type safety and provide clear error messages for invalid settings.
package config
