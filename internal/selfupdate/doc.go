// SPDX-License-Identifier: MPL-2.0

// Package selfupdate implements self-upgrade functionality for the runbook CLI.
//
// Release discovery, checksum verification and atomic binary replacement are
// delegated to github.com/creativeprojects/go-selfupdate; this package adds
// install method detection (Script, Homebrew, GoInstall, Unknown) and a
// two-phase Check/Apply flow so the CLI can report, confirm and then install.
// Managed installs (Homebrew, go install) are never replaced in place: Check
// returns guidance for the package manager instead.
package selfupdate
