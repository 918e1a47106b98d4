// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"runbook-cli/internal/selfupdate"
	"runbook-cli/internal/tui"
)

var (
	upgradeCheckFlag bool
	upgradeYesFlag   bool
)

// upgrader is the slice of *selfupdate.Updater the upgrade command needs,
// separated so runUpgrade can be tested without live GitHub API calls.
type upgrader interface {
	Check(ctx context.Context, targetVersion string) (*selfupdate.UpgradeCheck, error)
	Apply(ctx context.Context, check *selfupdate.UpgradeCheck) error
}

// upgradeParams bundles the dependencies and flags for the upgrade command.
type upgradeParams struct {
	stdout  io.Writer
	stderr  io.Writer
	updater upgrader
	target  string // target version (empty = latest)
	check   bool   // --check mode: report availability without installing
	yes     bool   // --yes flag: skip confirmation prompt
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [version]",
	Short: "Update runbook to the latest stable release or a specific version",
	Long: `Update runbook to the latest stable release or a specific version.

The upgrade command downloads the new binary from GitHub Releases,
verifies its SHA256 checksum, and atomically replaces the current binary.

If runbook was installed via Homebrew or go install, the command suggests
using the appropriate package manager instead.`,
	Example: `  # Upgrade to latest stable
  runbook upgrade

  # Check for updates without installing
  runbook upgrade --check

  # Upgrade to a specific version
  runbook upgrade v1.2.0

  # Skip confirmation prompt
  runbook upgrade --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true

		var target string
		if len(args) > 0 {
			target = args[0]
		}

		// A token raises the GitHub API rate limit from 60 to 5000
		// requests per hour.
		var opts []selfupdate.UpdaterOption
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			opts = append(opts, selfupdate.WithToken(token))
		}

		updater, err := selfupdate.NewUpdater(Version, opts...)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), formatUpgradeError(err))
			return &ExitError{Code: classifyUpgradeExitCode(err), Err: err}
		}

		p := upgradeParams{
			stdout:  cmd.OutOrStdout(),
			stderr:  cmd.ErrOrStderr(),
			updater: updater,
			target:  target,
			check:   upgradeCheckFlag,
			yes:     upgradeYesFlag,
		}

		if err := runUpgrade(cmd.Context(), p); err != nil {
			fmt.Fprintln(p.stderr, formatUpgradeError(err))
			return &ExitError{Code: classifyUpgradeExitCode(err), Err: err}
		}

		return nil
	},
}

func init() {
	upgradeCmd.Flags().BoolVar(&upgradeCheckFlag, "check", false, "Check for available upgrade without installing")
	upgradeCmd.Flags().BoolVarP(&upgradeYesFlag, "yes", "y", false, "Skip confirmation prompt")
}

// runUpgrade is the core upgrade logic, separated from Cobra for testability.
// All user-facing output goes through p.stdout and p.stderr.
//
// Flow:
//  1. Check for available upgrade via the GitHub API.
//  2. If the install is managed (Homebrew/go install), print guidance and return.
//  3. If already up-to-date, print status and return.
//  4. If --check, print availability and return.
//  5. Otherwise, confirm with the user (unless --yes), download, verify, and replace.
func runUpgrade(ctx context.Context, p upgradeParams) error {
	check, err := p.updater.Check(ctx, p.target)
	if err != nil {
		return fmt.Errorf("checking for upgrade: %w", err)
	}

	// Managed installs (Homebrew, go install) should use their respective
	// package managers. The Check method returns a pre-formatted message.
	if check.InstallMethod == selfupdate.InstallMethodHomebrew ||
		check.InstallMethod == selfupdate.InstallMethodGoInstall {
		fmt.Fprintln(p.stdout, check.Message)
		return nil
	}

	// No upgrade available: already up-to-date or running a pre-release
	// ahead of the latest stable version.
	if !check.UpgradeAvailable {
		fmt.Fprintf(p.stdout, "Current version: %s\n", check.CurrentVersion)
		if check.LatestVersion != "" {
			fmt.Fprintf(p.stdout, "Latest version:  %s\n", check.LatestVersion)
		}
		fmt.Fprintf(p.stdout, "\n%s\n", check.Message)
		return nil
	}

	// Upgrade available, check-only mode: report and exit without installing.
	if p.check {
		fmt.Fprintf(p.stdout, "Current version: %s\n", check.CurrentVersion)
		fmt.Fprintf(p.stdout, "Latest version:  %s\n", check.LatestVersion)
		fmt.Fprintf(p.stdout, "\nAn upgrade is available: %s → %s\n", check.CurrentVersion, check.LatestVersion)
		fmt.Fprintln(p.stdout, "Run 'runbook upgrade' to install.")
		return nil
	}

	// Upgrade available, apply mode: confirm, download, verify, and replace.
	fmt.Fprintf(p.stdout, "Current version: %s\n", check.CurrentVersion)
	fmt.Fprintf(p.stdout, "Latest version:  %s\n", check.LatestVersion)

	if !p.yes {
		confirmed, confirmErr := tui.Confirm(tui.ConfirmOptions{
			Title:       fmt.Sprintf("Upgrade runbook from %s to %s?", check.CurrentVersion, check.LatestVersion),
			Affirmative: "Yes",
			Negative:    "No",
		})
		if confirmErr != nil {
			if errors.Is(confirmErr, tui.ErrAborted) {
				fmt.Fprintln(p.stdout, "Upgrade cancelled.")
				return nil
			}
			return fmt.Errorf("confirmation prompt: %w", confirmErr)
		}
		if !confirmed {
			return nil
		}
	}

	fmt.Fprintf(p.stdout, "\nDownloading runbook %s...\n", check.LatestVersion)

	if err := p.updater.Apply(ctx, check); err != nil {
		return fmt.Errorf("applying upgrade: %w", err)
	}

	fmt.Fprintln(p.stdout, "Verifying checksum... OK")
	fmt.Fprintln(p.stdout, "Replacing binary...  OK")
	fmt.Fprintln(p.stdout, SuccessStyle.Render(fmt.Sprintf("Successfully upgraded to %s", check.LatestVersion)))

	return nil
}

// classifyUpgradeExitCode maps an upgrade error to the appropriate process
// exit code. Permission errors, missing releases, and bad version input use
// exit code 1 (user-correctable); all other failures use exit code 2
// (unexpected/transient).
func classifyUpgradeExitCode(err error) int {
	switch {
	case errors.Is(err, os.ErrPermission):
		return 1
	case errors.Is(err, selfupdate.ErrReleaseNotFound):
		return 1
	case errors.Is(err, selfupdate.ErrDevVersion):
		return 1
	case errors.Is(err, selfupdate.ErrInvalidVersion):
		return 1
	default:
		return 2
	}
}

// formatUpgradeError produces a user-friendly error message with actionable
// remediation guidance tailored to the specific error type.
func formatUpgradeError(err error) string {
	switch {
	case errors.Is(err, selfupdate.ErrDevVersion):
		return "cannot self-update a development build\n\nInstall a released version first:\n  go install github.com/runbook-cli/runbook@latest"

	case errors.Is(err, selfupdate.ErrReleaseNotFound):
		return fmt.Sprintf("%s\n\nCheck the version spelling (e.g. v1.2.0) or see the releases page:\n  https://github.com/%s/releases", err.Error(), selfupdate.RepoSlug)

	case errors.Is(err, selfupdate.ErrInvalidVersion):
		return err.Error()

	case errors.Is(err, os.ErrPermission):
		return "insufficient permissions to replace the binary\n\nTry running with elevated privileges:\n  sudo runbook upgrade"

	default:
		return fmt.Sprintf("%s\n\nCheck your network connection and try again.\nIf behind a firewall or rate-limited, set GITHUB_TOKEN for authenticated access.", err.Error())
	}
}
