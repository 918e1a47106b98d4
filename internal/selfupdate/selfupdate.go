// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	goselfupdate "github.com/creativeprojects/go-selfupdate"
)

const (
	// RepoSlug is the GitHub repository (owner/name) releases are fetched from.
	RepoSlug = "runbook-cli/runbook"

	// checksumsFilename is the release asset holding the SHA256 sums of every
	// archive, as published by GoReleaser.
	checksumsFilename = "checksums.txt"
)

var (
	// ErrDevVersion indicates the running binary is a development build with
	// no release version to compare against.
	ErrDevVersion = errors.New("cannot self-update a development build")

	// ErrReleaseNotFound indicates no matching release exists on GitHub.
	ErrReleaseNotFound = errors.New("release not found")

	// ErrInvalidVersion indicates a version string is not valid semver.
	ErrInvalidVersion = errors.New("invalid semantic version")
)

type (
	// UpgradeCheck holds the result of a version comparison between the
	// currently running binary and the latest (or target) GitHub release. The
	// InstallMethod field determines whether Apply may replace the binary or
	// the upgrade must defer to an external package manager.
	UpgradeCheck struct {
		CurrentVersion   string        // Currently running version
		LatestVersion    string        // Latest stable release version
		InstallMethod    InstallMethod // How runbook was installed
		UpgradeAvailable bool          // True if upgrade available and applicable
		Message          string        // Human-readable status message

		// release is the resolved target; nil when no upgrade applies.
		release *goselfupdate.Release
	}

	// Updater composes release detection, install method detection and
	// checksum-verified binary replacement into an end-to-end upgrade flow.
	// It is the primary facade for the selfupdate package.
	Updater struct {
		inner          *goselfupdate.Updater
		repo           goselfupdate.Repository
		currentVersion string
	}

	// UpdaterOption configures an Updater during construction.
	UpdaterOption func(*updaterConfig)

	updaterConfig struct {
		token string
		slug  string
	}
)

// WithToken authenticates GitHub API requests, raising the rate limit from 60
// to 5000 requests per hour.
func WithToken(token string) UpdaterOption {
	return func(c *updaterConfig) {
		c.token = token
	}
}

// WithRepository overrides the release repository slug (owner/name).
func WithRepository(slug string) UpdaterOption {
	return func(c *updaterConfig) {
		c.slug = slug
	}
}

// NewUpdater creates an Updater for the given currentVersion. Downloads are
// verified against the release's checksums file before the binary is replaced.
func NewUpdater(currentVersion string, opts ...UpdaterOption) (*Updater, error) {
	cfg := updaterConfig{slug: RepoSlug}
	for _, opt := range opts {
		opt(&cfg)
	}

	source, err := goselfupdate.NewGitHubSource(goselfupdate.GitHubConfig{APIToken: cfg.token})
	if err != nil {
		return nil, fmt.Errorf("creating release source: %w", err)
	}

	inner, err := goselfupdate.NewUpdater(goselfupdate.Config{
		Source:    source,
		Validator: &goselfupdate.ChecksumValidator{UniqueFilename: checksumsFilename},
	})
	if err != nil {
		return nil, fmt.Errorf("creating updater: %w", err)
	}

	return &Updater{
		inner:          inner,
		repo:           goselfupdate.ParseSlug(cfg.slug),
		currentVersion: currentVersion,
	}, nil
}

// Check determines whether an upgrade is available by comparing the current
// version against the latest stable release (or a specific targetVersion).
//
// For managed installs (Homebrew, go install), Check returns immediately with
// guidance to use the appropriate package manager; no GitHub API call is made.
// Development builds are rejected with ErrDevVersion before any lookup.
func (u *Updater) Check(ctx context.Context, targetVersion string) (*UpgradeCheck, error) {
	if u.currentVersion == "" || u.currentVersion == "dev" {
		return nil, ErrDevVersion
	}

	current, err := parseVersion(u.currentVersion)
	if err != nil {
		return nil, fmt.Errorf("current version: %w", err)
	}

	execPath, err := goselfupdate.ExecutablePath()
	if err != nil {
		return nil, fmt.Errorf("resolving executable path: %w", err)
	}

	method := DetectInstallMethod(execPath)

	// Managed installs should use their respective package managers.
	// Return guidance immediately without hitting the GitHub API.
	if method == InstallMethodHomebrew || method == InstallMethodGoInstall {
		return &UpgradeCheck{
			CurrentVersion: u.currentVersion,
			InstallMethod:  method,
			Message:        managedInstallMessage(method, execPath),
		}, nil
	}

	release, err := u.detect(ctx, targetVersion)
	if err != nil {
		return nil, err
	}

	check := &UpgradeCheck{
		CurrentVersion: u.currentVersion,
		LatestVersion:  release.Version(),
		InstallMethod:  method,
	}

	if !release.GreaterThan(u.currentVersion) {
		// Pre-release ahead: the running binary is a pre-release at or beyond
		// the target stable version, which happens during development and CI.
		if current.Prerelease() != "" {
			check.Message = fmt.Sprintf("Running pre-release %s (ahead of %s).", u.currentVersion, release.Version())
		} else {
			check.Message = "Already up to date."
		}
		return check, nil
	}

	check.UpgradeAvailable = true
	check.Message = fmt.Sprintf("Upgrade available: %s -> %s", u.currentVersion, release.Version())
	check.release = release
	return check, nil
}

// Apply downloads the release resolved by Check, verifies its checksum and
// atomically replaces the current binary.
func (u *Updater) Apply(ctx context.Context, check *UpgradeCheck) error {
	if check == nil || check.release == nil {
		return errors.New("no release to apply")
	}

	execPath, err := goselfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}

	if err := u.inner.UpdateTo(ctx, check.release, execPath); err != nil {
		return fmt.Errorf("applying upgrade: %w", err)
	}
	return nil
}

// detect resolves the target release: a specific version when requested,
// otherwise the latest stable release.
func (u *Updater) detect(ctx context.Context, targetVersion string) (*goselfupdate.Release, error) {
	if targetVersion != "" {
		if _, err := parseVersion(targetVersion); err != nil {
			return nil, fmt.Errorf("target version: %w", err)
		}
		release, found, err := u.inner.DetectVersion(ctx, u.repo, targetVersion)
		if err != nil {
			return nil, fmt.Errorf("fetching release %s: %w", targetVersion, err)
		}
		if !found || release == nil {
			return nil, fmt.Errorf("version %s: %w", targetVersion, ErrReleaseNotFound)
		}
		return release, nil
	}

	release, found, err := u.inner.DetectLatest(ctx, u.repo)
	if err != nil {
		return nil, fmt.Errorf("detecting latest release: %w", err)
	}
	if !found || release == nil {
		return nil, fmt.Errorf("repository %s: %w", RepoSlug, ErrReleaseNotFound)
	}
	return release, nil
}

// parseVersion validates a version string, accepting an optional "v" prefix.
// Returns ErrInvalidVersion when the string is not well-formed semver.
func parseVersion(v string) (*semver.Version, error) {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return parsed, nil
}

// managedInstallMessage returns a human-readable message advising the user to
// upgrade via their package manager.
func managedInstallMessage(method InstallMethod, execPath string) string {
	switch method {
	case InstallMethodHomebrew:
		return fmt.Sprintf("Detected Homebrew installation at %s\n\nTo upgrade, run:\n  brew upgrade runbook", execPath)
	case InstallMethodGoInstall:
		return fmt.Sprintf("Detected go install at %s\n\nTo upgrade, run:\n  go install %s@latest", execPath, modulePath)
	case InstallMethodScript, InstallMethodUnknown:
		return ""
	}
	return ""
}
