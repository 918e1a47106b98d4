// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newTestUpdater(t *testing.T, version string) *Updater {
	t.Helper()

	u, err := NewUpdater(version)
	if err != nil {
		t.Fatalf("NewUpdater(%q) error: %v", version, err)
	}
	return u
}

func TestCheck_DevVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
	}{
		{name: "dev build", version: "dev"},
		{name: "empty version", version: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := newTestUpdater(t, tt.version)
			_, err := u.Check(context.Background(), "")
			if !errors.Is(err, ErrDevVersion) {
				t.Errorf("Check() error = %v, want ErrDevVersion", err)
			}
		})
	}
}

func TestCheck_InvalidCurrentVersion(t *testing.T) {
	t.Parallel()

	u := newTestUpdater(t, "not-a-version")
	_, err := u.Check(context.Background(), "")
	if !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("Check() error = %v, want ErrInvalidVersion", err)
	}
}

func TestCheck_ManagedInstall(t *testing.T) {
	// Not parallel: subtests mutate the package-level installMethodHint global.

	tests := []struct {
		name        string
		hint        string
		wantMethod  InstallMethod
		wantMessage string
	}{
		{
			name:        "homebrew defers to brew",
			hint:        "homebrew",
			wantMethod:  InstallMethodHomebrew,
			wantMessage: "brew upgrade runbook",
		},
		{
			name:        "go install defers to go install",
			hint:        "goinstall",
			wantMethod:  InstallMethodGoInstall,
			wantMessage: "go install " + modulePath + "@latest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := installMethodHint
			t.Cleanup(func() { installMethodHint = saved })
			installMethodHint = tt.hint

			u := newTestUpdater(t, "1.0.0")
			check, err := u.Check(context.Background(), "")
			if err != nil {
				t.Fatalf("Check() error: %v", err)
			}

			if check.InstallMethod != tt.wantMethod {
				t.Errorf("InstallMethod = %v, want %v", check.InstallMethod, tt.wantMethod)
			}
			if check.UpgradeAvailable {
				t.Error("UpgradeAvailable = true, want false for managed installs")
			}
			if !strings.Contains(check.Message, tt.wantMessage) {
				t.Errorf("Message = %q, want substring %q", check.Message, tt.wantMessage)
			}
		})
	}
}

func TestApply_NoRelease(t *testing.T) {
	t.Parallel()

	u := newTestUpdater(t, "1.0.0")

	if err := u.Apply(context.Background(), nil); err == nil {
		t.Error("Apply(nil) should fail")
	}
	if err := u.Apply(context.Background(), &UpgradeCheck{CurrentVersion: "1.0.0"}); err == nil {
		t.Error("Apply() without a resolved release should fail")
	}
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
		wantErr bool
	}{
		{name: "plain semver", version: "1.2.3"},
		{name: "v prefix", version: "v1.2.3"},
		{name: "pre-release", version: "1.2.3-rc1"},
		{name: "empty", version: "", wantErr: true},
		{name: "garbage", version: "abc", wantErr: true},
		{name: "words", version: "one.two.three", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parseVersion(tt.version)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVersion) {
					t.Errorf("parseVersion(%q) error = %v, want ErrInvalidVersion", tt.version, err)
				}
				return
			}
			if err != nil {
				t.Errorf("parseVersion(%q) error: %v", tt.version, err)
			}
		})
	}
}

func TestManagedInstallMessage(t *testing.T) {
	t.Parallel()

	if msg := managedInstallMessage(InstallMethodHomebrew, "/opt/homebrew/bin/runbook"); !strings.Contains(msg, "brew upgrade runbook") {
		t.Errorf("homebrew message = %q, want brew guidance", msg)
	}
	if msg := managedInstallMessage(InstallMethodGoInstall, "/home/user/go/bin/runbook"); !strings.Contains(msg, "go install") {
		t.Errorf("go install message = %q, want go install guidance", msg)
	}
	if msg := managedInstallMessage(InstallMethodScript, "/home/user/.local/bin/runbook"); msg != "" {
		t.Errorf("script message = %q, want empty", msg)
	}
	if msg := managedInstallMessage(InstallMethodUnknown, "/usr/local/bin/runbook"); msg != "" {
		t.Errorf("unknown message = %q, want empty", msg)
	}
}
