// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
	"time"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme  ColorScheme
		want    bool
		wantErr bool
	}{
		{ColorSchemeAuto, true, false},
		{ColorSchemeDark, true, false},
		{ColorSchemeLight, true, false},
		{"", false, true},
		{"garbage", false, true},
		{"AUTO", false, true},
		{"Dark", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.scheme.IsValid()
			if isValid != tt.want {
				t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.scheme, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("ColorScheme(%q).IsValid() returned no errors, want error", tt.scheme)
				}
				if !errors.Is(errs[0], ErrInvalidColorScheme) {
					t.Errorf("error should wrap ErrInvalidColorScheme, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("ColorScheme(%q).IsValid() returned unexpected errors: %v", tt.scheme, errs)
			}
		})
	}
}

func TestHistoryPath_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    HistoryPath
		want    bool
		wantErr bool
	}{
		{"empty is valid", "", true, false},
		{"absolute path", "/var/lib/runbook/history.db", true, false},
		{"relative path", "state/history.db", true, false},
		{"spaces only", "   ", false, true},
		{"tab only", "\t", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.path.IsValid()
			if isValid != tt.want {
				t.Errorf("HistoryPath(%q).IsValid() = %v, want %v", tt.path, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("HistoryPath(%q).IsValid() returned no errors, want error", tt.path)
				}
				if !errors.Is(errs[0], ErrInvalidHistoryPath) {
					t.Errorf("error should wrap ErrInvalidHistoryPath, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("HistoryPath(%q).IsValid() returned unexpected errors: %v", tt.path, errs)
			}
		})
	}
}

func TestWatchConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		debounce int
		want     bool
	}{
		{"default", DefaultDebounceMillis, true},
		{"zero falls back to watcher default", 0, true},
		{"large window", 60000, true},
		{"negative", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := WatchConfig{DebounceMillis: tt.debounce}
			isValid, errs := cfg.IsValid()
			if isValid != tt.want {
				t.Errorf("WatchConfig{%d}.IsValid() = %v, want %v", tt.debounce, isValid, tt.want)
			}
			if !tt.want {
				if len(errs) == 0 {
					t.Fatal("expected validation errors")
				}
				if !errors.Is(errs[0], ErrInvalidWatchConfig) {
					t.Errorf("error should wrap ErrInvalidWatchConfig, got: %v", errs[0])
				}
				var watchErr *InvalidWatchConfigError
				if !errors.As(errs[0], &watchErr) {
					t.Fatalf("expected *InvalidWatchConfigError, got %T", errs[0])
				}
				if len(watchErr.FieldErrors) == 0 || !errors.Is(watchErr.FieldErrors[0], ErrInvalidDebounce) {
					t.Errorf("field error should wrap ErrInvalidDebounce, got: %v", watchErr.FieldErrors)
				}
			}
		})
	}
}

func TestWatchConfig_Debounce(t *testing.T) {
	t.Parallel()

	cfg := WatchConfig{DebounceMillis: 250}
	if got := cfg.Debounce(); got != 250*time.Millisecond {
		t.Errorf("Debounce() = %v, want 250ms", got)
	}

	if got := (WatchConfig{}).Debounce(); got != 0 {
		t.Errorf("zero WatchConfig Debounce() = %v, want 0", got)
	}
}

func TestUIConfig_IsValid(t *testing.T) {
	t.Parallel()

	valid := UIConfig{ColorScheme: ColorSchemeDark, AltScreen: true}
	if ok, errs := valid.IsValid(); !ok {
		t.Errorf("valid UIConfig reported invalid: %v", errs)
	}

	invalid := UIConfig{ColorScheme: "sepia"}
	ok, errs := invalid.IsValid()
	if ok {
		t.Fatal("UIConfig with bad color scheme should be invalid")
	}
	if !errors.Is(errs[0], ErrInvalidUIConfig) {
		t.Errorf("error should wrap ErrInvalidUIConfig, got: %v", errs[0])
	}
}

func TestHistoryConfig_IsValid(t *testing.T) {
	t.Parallel()

	valid := HistoryConfig{Enabled: true, Path: "/tmp/history.db"}
	if ok, errs := valid.IsValid(); !ok {
		t.Errorf("valid HistoryConfig reported invalid: %v", errs)
	}

	invalid := HistoryConfig{Enabled: true, Path: "  "}
	ok, errs := invalid.IsValid()
	if ok {
		t.Fatal("HistoryConfig with whitespace path should be invalid")
	}
	if !errors.Is(errs[0], ErrInvalidHistoryConfig) {
		t.Errorf("error should wrap ErrInvalidHistoryConfig, got: %v", errs[0])
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	if ok, errs := DefaultConfig().IsValid(); !ok {
		t.Fatalf("DefaultConfig() reported invalid: %v", errs)
	}

	bad := DefaultConfig()
	bad.UI.ColorScheme = "sepia"
	bad.Watch.DebounceMillis = -3

	ok, errs := bad.IsValid()
	if ok {
		t.Fatal("Config with invalid fields should be invalid")
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got: %v", errs[0])
	}

	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("expected *InvalidConfigError, got %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 2 {
		t.Errorf("expected 2 section errors, got %d: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
	}
}

func TestColorSchemeConstants(t *testing.T) {
	t.Parallel()

	if ColorSchemeAuto != "auto" {
		t.Errorf("ColorSchemeAuto = %s, want auto", ColorSchemeAuto)
	}
	if ColorSchemeDark != "dark" {
		t.Errorf("ColorSchemeDark = %s, want dark", ColorSchemeDark)
	}
	if ColorSchemeLight != "light" {
		t.Errorf("ColorSchemeLight = %s, want light", ColorSchemeLight)
	}
}
