// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultDebounceMillis is the default watch debounce window in
	// milliseconds. internal/watch falls back to the same value when a
	// zero debounce reaches it.
	DefaultDebounceMillis = 400
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidHistoryPath is returned when a HistoryPath value is whitespace-only.
	ErrInvalidHistoryPath = errors.New("invalid history path")
	// ErrInvalidDebounce is returned when a debounce value is negative.
	ErrInvalidDebounce = errors.New("invalid debounce")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidHistoryConfig is the sentinel error wrapped by InvalidHistoryConfigError.
	ErrInvalidHistoryConfig = errors.New("invalid history config")
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// HistoryPath represents a filesystem path to the history database.
	// The zero value ("") is valid and means "use the platform data path".
	// Non-zero values must not be whitespace-only.
	HistoryPath string

	// InvalidHistoryPathError is returned when a HistoryPath value is
	// non-empty but whitespace-only.
	InvalidHistoryPathError struct {
		Value HistoryPath
	}

	// InvalidDebounceError is returned when a debounce value is negative.
	// It wraps ErrInvalidDebounce for errors.Is() compatibility.
	InvalidDebounceError struct {
		Value int
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidHistoryConfigError is returned when a HistoryConfig has invalid fields.
	// It wraps ErrInvalidHistoryConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidHistoryConfigError struct {
		FieldErrors []error
	}

	// InvalidWatchConfigError is returned when a WatchConfig has invalid fields.
	// It wraps ErrInvalidWatchConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the tool settings. Settings never override task-file
	// semantics; they only tune how runbook itself behaves.
	Config struct {
		// UI configures the interactive interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// History configures execution history recording.
		History HistoryConfig `json:"history" mapstructure:"history"`
		// Watch configures filesystem watching.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// UIConfig configures the interactive interface.
	UIConfig struct {
		// ColorScheme sets the color scheme.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// AltScreen runs the interactive UI in the alternate screen buffer.
		AltScreen bool `json:"alt_screen" mapstructure:"alt_screen"`
	}

	// HistoryConfig configures execution history recording.
	HistoryConfig struct {
		// Enabled turns execution recording on or off.
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// Path overrides the history database location.
		Path HistoryPath `json:"path" mapstructure:"path"`
	}

	// WatchConfig configures filesystem watching.
	WatchConfig struct {
		// DebounceMillis is the quiet period after the last filesystem
		// event before a watch callback fires.
		DebounceMillis int `json:"debounce_ms" mapstructure:"debounce_ms"`
	}
)

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the HistoryPath.
func (p HistoryPath) String() string { return string(p) }

// IsValid returns whether the HistoryPath is valid.
// The zero value ("") is valid (means "use the platform data path").
// Non-zero values must not be whitespace-only.
func (p HistoryPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidHistoryPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHistoryPathError.
func (e *InvalidHistoryPathError) Error() string {
	return fmt.Sprintf("invalid history path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidHistoryPath for errors.Is() compatibility.
func (e *InvalidHistoryPathError) Unwrap() error { return ErrInvalidHistoryPath }

// Error implements the error interface for InvalidDebounceError.
func (e *InvalidDebounceError) Error() string {
	return fmt.Sprintf("invalid debounce %d: must not be negative", e.Value)
}

// Unwrap returns ErrInvalidDebounce for errors.Is() compatibility.
func (e *InvalidDebounceError) Unwrap() error { return ErrInvalidDebounce }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the HistoryConfig has valid fields.
// It delegates to Path.IsValid(); the Enabled flag needs no validation.
func (c HistoryConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Path.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidHistoryConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHistoryConfigError.
func (e *InvalidHistoryConfigError) Error() string {
	return fmt.Sprintf("invalid history config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidHistoryConfig for errors.Is() compatibility.
func (e *InvalidHistoryConfigError) Unwrap() error { return ErrInvalidHistoryConfig }

// Debounce returns the configured debounce window as a duration.
func (c WatchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMillis) * time.Millisecond
}

// IsValid returns whether the WatchConfig has valid fields.
// The debounce must not be negative; zero falls back to the watcher default.
func (c WatchConfig) IsValid() (bool, []error) {
	var errs []error
	if c.DebounceMillis < 0 {
		errs = append(errs, &InvalidDebounceError{Value: c.DebounceMillis})
	}
	if len(errs) > 0 {
		return false, []error{&InvalidWatchConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWatchConfigError.
func (e *InvalidWatchConfigError) Error() string {
	return fmt.Sprintf("invalid watch config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to UI.IsValid(), History.IsValid(), and Watch.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.History.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Watch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default settings.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			AltScreen:   true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "", // Will use DefaultHistoryPath() if empty
		},
		Watch: WatchConfig{
			DebounceMillis: DefaultDebounceMillis,
		},
	}
}
