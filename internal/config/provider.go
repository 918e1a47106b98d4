// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
var ErrInvalidLoadOptions = errors.New("invalid load options")

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// ConfigDirPath overrides the config directory lookup when set.
	ConfigDirPath string
}

// InvalidLoadOptionsError is returned when LoadOptions contain invalid paths.
// It wraps ErrInvalidLoadOptions for errors.Is() compatibility and collects
// field-level validation errors.
type InvalidLoadOptionsError struct {
	FieldErrors []error
}

// Error implements the error interface for InvalidLoadOptionsError.
func (e *InvalidLoadOptionsError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid load options: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid load options: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }

// Validate checks that the option paths are usable. Empty fields are valid
// (zero-value means "use default"); non-empty fields must not be
// whitespace-only.
func (o LoadOptions) Validate() error {
	var fieldErrs []error
	if o.ConfigFilePath != "" && strings.TrimSpace(o.ConfigFilePath) == "" {
		fieldErrs = append(fieldErrs, fmt.Errorf("config file path %q is whitespace-only", o.ConfigFilePath))
	}
	if o.ConfigDirPath != "" && strings.TrimSpace(o.ConfigDirPath) == "" {
		fieldErrs = append(fieldErrs, fmt.Errorf("config dir path %q is whitespace-only", o.ConfigDirPath))
	}
	if len(fieldErrs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: fieldErrs}
	}
	return nil
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
