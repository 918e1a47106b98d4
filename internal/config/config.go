// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"runbook-cli/internal/issue"
	"runbook-cli/pkg/cueutil"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "runbook"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// historyFileName is the history database file name under DataDir.
	historyFileName = "history.db"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the runbook configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DataDir returns the runbook data directory using platform-specific
// conventions: Windows uses %LOCALAPPDATA%, macOS uses ~/Library/Application
// Support, and Linux/others use $XDG_DATA_HOME (defaulting to ~/.local/share).
// The history database lives here.
func DataDir() (string, error) {
	// Allow tests to override the data directory
	if dataDirOverride != "" {
		return dataDirOverride, nil
	}

	var dataDir string

	switch runtime.GOOS {
	case "windows":
		dataDir = os.Getenv("LOCALAPPDATA")
		if dataDir == "" {
			dataDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		dataDir = os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(dataDir, AppName), nil
}

// DefaultHistoryPath returns the history database location used when
// history.path is not set.
func DefaultHistoryPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, historyFileName), nil
}

// ResolvePath returns the history database path, falling back to
// DefaultHistoryPath when the setting is empty.
func (c HistoryConfig) ResolvePath() (string, error) {
	if c.Path != "" {
		return string(c.Path), nil
	}
	return DefaultHistoryPath()
}

// Locate resolves which settings file a load would read. It returns the
// resolved path and whether a file exists there. When no file exists the
// canonical location under ConfigDir is returned with found=false so callers
// can report where a new file would go.
func Locate(opts LoadOptions) (string, bool, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, fileExists(opts.ConfigFilePath), nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", false, err
	}

	cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(cuePath) {
		return cuePath, true, nil
	}

	// Also check current directory for project-local settings.
	localCuePath := ConfigFileName + "." + ConfigFileExt
	if fileExists(localCuePath) {
		return localCuePath, true, nil
	}

	return cuePath, false, nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level cache state. Callers that want caching can wrap this function.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.alt_screen", defaults.UI.AltScreen)
	v.SetDefault("history.enabled", defaults.History.Enabled)
	v.SetDefault("history.path", defaults.History.Path)
	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMillis)

	path, found, err := Locate(opts)
	if err != nil {
		return nil, "", err
	}

	resolvedPath := ""
	switch {
	case opts.ConfigFilePath != "" && !found:
		// An explicitly requested file must exist.
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(opts.ConfigFilePath).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			WithSuggestion("Use 'runbook config init' to create a default settings file").
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
			BuildError()
	case found:
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("See 'runbook config --help' for configuration options").
				Wrap(err).
				BuildError()
		}
		resolvedPath = path
	}
	// If no config file found, use defaults (no error)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate constraints that CUE cannot express (whitespace-only paths).
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Fix the reported fields in the settings file").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Note: This uses manual CUE parsing instead of cueutil.ParseAndDecode because:
// 1. Config decodes to map[string]any (not a struct) for Viper integration
// 2. Uses Concrete(false) because config fields are optional
// 3. Needs to merge into Viper's config map, not return a struct
func loadCUEIntoViper(v *viper.Viper, path string) error {
	// Read CUE file
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Check file size using cueutil
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	// Parse with CUE
	ctx := cuecontext.New()

	// Compile the schema
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	// Compile the user's config file
	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	// Unify with schema to validate against #Config definition
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Decode to Go map
	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// CreateDefaultConfig creates a default config file if it doesn't exist
func CreateDefaultConfig() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	// Check if file already exists
	if _, err := os.Stat(cfgPath); err == nil {
		return nil // File exists
	}

	defaults := DefaultConfig()
	cueContent := GenerateCUE(defaults)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Save writes the current configuration to file
func Save(cfg *Config) error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	cueContent := GenerateCUE(cfg)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// runbook configuration file\n")
	sb.WriteString("// See https://github.com/runbook-cli/runbook for documentation.\n\n")

	// UI config
	sb.WriteString("ui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\talt_screen: %v\n", cfg.UI.AltScreen))
	sb.WriteString("}\n")

	// History config
	sb.WriteString("\nhistory: {\n")
	sb.WriteString(fmt.Sprintf("\tenabled: %v\n", cfg.History.Enabled))
	if cfg.History.Path != "" {
		sb.WriteString(fmt.Sprintf("\tpath: %q\n", cfg.History.Path))
	}
	sb.WriteString("}\n")

	// Watch config
	sb.WriteString("\nwatch: {\n")
	sb.WriteString(fmt.Sprintf("\tdebounce_ms: %d\n", cfg.Watch.DebounceMillis))
	sb.WriteString("}\n")

	return sb.String()
}
