// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"runbook-cli/internal/config"
	"runbook-cli/internal/issue"
	"runbook-cli/internal/tui"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug logging
	verbose bool
	// cfgFile allows specifying a custom settings file
	cfgFile string
	// taskFileFlag allows specifying the task file explicitly
	taskFileFlag string

	// settings holds the loaded tool settings. initRootConfig replaces it
	// before any RunE executes; defaults apply when loading fails.
	settings = config.DefaultConfig()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "runbook [task-file]",
		Short: "An interactive task runner",
		Long: TitleStyle.Render("runbook") + SubtitleStyle.Render(" - An interactive task runner") + `

runbook reads applications and their actions from a plain task file
(runbook.cfg) and runs them interactively or as parallel batches for CI.
Commands execute through the system shell with output captured to
per-task log files.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a runbook.cfg in your project directory
  2. Define [Application] sections with action = command lines
  3. Launch the task list with: runbook

` + SubtitleStyle.Render("Examples:") + `
  runbook                   Open the interactive task list
  runbook ops/tasks.cfg     Use a specific task file
  runbook run Web build     Run Web's build action in batch mode
  runbook run all all       Run every action of every application
  runbook list              Print applications and actions as a table`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInteractive,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default is $HOME/.config/runbook/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&taskFileFlag, "file", "f", "", "task file (default is ./runbook.cfg)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(upgradeCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig loads the tool settings file and configures logging.
func initRootConfig() {
	log.SetReportTimestamp(false)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		// Settings problems must never block the task runner; warn and use defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	if cfg != nil {
		settings = cfg
	}
}

// runInteractive launches the interactive task list over the selected task file.
func runInteractive(cmd *cobra.Command, args []string) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return &ExitError{Code: 1, Err: errors.New(
			"interactive mode requires a terminal; use 'runbook run <app> <action>' in scripts")}
	}

	file, err := loadTaskFile(cmd.ErrOrStderr(), args)
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	opts := tui.Options{
		AltScreen:     settings.UI.AltScreen,
		WatchDebounce: settings.Watch.Debounce(),
	}

	store, closeStore := openRecorder(cmd.ErrOrStderr())
	defer closeStore()
	if store != nil {
		opts.Recorder = store
	}

	if err := tui.Run(cmd.Context(), file, opts); err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// glamourStyle maps the configured color scheme to a glamour style name.
func glamourStyle() string {
	switch settings.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// renderIssue writes one rendered catalog entry to w. Rendering problems are
// reported at debug level; the plain error text was already printed.
func renderIssue(w io.Writer, id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(glamourStyle())
	if err != nil {
		log.Debug("failed to render issue catalog entry", "id", id, "err", err)
		return
	}
	fmt.Fprint(w, rendered)
}
