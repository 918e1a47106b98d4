// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"runbook-cli/internal/config"
	"runbook-cli/internal/issue"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage runbook settings",
	Long: `Manage runbook settings.

Settings are stored in:
  - Linux: ~/.config/runbook/config.cue
  - macOS: ~/Library/Application Support/runbook/config.cue
  - Windows: %APPDATA%\runbook\config.cue

Settings tune how runbook behaves; they never change what the task file
means.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			if err := config.CreateDefaultConfig(); err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s/config.cue\n",
				SuccessStyle.Render("✓"), cfgDir)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config directory: %s\n", cfgDir)
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s/config.cue\n", cfgDir)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a settings value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd, args[0], args[1])
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw settings as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewProvider().Load(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})
}

func showConfig(cmd *cobra.Command) error {
	opts := config.LoadOptions{ConfigFilePath: cfgFile}
	cfg, err := config.NewProvider().Load(cmd.Context(), opts)
	if err != nil {
		renderIssue(cmd.ErrOrStderr(), issue.ConfigLoadFailedId)
		return err
	}

	out := cmd.OutOrStdout()
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	if path, found, err := config.Locate(opts); err == nil && found {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(out, "  alt_screen: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.AltScreen)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("history"))
	fmt.Fprintf(out, "  enabled: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.History.Enabled)))
	if cfg.History.Path == "" {
		fmt.Fprintf(out, "  path: %s\n", SubtitleStyle.Render("(platform default)"))
	} else {
		fmt.Fprintf(out, "  path: %s\n", valueStyle.Render(cfg.History.Path.String()))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(out, "  debounce_ms: %s\n", valueStyle.Render(strconv.Itoa(cfg.Watch.DebounceMillis)))

	return nil
}

func setConfigValue(cmd *cobra.Command, key, value string) error {
	cfg, err := config.NewProvider().Load(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return err
	}

	switch key {
	case "ui.color_scheme":
		cs := config.ColorScheme(value)
		if ok, _ := cs.IsValid(); !ok {
			return fmt.Errorf("invalid ui.color_scheme: must be 'auto', 'dark' or 'light'")
		}
		cfg.UI.ColorScheme = cs

	case "ui.alt_screen":
		cfg.UI.AltScreen = value == "true" || value == "1"

	case "history.enabled":
		cfg.History.Enabled = value == "true" || value == "1"

	case "history.path":
		cfg.History.Path = config.HistoryPath(value)

	case "watch.debounce_ms":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid watch.debounce_ms: must be a non-negative integer")
		}
		cfg.Watch.DebounceMillis = n

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: ui.color_scheme, ui.alt_screen, history.enabled, history.path, watch.debounce_ms", key)
	}

	if ok, errs := cfg.IsValid(); !ok {
		return fmt.Errorf("invalid configuration: %v", errs[0])
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}
