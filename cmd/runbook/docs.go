// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"runbook-cli/internal/issue"
)

//go:embed usage.md
var usageMarkdown string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the built-in user guide",
	Long: `Render the built-in documentation in the terminal.

Without arguments the user guide is shown. 'runbook docs issues' lists
every diagnostic runbook can print, with the suggested fixes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rendered, err := glamour.Render(usageMarkdown, glamourStyle())
		if err != nil {
			// Fall back to the raw markdown rather than failing; the content
			// is still readable.
			fmt.Fprint(cmd.OutOrStdout(), usageMarkdown)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	docsCmd.AddCommand(&cobra.Command{
		Use:   "issues",
		Short: "List all diagnostics and their fixes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, entry := range issue.Values() {
				rendered, err := entry.Render(glamourStyle())
				if err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), entry.MarkdownMsg())
					continue
				}
				fmt.Fprint(cmd.OutOrStdout(), rendered)
			}
			return nil
		},
	})
}
