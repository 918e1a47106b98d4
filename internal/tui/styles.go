// SPDX-License-Identifier: MPL-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// styleSet groups the lipgloss styles used by the views.
type styleSet struct {
	header   lipgloss.Style
	help     lipgloss.Style
	filter   lipgloss.Style
	current  lipgloss.Style
	selected lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
	warning  lipgloss.Style
	dimmed   lipgloss.Style
}

func defaultStyles() styleSet {
	return styleSet{
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		filter:   lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
		current:  lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		failure:  lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		dimmed:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}
