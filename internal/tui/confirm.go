// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned by Confirm when the user cancels the prompt
// (Esc or Ctrl+C) instead of picking an answer.
var ErrAborted = errors.New("user aborted")

type (
	// ConfirmOptions configures a Confirm prompt.
	ConfirmOptions struct {
		// Title is the question to display.
		Title string
		// Description provides additional context below the title.
		Description string
		// Affirmative is the label of the yes option (default "Yes").
		Affirmative string
		// Negative is the label of the no option (default "No").
		Negative string
		// Default preselects the answer: true for yes, false for no.
		Default bool
	}

	// confirmModel is a self-contained yes/no prompt. It shares decodeKey
	// with the main state machine but runs as its own program; the upgrade
	// flow needs a prompt outside an interactive session.
	confirmModel struct {
		opts      ConfirmOptions
		selection bool
		result    bool
		done      bool
		cancelled bool
		width     int
	}
)

func newConfirmModel(opts ConfirmOptions) *confirmModel {
	if opts.Affirmative == "" {
		opts.Affirmative = "Yes"
	}
	if opts.Negative == "" {
		opts.Negative = "No"
	}
	return &confirmModel{
		opts:      opts,
		selection: opts.Default,
		result:    opts.Default,
	}
}

// Init implements tea.Model.
func (m *confirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch ev := decodeKey(msg); ev.kind {
		case keyQuit, keyCancel:
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		case keyLeft:
			m.selection = true
		case keyRight:
			m.selection = false
		case keyUp, keyDown:
			m.selection = !m.selection
		case keyConfirm, keyToggleSelect:
			m.result = m.selection
			m.done = true
			return m, tea.Quit
		case keyPrintable:
			switch ev.text {
			case "y", "Y":
				m.result = true
				m.done = true
				return m, tea.Quit
			case "n", "N":
				m.result = false
				m.done = true
				return m, tea.Quit
			case "h":
				m.selection = true
			case "l":
				m.selection = false
			}
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m *confirmModel) View() string {
	if m.done {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#7C3AED")).Bold(true).Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Padding(0, 1)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	yesView := inactiveStyle.Render(m.opts.Affirmative)
	noView := inactiveStyle.Render(m.opts.Negative)
	if m.selection {
		yesView = activeStyle.Render(m.opts.Affirmative)
	} else {
		noView = activeStyle.Render(m.opts.Negative)
	}

	lines := make([]string, 0, 4)
	if m.opts.Title != "" {
		lines = append(lines, titleStyle.Render(m.opts.Title))
	}
	if m.opts.Description != "" {
		lines = append(lines, descStyle.Render(m.opts.Description))
	}
	lines = append(lines,
		yesView+"  "+noView,
		helpStyle.Render("enter submit • y yes • n no • esc cancel"),
	)

	view := strings.Join(lines, "\n")
	if m.width > 0 {
		view = lipgloss.NewStyle().MaxWidth(m.width).Render(view)
	}
	return view
}

// Confirm prompts the user to confirm an action. It returns the chosen
// answer, or ErrAborted when the prompt is cancelled.
func Confirm(opts ConfirmOptions) (bool, error) {
	p := tea.NewProgram(newConfirmModel(opts))
	final, err := p.Run()
	if err != nil {
		return false, err
	}

	m := final.(*confirmModel)
	if m.cancelled {
		return false, ErrAborted
	}
	return m.result, nil
}
