// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"fmt"
	"strings"
	"time"

	"runbook-cli/internal/runtime"
)

func (m Model) View() string {
	switch m.state {
	case stateList:
		return m.viewList()
	case stateRunning:
		return m.viewRunning()
	case stateSummary:
		return m.viewSummary()
	case stateDetails:
		return m.viewDetails()
	case stateLog:
		return m.viewLog()
	default:
		return ""
	}
}

func (m Model) viewList() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s\n", m.styles.header.Render("runbook"))
	fmt.Fprintf(b, "%s\n", m.styles.help.Render(
		"↑/↓ move  PgUp/PgDn jump  Home/End  Space select  + all visible  - clear visible  Enter run  Esc quit"))
	fmt.Fprintf(b, "%s\n", m.styles.filter.Render("Filter: "+m.filter))
	fmt.Fprintf(b, "%s\n", m.styles.filter.Render(fmt.Sprintf("Selected: %d", len(m.selected))))

	if m.errMessage != "" {
		fmt.Fprintf(b, "%s\n", m.styles.warning.Render(m.errMessage))
	} else if m.infoMessage != "" {
		fmt.Fprintf(b, "%s\n", m.styles.help.Render(m.infoMessage))
	}
	fmt.Fprintln(b)

	if len(m.filtered) == 0 {
		fmt.Fprintf(b, "%s\n", m.styles.warning.Render("No matching entries"))
		return b.String()
	}

	vp := m.listHeight()
	end := m.scroll + vp
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	if m.scroll > 0 {
		fmt.Fprintf(b, "%s\n", m.styles.dimmed.Render(fmt.Sprintf("... %d more above ...", m.scroll)))
	}

	for i := m.scroll; i < end; i++ {
		idx := m.filtered[i]
		ent := m.entries[idx]

		marker := " "
		if i == m.cursor {
			marker = "►"
		}

		_, isSelected := m.selected[idx]
		box := "[ ]"
		if isSelected {
			box = "[✓]"
		}

		var line string
		if ent.typ == entryAction {
			line = fmt.Sprintf("%s %s %s - %s", marker, box, ent.app, ent.action)
		} else {
			line = fmt.Sprintf("%s     %s - Show Details", marker, ent.app)
		}

		switch {
		case i == m.cursor:
			fmt.Fprintf(b, "%s\n", m.styles.current.Render(line))
		case isSelected:
			fmt.Fprintf(b, "%s\n", m.styles.selected.Render(line))
		default:
			fmt.Fprintf(b, "%s\n", line)
		}
	}

	if end < len(m.filtered) {
		fmt.Fprintf(b, "%s\n", m.styles.dimmed.Render(fmt.Sprintf("... %d more below ...", len(m.filtered)-end)))
	}

	return b.String()
}

func (m Model) viewRunning() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s\n\n", m.styles.header.Render("Executing..."))
	fmt.Fprintf(b, "%s %s\n", m.spinner.View(), m.infoMessage)

	if m.runMode == runtime.SingleInteractive {
		if lines := tailWindow(m.liveTail, m.listHeight()); len(lines) > 0 {
			fmt.Fprintln(b)
			for _, line := range lines {
				fmt.Fprintf(b, "%s\n", line)
			}
		}
	} else {
		fmt.Fprintln(b)
		for _, task := range m.runTasks {
			fmt.Fprintf(b, "  %s - %s\n", task.App.Name, task.Action.Name)
		}
	}

	fmt.Fprintf(b, "\n%s\n", m.styles.help.Render("Esc: abort  Ctrl+C: quit"))
	return b.String()
}

// tailWindow returns the last n lines, dropping the trailing open line when
// it is empty.
func tailWindow(lines []string, n int) []string {
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

func (m Model) viewSummary() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s\n", m.styles.header.Render("Execution Summary"))

	successes := 0
	failures := 0
	for _, res := range m.results {
		if res.Success {
			successes++
		} else {
			failures++
		}
	}

	fmt.Fprintf(b, "Actions executed: %d\n", len(m.results))
	fmt.Fprintf(b, "%s\n", m.styles.success.Render(fmt.Sprintf("✓ Succeeded: %d", successes)))
	fmt.Fprintf(b, "%s\n", m.styles.failure.Render(fmt.Sprintf("✗ Failed: %d", failures)))

	if m.errMessage != "" {
		fmt.Fprintf(b, "%s\n", m.styles.warning.Render(m.errMessage))
	}

	fmt.Fprintf(b, "\n%s\n\n", m.styles.help.Render("Enter/l view log  q/Esc back"))

	for i, res := range m.results {
		icon := "✓"
		style := m.styles.success
		if !res.Success {
			icon = "✗"
			style = m.styles.failure
		}

		line := fmt.Sprintf("%s %s - %s (%s)", icon, res.AppName, res.ActionName,
			res.Duration().Round(time.Millisecond))
		if !res.Success && res.Err != nil {
			line = fmt.Sprintf("%s: %v", line, res.Err)
		}

		if i == m.summaryCursor {
			fmt.Fprintf(b, "%s\n", m.styles.current.Render(line))
		} else {
			fmt.Fprintf(b, "%s\n", style.Render(line))
		}
	}

	return b.String()
}

func (m Model) viewDetails() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s\n\n", m.styles.header.Render(m.detailsTitle))
	for _, line := range m.detailsLines {
		fmt.Fprintf(b, "%s\n", line)
	}
	fmt.Fprintf(b, "\n%s\n", m.styles.help.Render("Enter/q/Esc back"))
	return b.String()
}

func (m Model) viewLog() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s\n", m.styles.header.Render("Log - "+m.logTitle))
	fmt.Fprintf(b, "%s\n\n", m.styles.help.Render("↑/↓ scroll  PgUp/PgDn page  Home/End  q/Esc back"))
	fmt.Fprintf(b, "%s\n", m.logView.View())
	fmt.Fprintf(b, "%s\n", m.styles.dimmed.Render(fmt.Sprintf("%3.0f%%", m.logView.ScrollPercent()*100)))
	return b.String()
}
