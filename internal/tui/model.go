// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"runbook-cli/internal/runtime"
	"runbook-cli/pkg/runfile"
)

// pageJump is the cursor distance covered by PageUp/PageDown in the list.
const pageJump = 10

// logChrome is the number of non-viewport lines in the log view.
const logChrome = 4

const (
	stateList viewState = iota
	stateRunning
	stateSummary
	stateDetails
	stateLog
)

type (
	// viewState identifies the active view of the state machine.
	viewState int

	// Model is the bubbletea model driving an interactive session. It is a
	// value: handlers mutate a copy and return it, so no state escapes the
	// update loop.
	Model struct {
		ctx    context.Context
		file   *runfile.File
		runner *runtime.Runner
		rec    Recorder

		entries  []entry
		filtered []int
		filter   string
		cursor   int
		scroll   int
		selected map[int]struct{}

		state viewState

		width  int
		height int

		spinner spinner.Model

		infoMessage string
		errMessage  string

		runCancel context.CancelFunc
		runTasks  []runtime.Task
		runMode   runtime.Mode
		aborting  bool
		liveCh    chan string
		liveTail  []string

		results       []runtime.Result
		summaryCursor int

		logView  viewport.Model
		logTitle string

		detailsTitle string
		detailsLines []string

		styles styleSet
	}

	// runResultsMsg delivers every result of a finished run, after the join
	// barrier.
	runResultsMsg struct {
		results []runtime.Result
		mode    runtime.Mode
	}

	// outputMsg carries one chunk of live output from a single-action run.
	outputMsg struct {
		chunk string
	}

	// outputClosedMsg signals the end of the live output stream.
	outputClosedMsg struct{}

	// fileReloadedMsg delivers a freshly loaded task file after a change on
	// disk, or the load error.
	fileReloadedMsg struct {
		file *runfile.File
		err  error
	}
)

// NewModel builds the interactive model over a loaded task file. Executions
// started from the model derive their lifetime from ctx.
func NewModel(ctx context.Context, file *runfile.File, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	entries := buildEntries(file)
	m := Model{
		ctx:      ctx,
		file:     file,
		runner:   runtime.NewRunner(file),
		rec:      opts.Recorder,
		entries:  entries,
		filtered: make([]int, len(entries)),
		selected: make(map[int]struct{}),
		state:    stateList,
		spinner:  spinner.New(),
		styles:   defaultStyles(),
	}
	for i := range entries {
		m.filtered[i] = i
	}

	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))
	return m
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLogView()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyEvent(decodeKey(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case outputMsg:
		if m.state == stateRunning && m.liveCh != nil {
			m.liveTail = appendTail(m.liveTail, msg.chunk, liveTailMax)
			return m, waitForOutput(m.liveCh)
		}
		return m, nil

	case outputClosedMsg:
		m.liveCh = nil
		return m, nil

	case runResultsMsg:
		return m.handleRunResults(msg)

	case fileReloadedMsg:
		return m.handleReload(msg)
	}

	return m, nil
}

// handleKeyEvent routes a logical key event to the active state's handler.
// The hard interrupt bypasses state handling entirely.
func (m Model) handleKeyEvent(ev keyEvent) (tea.Model, tea.Cmd) {
	switch ev.kind {
	case keyNone:
		return m, nil
	case keyQuit:
		if m.runCancel != nil {
			m.runCancel()
		}
		return m, tea.Quit
	}

	switch m.state {
	case stateList:
		return m.handleListKey(ev)
	case stateRunning:
		return m.handleRunningKey(ev)
	case stateSummary:
		return m.handleSummaryKey(ev)
	case stateDetails:
		return m.handleDetailsKey(ev)
	case stateLog:
		return m.handleLogKey(ev)
	default:
		return m, nil
	}
}

func (m Model) handleListKey(ev keyEvent) (tea.Model, tea.Cmd) {
	switch ev.kind {
	case keyCancel:
		return m, tea.Quit
	case keyUp:
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
	case keyDown:
		if m.cursor+1 < len(m.filtered) {
			m.cursor++
			m.ensureCursorVisible()
		}
	case keyHome:
		m.cursor = 0
		m.ensureCursorVisible()
	case keyEnd:
		if len(m.filtered) > 0 {
			m.cursor = len(m.filtered) - 1
			m.ensureCursorVisible()
		}
	case keyPageUp:
		m.cursor -= pageJump
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureCursorVisible()
	case keyPageDown:
		if m.cursor+pageJump >= len(m.filtered) {
			m.cursor = len(m.filtered) - 1
		} else {
			m.cursor += pageJump
		}
		m.ensureCursorVisible()
	case keyToggleSelect:
		m.toggleSelection()
	case keySelectAllVisible:
		m.selectVisible()
	case keyClearVisibleSelection:
		m.deselectVisible()
	case keyPrintable:
		m.filter += ev.text
		m.resetAndFilter()
	case keyBackspace:
		if m.filter != "" {
			m.filter = trimLastRune(m.filter)
			m.applyFilter()
		}
	case keyClearFilter:
		if m.filter != "" {
			m.filter = ""
			m.applyFilter()
		}
	case keyConfirm:
		return m.confirmSelection()
	}

	return m, nil
}

// toggleSelection flips membership of the cursor entry in the selection set.
// Details rows are never selectable.
func (m *Model) toggleSelection() {
	if len(m.filtered) == 0 {
		return
	}

	idx := m.filtered[m.cursor]
	if m.entries[idx].typ != entryAction {
		return
	}

	if _, ok := m.selected[idx]; ok {
		delete(m.selected, idx)
	} else {
		m.selected[idx] = struct{}{}
	}
}

// selectVisible adds every visible action entry to the selection.
func (m *Model) selectVisible() {
	for _, idx := range m.filtered {
		if m.entries[idx].typ != entryAction {
			continue
		}
		m.selected[idx] = struct{}{}
	}
}

// deselectVisible removes every visible entry from the selection. Entries
// hidden by the current filter keep their selection.
func (m *Model) deselectVisible() {
	for _, idx := range m.filtered {
		delete(m.selected, idx)
	}
}

// resetAndFilter recomputes the visible rows and jumps back to the top.
// Typing always restarts navigation from the first match.
func (m *Model) resetAndFilter() {
	m.filtered = filterEntries(m.entries, m.filter)
	m.cursor = 0
	m.scroll = 0
}

// applyFilter recomputes the visible rows, clamping cursor and scroll into
// the new range.
func (m *Model) applyFilter() {
	m.filtered = filterEntries(m.entries, m.filter)
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
	}
	m.ensureCursorVisible()
}

// trimLastRune removes the final rune of s.
func trimLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

// confirmSelection dispatches the confirm event in the list: details rows
// open the details view, a non-empty selection runs as a parallel batch, and
// an empty selection runs the cursor entry alone.
func (m Model) confirmSelection() (tea.Model, tea.Cmd) {
	if len(m.filtered) == 0 {
		return m, nil
	}

	current := m.entries[m.filtered[m.cursor]]
	if current.typ == entryDetails {
		m.openDetails(current.app)
		return m, nil
	}

	if len(m.selected) == 0 {
		task, ok := m.taskFor(current)
		if !ok {
			return m, nil
		}
		return m.startRun([]runtime.Task{task}, runtime.SingleInteractive)
	}

	// Selected entries run in definition order regardless of selection order.
	indices := make([]int, 0, len(m.selected))
	for idx := range m.selected {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	tasks := make([]runtime.Task, 0, len(indices))
	for _, idx := range indices {
		if m.entries[idx].typ != entryAction {
			continue
		}
		if task, ok := m.taskFor(m.entries[idx]); ok {
			tasks = append(tasks, task)
		}
	}
	if len(tasks) == 0 {
		return m, nil
	}

	m.selected = make(map[int]struct{})
	return m.startRun(tasks, runtime.BatchInteractive)
}

// taskFor resolves a list row back to its app and action in the task file.
func (m Model) taskFor(ent entry) (runtime.Task, bool) {
	app, ok := m.file.App(ent.app)
	if !ok {
		return runtime.Task{}, false
	}
	act, ok := app.Action(ent.action)
	if !ok {
		return runtime.Task{}, false
	}
	return runtime.Task{App: app, Action: act}, true
}

// startRun transitions to the running state and dispatches the tasks.
func (m Model) startRun(tasks []runtime.Task, mode runtime.Mode) (tea.Model, tea.Cmd) {
	if len(tasks) == 0 {
		return m, nil
	}

	runCtx, cancel := context.WithCancel(m.ctx)
	m.state = stateRunning
	m.runCancel = cancel
	m.runTasks = tasks
	m.runMode = mode
	m.aborting = false
	m.infoMessage = fmt.Sprintf("Running %d action(s)...", len(tasks))
	m.errMessage = ""
	m.results = nil
	m.summaryCursor = 0
	m.liveTail = nil
	m.liveCh = nil

	if mode == runtime.SingleInteractive {
		ch := make(chan string, outputBuffer)
		m.liveCh = ch
		return m, tea.Batch(
			runSingleCmd(runCtx, m.runner, tasks[0], ch, m.rec),
			waitForOutput(ch),
			m.spinner.Tick,
		)
	}
	return m, tea.Batch(runBatchCmd(runCtx, m.runner, tasks, m.rec), m.spinner.Tick)
}

func (m Model) handleRunningKey(ev keyEvent) (tea.Model, tea.Cmd) {
	if ev.kind == keyCancel && !m.aborting {
		// Abort kills the outstanding processes; the join barrier still
		// delivers a result per task, so the machine stays here until they
		// arrive.
		if m.runCancel != nil {
			m.runCancel()
		}
		m.aborting = true
		m.infoMessage = "Aborting..."
	}
	return m, nil
}

func (m Model) handleRunResults(msg runResultsMsg) (tea.Model, tea.Cmd) {
	if m.runCancel != nil {
		m.runCancel()
		m.runCancel = nil
	}

	m.results = orderResults(msg.results)
	m.state = stateSummary
	m.runMode = msg.mode
	m.runTasks = nil
	m.aborting = false
	m.summaryCursor = 0
	m.selected = make(map[int]struct{})
	m.infoMessage = fmt.Sprintf("Completed %d action(s)", len(msg.results))
	m.errMessage = ""
	return m, nil
}

// orderResults moves failures to the front. The sort is stable and compares
// success against failure only, so each group keeps its submission order.
func orderResults(results []runtime.Result) []runtime.Result {
	out := append([]runtime.Result(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Success == out[j].Success {
			return false
		}
		return !out[i].Success
	})
	return out
}

func (m Model) handleSummaryKey(ev keyEvent) (tea.Model, tea.Cmd) {
	switch ev.kind {
	case keyCancel:
		m.state = stateList
		m.errMessage = ""
	case keyUp:
		if m.summaryCursor > 0 {
			m.summaryCursor--
		}
	case keyDown:
		if m.summaryCursor+1 < len(m.results) {
			m.summaryCursor++
		}
	case keyHome:
		m.summaryCursor = 0
	case keyEnd:
		if len(m.results) > 0 {
			m.summaryCursor = len(m.results) - 1
		}
	case keyConfirm:
		m.openLogForCursor()
	case keyPrintable:
		switch ev.text {
		case "q":
			m.state = stateList
			m.errMessage = ""
		case "l":
			m.openLogForCursor()
		}
	}
	return m, nil
}

// openLogForCursor loads the highlighted result's log into the viewer. A
// missing or unreadable log keeps the summary on screen with an inline
// message.
func (m *Model) openLogForCursor() {
	if len(m.results) == 0 {
		return
	}

	res := m.results[m.summaryCursor]
	if strings.TrimSpace(res.LogPath) == "" {
		m.errMessage = "No log file was created for this action"
		return
	}

	content, err := os.ReadFile(res.LogPath)
	if err != nil {
		m.errMessage = fmt.Sprintf("Unable to read log: %v", err)
		return
	}

	w, h := m.logViewSize()
	m.logView = viewport.New(w, h)
	m.logView.SetContent(strings.TrimRight(string(content), "\n"))
	m.logView.GotoTop()
	m.logTitle = fmt.Sprintf("%s - %s", res.AppName, res.ActionName)
	m.errMessage = ""
	m.state = stateLog
}

func (m Model) logViewSize() (width, height int) {
	width = m.width
	if width <= 0 {
		width = 80
	}
	if m.height <= 0 {
		return width, 20
	}
	height = m.height - logChrome
	if height < 3 {
		height = 3
	}
	return width, height
}

func (m *Model) resizeLogView() {
	w, h := m.logViewSize()
	m.logView.Width = w
	m.logView.Height = h
}

func (m Model) handleLogKey(ev keyEvent) (tea.Model, tea.Cmd) {
	switch ev.kind {
	case keyCancel:
		m.state = stateSummary
	case keyUp:
		m.logView.ScrollUp(1)
	case keyDown:
		m.logView.ScrollDown(1)
	case keyPageUp:
		m.logView.ScrollUp(m.logView.Height)
	case keyPageDown:
		m.logView.ScrollDown(m.logView.Height)
	case keyHome:
		m.logView.GotoTop()
	case keyEnd:
		m.logView.GotoBottom()
	case keyPrintable:
		if ev.text == "q" {
			m.state = stateSummary
		}
	}
	return m, nil
}

// openDetails snapshots the application's configuration into the details
// view. Container mode shows the raw working directory because resolution
// happens inside the container.
func (m *Model) openDetails(appName string) {
	app, ok := m.file.App(appName)
	if !ok {
		m.errMessage = fmt.Sprintf("Unknown application %q", appName)
		return
	}

	lines := []string{fmt.Sprintf("Application: %s", app.Name)}

	if m.file.Container() != "" {
		wd := strings.TrimSpace(app.WorkingDirRaw)
		if wd == "" {
			wd = "(container default)"
		}
		lines = append(lines, fmt.Sprintf("Working Dir: %s", wd))
	} else {
		wd := app.WorkingDir
		if wd == "" {
			wd = m.file.BaseDir()
		}
		lines = append(lines, fmt.Sprintf("Working Dir: %s", wd))
	}

	lines = append(lines, fmt.Sprintf("Log Dir: %s", app.LogDir))

	if c := m.file.Container(); c != "" {
		lines = append(lines, fmt.Sprintf("Container: %s", c))
	} else {
		lines = append(lines, "Container: (host)")
	}

	lines = append(lines, "", "Actions:")
	for _, act := range app.Actions {
		lines = append(lines, fmt.Sprintf("  - %s", act.Name))
		lines = append(lines, fmt.Sprintf("    %s", act.Command))
	}

	m.detailsTitle = fmt.Sprintf("Details - %s", app.Name)
	m.detailsLines = lines
	m.errMessage = ""
	m.state = stateDetails
}

func (m Model) handleDetailsKey(ev keyEvent) (tea.Model, tea.Cmd) {
	switch ev.kind {
	case keyConfirm, keyCancel:
		m.state = stateList
	case keyPrintable:
		if ev.text == "q" {
			m.state = stateList
		}
	}
	return m, nil
}

// handleReload swaps in a freshly loaded task file. The filter is preserved;
// the selection resets because entry indices no longer correspond.
func (m Model) handleReload(msg fileReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errMessage = fmt.Sprintf("Reload failed: %v", msg.err)
		return m, nil
	}

	m.file = msg.file
	m.runner = runtime.NewRunner(msg.file)
	m.entries = buildEntries(msg.file)
	m.selected = make(map[int]struct{})
	m.applyFilter()
	m.infoMessage = "Task file reloaded"
	m.errMessage = ""
	return m, nil
}

// listHeight is the number of rows the list view can draw; the remaining
// terminal lines hold the header, help, filter and status lines.
func (m Model) listHeight() int {
	if m.height <= 0 {
		return 15
	}
	h := m.height - 7
	if h < 3 {
		h = 3
	}
	return h
}

// ensureCursorVisible moves the scroll window so the cursor stays on screen.
func (m *Model) ensureCursorVisible() {
	if len(m.filtered) == 0 {
		m.cursor = 0
		m.scroll = 0
		return
	}

	vp := m.listHeight()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	} else if m.cursor >= m.scroll+vp {
		m.scroll = m.cursor - vp + 1
	}

	if m.scroll < 0 {
		m.scroll = 0
	}
	maxScroll := len(m.filtered) - vp
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
}
