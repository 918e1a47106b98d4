// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"runbook-cli/internal/runtime"
	"runbook-cli/internal/watch"
	"runbook-cli/pkg/runfile"
)

type (
	// Recorder persists finished executions. Implementations must be safe
	// for concurrent use; a nil Recorder disables recording.
	Recorder interface {
		Record(ctx context.Context, res runtime.Result) error
	}

	// Options configures an interactive session.
	Options struct {
		// AltScreen renders the interface on the terminal's alternate screen.
		AltScreen bool
		// Recorder receives every finished execution when non-nil.
		Recorder Recorder
		// WatchDebounce enables task-file hot reload when positive.
		WatchDebounce time.Duration
	}
)

// Run drives a full interactive session over the task file and blocks until
// the user quits. Executions derive their lifetime from ctx.
func Run(ctx context.Context, file *runfile.File, opts Options) error {
	m := NewModel(ctx, file, opts)

	var popts []tea.ProgramOption
	if opts.AltScreen {
		popts = append(popts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, popts...)

	if opts.WatchDebounce > 0 {
		watchCtx, stopWatch := context.WithCancel(ctx)
		defer stopWatch()

		w, err := watch.ForFile(file.Path(), watch.Config{
			Debounce: opts.WatchDebounce,
			// The program owns the terminal; watcher noise would corrupt it.
			Stdout: io.Discard,
			Stderr: io.Discard,
			OnChange: func(context.Context, []string) error {
				reloaded, loadErr := runfile.Load(file.Path())
				p.Send(fileReloadedMsg{file: reloaded, err: loadErr})
				return nil
			},
		})
		if err != nil {
			// Hot reload is a convenience; the session works without it.
			log.Debug("task file watch unavailable", "err", err)
		} else {
			go func() {
				if runErr := w.Run(watchCtx); runErr != nil {
					log.Debug("task file watch stopped", "err", runErr)
				}
			}()
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive session: %w", err)
	}
	return nil
}
