// SPDX-License-Identifier: MPL-2.0

// Package watch provides debounced filesystem watching for task files and
// project trees.
//
// Two consumers share it: the interactive session watches the task file to
// hot-reload the entry list, and `runbook run --watch` re-runs a batch when
// the task file (or additional source globs) change. Events inside the
// debounce window coalesce so the callback fires once with the full set of
// changed paths.
package watch

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the quiet period after the last event before the
// callback fires. It matches the `watch.debounce_ms` settings default; an
// editor's write-then-rename save produces one callback, not two.
const defaultDebounce = 400 * time.Millisecond

// defaultIgnores are always excluded, on top of any user ignores. Besides
// the usual VCS/editor noise this covers task log output: a running action
// appends to its log file, and a watch that reacted to that would re-run
// the batch forever.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/logs/**",
	"**/*.log",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Patterns are doublestar globs selecting which files trigger the
		// callback, matched against paths relative to BaseDir. Empty means
		// every non-ignored file.
		Patterns []string

		// Ignore are additional globs for paths that never trigger the
		// callback, merged with the built-in defaults.
		Ignore []string

		// Debounce is the quiet period before the callback fires. Zero or
		// negative falls back to defaultDebounce.
		Debounce time.Duration

		// Recursive registers every directory under BaseDir (and picks up
		// directories created later). When false only BaseDir itself is
		// watched, which is the right shape for a single-file watch.
		Recursive bool

		// ClearScreen writes an ANSI clear to Stdout before each callback.
		// No terminal detection is performed.
		ClearScreen bool

		// BaseDir is the directory events are observed under and the anchor
		// for relative paths. Empty means the current working directory.
		BaseDir string

		// OnChange receives the deduplicated changed paths (relative to
		// BaseDir) after the debounce window closes. nil is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout and Stderr carry informational and error messages. nil
		// values default to the process streams.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Watcher monitors the filesystem and fires a debounced callback when
	// matching files change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		stdout   io.Writer
		stderr   io.Writer
		debounce time.Duration
		baseDir  string
		started  atomic.Bool
	}
)

// ForFile builds a Watcher for a single file: BaseDir becomes the file's
// directory, the file name joins the patterns, and the watch stays
// non-recursive. Remaining cfg fields pass through.
func ForFile(path string, cfg Config) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %q: %w", path, err)
	}
	cfg.BaseDir = filepath.Dir(abs)
	cfg.Patterns = append(cfg.Patterns, filepath.Base(abs))
	cfg.Recursive = false
	return New(cfg)
}

// New creates a Watcher from the given Config. It resolves BaseDir to an
// absolute path and registers the watched directories with fsnotify.
func New(cfg Config) (*Watcher, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	// Invalid globs fail here instead of silently never matching.
	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  ignores,
		stdout:   stdout,
		stderr:   stderr,
		debounce: debounce,
		baseDir:  absBase,
	}

	if err := w.register(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			fmt.Fprintf(stderr, "watch: close after init failure: %v\n", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on clean cancellation and
// propagates fatal watcher errors. A second call returns an error.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire drains the pending set and invokes OnChange. The timer may
	// deliver it after cancellation, so ctx is re-checked. The skip-if-busy
	// guard keeps callback invocations sequential when the callback runs
	// longer than the debounce window, and the timer reset on skip keeps
	// the accumulated pending set from being dropped.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			fmt.Fprintf(w.stderr, "watch: skipping re-execution (previous run still in progress)\n")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Collect(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.ClearScreen {
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				fmt.Fprintf(w.stderr, "watch: callback error: %v\n", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		localTimer := timer
		mu.Unlock()
		if localTimer != nil && !localTimer.Stop() {
			select {
			case <-localTimer.C:
			default:
			}
		}
		if closeErr := w.fsw.Close(); closeErr != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}

			rel, err := filepath.Rel(w.baseDir, evt.Name)
			if err != nil {
				rel = evt.Name
			}

			if w.isIgnored(rel) {
				continue
			}

			// Directories created after startup join a recursive watch.
			if w.cfg.Recursive && evt.Has(fsnotify.Create) {
				w.addCreatedDir(evt.Name)
			}

			if !w.matchesPatterns(rel) {
				continue
			}

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			// Resource exhaustion means the watcher cannot recover; the
			// classification is platform-specific (watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}

// register adds the watched directories to fsnotify: just BaseDir, or the
// whole tree under it when Recursive is set. Pattern filtering happens per
// event, not here.
func (w *Watcher) register() error {
	if !w.cfg.Recursive {
		if err := w.fsw.Add(w.baseDir); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", w.baseDir, err)
		}
		return nil
	}

	walkErr := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			// Inaccessible subtrees are skipped, not fatal; the message
			// tells the user which paths are not covered.
			fmt.Fprintf(w.stderr, "watch: skipping inaccessible path %q: %v\n", path, walkDirErr)
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(w.baseDir, path)
		if relErr != nil {
			return nil
		}

		// Ignored directories are pruned entirely.
		if w.isIgnored(rel) || w.isIgnored(rel+"/") {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// addCreatedDir adds path to the watch if it is a non-ignored directory.
func (w *Watcher) addCreatedDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		return
	}

	if w.isIgnored(rel) || w.isIgnored(rel+"/") {
		return
	}

	if addErr := w.fsw.Add(path); addErr != nil {
		fmt.Fprintf(w.stderr, "watch: add new directory %q: %v\n", path, addErr)
	}
}

// isIgnored reports whether rel matches any ignore pattern.
func (w *Watcher) isIgnored(rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.ignores {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// matchesPatterns reports whether rel matches at least one watch pattern.
// No patterns means everything matches.
func (w *Watcher) matchesPatterns(rel string) bool {
	if len(w.cfg.Patterns) == 0 {
		return true
	}
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.cfg.Patterns {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// validatePatterns checks that every pattern is a valid doublestar glob.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if _, err := doublestar.Match(pat, ""); err != nil {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, err)
		}
	}
	return nil
}
