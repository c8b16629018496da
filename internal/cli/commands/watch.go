package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/layerlint/internal/cli/config"
	"github.com/leapstack-labs/layerlint/internal/dag"
	"github.com/leapstack-labs/layerlint/internal/discover"
)

// watchDebounce is how long the watcher waits for a burst of events to
// settle before re-running.
const watchDebounce = 100 * time.Millisecond

// projectWatcher reports changes to project files, the config file and the
// graph manifest.
type projectWatcher struct {
	watcher *fsnotify.Watcher
	root    string
	ignore  []string
	config  string
	extra   map[string]bool
	// exclude holds root-relative paths whose changes never trigger a run.
	exclude  map[string]bool
	debounce time.Duration
	logger   *slog.Logger
}

func newProjectWatcher(cfg *config.Config, logger *slog.Logger) (*projectWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &projectWatcher{
		watcher:  watcher,
		root:     cfg.ProjectRoot,
		ignore:   cfg.Discover.Ignore,
		config:   cfg.ConfigFile,
		extra:    make(map[string]bool),
		exclude:  make(map[string]bool),
		debounce: watchDebounce,
		logger:   logger,
	}

	// Recording a run writes the history database; watching it would loop.
	if cfg.History != nil {
		for _, p := range discover.DatabaseFiles(w.root, cfg.History.Path) {
			w.exclude[p] = true
		}
	}

	dirs, err := discover.Dirs(w.root, w.ignore)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to list project directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(filepath.Join(w.root, filepath.FromSlash(dir))); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	// Config and manifest may live outside the project tree.
	for _, file := range []string{cfg.ConfigFile, cfg.Graph} {
		if file == "" {
			continue
		}
		w.extra[filepath.Clean(file)] = true
		if _, ok := w.rel(file); !ok {
			if err := watcher.Add(filepath.Dir(file)); err != nil {
				logger.Debug("cannot watch file directory", "file", file, "error", err)
			}
		}
	}

	logger.Debug("watching project", "root", w.root, "dirs", len(dirs))
	return w, nil
}

// Close stops watching.
func (w *projectWatcher) Close() error {
	return w.watcher.Close()
}

// ConfigChanged reports whether the config file is among the changed paths.
func (w *projectWatcher) ConfigChanged(changed []string) bool {
	if w.config == "" {
		return false
	}
	for _, p := range changed {
		if filepath.Clean(p) == filepath.Clean(w.config) {
			return true
		}
	}
	return false
}

// rel returns p relative to the project root, slash-separated.
func (w *projectWatcher) rel(p string) (string, bool) {
	rel, err := filepath.Rel(w.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// relevant reports whether an event should trigger a re-run.
func (w *projectWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if w.extra[filepath.Clean(event.Name)] {
		return true
	}
	rel, ok := w.rel(event.Name)
	if !ok || w.exclude[rel] {
		return false
	}
	return !discover.Ignored(rel, w.ignore)
}

// Affected returns the project files that changed or transitively import a
// changed file, according to g. Paths are root-relative and sorted.
func (w *projectWatcher) Affected(g *dag.Graph, changed []string) []string {
	if g == nil {
		return nil
	}
	rels := make([]string, 0, len(changed))
	for _, p := range changed {
		if rel, ok := w.rel(p); ok {
			rels = append(rels, rel)
		}
	}
	return g.Affected(rels)
}

// Run delivers debounced batches of changed paths to onChange until ctx is
// done. onChange runs on the watcher goroutine, so batches never overlap.
func (w *projectWatcher) Run(ctx context.Context, onChange func(changed []string)) error {
	var timer *time.Timer
	var fire <-chan time.Time
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}

			// New directories are watched too.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watcher.Add(event.Name); err != nil {
						w.logger.Debug("cannot watch new directory", "dir", event.Name, "error", err)
					}
				}
			}

			pending[event.Name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			onChange(changed)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// reloadConfig re-reads the configuration after the config file changed and
// stores it in the command context.
func reloadConfig(cmd *cobra.Command, cmdCtx *CommandContext) error {
	cfg, err := config.LoadConfigFrom(cmdCtx.Cfg.ProjectRoot, cmdCtx.Cfg.ConfigFile, cmd.Root().PersistentFlags())
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	cmdCtx.Cfg = cfg
	cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
	return nil
}
