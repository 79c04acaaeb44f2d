// Package watch keeps artifacts up to date while sources change.
//
// A Watcher runs one batch, subscribes to every directory under the static
// base of each source pattern and then feeds filesystem events through the
// orchestrator one at a time. An optional periodic rescan catches events the
// platform dropped; it is serialized with event handling on the same loop.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/graphql2js/internal/build"
	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
	"git.home.luguber.info/inful/graphql2js/internal/logfields"
	"git.home.luguber.info/inful/graphql2js/internal/metrics"
	"git.home.luguber.info/inful/graphql2js/internal/sources"
)

// Watcher drives the orchestrator from filesystem events.
type Watcher struct {
	orch           *build.Orchestrator
	set            *sources.Set
	recorder       metrics.Recorder
	logger         *slog.Logger
	rescanInterval time.Duration
	ready          chan struct{}
}

// New creates a watcher for the given source set.
func New(orch *build.Orchestrator, set *sources.Set) *Watcher {
	return &Watcher{
		orch:     orch,
		set:      set,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		ready:    make(chan struct{}),
	}
}

// WithRecorder sets the metrics recorder for watch events.
func (w *Watcher) WithRecorder(r metrics.Recorder) *Watcher {
	if r != nil {
		w.recorder = r
	}
	return w
}

// WithLogger sets the logger.
func (w *Watcher) WithLogger(logger *slog.Logger) *Watcher {
	if logger != nil {
		w.logger = logger
	}
	return w
}

// WithRescanInterval enables a periodic reconcile. Zero disables it.
func (w *Watcher) WithRescanInterval(d time.Duration) *Watcher {
	w.rescanInterval = d
	return w
}

// Ready is closed once the initial batch finished and the subscription is live.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run performs the initial batch and then processes events until ctx is
// cancelled. Per-file failures and watcher errors are logged, never returned.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := w.orch.RunBatch(ctx, w.set); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "create file watcher").Build()
	}
	defer func() {
		if cerr := fsw.Close(); cerr != nil {
			w.logger.Warn("Error closing file watcher", logfields.Error(cerr))
		}
	}()

	for _, base := range w.set.Bases() {
		if _, statErr := os.Stat(base); statErr != nil {
			w.logger.Warn("Watch base not found", logfields.Path(base), logfields.Error(statErr))
			continue
		}
		w.addDirsRecursive(fsw, base)
	}

	rescan := make(chan struct{}, 1)
	if w.rescanInterval > 0 {
		sched, schedErr := newRescanScheduler(w.rescanInterval, func() {
			select {
			case rescan <- struct{}{}:
			default:
			}
		})
		if schedErr != nil {
			return schedErr
		}
		defer func() {
			if serr := sched.stop(); serr != nil {
				w.logger.Warn("Error stopping rescan scheduler", logfields.Error(serr))
			}
		}()
	}

	w.orch.Writer().PrintFilenames = true
	w.logger.Info("watching for changes", slog.Any("patterns", w.set.Patterns()))
	close(w.ready)

	return w.loop(ctx, fsw, rescan)
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, rescan <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping watcher")
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		case <-rescan:
			if _, err := w.orch.Reconcile(ctx, w.set); err != nil && ctx.Err() == nil {
				w.logger.Error("Rescan failed", logfields.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, fsw *fsnotify.Watcher, ev fsnotify.Event) {
	op, ok := MapOp(ev.Op)
	if !ok || sources.IsHidden(ev.Name) {
		return
	}

	if op == OpAdd {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			w.addDirsRecursive(fsw, ev.Name)
			w.scanDir(ctx, ev.Name)
			return
		}
	}

	if ShouldIgnore(ev.Name) || !w.set.Match(ev.Name) {
		return
	}

	w.recorder.IncWatchEvent(string(op))
	w.logger.Debug("File change detected", logfields.Path(ev.Name), logfields.Op(string(op)))
	w.orch.ProcessPath(ctx, ev.Name)
}

// scanDir processes matching files inside a directory that appeared after
// the subscription was set up; their own create events may have been missed.
func (w *Watcher) scanDir(ctx context.Context, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && sources.IsHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if ShouldIgnore(path) || !w.set.Match(path) {
			return nil
		}
		w.recorder.IncWatchEvent(string(OpAdd))
		w.orch.ProcessPath(ctx, path)
		return nil
	})
}

func (w *Watcher) addDirsRecursive(fsw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			w.logger.Warn("Watch walk failed", logfields.Path(path), logfields.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && sources.IsHidden(d.Name()) {
			return filepath.SkipDir
		}
		if addErr := fsw.Add(path); addErr != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(addErr))
		}
		return nil
	})
}
