package build

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/graphql2js/internal/artifact"
	"git.home.luguber.info/inful/graphql2js/internal/fingerprint"
	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
	"git.home.luguber.info/inful/graphql2js/internal/logfields"
	"git.home.luguber.info/inful/graphql2js/internal/metrics"
	"git.home.luguber.info/inful/graphql2js/internal/notify"
	"git.home.luguber.info/inful/graphql2js/internal/pathresolve"
	"git.home.luguber.info/inful/graphql2js/internal/sources"
	"git.home.luguber.info/inful/graphql2js/internal/transform"
)

// Run modes used as the metrics label and in summary logs.
const (
	ModeBatch     = "batch"
	ModeReconcile = "reconcile"
)

// PathResolver maps a source path to its artifact paths.
type PathResolver interface {
	Resolve(sourcePath string) (pathresolve.Paths, error)
}

// Orchestrator runs the per-path pipeline. It is safe for concurrent use;
// calls are serialized so no two paths are processed at the same time.
type Orchestrator struct {
	resolver         PathResolver
	writer           *artifact.Writer
	transformer      transform.Transformer
	emitDeclarations bool

	recorder metrics.Recorder
	notifier notify.Notifier
	logger   *slog.Logger

	mu     sync.Mutex
	owners map[string]string // output path -> absolute source path
}

// NewOrchestrator wires the pipeline collaborators. Metrics and notifications
// default to no-ops and logging to slog.Default().
func NewOrchestrator(resolver PathResolver, writer *artifact.Writer, transformer transform.Transformer, emitDeclarations bool) *Orchestrator {
	return &Orchestrator{
		resolver:         resolver,
		writer:           writer,
		transformer:      transformer,
		emitDeclarations: emitDeclarations,
		recorder:         metrics.NoopRecorder{},
		notifier:         notify.Noop{},
		logger:           slog.Default(),
		owners:           make(map[string]string),
	}
}

// WithRecorder sets the metrics recorder.
func (o *Orchestrator) WithRecorder(r metrics.Recorder) *Orchestrator {
	if r != nil {
		o.recorder = r
	}
	return o
}

// WithNotifier sets the notifier that receives an event per changed source.
func (o *Orchestrator) WithNotifier(n notify.Notifier) *Orchestrator {
	if n != nil {
		o.notifier = n
	}
	return o
}

// WithLogger sets the logger.
func (o *Orchestrator) WithLogger(logger *slog.Logger) *Orchestrator {
	if logger != nil {
		o.logger = logger
	}
	return o
}

// Writer exposes the artifact writer so drivers can toggle filename printing.
func (o *Orchestrator) Writer() *artifact.Writer {
	return o.writer
}

// ProcessPath brings the artifacts of one source path up to date with the
// source's current state on disk.
func (o *Orchestrator) ProcessPath(ctx context.Context, path string) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()

	start := time.Now()
	out := o.process(path)
	out.Duration = time.Since(start)

	o.record(ctx, out)
	return out
}

func (o *Orchestrator) process(path string) Outcome {
	out := Outcome{Path: path}

	paths, err := o.resolver.Resolve(path)
	if err != nil {
		return fail(out, StateFailed, err, ferrors.CategoryResolution, "resolve artifact paths")
	}
	out.OutputPath = paths.Output

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return o.remove(out, paths)
	case err != nil:
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			err = ErrSourceNotFile
		}
		return fail(out, StateFailed, err, ferrors.CategoryFileSystem, "read source")
	}

	source := ownerKey(paths.Source)
	if owner, taken := o.owners[paths.Output]; taken && owner != source {
		collision := ferrors.WrapError(ErrOutputCollision, ferrors.CategoryResolution, "output path collision").
			WithContext("output", paths.Output).
			WithContext("owner", owner).
			Build()
		return fail(out, StateFailed, collision, ferrors.CategoryResolution, "")
	}
	o.owners[paths.Output] = source

	text := string(data)

	if o.emitDeclarations {
		changed, declErr := o.writer.WriteIfChanged(paths.Declaration, artifact.DeclarationStub)
		if declErr != nil {
			return fail(out, StateFailed, declErr, ferrors.CategoryFileSystem, "write declaration stub")
		}
		out.Changed = changed
	}

	existing, err := artifact.ReadExisting(paths.Output)
	if err != nil {
		return fail(out, StateFailed, err, ferrors.CategoryFileSystem, "read existing artifact")
	}
	if !fingerprint.NeedsRegeneration(text, existing) {
		out.State = StateUnchanged
		return out
	}

	compiled, err := o.transformer.Transform(text)
	if err != nil {
		return fail(out, StateTransformFailed, err, ferrors.CategoryTransform, "transform source")
	}

	written, err := o.writer.WriteIfChanged(paths.Output, compiled)
	if err != nil {
		return fail(out, StateFailed, err, ferrors.CategoryFileSystem, "write artifact")
	}
	out.State = StateStale
	out.Changed = out.Changed || written
	return out
}

// remove deletes the artifacts of a vanished source. A source that lost an
// output collision never owned the artifact and leaves it in place.
func (o *Orchestrator) remove(out Outcome, paths pathresolve.Paths) Outcome {
	source := ownerKey(paths.Source)
	if owner, ok := o.owners[paths.Output]; ok && owner != source {
		out.State = StateDeleted
		return out
	}

	removed, err := o.writer.RemoveArtifacts(paths.Output, paths.Declaration, o.emitDeclarations)
	out.Changed = removed
	if err != nil {
		return fail(out, StateFailed, err, ferrors.CategoryFileSystem, "remove artifacts")
	}
	delete(o.owners, paths.Output)
	out.State = StateDeleted
	return out
}

// ownerKey normalizes a source path so ./src/x and /abs/src/x claim the same output.
func ownerKey(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// fail sets the failure state, classifying err when it is not already classified.
func fail(out Outcome, state State, err error, category ferrors.ErrorCategory, msg string) Outcome {
	if _, ok := ferrors.AsClassified(err); !ok {
		err = ferrors.WrapError(err, category, msg).WithContext("path", out.Path).Build()
	}
	out.State = state
	out.Err = err
	return out
}

func (o *Orchestrator) record(ctx context.Context, out Outcome) {
	o.recorder.IncFileOutcome(metrics.OutcomeLabel(out.State), out.Changed)
	o.recorder.ObserveFileDuration(out.Duration)

	attrs := append(contextAttrs(ctx), logfields.Path(out.Path), logfields.State(string(out.State)))
	if out.OutputPath != "" {
		attrs = append(attrs, logfields.Output(out.OutputPath))
	}

	if out.Err != nil {
		attrs = append(attrs,
			logfields.Error(out.Err),
			logfields.Category(string(ferrors.GetCategory(out.Err))))
		o.logger.LogAttrs(ctx, slog.LevelError, "Failed to process file", attrs...)
		return
	}
	o.logger.LogAttrs(ctx, slog.LevelDebug, "Processed file", attrs...)

	if !out.Changed {
		return
	}
	ev := notify.Event{
		Source: out.Path,
		Output: out.OutputPath,
		State:  string(out.State),
		RunID:  RunIDFromContext(ctx),
	}
	if err := o.notifier.ArtifactChanged(ctx, ev); err != nil {
		o.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to publish change notification",
			append(attrs, logfields.Error(err))...)
	}
}

// RunBatch expands the source set and processes every matched path once.
// Per-file failures are collected in the tally. Only a failed expansion or a
// cancelled context is returned as an error.
func (o *Orchestrator) RunBatch(ctx context.Context, set *sources.Set) (RunTally, error) {
	return o.run(ctx, set, ModeBatch)
}

// Reconcile is RunBatch for periodic rescans: the summary is only logged at
// info level when something changed or failed.
func (o *Orchestrator) Reconcile(ctx context.Context, set *sources.Set) (RunTally, error) {
	return o.run(ctx, set, ModeReconcile)
}

func (o *Orchestrator) run(ctx context.Context, set *sources.Set, mode string) (RunTally, error) {
	start := time.Now()
	tally := RunTally{RunID: uuid.NewString()}
	ctx = WithRunID(ctx, tally.RunID)

	files, err := set.Expand()
	if err != nil {
		return tally, err
	}

	var runErr error
	for i, f := range files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			tally.Skipped = len(files) - i
			runErr = ctxErr
			break
		}
		tally.Add(o.ProcessPath(ctx, f))
	}
	tally.Duration = time.Since(start)

	o.recorder.ObserveRunDuration(mode, tally.Duration)
	o.recorder.SetLastRunFiles(tally.Files, tally.Changed, tally.Failed)

	if tally.Files > 0 {
		level := slog.LevelInfo
		if mode == ModeReconcile && tally.Changed == 0 && tally.Failed == 0 {
			level = slog.LevelDebug
		}
		o.logger.LogAttrs(ctx, level, "graphql2js finished.",
			logfields.RunID(tally.RunID),
			slog.String("mode", mode),
			logfields.ChangedCount(tally.Changed),
			logfields.FileCount(tally.Files),
			logfields.FailedCount(tally.Failed),
			logfields.DurationMS(float64(tally.Duration.Milliseconds())))
	}
	return tally, runErr
}
