package build

import (
	"time"
)

// State is the terminal state of one ProcessPath call.
type State string

const (
	// StateDeleted means the source no longer exists and its artifacts were removed.
	StateDeleted State = "deleted"

	// StateUnchanged means the artifact already embeds the current source text.
	StateUnchanged State = "unchanged"

	// StateStale means the artifact was regenerated from the source.
	StateStale State = "stale"

	// StateTransformFailed means the source could not be compiled.
	StateTransformFailed State = "transform_failed"

	// StateFailed covers resolution and filesystem failures.
	StateFailed State = "failed"
)

// IsFailure reports whether the state represents a per-file failure.
func (s State) IsFailure() bool {
	return s == StateTransformFailed || s == StateFailed
}

// Outcome is the result of processing a single source path.
type Outcome struct {
	// Path is the source path as it was given.
	Path string

	// OutputPath is the primary artifact path. Empty when resolution failed.
	OutputPath string

	State State

	// Changed is true when any artifact (primary or declaration) was written or removed.
	Changed bool

	// Err holds the classified error for failure states.
	Err error

	Duration time.Duration
}

// RunTally accumulates outcomes across one batch or reconcile run.
type RunTally struct {
	RunID string

	// Files is the number of paths processed.
	Files int

	// Changed is the number of paths whose artifacts changed.
	Changed int

	// Failed is the number of paths that ended in a failure state.
	Failed int

	// Skipped is the number of matched paths left unprocessed because the run was cancelled.
	Skipped int

	Failures []Outcome

	Duration time.Duration
}

// Add folds one outcome into the tally.
func (t *RunTally) Add(o Outcome) {
	t.Files++
	if o.Changed {
		t.Changed++
	}
	if o.State.IsFailure() {
		t.Failed++
		t.Failures = append(t.Failures, o)
	}
}
