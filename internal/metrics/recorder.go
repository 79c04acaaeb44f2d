package metrics

import "time"

// OutcomeLabel enumerates per-file pipeline outcomes for counters.
type OutcomeLabel string

const (
	OutcomeDeleted         OutcomeLabel = "deleted"
	OutcomeUnchanged       OutcomeLabel = "unchanged"
	OutcomeStale           OutcomeLabel = "stale"
	OutcomeTransformFailed OutcomeLabel = "transform_failed"
	OutcomeFailed          OutcomeLabel = "failed"
)

// Recorder defines observability hooks for file and run metrics.
type Recorder interface {
	IncFileOutcome(outcome OutcomeLabel, changed bool)
	ObserveFileDuration(d time.Duration)
	ObserveRunDuration(mode string, d time.Duration)
	SetLastRunFiles(files, changed, failed int)
	IncWatchEvent(op string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncFileOutcome(OutcomeLabel, bool)      {}
func (NoopRecorder) ObserveFileDuration(time.Duration)        {}
func (NoopRecorder) ObserveRunDuration(string, time.Duration) {}
func (NoopRecorder) SetLastRunFiles(int, int, int)            {}
func (NoopRecorder) IncWatchEvent(string)                     {}
