// Package build drives the incremental conversion of GraphQL sources into
// JavaScript artifacts.
//
// The Orchestrator owns the per-path state machine: resolve the artifact
// paths, remove artifacts of deleted sources, refresh the declaration stub,
// skip sources whose artifact already embeds their text and transform the
// rest. Every drive mode (batch, watch events, periodic reconcile) routes
// through ProcessPath, so the same rules apply whichever way a path arrives.
//
// Per-file failures never escape as errors. They are reported as an Outcome
// and accumulated in a RunTally so one broken source cannot abort a run.
package build
