// Package metrics provides observability hooks for graphql2js runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection needs no nil checks at call sites:
//
//	orch := build.NewOrchestrator(resolver, writer, compiler, false).
//		WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// The Prometheus implementation registers on a caller-provided registry; watch
// mode exposes it through a Server when a metrics address is configured.
package metrics
