package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	fileOutcomes *prom.CounterVec
	fileDuration prom.Histogram
	runDuration  *prom.HistogramVec
	lastRunFiles *prom.GaugeVec
	watchEvents  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the graphql2js metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		fileOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "graphql2js",
			Name:      "file_outcomes_total",
			Help:      "Per-file pipeline outcomes",
		}, []string{"outcome", "changed"}),
		fileDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "graphql2js",
			Name:      "file_duration_seconds",
			Help:      "Duration of a single file pipeline",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		runDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "graphql2js",
			Name:      "run_duration_seconds",
			Help:      "Duration of batch runs",
			Buckets:   prom.DefBuckets,
		}, []string{"mode"}),
		lastRunFiles: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "graphql2js",
			Name:      "last_run_files",
			Help:      "File counts of the most recent batch run",
		}, []string{"kind"}),
		watchEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "graphql2js",
			Name:      "watch_events_total",
			Help:      "Filesystem events handled in watch mode",
		}, []string{"op"}),
	}
	reg.MustRegister(pr.fileOutcomes, pr.fileDuration, pr.runDuration, pr.lastRunFiles, pr.watchEvents)
	return pr
}

func (p *PrometheusRecorder) IncFileOutcome(outcome OutcomeLabel, changed bool) {
	if p == nil {
		return
	}
	p.fileOutcomes.WithLabelValues(string(outcome), strconv.FormatBool(changed)).Inc()
}

func (p *PrometheusRecorder) ObserveFileDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.fileDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(mode string, d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetLastRunFiles(files, changed, failed int) {
	if p == nil {
		return
	}
	p.lastRunFiles.WithLabelValues("files").Set(float64(files))
	p.lastRunFiles.WithLabelValues("changed").Set(float64(changed))
	p.lastRunFiles.WithLabelValues("failed").Set(float64(failed))
}

func (p *PrometheusRecorder) IncWatchEvent(op string) {
	if p == nil {
		return
	}
	p.watchEvents.WithLabelValues(op).Inc()
}
