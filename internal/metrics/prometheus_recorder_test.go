package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncFileOutcome(OutcomeStale, true)
	pr.IncFileOutcome(OutcomeStale, true)
	pr.IncFileOutcome(OutcomeUnchanged, false)
	pr.ObserveFileDuration(2 * time.Millisecond)
	pr.ObserveRunDuration("batch", 150*time.Millisecond)
	pr.SetLastRunFiles(10, 9, 1)
	pr.IncWatchEvent("change")

	if got := testutil.ToFloat64(pr.fileOutcomes.WithLabelValues("stale", "true")); got != 2 {
		t.Fatalf("expected 2 stale outcomes, got %v", got)
	}
	if got := testutil.ToFloat64(pr.lastRunFiles.WithLabelValues("failed")); got != 1 {
		t.Fatalf("expected failed gauge 1, got %v", got)
	}
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncFileOutcome(OutcomeFailed, false)
	pr.ObserveFileDuration(time.Millisecond)
	pr.ObserveRunDuration("watch", time.Millisecond)
	pr.SetLastRunFiles(1, 1, 1)
	pr.IncWatchEvent("add")
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncFileOutcome(OutcomeDeleted, true)
	r.SetLastRunFiles(0, 0, 0)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncWatchEvent("unlink")

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `graphql2js_watch_events_total{op="unlink"} 1`) {
		t.Fatalf("metrics output missing watch event counter:\n%s", body)
	}
}
