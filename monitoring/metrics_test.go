package monitoring

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// The default registry allows each collector once per process, so the
// single NewMetrics call is shared by the tests below.
var testMetrics = NewMetrics()

func TestMetricsRecord(t *testing.T) {
	testMetrics.IncDiscovered()
	testMetrics.IncResolveOutcome("resolved")
	testMetrics.ObserveHTTPRequest(http.MethodGet, "/api/heatmap", 200, 5*time.Millisecond)

	if got := testutil.ToFloat64(testMetrics.EventsDiscovered); got != 1 {
		t.Errorf("events discovered: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(testMetrics.ResolveOutcomes.WithLabelValues("resolved")); got != 1 {
		t.Errorf("resolve outcomes: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(testMetrics.HTTPRequests.WithLabelValues("GET", "/api/heatmap", "200")); got != 1 {
		t.Errorf("http requests: got %v, want 1", got)
	}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.IncDiscovered()
	m.IncResolveOutcome("error")
	m.ObserveCrawlDuration(time.Second)
	m.ObserveHTTPRequest(http.MethodGet, "/api/events", 500, time.Millisecond)
}
