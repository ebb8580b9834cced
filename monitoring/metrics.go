package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is valid and turns every method into a no-op, which keeps the scraper
// and the API testable without touching the default registry.
type Metrics struct {
	EventsDiscovered prometheus.Counter
	ResolveOutcomes  *prometheus.CounterVec
	CrawlDuration    prometheus.Histogram
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		EventsDiscovered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tnbynight_events_discovered_total",
			Help: "The total number of unique events discovered on the listing page",
		}),
		ResolveOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tnbynight_city_resolutions_total",
			Help: "City resolution outcomes by kind",
		}, []string{"outcome"}), // 'resolved', 'unknown', 'error'
		CrawlDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tnbynight_crawl_duration_seconds",
			Help:    "Wall-clock duration of a full crawl run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tnbynight_http_requests_total",
			Help: "API requests by method, path and response status",
		}, []string{"method", "path", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tnbynight_http_request_duration_seconds",
			Help:    "API request latency by path",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
	}
}

func (m *Metrics) IncDiscovered() {
	if m == nil {
		return
	}
	m.EventsDiscovered.Inc()
}

func (m *Metrics) IncResolveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ResolveOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCrawlDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.CrawlDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(path).Observe(d.Seconds())
}
