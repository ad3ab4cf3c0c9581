package observability

import (
	"sync"
	"time"

	"github.com/jonathan/dnav/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for extraction runs and the HTTP API.
type Metrics struct {
	RunsTotal          prometheus.Counter
	DocumentsProcessed prometheus.Counter
	PagesParsed        prometheus.Counter
	CandidatesEmitted  prometheus.Counter
	FallbackRuns       prometheus.Counter
	ExtractionDuration prometheus.Histogram

	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with reg.
//
// Metrics:
//   - dnav_extraction_runs_total
//   - dnav_documents_processed_total
//   - dnav_pages_parsed_total
//   - dnav_candidates_emitted_total
//   - dnav_fallback_runs_total - runs where the candidate floor applied
//   - dnav_extraction_duration_seconds
//   - dnav_http_requests_total{method,route,status}
//   - dnav_http_request_duration_seconds{method,route}
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "dnav_extraction_runs_total",
			Help: "Total number of extraction runs",
		}),
		DocumentsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "dnav_documents_processed_total",
			Help: "Total number of source documents processed",
		}),
		PagesParsed: factory.NewCounter(prometheus.CounterOpts{
			Name: "dnav_pages_parsed_total",
			Help: "Total number of pages parsed",
		}),
		CandidatesEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "dnav_candidates_emitted_total",
			Help: "Total number of decision candidates returned",
		}),
		FallbackRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "dnav_fallback_runs_total",
			Help: "Total number of runs that fell back to the candidate floor",
		}),
		ExtractionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dnav_extraction_duration_seconds",
			Help:    "Duration of extraction runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dnav_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dnav_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// DefaultMetrics returns metrics registered once with the default registry.
func DefaultMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return globalMetrics
}

// ObserveExtraction records one completed extraction run.
func (m *Metrics) ObserveExtraction(result *types.ExtractionResult, duration time.Duration) {
	if m == nil || result == nil {
		return
	}
	m.RunsTotal.Inc()
	m.DocumentsProcessed.Add(float64(result.Debug.DocumentsProcessed))
	m.PagesParsed.Add(float64(result.Debug.PagesParsed))
	m.CandidatesEmitted.Add(float64(len(result.Candidates)))
	if result.Debug.FallbackUsed {
		m.FallbackRuns.Inc()
	}
	m.ExtractionDuration.Observe(duration.Seconds())
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
