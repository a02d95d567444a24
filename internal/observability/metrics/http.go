package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	searchRequestsTotal *prometheus.CounterVec
	searchDegradedTotal *prometheus.CounterVec
	searchResults       *prometheus.HistogramVec
	searchDuration      *prometheus.HistogramVec
	corpusSize          *prometheus.GaugeVec
	corpusSwapsTotal    *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fir",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fir",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fir",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	searchRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fir",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total statute search requests by outcome.",
		},
		[]string{"service", "outcome"},
	)
	searchDegradedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fir",
			Subsystem: "search",
			Name:      "degraded_total",
			Help:      "Total searches degraded to empty results by provider failure.",
		},
		[]string{"service"},
	)
	searchResults := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fir",
			Subsystem: "search",
			Name:      "results",
			Help:      "Distribution of ranked results per successful search.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	searchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fir",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Statute search duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	corpusSize := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "fir",
			Subsystem: "corpus",
			Name:      "size",
			Help:      "Rows in the currently loaded statute corpus.",
		},
		[]string{"service"},
	)
	corpusSwapsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fir",
			Subsystem: "corpus",
			Name:      "swaps_total",
			Help:      "Total corpus hot swaps since startup.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		searchRequestsTotal,
		searchDegradedTotal,
		searchResults,
		searchDuration,
		corpusSize,
		corpusSwapsTotal,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		searchRequestsTotal: searchRequestsTotal,
		searchDegradedTotal: searchDegradedTotal,
		searchResults:       searchResults,
		searchDuration:      searchDuration,
		corpusSize:          corpusSize,
		corpusSwapsTotal:    corpusSwapsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/complaints/"):
		return "/v1/complaints/{complaint_id}"
	case strings.HasPrefix(path, "/v1/notifications/"):
		return "/v1/notifications/{notification_id}"
	default:
		return path
	}
}

// RecordSearch observes one completed search. A search that returned
// zero rows against a non-empty corpus is the provider-failure degraded
// path; it counts as success for callers but is tracked separately.
func (m *HTTPServerMetrics) RecordSearch(service string, resultCount int, degraded bool, duration time.Duration) {
	outcome := "ok"
	if degraded {
		outcome = "degraded"
		m.searchDegradedTotal.WithLabelValues(service).Inc()
	}
	m.searchRequestsTotal.WithLabelValues(service, outcome).Inc()
	m.searchResults.WithLabelValues(service).Observe(float64(resultCount))
	m.searchDuration.WithLabelValues(service).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordSearchError(service, outcome string) {
	if outcome == "" {
		outcome = "error"
	}
	m.searchRequestsTotal.WithLabelValues(service, outcome).Inc()
}

func (m *HTTPServerMetrics) RecordCorpusSwap(service string, size int) {
	m.corpusSwapsTotal.WithLabelValues(service).Inc()
	m.corpusSize.WithLabelValues(service).Set(float64(size))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}
