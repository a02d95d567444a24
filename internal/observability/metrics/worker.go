package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	dispatchInFlight prometheus.Gauge
	eventLag         *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	dispatchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fir",
			Subsystem: "worker",
			Name:      "notification_dispatch_total",
			Help:      "Total dispatched status-change notifications by status.",
		},
		[]string{"service", "status"},
	)
	dispatchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fir",
			Subsystem: "worker",
			Name:      "notification_dispatch_duration_seconds",
			Help:      "Notification dispatch duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	dispatchInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fir",
			Subsystem: "worker",
			Name:      "notification_dispatch_in_flight",
			Help:      "Number of in-flight notification dispatches.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	eventLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fir",
			Subsystem: "worker",
			Name:      "event_lag_seconds",
			Help:      "Delay between the status change and dispatch start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(dispatchTotal, dispatchDuration, dispatchInFlight, eventLag)

	return &WorkerMetrics{
		registry:         registry,
		dispatchTotal:    dispatchTotal,
		dispatchDuration: dispatchDuration,
		dispatchInFlight: dispatchInFlight,
		eventLag:         eventLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartDispatch() {
	m.dispatchInFlight.Inc()
}

func (m *WorkerMetrics) FinishDispatch(service string, duration time.Duration, err error) {
	m.dispatchInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.dispatchTotal.WithLabelValues(service, status).Inc()
	m.dispatchDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveEventLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.eventLag.WithLabelValues(service).Observe(lag.Seconds())
}
