package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry
	service  string

	registerTotal    *prometheus.CounterVec
	registerDuration *prometheus.HistogramVec
	registerInFlight prometheus.Gauge
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	registerTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "document_register_total",
			Help:      "Total registered documents by status.",
		},
		[]string{"service", "status"},
	)
	registerDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "document_register_duration_seconds",
			Help:      "Document registration duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	registerInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "document_register_in_flight",
			Help:      "Number of in-flight document registrations.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(registerTotal, registerDuration, registerInFlight)

	return &WorkerMetrics{
		registry:         registry,
		service:          service,
		registerTotal:    registerTotal,
		registerDuration: registerDuration,
		registerInFlight: registerInFlight,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartDocument() {
	m.registerInFlight.Inc()
}

func (m *WorkerMetrics) FinishDocument(duration time.Duration, err error) {
	m.registerInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.registerTotal.WithLabelValues(m.service, status).Inc()
	m.registerDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
}
