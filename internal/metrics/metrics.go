// Package metrics exposes Prometheus collectors for the downloader service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Outcome labels for download_requests_total
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Registry owns every collector the service exports.
type Registry struct {
	reg *prometheus.Registry

	downloadRequests   *prometheus.CounterVec
	downloadDuration   prometheus.Histogram
	healthChecks       prometheus.Counter
	activeRequests     prometheus.Gauge
	appInfo            *prometheus.GaugeVec
	httpRequests       *prometheus.CounterVec
	httpRequestSeconds *prometheus.HistogramVec
}

// New builds a Registry and sets app_info for version.
func New(version string) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	r := &Registry{
		reg: reg,
		downloadRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "download_requests_total",
				Help: "Total number of download requests",
			},
			[]string{"status"},
		),
		downloadDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "download_duration_seconds",
				Help:    "Time spent processing downloads",
				Buckets: prometheus.DefBuckets,
			},
		),
		healthChecks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "health_check_requests_total",
				Help: "Total number of health check requests",
			},
		),
		activeRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_requests",
				Help: "Number of active requests",
			},
		),
		appInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "app_info",
				Help: "Application information",
			},
			[]string{"version"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		),
		httpRequestSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 30, 120},
			},
			[]string{"method", "route"},
		),
	}

	r.appInfo.WithLabelValues(version).Set(1)
	// Pre-create both outcomes so they are scraped as zero.
	r.downloadRequests.WithLabelValues(StatusSuccess)
	r.downloadRequests.WithLabelValues(StatusError)

	return r
}

// Handler returns an http.Handler serving this registry in text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// RecordSuccess counts a successful /info or /download and observes its duration.
func (r *Registry) RecordSuccess(d time.Duration) {
	r.downloadRequests.WithLabelValues(StatusSuccess).Inc()
	r.downloadDuration.Observe(d.Seconds())
}

// RecordError counts a failed /info or /download.
func (r *Registry) RecordError() {
	r.downloadRequests.WithLabelValues(StatusError).Inc()
}

// IncHealthCheck counts a liveness check.
func (r *Registry) IncHealthCheck() {
	r.healthChecks.Inc()
}

// TrackActive increments active_requests and returns the matching release.
// The release is idempotent.
func (r *Registry) TrackActive() func() {
	r.activeRequests.Inc()
	var once sync.Once
	return func() {
		once.Do(r.activeRequests.Dec)
	}
}

// ObserveHTTPRequest increments the HTTP request metrics.
func (r *Registry) ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	r.httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	r.httpRequestSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Snapshot is a point-in-time read of the domain collectors.
type Snapshot struct {
	Success        float64
	Errors         float64
	HealthChecks   float64
	ActiveRequests float64
	DurationCount  uint64
}

// Snapshot reads the current values of the domain collectors.
func (r *Registry) Snapshot() Snapshot {
	return Snapshot{
		Success:        readValue(r.downloadRequests.WithLabelValues(StatusSuccess)),
		Errors:         readValue(r.downloadRequests.WithLabelValues(StatusError)),
		HealthChecks:   readValue(r.healthChecks),
		ActiveRequests: readValue(r.activeRequests),
		DurationCount:  readHistogramCount(r.downloadDuration),
	}
}

func readValue(m prometheus.Metric) float64 {
	var pb dto.Metric
	if err := m.Write(&pb); err != nil {
		return 0
	}
	switch {
	case pb.Counter != nil:
		return pb.Counter.GetValue()
	case pb.Gauge != nil:
		return pb.Gauge.GetValue()
	}
	return 0
}

func readHistogramCount(m prometheus.Metric) uint64 {
	var pb dto.Metric
	if err := m.Write(&pb); err != nil || pb.Histogram == nil {
		return 0
	}
	return pb.Histogram.GetSampleCount()
}
