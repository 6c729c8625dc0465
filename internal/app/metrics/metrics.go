// Package metrics exposes Prometheus collectors for transcription, analysis
// and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vat"

// Collector owns a private registry so tests and multiple servers do not
// collide on the global one
type Collector struct {
	registry *prometheus.Registry

	transcriptions       *prometheus.CounterVec
	transcriptionLatency *prometheus.HistogramVec
	analyses             *prometheus.CounterVec
	analysisLatency      *prometheus.HistogramVec
	httpRequests         *prometheus.CounterVec
	httpLatency          *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		transcriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_total",
			Help:      "Transcription attempts by provider and outcome.",
		}, []string{"provider", "status"}),
		transcriptionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_duration_seconds",
			Help:      "Latency of successful transcriptions.",
			Buckets:   []float64{1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"provider"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_requests_total",
			Help:      "Analysis requests by task, backend and outcome.",
		}, []string{"task", "backend", "status"}),
		analysisLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Latency of LLM analysis calls.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 180},
		}, []string{"task", "backend"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.transcriptions, c.transcriptionLatency,
		c.analyses, c.analysisLatency,
		c.httpRequests, c.httpLatency,
	)
	return c
}

// TranscriptionSucceeded records a successful provider call
func (c *Collector) TranscriptionSucceeded(provider string, latency time.Duration) {
	c.transcriptions.WithLabelValues(provider, "success").Inc()
	c.transcriptionLatency.WithLabelValues(provider).Observe(latency.Seconds())
}

// TranscriptionFailed records a failed provider call
func (c *Collector) TranscriptionFailed(provider, errorType string) {
	c.transcriptions.WithLabelValues(provider, errorType).Inc()
}

// AnalysisCompleted records one LLM call
func (c *Collector) AnalysisCompleted(task, backend, status string, elapsed time.Duration) {
	c.analyses.WithLabelValues(task, backend, status).Inc()
	c.analysisLatency.WithLabelValues(task, backend).Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
