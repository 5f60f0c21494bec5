package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineMetrics instruments the worker process: batch throughput, oracle
// usage and the cache behavior of the prompt prefix.
type PipelineMetrics struct {
	registry *prometheus.Registry

	batchesTotal    *prometheus.CounterVec
	batchDuration   *prometheus.HistogramVec
	batchesInFlight prometheus.Gauge
	documentsTotal  *prometheus.CounterVec
	oracleCalls     *prometheus.CounterVec
	oracleTokens    *prometheus.CounterVec
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()

	batchesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dealdocs",
			Subsystem: "pipeline",
			Name:      "batches_total",
			Help:      "Total processed batches by status.",
		},
		[]string{"service", "status"},
	)
	batchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dealdocs",
			Subsystem: "pipeline",
			Name:      "batch_duration_seconds",
			Help:      "Batch processing duration in seconds by status.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service", "status"},
	)
	batchesInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "dealdocs",
			Subsystem: "pipeline",
			Name:      "batches_in_flight",
			Help:      "Number of batches currently being processed.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dealdocs",
			Subsystem: "pipeline",
			Name:      "documents_total",
			Help:      "Total documents by classification outcome.",
		},
		[]string{"service", "status"},
	)
	oracleCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dealdocs",
			Subsystem: "oracle",
			Name:      "calls_total",
			Help:      "Total oracle API calls made by the pipeline.",
		},
		[]string{"service", "model"},
	)
	oracleTokens := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dealdocs",
			Subsystem: "oracle",
			Name:      "tokens_total",
			Help:      "Oracle token usage by direction and cache disposition.",
		},
		[]string{"service", "model", "kind"},
	)

	registry.MustRegister(
		batchesTotal,
		batchDuration,
		batchesInFlight,
		documentsTotal,
		oracleCalls,
		oracleTokens,
	)

	return &PipelineMetrics{
		registry:        registry,
		batchesTotal:    batchesTotal,
		batchDuration:   batchDuration,
		batchesInFlight: batchesInFlight,
		documentsTotal:  documentsTotal,
		oracleCalls:     oracleCalls,
		oracleTokens:    oracleTokens,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) StartBatch() {
	m.batchesInFlight.Inc()
}

func (m *PipelineMetrics) FinishBatch(service string, duration time.Duration, success bool) {
	m.batchesInFlight.Dec()

	status := "success"
	if !success {
		status = "partial_failure"
	}
	m.batchesTotal.WithLabelValues(service, status).Inc()
	m.batchDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *PipelineMetrics) RecordDocuments(service string, classified, failed int) {
	if classified > 0 {
		m.documentsTotal.WithLabelValues(service, "classified").Add(float64(classified))
	}
	if failed > 0 {
		m.documentsTotal.WithLabelValues(service, "failed").Add(float64(failed))
	}
}

func (m *PipelineMetrics) RecordOracleUsage(service, model string, calls, inputTokens, outputTokens, cacheReadTokens int) {
	if model == "" {
		model = "unknown"
	}
	if calls > 0 {
		m.oracleCalls.WithLabelValues(service, model).Add(float64(calls))
	}
	if inputTokens > 0 {
		m.oracleTokens.WithLabelValues(service, model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.oracleTokens.WithLabelValues(service, model, "output").Add(float64(outputTokens))
	}
	if cacheReadTokens > 0 {
		m.oracleTokens.WithLabelValues(service, model, "cache_read").Add(float64(cacheReadTokens))
	}
}
