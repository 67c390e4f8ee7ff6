package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry so tests can
// build as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	predictions     *prometheus.CounterVec
	modelLatency    prometheus.Histogram
	artifactsLoaded prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "estate_http_requests_total", Help: "HTTP requests"},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "estate_http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
			[]string{"method", "path"},
		),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "estate_predictions_total", Help: "Price predictions by location match"},
			[]string{"location_found"},
		),
		modelLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{Name: "estate_model_predict_seconds", Help: "Model predict latency", Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1}},
		),
		artifactsLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "estate_artifacts_loaded", Help: "1 when schema and model are in memory"},
		),
	}
	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.predictions,
		m.modelLatency,
		m.artifactsLoaded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one served request. path should be the route
// pattern, not the raw URL, to bound label cardinality.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) ObservePrediction(locationFound bool, modelLatency time.Duration) {
	m.predictions.WithLabelValues(strconv.FormatBool(locationFound)).Inc()
	m.modelLatency.Observe(modelLatency.Seconds())
}

func (m *Metrics) SetArtifactsLoaded(loaded bool) {
	if loaded {
		m.artifactsLoaded.Set(1)
		return
	}
	m.artifactsLoaded.Set(0)
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
