package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PrometheusRecorder struct {
	registry  *prometheus.Registry
	counters  *prometheus.CounterVec
	histogram *prometheus.HistogramVec
}

// NewPrometheusRecorder registers the gateway collectors on a private registry
// together with the Go runtime and process collectors.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	counters := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kyro",
			Name:      "events_total",
			Help:      "Gateway event counters by type, network and outcome kind",
		},
		[]string{"type", LabelNetwork, LabelKind},
	)

	histogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kyro",
			Name:      "latency_seconds",
			Help:      "Gateway operation latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", LabelNetwork},
	)

	registry.MustRegister(
		counters,
		histogram,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &PrometheusRecorder{
		registry:  registry,
		counters:  counters,
		histogram: histogram,
	}
}

func (p *PrometheusRecorder) IncCounter(name string, labels map[string]string) {
	p.counters.With(prometheus.Labels{
		"type":       name,
		LabelNetwork: labels[LabelNetwork],
		LabelKind:    labels[LabelKind],
	}).Inc()
}

func (p *PrometheusRecorder) ObserveLatency(name string, d time.Duration, labels map[string]string) {
	p.histogram.With(prometheus.Labels{
		"operation":  name,
		LabelNetwork: labels[LabelNetwork],
	}).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}
