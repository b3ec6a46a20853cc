package serve

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry   *prometheus.Registry
	itemsKeyed prometheus.Counter
	collisions prometheus.Counter
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		itemsKeyed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listkey_items_keyed_total",
			Help: "Total items assigned a key.",
		}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listkey_collisions_resolved_total",
			Help: "Keys that needed at least one collision suffix.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "listkey_requests_total",
			Help: "Requests by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "listkey_request_duration_seconds",
			Help:    "Latency of keying requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.registry.MustRegister(m.itemsKeyed, m.collisions, m.requests, m.latency)
	return m
}

func (m *metrics) observeKey(probes int) {
	m.itemsKeyed.Inc()
	if probes > 0 {
		m.collisions.Inc()
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
