// Package metrics collects and exposes Prometheus metrics for the ingest
// pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements the engine's MetricsRecorder over Prometheus counters
type Collector struct {
	samples         *prometheus.CounterVec
	journeysCreated *prometheus.CounterVec
	journeyMerges   prometheus.Counter
	cacheLookups    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journeys_samples_total",
			Help: "Processed samples by result",
		}, []string{"result"}),
		journeysCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journeys_created_total",
			Help: "Journeys created by type",
		}, []string{"type"}),
		journeyMerges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "journeys_merges_total",
			Help: "In-place updates of the open moving journey",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journeys_cache_lookups_total",
			Help: "Journey cache lookups by result",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.samples,
		c.journeysCreated,
		c.journeyMerges,
		c.cacheLookups,
	)

	return c
}

// RecordSample counts one processed sample by result
func (c *Collector) RecordSample(result string) {
	c.samples.WithLabelValues(result).Inc()
}

// RecordJourneyCreated counts a created journey by type
func (c *Collector) RecordJourneyCreated(journeyType string) {
	c.journeysCreated.WithLabelValues(journeyType).Inc()
}

// RecordJourneyMerged counts a merge into the open moving journey
func (c *Collector) RecordJourneyMerged() {
	c.journeyMerges.Inc()
}

// RecordCacheLookup counts a cache hit or miss
func (c *Collector) RecordCacheLookup(hit bool) {
	if hit {
		c.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	c.cacheLookups.WithLabelValues("miss").Inc()
}

// Handler returns the HTTP handler serving the registry's metrics
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
