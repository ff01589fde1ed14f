// Package metrics holds the process-wide counters of the fetch pipeline and
// mirrors them into a Prometheus registry.
package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counters tracks fetch-sequence invocations, parsed payload bytes and
// errors. All values only grow. It is safe for concurrent use.
type Counters struct {
	apiCalls atomic.Int64
	dataSize atomic.Int64
	errors   atomic.Int64

	sequencesTotal prometheus.Counter
	dataBytesTotal prometheus.Counter
	errorsTotal    *prometheus.CounterVec
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewCounters creates counters backed by a private registry.
func NewCounters() *Counters {
	return NewCountersWithRegistry(prometheus.NewRegistry())
}

// NewCountersWithRegistry creates counters registered on registry.
func NewCountersWithRegistry(registry *prometheus.Registry) *Counters {
	factory := promauto.With(registry)

	return &Counters{
		sequencesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "swapi_fetch_sequences_total",
			Help: "Total number of fetch sequence invocations",
		}),
		dataBytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "swapi_data_bytes_total",
			Help: "Total serialized size of all parsed payloads handed to the reports",
		}),
		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "swapi_errors_total",
			Help: "Total number of errors by kind",
		}, []string{"kind"}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "swapi_cache_hits_total",
			Help: "Total number of cache hits",
		}, []string{"endpoint"}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "swapi_cache_misses_total",
			Help: "Total number of cache misses",
		}, []string{"endpoint"}),
		registry: registry,
	}
}

// IncAPICalls counts one fetch sequence invocation.
func (c *Counters) IncAPICalls() {
	c.apiCalls.Add(1)
	c.sequencesTotal.Inc()
}

// AddDataSize adds n bytes of parsed payload.
func (c *Counters) AddDataSize(n int) {
	c.dataSize.Add(int64(n))
	c.dataBytesTotal.Add(float64(n))
}

// RecordError counts one error of the given kind.
func (c *Counters) RecordError(kind string) {
	c.errors.Add(1)
	c.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCacheHit counts a cache hit for endpoint.
func (c *Counters) RecordCacheHit(endpoint string) {
	c.cacheHits.WithLabelValues(endpoint).Inc()
}

// RecordCacheMiss counts a cache miss for endpoint.
func (c *Counters) RecordCacheMiss(endpoint string) {
	c.cacheMisses.WithLabelValues(endpoint).Inc()
}

// APICalls returns the number of fetch sequence invocations.
func (c *Counters) APICalls() int64 {
	return c.apiCalls.Load()
}

// DataSize returns the cumulative parsed payload size.
func (c *Counters) DataSize() int64 {
	return c.dataSize.Load()
}

// Errors returns the cumulative error count.
func (c *Counters) Errors() int64 {
	return c.errors.Load()
}

// Registry returns the Prometheus registry the counters are registered on.
func (c *Counters) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Counters) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
