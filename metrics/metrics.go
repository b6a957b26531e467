// Package metrics exposes Prometheus collectors for link checking runs.
//
// A checker run is short-lived, so metrics are not served over HTTP; they
// are gathered once at the end and written in the node_exporter textfile
// format.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lukemcguire/zombiecheck/result"
)

// Collector owns the collectors for one run. A nil *Collector is valid and
// records nothing.
type Collector struct {
	checks          *prometheus.CounterVec
	cacheHits       prometheus.Counter
	redirects       prometheus.Counter
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers the collectors against the provided registry.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zombiecheck_links_checked_total",
			Help: "Links resolved, partitioned by outcome kind.",
		}, []string{"kind"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zombiecheck_cache_hits_total",
			Help: "Link resolutions answered from the run cache.",
		}),
		redirects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zombiecheck_redirects_followed_total",
			Help: "Redirect hops followed across all links.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zombiecheck_http_requests_total",
			Help: "HTTP requests issued, partitioned by method and status class.",
		}, []string{"method", "status_class"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zombiecheck_http_request_duration_seconds",
			Help:    "HTTP request latency partitioned by method.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"method"}),
	}
	for _, collector := range []prometheus.Collector{
		c.checks,
		c.cacheHits,
		c.redirects,
		c.requests,
		c.requestDuration,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register checker collector: %w", err)
		}
	}
	return c, nil
}

// ObserveCheck counts one resolved link.
func (c *Collector) ObserveCheck(kind result.Kind) {
	if c == nil {
		return
	}
	c.checks.WithLabelValues(kind.String()).Inc()
}

// ObserveCacheHit counts one resolution served from the cache.
func (c *Collector) ObserveCacheHit() {
	if c == nil {
		return
	}
	c.cacheHits.Inc()
}

// ObserveRedirect counts one followed redirect hop.
func (c *Collector) ObserveRedirect() {
	if c == nil {
		return
	}
	c.redirects.Inc()
}

// ObserveRequest records one HTTP round trip. code is 0 when no response
// was received.
func (c *Collector) ObserveRequest(method string, code int, dur time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(method, statusClass(code)).Inc()
	if dur > 0 {
		c.requestDuration.WithLabelValues(method).Observe(dur.Seconds())
	}
}

// WriteTextfile gathers g and writes it atomically to path in the text
// exposition format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "error"
	}
	return strconv.Itoa(code/100) + "xx"
}
