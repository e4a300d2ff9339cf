// Package metrics records dispatcher outcomes as Prometheus series.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gohttp "github.com/km-arc/go-force/framework/http"
)

const namespace = "goforce"

// unmatched labels requests that never reached a route, so unknown paths do
// not create one series each.
const unmatched = "unmatched"

// Collector owns a private registry with the request series and the Go and
// process collectors.
type Collector struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of dispatched HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of dispatched HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "route"},
		),
	}
	c.registry.MustRegister(
		c.requests,
		c.duration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return c
}

// Observe records one dispatched request. Its signature matches
// gohttp.Observer so it can be passed to gohttp.WithObserver.
func (c *Collector) Observe(req *gohttp.Request, status int, elapsed time.Duration) {
	route := unmatched
	if e := req.Route(); e != nil {
		route = e.Template
	}
	c.requests.WithLabelValues(req.Method(), route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(req.Method(), route).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }
