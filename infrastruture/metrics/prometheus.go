package metrics

import (
	"net/http"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ i.Metrics = &Collector{}

// Collector records generation metrics on its own registry.
type Collector struct {
	registry        *prometheus.Registry
	started         prometheus.Counter
	completed       prometheus.Counter
	stepsRequested  prometheus.Counter
	active          prometheus.Gauge
	stepsToComplete prometheus.Histogram
}

// New creates a Collector whose metric names start with namespace.
func New(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		started: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_started_total",
			Help:      "Generations started or reset",
		}),
		completed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_completed_total",
			Help:      "Generations that reached a perfect maze",
		}),
		stepsRequested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_requested_total",
			Help:      "Steps taken on explicit request",
		}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generations_active",
			Help:      "Generations currently held in memory",
		}),
		stepsToComplete: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "steps_to_complete",
			Help:      "Steps a generation took to complete",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
}

// GenerationStarted counts a new or reset generation.
func (c *Collector) GenerationStarted() {
	c.started.Inc()
}

// GenerationCompleted counts a finished generation and the steps it took.
func (c *Collector) GenerationCompleted(steps int) {
	c.completed.Inc()
	c.stepsToComplete.Observe(float64(steps))
}

// StepsRequested counts steps taken on explicit request.
func (c *Collector) StepsRequested(n int) {
	c.stepsRequested.Add(float64(n))
}

// SetActive records how many generations are in memory.
func (c *Collector) SetActive(n int) {
	c.active.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
