// Package reactivemetrics exports reactivity engine events as Prometheus
// metrics.
package reactivemetrics

import (
	"time"

	"github.com/delaneyj/trackparty/reactivity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "reactivity").
	Namespace string

	// ConstLabels are added to every metric, e.g. to tell systems apart.
	ConstLabels prometheus.Labels

	// Registry defaults to prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// Collector implements reactivity.Observer.
type Collector struct {
	Tracks      prometheus.Counter
	Triggers    prometheus.Counter
	Fanout      prometheus.Histogram
	Runs        prometheus.Counter
	RunFailures prometheus.Counter
	RunDuration prometheus.Histogram
	Forgotten   prometheus.Counter
}

var _ reactivity.Observer = (*Collector)(nil)

// New registers the collector's metrics. Registering twice on the same
// registry with the same labels panics, as promauto does.
func New(opts ...Option) *Collector {
	config := Config{
		Namespace: "reactivity",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		Tracks: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "tracks_total",
			Help:        "Reads made while a computation was active",
			ConstLabels: config.ConstLabels,
		}),
		Triggers: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "triggers_total",
			Help:        "Changing writes, with or without subscribers",
			ConstLabels: config.ConstLabels,
		}),
		Fanout: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "trigger_subscribers",
			Help:        "Subscribers per trigger wave",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 12),
		}),
		Runs: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "computation_runs_total",
			Help:        "Computation executions",
			ConstLabels: config.ConstLabels,
		}),
		RunFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "computation_failures_total",
			Help:        "Computation executions that returned an error",
			ConstLabels: config.ConstLabels,
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "computation_duration_seconds",
			Help:        "Computation execution time, including nested trigger waves",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1e-7, 4, 12),
		}),
		Forgotten: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "sources_forgotten_total",
			Help:        "Registry entries dropped after their source was collected",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (c *Collector) Tracked(uint64, reactivity.Key, *reactivity.Computation) {
	c.Tracks.Inc()
}

func (c *Collector) Triggered(_ uint64, _ reactivity.Key, subscribers int) {
	c.Triggers.Inc()
	c.Fanout.Observe(float64(subscribers))
}

func (c *Collector) Ran(_ *reactivity.Computation, took time.Duration, err error) {
	c.Runs.Inc()
	c.RunDuration.Observe(took.Seconds())
	if err != nil {
		c.RunFailures.Inc()
	}
}

func (c *Collector) Forgot(uint64) {
	c.Forgotten.Inc()
}
