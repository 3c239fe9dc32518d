// Package metrics exposes parse counters and latencies to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"dispatch_parser/internal/dispatch"
)

// Collector records engine events. It implements engine.Observer.
type Collector struct {
	parseTotal         *prometheus.CounterVec
	parseDuration      *prometheus.HistogramVec
	fallbackTotal      *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them on registry.
func NewCollector(registry prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		parseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_parse_total",
				Help: "Parsed dispatch requests by strategy and final state.",
			},
			[]string{"strategy", "state"},
		),
		parseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dispatch_parse_duration_seconds",
				Help:    "Time taken to parse a dispatch request.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),
		fallbackTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_delegate_fallback_total",
				Help: "Strategy failures that fell back to keyword parsing.",
			},
			[]string{"reason"},
		),
		validationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_validation_failures_total",
				Help: "Form submissions rejected for a missing required field.",
			},
			[]string{"field"},
		),
	}

	for _, col := range []prometheus.Collector{c.parseTotal, c.parseDuration, c.fallbackTotal, c.validationFailures} {
		if err := registry.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) ObserveParse(strategy string, state dispatch.State, elapsed time.Duration) {
	c.parseTotal.WithLabelValues(strategy, string(state)).Inc()
	c.parseDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveFallback(reason string) {
	c.fallbackTotal.WithLabelValues(reason).Inc()
}

func (c *Collector) ObserveValidationFailure(fields []string) {
	for _, f := range fields {
		c.validationFailures.WithLabelValues(f).Inc()
	}
}
