// Package metrics exposes generation and export counters as Prometheus collectors.
// All recording methods are safe on a nil *Metrics, so instrumentation is optional.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"spaceship-designer/internal/primitives"
)

// Namespace prefixes every metric name.
const Namespace = "shipyard"

// Metrics holds the designer's collectors.
type Metrics struct {
	shipsGenerated    *prometheus.CounterVec
	generationSeconds prometheus.Histogram
	componentsSkipped prometheus.Counter
	placeholders      prometheus.Counter
	exports           *prometheus.CounterVec

	reg prometheus.Registerer
}

// New registers the designer's collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		shipsGenerated: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "ships_generated_total",
				Help:      "Ships generated, by class.",
			},
			[]string{"class"},
		),
		generationSeconds: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "generation_duration_seconds",
				Help:      "Wall-clock time to generate one ship.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		componentsSkipped: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "components_skipped_total",
				Help:      "Components dropped from a ship because their mesh could not be built.",
			},
		),
		placeholders: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "placeholder_ships_total",
				Help:      "Generations that fell back to the placeholder box.",
			},
		),
		exports: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "exports_total",
				Help:      "Export attempts, by format and result.",
			},
			[]string{"format", "result"},
		),
	}
}

// WatchCache registers func-backed collectors that read primitive cache stats on scrape.
func (m *Metrics) WatchCache(stats func() primitives.CacheStats) error {
	if m == nil {
		return nil
	}
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: Namespace, Name: "cache_hits_total", Help: "Primitive cache hits.",
		}, func() float64 { return float64(stats().Hits) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: Namespace, Name: "cache_misses_total", Help: "Primitive cache misses.",
		}, func() float64 { return float64(stats().Misses) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: Namespace, Name: "cache_evictions_total", Help: "Primitive cache evictions.",
		}, func() float64 { return float64(stats().Evictions) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace, Name: "cache_entries", Help: "Primitives currently cached.",
		}, func() float64 { return float64(stats().Size) }),
	}
	for _, c := range collectors {
		if err := m.reg.Register(c); err != nil {
			return fmt.Errorf("register cache collector: %w", err)
		}
	}
	return nil
}

// ObserveShip records one finished generation.
func (m *Metrics) ObserveShip(class string, d time.Duration, skipped int, placeholder bool) {
	if m == nil {
		return
	}
	if class == "" {
		class = "unknown"
	}
	m.shipsGenerated.WithLabelValues(class).Inc()
	m.generationSeconds.Observe(d.Seconds())
	if skipped > 0 {
		m.componentsSkipped.Add(float64(skipped))
	}
	if placeholder {
		m.placeholders.Inc()
	}
}

// ObserveExport records one export attempt.
func (m *Metrics) ObserveExport(format string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.exports.WithLabelValues(format, result).Inc()
}

// WriteText writes every metric family from g in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
