package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stellarsignal/orbitwatch/model"
)

// TrackerCollector bundles Prometheus metrics for the tracking engine and
// provides a ready-to-mount /metrics handler.
type TrackerCollector struct {
	gatherer prometheus.Gatherer

	TrackedObjects *prometheus.GaugeVec
	Generation     prometheus.Gauge
	TickDuration   prometheus.Histogram
	DatasetFetches *prometheus.CounterVec
	SkippedRecords prometheus.Counter
}

// NewTrackerCollector registers tracker Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewTrackerCollector(reg prometheus.Registerer) (*TrackerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	objects := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tracker_objects",
		Help: "Tracked objects in the current generation, labeled by category.",
	}, []string{"category"})
	objects, err := registerGaugeVec(reg, objects, "tracker_objects")
	if err != nil {
		return nil, err
	}

	generation, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tracker_dataset_generation",
		Help: "Monotonic counter of committed dataset generations.",
	}), "tracker_dataset_generation")
	if err != nil {
		return nil, err
	}

	tickDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tracker_tick_duration_seconds",
		Help:    "Duration of one simulation tick (propagate, trail, hover).",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	})
	tickDuration, err = registerHistogram(reg, tickDuration, "tracker_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_dataset_fetches_total",
		Help: "Dataset fetch attempts, labeled by source and outcome (ok, fallback, superseded).",
	}, []string{"source", "outcome"})
	fetches, err = registerCounterVec(reg, fetches, "tracker_dataset_fetches_total")
	if err != nil {
		return nil, err
	}

	skipped, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_skipped_records_total",
		Help: "Raw element records dropped as malformed during classification.",
	}), "tracker_skipped_records_total")
	if err != nil {
		return nil, err
	}

	return &TrackerCollector{
		gatherer:       gatherer,
		TrackedObjects: objects,
		Generation:     generation,
		TickDuration:   tickDuration,
		DatasetFetches: fetches,
		SkippedRecords: skipped,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *TrackerCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetObjectCounts satisfies the tracker state's metrics recorder interface
// so dataset commits can drive the gauges directly.
func (c *TrackerCollector) SetObjectCounts(generation int, byCategory map[model.Category]int) {
	if c == nil {
		return
	}
	if c.Generation != nil {
		c.Generation.Set(float64(generation))
	}
	if c.TrackedObjects == nil {
		return
	}
	for _, cat := range model.Categories {
		c.TrackedObjects.WithLabelValues(cat.String()).Set(float64(byCategory[cat]))
	}
}

// ObserveTick records the duration of one simulation tick in seconds.
func (c *TrackerCollector) ObserveTick(seconds float64) {
	if c == nil || c.TickDuration == nil {
		return
	}
	c.TickDuration.Observe(seconds)
}

// CountFetch records one dataset fetch attempt.
func (c *TrackerCollector) CountFetch(source model.DataSource, outcome string) {
	if c == nil || c.DatasetFetches == nil {
		return
	}
	c.DatasetFetches.WithLabelValues(source.String(), outcome).Inc()
}

// CountSkippedRecords adds to the malformed-record counter.
func (c *TrackerCollector) CountSkippedRecords(n int) {
	if c == nil || c.SkippedRecords == nil || n <= 0 {
		return
	}
	c.SkippedRecords.Add(float64(n))
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
