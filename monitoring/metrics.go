package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for persistence operations.
type Metrics struct {
	// Operation metrics
	Saves        *prometheus.CounterVec
	Loads        *prometheus.CounterVec
	SaveDuration *prometheus.HistogramVec
	LoadDuration *prometheus.HistogramVec

	// Overwrite metrics
	Overwrites prometheus.Counter

	// Manifest metrics
	ManifestBytes prometheus.Histogram
}

var (
	defaultMetrics *Metrics
	defaultOnce    sync.Once
)

// Default returns the process-wide metrics collector, registered on the
// default Prometheus registry. Created lazily on first use.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// New creates a metrics collector registered on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Saves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modelvault_saves_total",
				Help: "Total number of component save operations",
			},
			[]string{"class", "status"},
		),
		Loads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modelvault_loads_total",
				Help: "Total number of component load operations",
			},
			[]string{"class", "status"},
		),
		SaveDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "modelvault_save_duration_seconds",
				Help:    "Save operation duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"class"},
		),
		LoadDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "modelvault_load_duration_seconds",
				Help:    "Load operation duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"class"},
		),
		Overwrites: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "modelvault_overwrites_total",
				Help: "Total number of saves that replaced existing data",
			},
		),
		ManifestBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "modelvault_manifest_bytes",
				Help:    "Rendered manifest size in bytes",
				Buckets: []float64{64, 256, 1024, 4096, 16384, 65536, 262144},
			},
		),
	}
}

// RecordSave records a save operation outcome.
func (m *Metrics) RecordSave(class string, duration time.Duration, err error) {
	class = classLabel(class)
	m.Saves.WithLabelValues(class, statusLabel(err)).Inc()
	m.SaveDuration.WithLabelValues(class).Observe(duration.Seconds())
}

// RecordLoad records a load operation outcome.
func (m *Metrics) RecordLoad(class string, duration time.Duration, err error) {
	class = classLabel(class)
	m.Loads.WithLabelValues(class, statusLabel(err)).Inc()
	m.LoadDuration.WithLabelValues(class).Observe(duration.Seconds())
}

// IncOverwrites increments the overwrite counter.
func (m *Metrics) IncOverwrites() {
	m.Overwrites.Inc()
}

// ObserveManifestSize records the size of a rendered manifest.
func (m *Metrics) ObserveManifestSize(bytes int) {
	m.ManifestBytes.Observe(float64(bytes))
}

// classLabel keeps label cardinality bounded when the class is unknown,
// such as loads that fail before the manifest is parsed.
func classLabel(class string) string {
	if class == "" {
		return "unknown"
	}
	return class
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
