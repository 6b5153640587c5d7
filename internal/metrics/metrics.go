// internal/metrics/metrics.go
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"cparty/pkg/cparty"
)

const namespace = "cparty"

// Metrics holds the per-process counters on a private registry so a run can
// dump exactly its own series.
type Metrics struct {
	reg *prometheus.Registry

	folds      *prometheus.CounterVec
	rejections *prometheus.CounterVec
	seconds    *prometheus.HistogramVec
}

// New registers the series on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		folds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "folds_total",
			Help:      "API calls by kind.",
		}, []string{"kind"}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "API calls that rejected their input, by kind.",
		}, []string{"kind"}),
		seconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fold_seconds",
			Help:      "Wall time of API calls, by kind.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"kind"}),
	}
}

// ObserveCall implements cparty.Observer. Parameter failures count as calls
// but not as rejections.
func (m *Metrics) ObserveCall(kind string, elapsed time.Duration, err error) {
	m.folds.WithLabelValues(kind).Inc()
	m.seconds.WithLabelValues(kind).Observe(elapsed.Seconds())
	if err != nil && errors.Is(err, cparty.ErrRejected) {
		m.rejections.WithLabelValues(kind).Inc()
	}
}

// Registry exposes the registry for tests and embedding hosts.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteFile dumps the registry in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
