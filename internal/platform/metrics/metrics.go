// Package metrics holds the prometheus instruments for record writes and
// document renders.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upsert outcomes.
const (
	ResultOK        = "ok"
	ResultInvalid   = "invalid"
	ResultDuplicate = "duplicate"
	ResultError     = "error"
)

// Metrics tracks store writes and renderer output.
type Metrics struct {
	Registry       *prometheus.Registry
	Upserts        *prometheus.CounterVec
	Renders        *prometheus.CounterVec
	RenderPages    prometheus.Histogram
	RenderDuration prometheus.Histogram
}

// New registers every instrument on a fresh registry so several instances can
// coexist in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		Upserts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ficha_upserts_total",
			Help: "Record upserts by outcome",
		}, []string{"result"}),
		Renders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ficha_renders_total",
			Help: "Enrollment form renders by outcome",
		}, []string{"result"}),
		RenderPages: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ficha_render_pages",
			Help:    "Pages per rendered enrollment form",
			Buckets: []float64{1, 2, 3, 4, 6, 8},
		}),
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ficha_render_duration_seconds",
			Help:    "Duration of a full render including artifact write",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// ObserveUpsert counts one upsert outcome. A nil receiver is a no-op.
func (m *Metrics) ObserveUpsert(result string) {
	if m == nil {
		return
	}
	m.Upserts.WithLabelValues(result).Inc()
}

// ObserveRender records a render outcome, its page count and duration.
// Call with time.Now() taken at the start of the render.
func (m *Metrics) ObserveRender(start time.Time, pages int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Renders.WithLabelValues(ResultError).Inc()
		return
	}
	m.Renders.WithLabelValues(ResultOK).Inc()
	m.RenderPages.Observe(float64(pages))
	m.RenderDuration.Observe(time.Since(start).Seconds())
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
