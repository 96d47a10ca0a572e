package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ImportsTotal   *prometheus.CounterVec
	ErrorsTotal    *prometheus.CounterVec
	ImportDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		ImportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "listings_imports_total",
			Help: "The total number of listing pages imported",
		}, nil),
		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "listings_import_errors_total",
			Help: "The total number of import errors encountered",
		}, []string{"type"}), // e.g., 'invalid_url', 'fetch_failed'
		ImportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "listings_import_duration_seconds",
			Help:    "Time spent fetching and extracting one listing",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncImportsTotal() {
	m.ImportsTotal.WithLabelValues().Inc()
}

func (m *Metrics) IncImportErrors(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) ObserveImportDuration(d time.Duration) {
	m.ImportDuration.Observe(d.Seconds())
}
