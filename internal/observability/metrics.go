package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/padasch/french-nfi-dashboard/internal/model"
)

const namespace = "nfi_dash"

// Metrics holds the Prometheus collectors for the dashboard.
type Metrics struct {
	Resolutions     *prometheus.CounterVec   // labels: status={found,not_found,invalid}
	AssetLookups    *prometheus.CounterVec   // labels: facet={main,dimension,region_map}, status
	RequestDuration *prometheus.HistogramVec // labels: route
	DatasetRows     prometheus.Gauge
	ListEntries     *prometheus.GaugeVec // labels: kind
}

func newMetrics() *Metrics {
	return &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Selections resolved, by status of the main figure.",
		}, []string{"status"}),
		AssetLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_lookups_total",
			Help:      "Asset existence checks by facet type and status.",
		}, []string{"facet", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"route"}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in the imported tree dataset.",
		}),
		ListEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "list_entries",
			Help:      "Group values loaded at startup, by group kind.",
		}, []string{"kind"}),
	}
}

// NewMetrics creates and registers all metrics with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Resolutions,
		m.AssetLookups,
		m.RequestDuration,
		m.DatasetRows,
		m.ListEntries,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build as
// many servers as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// ObserveResolution records the outcome of one resolve cycle.
func (m *Metrics) ObserveResolution(res model.Resolution) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(string(res.Primary.Status)).Inc()
	m.AssetLookups.WithLabelValues(string(res.Primary.Facet.Type), string(res.Primary.Status)).Inc()
	for _, c := range res.Companions {
		m.AssetLookups.WithLabelValues(string(c.Facet.Type), string(c.Status)).Inc()
	}
}

// ObserveInvalid records a rejected selection.
func (m *Metrics) ObserveInvalid() {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues("invalid").Inc()
}
