package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for one index build. Each Metrics
// owns its registry so a run can be exported as a node_exporter textfile
// without Go runtime collectors.
type Metrics struct {
	registry *prometheus.Registry

	// Upstream requests.
	Requests        *prometheus.CounterVec   // labels: service={sites,counties}, outcome={success,error}
	RequestDuration *prometheus.HistogramVec // labels: service
	FetchFailures   *prometheus.CounterVec   // labels: state

	// Row processing.
	RowsRead       prometheus.Counter
	RowsSkipped    *prometheus.CounterVec // labels: reason={missing_site_no,missing_name,bad_coordinates}
	RecordsAdded   *prometheus.CounterVec // labels: state
	DuplicateSites prometheus.Counter
	CountyCodes    *prometheus.GaugeVec // labels: state

	// Build results.
	Stations         prometheus.Gauge
	RecordsPublished prometheus.Counter
	BuildDuration    prometheus.Gauge
	LastSuccess      prometheus.Gauge
}

// NewMetrics creates and registers all build metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "station_index",
			Name:      "upstream_requests_total",
			Help:      "USGS requests by service and outcome.",
		}, []string{"service", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "station_index",
			Name:      "upstream_request_duration_seconds",
			Help:      "USGS request duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"service"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "station_index",
			Name:      "state_fetch_failures_total",
			Help:      "States skipped because their station listing could not be fetched.",
		}, []string{"state"}),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_index",
			Name:      "rows_read_total",
			Help:      "RDB data rows read across all states.",
		}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "station_index",
			Name:      "rows_skipped_total",
			Help:      "RDB rows that did not produce a station record.",
		}, []string{"reason"}),
		RecordsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "station_index",
			Name:      "records_added_total",
			Help:      "Station records added to the index per state.",
		}, []string{"state"}),
		DuplicateSites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_index",
			Name:      "duplicate_sites_total",
			Help:      "Valid rows discarded because their site_no was already indexed.",
		}),
		CountyCodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "station_index",
			Name:      "county_codes",
			Help:      "County codes resolved per state; 0 means the lookup failed or was empty.",
		}, []string{"state"}),
		Stations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "station_index",
			Name:      "stations",
			Help:      "Stations in the emitted index.",
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_index",
			Name:      "records_published_total",
			Help:      "Station records published to Kafka.",
		}),
		BuildDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "station_index",
			Name:      "build_duration_seconds",
			Help:      "Wall time of the last build.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "station_index",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the index files were last written.",
		}),
	}

	m.registry.MustRegister(
		m.Requests,
		m.RequestDuration,
		m.FetchFailures,
		m.RowsRead,
		m.RowsSkipped,
		m.RecordsAdded,
		m.DuplicateSites,
		m.CountyCodes,
		m.Stations,
		m.RecordsPublished,
		m.BuildDuration,
		m.LastSuccess,
	)

	return m
}

// WriteTextfile writes the current metric values to path in the Prometheus
// text format, atomically, for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
