// Package metrics provides Prometheus metrics for the maintenance server.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cor1"

// PrometheusMetrics holds the registered backup and entity metrics.
type PrometheusMetrics struct {
	// BackupCounter counts finished backup runs by status.
	BackupCounter *prometheus.CounterVec
	// BackupDuration observes run duration in seconds by trigger.
	BackupDuration *prometheus.HistogramVec
	// RowsGauge is the number of rows exported per kind by the last successful run.
	RowsGauge *prometheus.GaugeVec
	// EntityGauge is the number of stored records per kind.
	EntityGauge *prometheus.GaugeVec
	// LastSuccess is the unix time of the last successful run.
	LastSuccess prometheus.Gauge
}

// NewPrometheusMetrics creates the metrics and registers them with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		BackupCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backup_runs_total",
			Help:      "Backup export runs by final status.",
		}, []string{"status"}),
		BackupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backup_duration_seconds",
			Help:      "Duration of backup export runs.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 300},
		}, []string{"trigger"}),
		RowsGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backup_rows",
			Help:      "Rows written per kind by the last successful backup.",
		}, []string{"kind"}),
		EntityGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Stored records per kind.",
		}, []string{"kind"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backup_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful backup.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.BackupCounter, m.BackupDuration, m.RowsGauge, m.EntityGauge, m.LastSuccess,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return m, nil
}

// RecordBackup counts a finished run.
func (m *PrometheusMetrics) RecordBackup(status string) {
	m.BackupCounter.WithLabelValues(status).Inc()
}

// RecordBackupDuration observes how long a run took.
func (m *PrometheusMetrics) RecordBackupDuration(trigger string, seconds float64) {
	m.BackupDuration.WithLabelValues(trigger).Observe(seconds)
}

// SetRows records the rows exported for kind.
func (m *PrometheusMetrics) SetRows(kind string, rows int) {
	m.RowsGauge.WithLabelValues(kind).Set(float64(rows))
}

// SetEntityCount records the stored record count for kind.
func (m *PrometheusMetrics) SetEntityCount(kind string, n int64) {
	m.EntityGauge.WithLabelValues(kind).Set(float64(n))
}

// SetLastSuccess records the unix time of a successful run.
func (m *PrometheusMetrics) SetLastSuccess(unix int64) {
	m.LastSuccess.Set(float64(unix))
}
