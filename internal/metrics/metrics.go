// Package metrics tracks bulk-load throughput for a generation run and can
// push the result to a Prometheus Pushgateway when the run ends.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the collectors for one run. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Registry       *prometheus.Registry
	RowsWritten    *prometheus.CounterVec
	BatchesFlushed *prometheus.CounterVec
	BatchDuration  *prometheus.HistogramVec
	RowsDeleted    *prometheus.CounterVec
}

// New creates the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "topogen",
			Name:      "rows_written_total",
			Help:      "Rows committed to the store, by entity kind.",
		}, []string{"kind"}),
		BatchesFlushed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "topogen",
			Name:      "batches_flushed_total",
			Help:      "Batches committed to the store, by entity kind.",
		}, []string{"kind"}),
		BatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "topogen",
			Name:      "batch_duration_seconds",
			Help:      "Time spent writing and committing one batch.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"kind"}),
		RowsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "topogen",
			Name:      "rows_deleted_total",
			Help:      "Rows removed by topology teardown, by table.",
		}, []string{"table"}),
	}

	m.Registry.MustRegister(m.RowsWritten, m.BatchesFlushed, m.BatchDuration, m.RowsDeleted)
	return m
}

// ObserveBatch records one committed batch
func (m *Metrics) ObserveBatch(kind string, rows int, d time.Duration) {
	if m == nil {
		return
	}
	m.RowsWritten.WithLabelValues(kind).Add(float64(rows))
	m.BatchesFlushed.WithLabelValues(kind).Inc()
	m.BatchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveDelete records rows removed from one table
func (m *Metrics) ObserveDelete(table string, rows int64) {
	if m == nil {
		return
	}
	m.RowsDeleted.WithLabelValues(table).Add(float64(rows))
}

// Push sends the registry to a Pushgateway under the given job and run id.
// An empty url is a no-op.
func (m *Metrics) Push(url, job, runID string) error {
	if m == nil || url == "" {
		return nil
	}

	err := push.New(url, job).
		Gatherer(m.Registry).
		Grouping("run_id", runID).
		Push()
	if err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}
