// Package metrics provides Prometheus metrics for dataset operations:
// rows read and written, batch counts, collector activity and per-operation
// latency. Metrics are registered once via promauto; recording is safe for
// concurrent use.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsWritten tracks top-level rows appended to datasets.
	// Labels: dataset
	RowsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_rows_written_total",
			Help: "Total top-level rows appended to datasets",
		},
		[]string{"dataset"},
	)

	// RowsRead tracks top-level rows returned by cursor reads.
	// Labels: dataset, mode (sequential/random)
	RowsRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_rows_read_total",
			Help: "Total top-level rows read through cursors",
		},
		[]string{"dataset", "mode"},
	)

	// Batches tracks batch-granularity operations.
	// Labels: dataset, operation (read/write/transform)
	Batches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_batches_total",
			Help: "Total batches processed",
		},
		[]string{"dataset", "operation"},
	)

	// WindowEvictions tracks rows evicted from sliding window collectors.
	WindowEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "strata_window_evictions_total",
			Help: "Rows evicted from sliding window collectors",
		},
	)

	// ReservoirReplacements tracks replacement decisions in reservoir
	// samplers.
	ReservoirReplacements = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "strata_reservoir_replacements_total",
			Help: "Slot replacements performed by reservoir samplers",
		},
	)

	// OperationLatency tracks the latency distribution of dataset
	// operations in nanoseconds.
	// Labels: operation
	OperationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "strata_operation_latency_nanoseconds",
			Help: "Dataset operation latency in nanoseconds",
			Buckets: []float64{
				1000,  // 1μs - memory operations
				10000, // 10μs - small batch slicing
				1e5,   // 100μs
				1e6,   // 1ms - standard batch processing
				1e7,   // 10ms
				1e8,   // 100ms - large batch operations
				1e9,   // 1s
			},
		},
		[]string{"operation"},
	)
)

// Timer measures the duration of a single operation.
type Timer struct {
	operation string
	start     time.Time
}

// NewTimer starts timing the named operation.
func NewTimer(operation string) *Timer {
	return &Timer{operation: operation, start: time.Now()}
}

// Stop records the elapsed time into OperationLatency and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	OperationLatency.WithLabelValues(t.operation).Observe(float64(elapsed.Nanoseconds()))
	return elapsed
}
