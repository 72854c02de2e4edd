package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAccumulate(t *testing.T) {
	before := testutil.ToFloat64(RowsWritten.WithLabelValues("metrics_test"))
	RowsWritten.WithLabelValues("metrics_test").Add(5)
	assert.Equal(t, before+5, testutil.ToFloat64(RowsWritten.WithLabelValues("metrics_test")))

	before = testutil.ToFloat64(RowsRead.WithLabelValues("metrics_test", "sequential"))
	RowsRead.WithLabelValues("metrics_test", "sequential").Add(3)
	assert.Equal(t, before+3, testutil.ToFloat64(RowsRead.WithLabelValues("metrics_test", "sequential")))
}

func TestTimerRecordsLatency(t *testing.T) {
	timer := NewTimer("metrics_test_op")
	time.Sleep(time.Millisecond)
	elapsed := timer.Stop()

	require.GreaterOrEqual(t, elapsed, time.Millisecond)
}
