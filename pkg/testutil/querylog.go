package testutil

import (
	"github.com/ajitpratap0/strata/internal/querylog"
	"github.com/ajitpratap0/strata/pkg/record"
	"github.com/ajitpratap0/strata/pkg/schema"
)

// QueryLogSchema returns the canonical example schema shared with the demo
// command. See internal/querylog.
func QueryLogSchema() *schema.StructField { return querylog.Schema() }

// QueryLogColumns returns the raw flattened columns of the canonical
// 3-row query log contents, in flattening order.
func QueryLogColumns() []interface{} { return querylog.Columns() }

// QueryLogRecord builds the canonical 3-row query log batch.
func QueryLogRecord() (*record.Record, error) { return querylog.Record() }

// QueryLogRowColumns returns the raw flattened columns of the i-th
// top-level row (0-based) of the canonical contents, as a single-row
// batch. Useful for comparing against cursor reads of batch size 1.
func QueryLogRowColumns(i int) []interface{} { return querylog.RowColumns(i) }
