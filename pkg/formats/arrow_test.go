package formats

import (
	"bytes"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/strata/pkg/schema"
	"github.com/ajitpratap0/strata/pkg/testutil"
)

func TestArrowSchemaQueryLog(t *testing.T) {
	as, err := ArrowSchema(testutil.QueryLogSchema())
	require.NoError(t, err)

	require.Equal(t, 16, len(as.Fields()))

	dense := as.Field(0)
	assert.Equal(t, "dense", dense.Name)
	assert.Equal(t, arrow.FixedSizeListOf(3, arrow.PrimitiveTypes.Float32).String(), dense.Type.String())

	lengths := as.Field(1)
	assert.Equal(t, "floats:lengths", lengths.Name)
	assert.Equal(t, arrow.PrimitiveTypes.Int32, lengths.Type)

	query := as.Field(15)
	assert.Equal(t, "metadata:query", query.Name)
	assert.Equal(t, arrow.BinaryTypes.String, query.Type)
}

func TestToArrowValues(t *testing.T) {
	rec, err := testutil.QueryLogRecord()
	require.NoError(t, err)

	alloc := memory.NewCheckedAllocator(memory.NewGoAllocator())
	arrowRec, err := ToArrow(rec, alloc)
	require.NoError(t, err)
	defer arrowRec.Release()

	assert.Equal(t, int64(3), arrowRec.NumRows())
	assert.Equal(t, int64(16), arrowRec.NumCols())

	dense, ok := arrowRec.Column(0).(*array.FixedSizeList)
	require.True(t, ok)
	assert.Equal(t, 3, dense.Len())
	values, ok := dense.ListValues().(*array.Float32)
	require.True(t, ok)
	assert.InDelta(t, 1.1, values.Value(0), 1e-6)
	assert.InDelta(t, 3.3, values.Value(8), 1e-6)

	userIDs, ok := arrowRec.Column(13).(*array.Int64)
	require.True(t, ok)
	assert.Equal(t, []int64{123, 234, 456}, userIDs.Int64Values())

	queries, ok := arrowRec.Column(15).(*array.String)
	require.True(t, ok)
	assert.Equal(t, "friends who like to", queries.Value(1))
}

func TestWriteIPCRoundTrip(t *testing.T) {
	rec, err := testutil.QueryLogRecord()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteIPC(&buf, rec))

	reader, err := ipc.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer reader.Release()

	require.True(t, reader.Next())
	got := reader.Record()
	assert.Equal(t, int64(3), got.NumRows())
	assert.Equal(t, int64(16), got.NumCols())
	assert.False(t, reader.Next())
}

func TestArrowSchemaScalarWidths(t *testing.T) {
	root := schema.StructOf(
		schema.F("plain", schema.Scalar(schema.KindFloat64)),
		schema.F("wide", schema.Vector(schema.KindInt64, 4)),
	)

	as, err := ArrowSchema(root)
	require.NoError(t, err)
	assert.Equal(t, arrow.PrimitiveTypes.Float64, as.Field(0).Type)
	assert.Equal(t, arrow.FixedSizeListOf(4, arrow.PrimitiveTypes.Int64).String(), as.Field(1).Type.String())
}
