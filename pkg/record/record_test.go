package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/strata/pkg/columnar"
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/record"
	"github.com/ajitpratap0/strata/pkg/schema"
	"github.com/ajitpratap0/strata/pkg/testutil"
)

func TestFromColumnsQueryLog(t *testing.T) {
	rec, err := testutil.QueryLogRecord()
	require.NoError(t, err)

	assert.Equal(t, 3, rec.Rows())
	require.NoError(t, rec.Validate())

	dense, err := rec.Buffer("dense")
	require.NoError(t, err)
	assert.Equal(t, 3, dense.Len())
	assert.Equal(t, []float32{1.1, 1.2, 1.3, 2.1, 2.2, 2.3, 3.1, 3.2, 3.3}, dense.Float32s())

	scores, err := rec.Buffer("id_score_pairs:values:values:values:scores")
	require.NoError(t, err)
	assert.Equal(t, 9, scores.Len())

	_, err = rec.Buffer("no_such_field")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIndex))
}

func TestFromColumnsColumnCountMismatch(t *testing.T) {
	cols := testutil.QueryLogColumns()
	_, err := record.FromColumns(testutil.QueryLogSchema(), cols[:len(cols)-1])
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
}

func TestFromColumnsWrongElementType(t *testing.T) {
	cols := testutil.QueryLogColumns()
	// dense wants float32
	cols[0] = []int64{1, 2, 3}

	_, err := record.FromColumns(testutil.QueryLogSchema(), cols)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
}

func TestFromColumnsLengthBookkeeping(t *testing.T) {
	cols := testutil.QueryLogColumns()
	// floats:lengths claims 7 entries but only 6 keys follow
	cols[1] = []int32{1, 2, 4}

	_, err := record.FromColumns(testutil.QueryLogSchema(), cols)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeBatchIntegrity))
}

func TestValidateNegativeLength(t *testing.T) {
	root := schema.StructOf(
		schema.F("xs", schema.ListOf(schema.Scalar(schema.KindInt64))),
	)
	_, err := record.FromColumns(root, []interface{}{
		[]int32{-1},
		[]int64{},
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeBatchIntegrity))
}

func scalarOf(t *testing.T, kind schema.Kind, width int, fill func(*columnar.Buffer) error) *record.ScalarValue {
	t.Helper()
	b := columnar.NewBuffer(kind, width)
	require.NoError(t, fill(b))
	return &record.ScalarValue{Buf: b}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	root := schema.StructOf(
		schema.F("ids", schema.Scalar(schema.KindInt64)),
		schema.F("tags", schema.ListOf(schema.Scalar(schema.KindString))),
		schema.F("weights", schema.MapOf(
			schema.Scalar(schema.KindInt32),
			schema.Scalar(schema.KindFloat32))),
	)

	v := &record.StructValue{Fields: []record.NamedValue{
		{Name: "ids", Value: scalarOf(t, schema.KindInt64, 1, func(b *columnar.Buffer) error {
			return b.AppendInt64s(7, 8)
		})},
		{Name: "tags", Value: &record.ListValue{
			Lengths: []int32{2, 1},
			Inner: scalarOf(t, schema.KindString, 1, func(b *columnar.Buffer) error {
				return b.AppendStrings("a", "b", "c")
			}),
		}},
		{Name: "weights", Value: &record.MapValue{
			Lengths: []int32{0, 3},
			Keys: scalarOf(t, schema.KindInt32, 1, func(b *columnar.Buffer) error {
				return b.AppendInt32s(1, 2, 3)
			}),
			Values: scalarOf(t, schema.KindFloat32, 1, func(b *columnar.Buffer) error {
				return b.AppendFloat32s(0.1, 0.2, 0.3)
			}),
		}},
	}}

	rec, err := record.Pack(root, v)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Rows())

	tags, err := rec.Buffer("tags:values")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, tags.Strings())

	back, err := record.Unpack(rec)
	require.NoError(t, err)
	assert.True(t, record.EqualValue(v, back))
}

func TestPackVariantMismatch(t *testing.T) {
	root := schema.StructOf(
		schema.F("xs", schema.ListOf(schema.Scalar(schema.KindInt64))),
	)
	v := &record.StructValue{Fields: []record.NamedValue{
		{Name: "xs", Value: scalarOf(t, schema.KindInt64, 1, func(b *columnar.Buffer) error {
			return b.AppendInt64s(1)
		})},
	}}

	_, err := record.Pack(root, v)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
}

func TestPackKindMismatch(t *testing.T) {
	root := schema.StructOf(
		schema.F("x", schema.Scalar(schema.KindFloat32)),
	)
	v := &record.StructValue{Fields: []record.NamedValue{
		{Name: "x", Value: scalarOf(t, schema.KindFloat64, 1, func(b *columnar.Buffer) error {
			return b.AppendFloat64s(1.0)
		})},
	}}

	_, err := record.Pack(root, v)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
}

func TestUnpackQueryLog(t *testing.T) {
	rec, err := testutil.QueryLogRecord()
	require.NoError(t, err)

	v, err := record.Unpack(rec)
	require.NoError(t, err)

	repacked, err := record.Pack(rec.Schema(), v)
	require.NoError(t, err)
	assert.True(t, record.Equal(rec, repacked))
}

func TestRecordEqualAndClone(t *testing.T) {
	a, err := testutil.QueryLogRecord()
	require.NoError(t, err)
	b := a.Clone()

	assert.True(t, record.Equal(a, b))

	// mutate the clone; original keeps its values
	require.NoError(t, b.BufferAt(0).AppendFloat32s(9, 9, 9))
	assert.False(t, record.Equal(a, b))
	assert.Equal(t, 3, a.Rows())
}

func TestRecordAppend(t *testing.T) {
	a, err := testutil.QueryLogRecord()
	require.NoError(t, err)
	b, err := testutil.QueryLogRecord()
	require.NoError(t, err)

	require.NoError(t, a.Append(b))
	assert.Equal(t, 6, a.Rows())
	require.NoError(t, a.Validate())

	other := record.NewEmpty(schema.StructOf(
		schema.F("x", schema.Scalar(schema.KindInt32)),
	))
	err = a.Append(other)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
}
