package columnar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/schema"
)

func TestAppendAndLen(t *testing.T) {
	b := NewBuffer(schema.KindFloat32, 3)
	require.NoError(t, b.AppendFloat32s(1.1, 1.2, 1.3, 2.1, 2.2, 2.3))

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []float32{1.1, 1.2, 1.3, 2.1, 2.2, 2.3}, b.Float32s())
}

func TestAppendKindMismatch(t *testing.T) {
	b := NewBuffer(schema.KindInt32, 1)
	err := b.AppendInt64s(1)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
}

func TestAppendPartialRow(t *testing.T) {
	b := NewBuffer(schema.KindFloat32, 3)
	err := b.AppendFloat32s(1.0, 2.0)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
	assert.Equal(t, 0, b.Len())
}

func TestAppendRangeAndSliceRows(t *testing.T) {
	src := NewBuffer(schema.KindInt64, 1)
	require.NoError(t, src.AppendInt64s(10, 20, 30, 40))

	dst := NewBuffer(schema.KindInt64, 1)
	require.NoError(t, dst.AppendRange(src, 1, 3))
	assert.Equal(t, []int64{20, 30}, dst.Int64s())

	sliced, err := src.SliceRows(2, 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{30, 40}, sliced.Int64s())

	_, err = src.SliceRows(3, 5)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIndex))
}

func TestGatherRowsKeepsWidth(t *testing.T) {
	src := NewBuffer(schema.KindFloat32, 2)
	require.NoError(t, src.AppendFloat32s(0.2, 0.8, 0.5, 0.5, 0.7, 0.3))

	out, err := src.GatherRows([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, []float32{0.7, 0.3, 0.2, 0.8}, out.Float32s())
}

func TestSetRow(t *testing.T) {
	b := NewBuffer(schema.KindString, 1)
	require.NoError(t, b.AppendStrings("a", "b", "c"))

	src := NewBuffer(schema.KindString, 1)
	require.NoError(t, src.AppendStrings("z"))

	require.NoError(t, b.SetRow(1, src, 0))
	assert.Equal(t, []string{"a", "z", "c"}, b.Strings())

	err := b.SetRow(3, src, 0)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIndex))
}

func TestEqualTolerance(t *testing.T) {
	a := NewBuffer(schema.KindFloat32, 1)
	require.NoError(t, a.AppendFloat32s(1.0, 2.0, 3.0))

	b := NewBuffer(schema.KindFloat32, 1)
	require.NoError(t, b.AppendFloat32s(1.00005, 2.0001, 3.0))
	assert.True(t, a.Equal(b))

	c := NewBuffer(schema.KindFloat32, 1)
	require.NoError(t, c.AppendFloat32s(1.1, 2.0, 3.0))
	assert.False(t, a.Equal(c))

	// layout differences are never equal
	d := NewBuffer(schema.KindFloat64, 1)
	require.NoError(t, d.AppendFloat64s(1.0, 2.0, 3.0))
	assert.False(t, a.Equal(d))
}

func TestSortValueAt(t *testing.T) {
	b := NewBuffer(schema.KindInt32, 1)
	require.NoError(t, b.AppendInt32s(5, -2, 9))

	assert.Equal(t, 5.0, b.SortValueAt(0))
	assert.Equal(t, -2.0, b.SortValueAt(1))
	assert.Equal(t, 9.0, b.SortValueAt(2))
}

func TestCloneAndClear(t *testing.T) {
	b := NewBuffer(schema.KindInt32, 1)
	require.NoError(t, b.AppendInt32s(1, 2, 3))

	c := b.Clone()
	b.Clear()

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, []int32{1, 2, 3}, c.Int32s())
}

func TestNewBufferForSpec(t *testing.T) {
	b := NewBufferForSpec(schema.FieldSpec{Path: "dense", Kind: schema.KindFloat32, Width: 3})
	assert.Equal(t, schema.KindFloat32, b.Kind())
	assert.Equal(t, 3, b.Width())
}
