// Package columnar provides typed storage buffers for flattened schema
// fields. A Buffer holds the contiguous values of one primitive column:
// a flat slice of elements grouped into fixed-width rows.
package columnar

import (
	"math"

	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/schema"
)

const (
	// DefaultAbsTolerance is the absolute tolerance used for float
	// comparison between buffers.
	DefaultAbsTolerance = 1e-4
	// DefaultRelTolerance is the relative tolerance used for float
	// comparison between buffers.
	DefaultRelTolerance = 1e-4
)

// Buffer is one flattened field's storage. Exactly one of the backing
// slices is in use, chosen by the element kind. Values are flat; a row is
// width consecutive elements.
type Buffer struct {
	kind  schema.Kind
	width int

	i32 []int32
	i64 []int64
	f32 []float32
	f64 []float64
	str []string
}

// NewBuffer returns an empty buffer for the given element kind and row
// width. Width below 1 is treated as 1.
func NewBuffer(kind schema.Kind, width int) *Buffer {
	if width < 1 {
		width = 1
	}
	return &Buffer{kind: kind, width: width}
}

// NewBufferForSpec returns an empty buffer matching a flattened field spec.
func NewBufferForSpec(spec schema.FieldSpec) *Buffer {
	return NewBuffer(spec.Kind, spec.Width)
}

// Kind returns the buffer's element kind.
func (b *Buffer) Kind() schema.Kind { return b.kind }

// Width returns the fixed number of elements per row.
func (b *Buffer) Width() int { return b.width }

// Len returns the number of rows currently stored.
func (b *Buffer) Len() int {
	return b.elems() / b.width
}

func (b *Buffer) elems() int {
	switch b.kind {
	case schema.KindInt32:
		return len(b.i32)
	case schema.KindInt64:
		return len(b.i64)
	case schema.KindFloat32:
		return len(b.f32)
	case schema.KindFloat64:
		return len(b.f64)
	case schema.KindString:
		return len(b.str)
	default:
		return 0
	}
}

// Int32s returns the backing int32 slice. Callers must not resize it.
func (b *Buffer) Int32s() []int32 { return b.i32 }

// Int64s returns the backing int64 slice. Callers must not resize it.
func (b *Buffer) Int64s() []int64 { return b.i64 }

// Float32s returns the backing float32 slice. Callers must not resize it.
func (b *Buffer) Float32s() []float32 { return b.f32 }

// Float64s returns the backing float64 slice. Callers must not resize it.
func (b *Buffer) Float64s() []float64 { return b.f64 }

// Strings returns the backing string slice. Callers must not resize it.
func (b *Buffer) Strings() []string { return b.str }

// AppendInt32s appends raw int32 elements. The element count must be a
// multiple of the row width.
func (b *Buffer) AppendInt32s(vs ...int32) error {
	if err := b.checkAppend(schema.KindInt32, len(vs)); err != nil {
		return err
	}
	b.i32 = append(b.i32, vs...)
	return nil
}

// AppendInt64s appends raw int64 elements.
func (b *Buffer) AppendInt64s(vs ...int64) error {
	if err := b.checkAppend(schema.KindInt64, len(vs)); err != nil {
		return err
	}
	b.i64 = append(b.i64, vs...)
	return nil
}

// AppendFloat32s appends raw float32 elements.
func (b *Buffer) AppendFloat32s(vs ...float32) error {
	if err := b.checkAppend(schema.KindFloat32, len(vs)); err != nil {
		return err
	}
	b.f32 = append(b.f32, vs...)
	return nil
}

// AppendFloat64s appends raw float64 elements.
func (b *Buffer) AppendFloat64s(vs ...float64) error {
	if err := b.checkAppend(schema.KindFloat64, len(vs)); err != nil {
		return err
	}
	b.f64 = append(b.f64, vs...)
	return nil
}

// AppendStrings appends raw string elements.
func (b *Buffer) AppendStrings(vs ...string) error {
	if err := b.checkAppend(schema.KindString, len(vs)); err != nil {
		return err
	}
	b.str = append(b.str, vs...)
	return nil
}

func (b *Buffer) checkAppend(kind schema.Kind, n int) error {
	if b.kind != kind {
		return errors.Newf(errors.ErrorTypeSchemaMismatch,
			"cannot append %s elements to %s buffer", kind, b.kind)
	}
	if n%b.width != 0 {
		return errors.Newf(errors.ErrorTypeSchemaMismatch,
			"element count %d is not a multiple of row width %d", n, b.width)
	}
	return nil
}

// AppendBuffer appends all rows of other, which must have the same kind and
// width.
func (b *Buffer) AppendBuffer(other *Buffer) error {
	return b.AppendRange(other, 0, other.Len())
}

// AppendRange appends rows [startRow, endRow) of other.
func (b *Buffer) AppendRange(other *Buffer, startRow, endRow int) error {
	if other.kind != b.kind || other.width != b.width {
		return errors.Newf(errors.ErrorTypeSchemaMismatch,
			"buffer layout mismatch: %s/%d vs %s/%d", b.kind, b.width, other.kind, other.width)
	}
	if startRow < 0 || endRow < startRow || endRow > other.Len() {
		return errors.Newf(errors.ErrorTypeIndex,
			"row range [%d, %d) out of bounds for %d rows", startRow, endRow, other.Len())
	}
	lo, hi := startRow*b.width, endRow*b.width
	switch b.kind {
	case schema.KindInt32:
		b.i32 = append(b.i32, other.i32[lo:hi]...)
	case schema.KindInt64:
		b.i64 = append(b.i64, other.i64[lo:hi]...)
	case schema.KindFloat32:
		b.f32 = append(b.f32, other.f32[lo:hi]...)
	case schema.KindFloat64:
		b.f64 = append(b.f64, other.f64[lo:hi]...)
	case schema.KindString:
		b.str = append(b.str, other.str[lo:hi]...)
	}
	return nil
}

// SliceRows returns a new buffer holding a copy of rows [startRow, endRow).
func (b *Buffer) SliceRows(startRow, endRow int) (*Buffer, error) {
	out := NewBuffer(b.kind, b.width)
	if err := out.AppendRange(b, startRow, endRow); err != nil {
		return nil, err
	}
	return out, nil
}

// GatherRows returns a new buffer holding copies of the given rows, in the
// given order.
func (b *Buffer) GatherRows(rows []int) (*Buffer, error) {
	out := NewBuffer(b.kind, b.width)
	for _, r := range rows {
		if err := out.AppendRange(b, r, r+1); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetRow overwrites row dstRow with row srcRow of src. Both buffers must
// share the same layout.
func (b *Buffer) SetRow(dstRow int, src *Buffer, srcRow int) error {
	if src.kind != b.kind || src.width != b.width {
		return errors.Newf(errors.ErrorTypeSchemaMismatch,
			"buffer layout mismatch: %s/%d vs %s/%d", b.kind, b.width, src.kind, src.width)
	}
	if dstRow < 0 || dstRow >= b.Len() {
		return errors.Newf(errors.ErrorTypeIndex, "destination row %d out of range [0, %d)", dstRow, b.Len())
	}
	if srcRow < 0 || srcRow >= src.Len() {
		return errors.Newf(errors.ErrorTypeIndex, "source row %d out of range [0, %d)", srcRow, src.Len())
	}
	dlo, slo := dstRow*b.width, srcRow*b.width
	switch b.kind {
	case schema.KindInt32:
		copy(b.i32[dlo:dlo+b.width], src.i32[slo:slo+b.width])
	case schema.KindInt64:
		copy(b.i64[dlo:dlo+b.width], src.i64[slo:slo+b.width])
	case schema.KindFloat32:
		copy(b.f32[dlo:dlo+b.width], src.f32[slo:slo+b.width])
	case schema.KindFloat64:
		copy(b.f64[dlo:dlo+b.width], src.f64[slo:slo+b.width])
	case schema.KindString:
		copy(b.str[dlo:dlo+b.width], src.str[slo:slo+b.width])
	}
	return nil
}

// SortValueAt returns a numeric ordering value for row i. Only valid for
// width-1 numeric buffers; string buffers order lexicographically via
// SortKeyAt instead.
func (b *Buffer) SortValueAt(i int) float64 {
	switch b.kind {
	case schema.KindInt32:
		return float64(b.i32[i])
	case schema.KindInt64:
		return float64(b.i64[i])
	case schema.KindFloat32:
		return float64(b.f32[i])
	case schema.KindFloat64:
		return b.f64[i]
	default:
		return 0
	}
}

// StringAt returns the string element at flat index i of a string buffer.
func (b *Buffer) StringAt(i int) string {
	return b.str[i]
}

// Equal reports whether two buffers hold the same rows. Float kinds compare
// with the default absolute+relative tolerance; other kinds compare
// exactly. Differing layout is never equal.
func (b *Buffer) Equal(other *Buffer) bool {
	return b.EqualTolerance(other, DefaultAbsTolerance, DefaultRelTolerance)
}

// EqualTolerance is Equal with explicit float tolerances.
func (b *Buffer) EqualTolerance(other *Buffer, atol, rtol float64) bool {
	if b.kind != other.kind || b.width != other.width || b.elems() != other.elems() {
		return false
	}
	switch b.kind {
	case schema.KindInt32:
		for i := range b.i32 {
			if b.i32[i] != other.i32[i] {
				return false
			}
		}
	case schema.KindInt64:
		for i := range b.i64 {
			if b.i64[i] != other.i64[i] {
				return false
			}
		}
	case schema.KindFloat32:
		for i := range b.f32 {
			if !closeEnough(float64(b.f32[i]), float64(other.f32[i]), atol, rtol) {
				return false
			}
		}
	case schema.KindFloat64:
		for i := range b.f64 {
			if !closeEnough(b.f64[i], other.f64[i], atol, rtol) {
				return false
			}
		}
	case schema.KindString:
		for i := range b.str {
			if b.str[i] != other.str[i] {
				return false
			}
		}
	}
	return true
}

func closeEnough(a, b, atol, rtol float64) bool {
	return math.Abs(a-b) <= atol+rtol*math.Abs(b)
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := NewBuffer(b.kind, b.width)
	// AppendBuffer cannot fail for identical layouts
	_ = out.AppendBuffer(b)
	return out
}

// Clear drops all rows while keeping allocated capacity.
func (b *Buffer) Clear() {
	b.i32 = b.i32[:0]
	b.i64 = b.i64[:0]
	b.f32 = b.f32[:0]
	b.f64 = b.f64[:0]
	b.str = b.str[:0]
}

// MemoryUsage returns an estimate of the buffer's memory footprint in bytes.
func (b *Buffer) MemoryUsage() int64 {
	var total int64
	total += int64(len(b.i32) * 4)
	total += int64(len(b.i64) * 8)
	total += int64(len(b.f32) * 4)
	total += int64(len(b.f64) * 8)
	for _, s := range b.str {
		total += int64(len(s)) + 16 // string header overhead
	}
	return total
}
