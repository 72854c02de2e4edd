package record

import (
	"github.com/ajitpratap0/strata/pkg/columnar"
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/schema"
)

// Value is the closed sum type over nested record values. Like the schema
// variants, a value is batch-shaped: a leaf carries the concatenated rows of
// every entry at its nesting level, and repetition levels carry per-row
// counts that slice the level below.
type Value interface {
	isValue()
}

// ScalarValue is a leaf: the concatenated elements of a scalar field.
type ScalarValue struct {
	Buf *columnar.Buffer
}

func (*ScalarValue) isValue() {}

// ListValue is a variable-length repetition: one count per outer row plus
// the concatenated inner value.
type ListValue struct {
	Lengths []int32
	Inner   Value
}

func (*ListValue) isValue() {}

// MapValue is an ordered key/value repetition: one count per outer row plus
// concatenated keys and values.
type MapValue struct {
	Lengths []int32
	Keys    *ScalarValue
	Values  Value
}

func (*MapValue) isValue() {}

// NamedValue pairs a struct member value with its name.
type NamedValue struct {
	Name  string
	Value Value
}

// StructValue is a fixed set of named member values, in schema order.
type StructValue struct {
	Fields []NamedValue
}

func (*StructValue) isValue() {}

// Pack converts a nested value tree into its flattened columnar record.
// The value must match the schema exactly: same variants, same struct
// member names and order, same element kinds and widths, and internally
// consistent lengths. Any mismatch fails with a schema mismatch error.
func Pack(root schema.Field, v Value) (*Record, error) {
	rec := NewEmpty(root)
	idx := 0
	if err := pack(root, v, rec.bufs, &idx, -1); err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func pack(f schema.Field, v Value, bufs []*columnar.Buffer, idx *int, expect int) error {
	switch field := f.(type) {
	case *schema.ScalarField:
		sv, ok := v.(*ScalarValue)
		if !ok {
			return errors.Newf(errors.ErrorTypeSchemaMismatch, "expected scalar value, got %T", v)
		}
		if sv.Buf.Kind() != field.ElemKind || sv.Buf.Width() != field.Width {
			return errors.Newf(errors.ErrorTypeSchemaMismatch,
				"scalar layout mismatch: schema %s/%d, value %s/%d",
				field.ElemKind, field.Width, sv.Buf.Kind(), sv.Buf.Width())
		}
		if expect >= 0 && sv.Buf.Len() != expect {
			return errors.Newf(errors.ErrorTypeSchemaMismatch,
				"scalar has %d rows, expected %d", sv.Buf.Len(), expect)
		}
		err := bufs[*idx].AppendBuffer(sv.Buf)
		*idx++
		return err
	case *schema.ListField:
		lv, ok := v.(*ListValue)
		if !ok {
			return errors.Newf(errors.ErrorTypeSchemaMismatch, "expected list value, got %T", v)
		}
		if expect >= 0 && len(lv.Lengths) != expect {
			return errors.Newf(errors.ErrorTypeSchemaMismatch,
				"list has %d rows, expected %d", len(lv.Lengths), expect)
		}
		if err := bufs[*idx].AppendInt32s(lv.Lengths...); err != nil {
			return err
		}
		*idx++
		inner := 0
		for _, n := range lv.Lengths {
			inner += int(n)
		}
		return pack(field.Inner, lv.Inner, bufs, idx, inner)
	case *schema.MapField:
		mv, ok := v.(*MapValue)
		if !ok {
			return errors.Newf(errors.ErrorTypeSchemaMismatch, "expected map value, got %T", v)
		}
		pairs := &StructValue{Fields: []NamedValue{
			{Name: field.KeysName, Value: mv.Keys},
			{Name: field.ValuesName, Value: mv.Values},
		}}
		return pack(field.AsList(), &ListValue{Lengths: mv.Lengths, Inner: pairs}, bufs, idx, expect)
	case *schema.StructField:
		stv, ok := v.(*StructValue)
		if !ok {
			return errors.Newf(errors.ErrorTypeSchemaMismatch, "expected struct value, got %T", v)
		}
		if len(stv.Fields) != len(field.Fields()) {
			return errors.Newf(errors.ErrorTypeSchemaMismatch,
				"struct has %d fields, schema declares %d", len(stv.Fields), len(field.Fields()))
		}
		for i, nf := range field.Fields() {
			if stv.Fields[i].Name != nf.Name {
				return errors.Newf(errors.ErrorTypeSchemaMismatch,
					"struct field %d is %q, schema declares %q", i, stv.Fields[i].Name, nf.Name)
			}
			if err := pack(nf.Field, stv.Fields[i].Value, bufs, idx, expect); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.New(errors.ErrorTypeInternal, "unknown schema variant")
	}
}

// Unpack reconstructs the nested value tree of a flattened record. Reading
// a repetition level consumes its count column and slices the level below
// accordingly; inconsistent bookkeeping fails with a batch integrity error.
func Unpack(rec *Record) (Value, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	idx := 0
	return unpack(rec.root, rec.bufs, &idx)
}

func unpack(f schema.Field, bufs []*columnar.Buffer, idx *int) (Value, error) {
	switch field := f.(type) {
	case *schema.ScalarField:
		buf := bufs[*idx]
		*idx++
		return &ScalarValue{Buf: buf.Clone()}, nil
	case *schema.ListField:
		lengths := bufs[*idx]
		*idx++
		counts := make([]int32, len(lengths.Int32s()))
		copy(counts, lengths.Int32s())
		inner, err := unpack(field.Inner, bufs, idx)
		if err != nil {
			return nil, err
		}
		return &ListValue{Lengths: counts, Inner: inner}, nil
	case *schema.MapField:
		lv, err := unpack(field.AsList(), bufs, idx)
		if err != nil {
			return nil, err
		}
		list := lv.(*ListValue)
		pairs := list.Inner.(*StructValue)
		keys, ok := pairs.Fields[0].Value.(*ScalarValue)
		if !ok {
			return nil, errors.New(errors.ErrorTypeInternal, "map key column is not scalar")
		}
		return &MapValue{Lengths: list.Lengths, Keys: keys, Values: pairs.Fields[1].Value}, nil
	case *schema.StructField:
		out := &StructValue{Fields: make([]NamedValue, 0, len(field.Fields()))}
		for _, nf := range field.Fields() {
			child, err := unpack(nf.Field, bufs, idx)
			if err != nil {
				return nil, err
			}
			out.Fields = append(out.Fields, NamedValue{Name: nf.Name, Value: child})
		}
		return out, nil
	default:
		return nil, errors.New(errors.ErrorTypeInternal, "unknown schema variant")
	}
}

// EqualValue reports whether two nested values describe the same data,
// comparing leaf buffers with the default float tolerance.
func EqualValue(a, b Value) bool {
	switch av := a.(type) {
	case *ScalarValue:
		bv, ok := b.(*ScalarValue)
		return ok && av.Buf.Equal(bv.Buf)
	case *ListValue:
		bv, ok := b.(*ListValue)
		if !ok || len(av.Lengths) != len(bv.Lengths) {
			return false
		}
		for i := range av.Lengths {
			if av.Lengths[i] != bv.Lengths[i] {
				return false
			}
		}
		return EqualValue(av.Inner, bv.Inner)
	case *MapValue:
		bv, ok := b.(*MapValue)
		if !ok || len(av.Lengths) != len(bv.Lengths) {
			return false
		}
		for i := range av.Lengths {
			if av.Lengths[i] != bv.Lengths[i] {
				return false
			}
		}
		return EqualValue(av.Keys, bv.Keys) && EqualValue(av.Values, bv.Values)
	case *StructValue:
		bv, ok := b.(*StructValue)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for i := range av.Fields {
			if av.Fields[i].Name != bv.Fields[i].Name {
				return false
			}
			if !EqualValue(av.Fields[i].Value, bv.Fields[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
