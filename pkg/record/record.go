// Package record converts between nested record values and their flattened
// columnar representation. A Record owns one columnar buffer per flattened
// schema field, all kept in lock-step: the buffers of a well-formed record
// describe the same set of top-level rows, with variable-length nesting
// encoded through ":lengths" count columns.
package record

import (
	"github.com/ajitpratap0/strata/pkg/columnar"
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/schema"
)

// Record is a columnar batch of rows conforming to a schema: one buffer per
// flattened field, in flattening order.
type Record struct {
	root  schema.Field
	specs []schema.FieldSpec
	bufs  []*columnar.Buffer
}

// NewEmpty returns a zero-row record for the given schema.
func NewEmpty(root schema.Field) *Record {
	specs := schema.FieldSpecs(root)
	bufs := make([]*columnar.Buffer, len(specs))
	for i, spec := range specs {
		bufs[i] = columnar.NewBufferForSpec(spec)
	}
	return &Record{root: root, specs: specs, bufs: bufs}
}

// Schema returns the record's schema root.
func (r *Record) Schema() schema.Field { return r.root }

// Specs returns the flattened field specs, in column order.
func (r *Record) Specs() []schema.FieldSpec { return r.specs }

// Buffers returns the per-field buffers, in column order. Callers must not
// replace entries.
func (r *Record) Buffers() []*columnar.Buffer { return r.bufs }

// BufferAt returns the buffer of the i-th flattened field.
func (r *Record) BufferAt(i int) *columnar.Buffer { return r.bufs[i] }

// Buffer returns the buffer of the named flattened field.
func (r *Record) Buffer(path string) (*columnar.Buffer, error) {
	i, err := schema.SpecIndex(r.root, path)
	if err != nil {
		return nil, err
	}
	return r.bufs[i], nil
}

// Rows returns the number of top-level rows. The record must be well-formed;
// Validate reports malformed length bookkeeping.
func (r *Record) Rows() int {
	if len(r.bufs) == 0 {
		return 0
	}
	return r.bufs[0].Len()
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := &Record{root: r.root, specs: r.specs, bufs: make([]*columnar.Buffer, len(r.bufs))}
	for i, b := range r.bufs {
		out.bufs[i] = b.Clone()
	}
	return out
}

// Validate walks the nested length bookkeeping and reports a batch
// integrity error if any inner length sum disagrees with its outer count,
// or if sibling fields disagree on the top-level row count.
func (r *Record) Validate() error {
	idx := 0
	if err := validate(r.root, r.bufs, &idx, -1); err != nil {
		return err
	}
	if idx != len(r.bufs) {
		return errors.Newf(errors.ErrorTypeInternal,
			"walked %d of %d flattened fields", idx, len(r.bufs))
	}
	return nil
}

// validate recursively checks that each field's buffers describe exactly
// expect outer rows. expect < 0 derives the count from the field itself and
// then holds siblings to it.
func validate(f schema.Field, bufs []*columnar.Buffer, idx *int, expect int) error {
	switch v := f.(type) {
	case *schema.ScalarField:
		buf := bufs[*idx]
		*idx++
		if expect >= 0 && buf.Len() != expect {
			return errors.Newf(errors.ErrorTypeBatchIntegrity,
				"field has %d rows, expected %d", buf.Len(), expect)
		}
		return nil
	case *schema.ListField:
		lengths := bufs[*idx]
		*idx++
		if expect >= 0 && lengths.Len() != expect {
			return errors.Newf(errors.ErrorTypeBatchIntegrity,
				"lengths column has %d rows, expected %d", lengths.Len(), expect)
		}
		inner := 0
		for _, n := range lengths.Int32s() {
			if n < 0 {
				return errors.Newf(errors.ErrorTypeBatchIntegrity, "negative length %d", n)
			}
			inner += int(n)
		}
		return validate(v.Inner, bufs, idx, inner)
	case *schema.MapField:
		return validate(v.AsList(), bufs, idx, expect)
	case *schema.StructField:
		for _, nf := range v.Fields() {
			if expect < 0 {
				expect = outerCount(nf.Field, bufs, *idx)
			}
			if err := validate(nf.Field, bufs, idx, expect); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.New(errors.ErrorTypeInternal, "unknown schema variant")
	}
}

// outerCount returns the top-level row count a field's leading buffer
// implies, without consuming it.
func outerCount(f schema.Field, bufs []*columnar.Buffer, idx int) int {
	switch v := f.(type) {
	case *schema.ScalarField, *schema.ListField, *schema.MapField:
		return bufs[idx].Len()
	case *schema.StructField:
		if len(v.Fields()) == 0 {
			return 0
		}
		return outerCount(v.Fields()[0].Field, bufs, idx)
	default:
		return 0
	}
}

// Equal reports field-by-field equality with the default float tolerance.
// Records over different flattened layouts are never equal.
func Equal(a, b *Record) bool {
	if len(a.specs) != len(b.specs) {
		return false
	}
	for i := range a.specs {
		if a.specs[i] != b.specs[i] {
			return false
		}
		if !a.bufs[i].Equal(b.bufs[i]) {
			return false
		}
	}
	return true
}

// Append concatenates all columns of other onto r. Both records must share
// a flattened layout; other must be well-formed.
func (r *Record) Append(other *Record) error {
	if len(r.specs) != len(other.specs) {
		return errors.Newf(errors.ErrorTypeSchemaMismatch,
			"flattened layouts differ: %d vs %d fields", len(r.specs), len(other.specs))
	}
	for i := range r.specs {
		if r.specs[i] != other.specs[i] {
			return errors.Newf(errors.ErrorTypeSchemaMismatch,
				"flattened field %d differs: %q vs %q", i, r.specs[i].Path, other.specs[i].Path)
		}
		if err := r.bufs[i].AppendBuffer(other.bufs[i]); err != nil {
			return err
		}
	}
	return nil
}
