package record

import (
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/schema"
)

// FromColumns builds a record from raw per-field element slices given in
// flattening order, checking them against the schema. Each column must be a
// typed slice matching its field's element kind ([]int32, []int64,
// []float32, []float64 or []string), with the element count a multiple of
// the field's row width. The assembled record is integrity-checked before
// being returned.
func FromColumns(root schema.Field, columns []interface{}) (*Record, error) {
	rec := NewEmpty(root)
	if len(columns) != len(rec.specs) {
		return nil, errors.Newf(errors.ErrorTypeSchemaMismatch,
			"got %d columns, schema flattens to %d fields", len(columns), len(rec.specs))
	}

	for i, col := range columns {
		spec := rec.specs[i]
		buf := rec.bufs[i]
		var err error
		switch vs := col.(type) {
		case []int32:
			err = buf.AppendInt32s(vs...)
		case []int64:
			err = buf.AppendInt64s(vs...)
		case []float32:
			err = buf.AppendFloat32s(vs...)
		case []float64:
			err = buf.AppendFloat64s(vs...)
		case []string:
			err = buf.AppendStrings(vs...)
		case nil:
			// empty column
		default:
			err = errors.Newf(errors.ErrorTypeSchemaMismatch,
				"unsupported column type %T for field %q", col, spec.Path)
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeSchemaMismatch,
				"column does not match field "+spec.Path)
		}
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}
