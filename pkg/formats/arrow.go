// Package formats converts flattened records into interchange formats.
// The Arrow export maps each flattened field to one Arrow column: plain
// scalars to primitive arrays, fixed-width vectors to fixed-size lists,
// strings to string arrays. Nested repetition stays encoded through the
// ":lengths" count columns, so the Arrow schema mirrors the flattened
// layout rather than re-nesting it.
package formats

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/strata/pkg/columnar"
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/record"
	"github.com/ajitpratap0/strata/pkg/schema"
)

// ArrowSchema builds the Arrow schema of a flattened record layout.
func ArrowSchema(root schema.Field) (*arrow.Schema, error) {
	specs := schema.FieldSpecs(root)
	fields := make([]arrow.Field, 0, len(specs))
	for _, spec := range specs {
		dt, err := arrowType(spec)
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{Name: spec.Path, Type: dt})
	}
	return arrow.NewSchema(fields, nil), nil
}

func arrowType(spec schema.FieldSpec) (arrow.DataType, error) {
	var elem arrow.DataType
	switch spec.Kind {
	case schema.KindInt32:
		elem = arrow.PrimitiveTypes.Int32
	case schema.KindInt64:
		elem = arrow.PrimitiveTypes.Int64
	case schema.KindFloat32:
		elem = arrow.PrimitiveTypes.Float32
	case schema.KindFloat64:
		elem = arrow.PrimitiveTypes.Float64
	case schema.KindString:
		elem = arrow.BinaryTypes.String
	default:
		return nil, errors.Newf(errors.ErrorTypeInternal, "unknown element kind %v", spec.Kind)
	}
	if spec.Width > 1 {
		return arrow.FixedSizeListOf(int32(spec.Width), elem), nil
	}
	return elem, nil
}

// ToArrow converts a record into an Arrow record batch. The caller owns the
// returned record and must Release it.
func ToArrow(rec *record.Record, alloc memory.Allocator) (arrow.Record, error) {
	if alloc == nil {
		alloc = memory.NewGoAllocator()
	}
	arrowSchema, err := ArrowSchema(rec.Schema())
	if err != nil {
		return nil, err
	}

	builder := array.NewRecordBuilder(alloc, arrowSchema)
	defer builder.Release()

	for i, spec := range rec.Specs() {
		if err := appendColumn(builder.Field(i), rec.BufferAt(i), spec); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to build column "+spec.Path)
		}
	}
	return builder.NewRecord(), nil
}

func appendColumn(b array.Builder, buf *columnar.Buffer, spec schema.FieldSpec) error {
	if spec.Width > 1 {
		fsl, ok := b.(*array.FixedSizeListBuilder)
		if !ok {
			return errors.Newf(errors.ErrorTypeInternal, "expected fixed-size list builder, got %T", b)
		}
		for row := 0; row < buf.Len(); row++ {
			fsl.Append(true)
			lo, hi := row*spec.Width, (row+1)*spec.Width
			if err := appendValues(fsl.ValueBuilder(), buf, spec.Kind, lo, hi); err != nil {
				return err
			}
		}
		return nil
	}
	return appendValues(b, buf, spec.Kind, 0, buf.Len())
}

func appendValues(b array.Builder, buf *columnar.Buffer, kind schema.Kind, lo, hi int) error {
	switch kind {
	case schema.KindInt32:
		b.(*array.Int32Builder).AppendValues(buf.Int32s()[lo:hi], nil)
	case schema.KindInt64:
		b.(*array.Int64Builder).AppendValues(buf.Int64s()[lo:hi], nil)
	case schema.KindFloat32:
		b.(*array.Float32Builder).AppendValues(buf.Float32s()[lo:hi], nil)
	case schema.KindFloat64:
		b.(*array.Float64Builder).AppendValues(buf.Float64s()[lo:hi], nil)
	case schema.KindString:
		b.(*array.StringBuilder).AppendValues(buf.Strings()[lo:hi], nil)
	default:
		return errors.Newf(errors.ErrorTypeInternal, "unknown element kind %v", kind)
	}
	return nil
}

// WriteIPC writes a record to w as an Arrow IPC stream.
func WriteIPC(w io.Writer, rec *record.Record) error {
	alloc := memory.NewGoAllocator()
	arrowRec, err := ToArrow(rec, alloc)
	if err != nil {
		return err
	}
	defer arrowRec.Release()

	writer := ipc.NewWriter(w, ipc.WithSchema(arrowRec.Schema()), ipc.WithAllocator(alloc))
	if err := writer.Write(arrowRec); err != nil {
		writer.Close()
		return errors.Wrap(err, errors.ErrorTypeData, "failed to write Arrow record")
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to close Arrow writer")
	}
	return nil
}
