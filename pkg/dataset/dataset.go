// Package dataset provides an append-only columnar table keyed by a
// flattened schema, plus cursors for sequential, permuted and
// sort-and-shuffle iteration over its top-level rows.
//
// A Dataset owns one buffer per flattened field. Writers append whole
// record batches; all buffers stay in lock-step, with nested repetition
// tracked by ":lengths" count columns. Reads never fail at end of data:
// an exhausted cursor keeps returning empty, well-formed batches so
// callers can poll in a loop and stop on the hasMore flag.
//
// Instances are not internally locked. One writer and one reader may touch
// the same dataset only when externally sequenced by the caller.
package dataset

import (
	"github.com/ajitpratap0/strata/pkg/columnar"
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/metrics"
	"github.com/ajitpratap0/strata/pkg/record"
	"github.com/ajitpratap0/strata/pkg/schema"
)

// Dataset is an append-only columnar table.
type Dataset struct {
	name  string
	root  schema.Field
	specs []schema.FieldSpec
	bufs  []*columnar.Buffer
	rows  int
}

// InitEmpty creates an empty dataset for the given schema.
func InitEmpty(name string, root schema.Field) *Dataset {
	specs := schema.FieldSpecs(root)
	bufs := make([]*columnar.Buffer, len(specs))
	for i, spec := range specs {
		bufs[i] = columnar.NewBufferForSpec(spec)
	}
	return &Dataset{name: name, root: root, specs: specs, bufs: bufs}
}

// Name returns the dataset's name.
func (d *Dataset) Name() string { return d.name }

// Schema returns the dataset's schema root.
func (d *Dataset) Schema() schema.Field { return d.root }

// Specs returns the flattened field specs, in column order.
func (d *Dataset) Specs() []schema.FieldSpec { return d.specs }

// RowCount returns the number of top-level rows stored.
func (d *Dataset) RowCount() int { return d.rows }

// Append validates a record batch and concatenates its columns onto the
// dataset. A batch whose nested length arrays are internally inconsistent
// fails with a batch integrity error and leaves the dataset unchanged.
func (d *Dataset) Append(batch *record.Record) error {
	if err := batch.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeBatchIntegrity, "rejecting malformed batch")
	}
	if len(batch.Specs()) != len(d.specs) {
		return errors.Newf(errors.ErrorTypeSchemaMismatch,
			"batch flattens to %d fields, dataset has %d", len(batch.Specs()), len(d.specs))
	}
	for i, spec := range batch.Specs() {
		if spec != d.specs[i] {
			return errors.Newf(errors.ErrorTypeSchemaMismatch,
				"batch field %d is %q (%s/%d), dataset declares %q (%s/%d)",
				i, spec.Path, spec.Kind, spec.Width,
				d.specs[i].Path, d.specs[i].Kind, d.specs[i].Width)
		}
	}
	for i := range d.bufs {
		if err := d.bufs[i].AppendBuffer(batch.BufferAt(i)); err != nil {
			return err
		}
	}
	d.rows += batch.Rows()
	return nil
}

// Content returns a read-only snapshot of the full dataset as a record.
func (d *Dataset) Content() *record.Record {
	rec := record.NewEmpty(d.root)
	for i, b := range d.bufs {
		// layouts are identical; append cannot fail
		_ = rec.BufferAt(i).AppendBuffer(b)
	}
	return rec
}

// bufferAt exposes a column to the cursors in this package.
func (d *Dataset) bufferAt(i int) *columnar.Buffer { return d.bufs[i] }

// Writer appends record batches to a dataset.
type Writer struct {
	ds      *Dataset
	written int
}

// NewWriter returns a writer over ds.
func (d *Dataset) NewWriter() *Writer {
	return &Writer{ds: d}
}

// Write appends one batch.
func (w *Writer) Write(batch *record.Record) error {
	if err := w.ds.Append(batch); err != nil {
		return err
	}
	w.written += batch.Rows()
	metrics.RowsWritten.WithLabelValues(w.ds.name).Add(float64(batch.Rows()))
	metrics.Batches.WithLabelValues(w.ds.name, "write").Inc()
	return nil
}

// RowsWritten returns the total top-level rows written through this writer.
func (w *Writer) RowsWritten() int { return w.written }

// Commit is a flush barrier. Appends are immediately visible, so it is a
// no-op kept for writer-interface generality.
func (w *Writer) Commit() error { return nil }
