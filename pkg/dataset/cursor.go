package dataset

import (
	"github.com/ajitpratap0/strata/pkg/columnar"
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/metrics"
	"github.com/ajitpratap0/strata/pkg/record"
	"github.com/ajitpratap0/strata/pkg/schema"
)

// span is a half-open row range into one flattened field's buffer.
type span struct {
	start, end int
}

// advance walks f consuming count outer rows. offsets holds each flattened
// field's current row position; spans receives the row range consumed from
// each field's buffer. Walking a repetition level reads its count column to
// learn how many inner rows the same outer rows cover.
func advance(f schema.Field, bufs []*columnar.Buffer, idx *int, offsets []int, spans []span, count int) error {
	switch field := f.(type) {
	case *schema.ScalarField:
		start := offsets[*idx]
		spans[*idx] = span{start, start + count}
		offsets[*idx] += count
		*idx++
		return nil
	case *schema.ListField:
		lengths := bufs[*idx]
		start := offsets[*idx]
		if start+count > lengths.Len() {
			return errors.Newf(errors.ErrorTypeIndex,
				"lengths column exhausted: need rows [%d, %d), have %d", start, start+count, lengths.Len())
		}
		inner := 0
		for _, n := range lengths.Int32s()[start : start+count] {
			inner += int(n)
		}
		spans[*idx] = span{start, start + count}
		offsets[*idx] += count
		*idx++
		return advance(field.Inner, bufs, idx, offsets, spans, inner)
	case *schema.MapField:
		return advance(field.AsList(), bufs, idx, offsets, spans, count)
	case *schema.StructField:
		for _, nf := range field.Fields() {
			if err := advance(nf.Field, bufs, idx, offsets, spans, count); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.New(errors.ErrorTypeInternal, "unknown schema variant")
	}
}

// Cursor iterates a dataset's top-level rows sequentially. Reset returns it
// to the first row; reading past the end yields empty batches forever.
type Cursor struct {
	ds      *Dataset
	row     int   // next top-level row
	offsets []int // per-field row offsets, parallel to ds.specs
}

// NewCursor returns a cursor positioned at the first row.
func (d *Dataset) NewCursor() *Cursor {
	return &Cursor{ds: d, offsets: make([]int, len(d.specs))}
}

// Reset rewinds the cursor to the first row.
func (c *Cursor) Reset() {
	c.row = 0
	for i := range c.offsets {
		c.offsets[i] = 0
	}
}

// Read returns the next batch of up to batchSize top-level rows. hasMore is
// true when the batch contains data; once the dataset is exhausted, Read
// returns an empty well-formed batch with hasMore=false, indefinitely.
func (c *Cursor) Read(batchSize int) (bool, *record.Record, error) {
	if batchSize <= 0 {
		return false, nil, errors.Newf(errors.ErrorTypeValidation, "batch size %d must be positive", batchSize)
	}
	count := c.ds.RowCount() - c.row
	if count > batchSize {
		count = batchSize
	}
	if count <= 0 {
		return false, record.NewEmpty(c.ds.root), nil
	}

	spans := make([]span, len(c.ds.specs))
	idx := 0
	if err := advance(c.ds.root, c.ds.bufs, &idx, c.offsets, spans, count); err != nil {
		return false, nil, err
	}
	c.row += count

	batch := record.NewEmpty(c.ds.root)
	for i, sp := range spans {
		if err := batch.BufferAt(i).AppendRange(c.ds.bufferAt(i), sp.start, sp.end); err != nil {
			return false, nil, err
		}
	}
	metrics.RowsRead.WithLabelValues(c.ds.name, "sequential").Add(float64(count))
	metrics.Batches.WithLabelValues(c.ds.name, "read").Inc()
	return true, batch, nil
}
