package dataset

import (
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/metrics"
	"github.com/ajitpratap0/strata/pkg/record"
)

// RandomCursor iterates a dataset's top-level rows in an explicit
// permutation order. Under a permutation each row's columns sit at
// non-contiguous positions, so per-row span boundaries are precomputed
// once by a prefix sum over the nested length bookkeeping.
type RandomCursor struct {
	ds   *Dataset
	perm []int
	pos  int

	// boundaries[f] has RowCount()+1 entries: row r of the dataset covers
	// rows [boundaries[f][r], boundaries[f][r+1]) of field f's buffer.
	boundaries [][]int
}

// NewRandomCursor returns a cursor that visits rows in perm order. A nil
// perm means identity. Indices are validated against the current row count.
func (d *Dataset) NewRandomCursor(perm []int) (*RandomCursor, error) {
	if perm == nil {
		perm = make([]int, d.RowCount())
		for i := range perm {
			perm[i] = i
		}
	}
	for _, r := range perm {
		if r < 0 || r >= d.RowCount() {
			return nil, errors.Newf(errors.ErrorTypeIndex,
				"permutation index %d out of range [0, %d)", r, d.RowCount())
		}
	}
	return &RandomCursor{ds: d, perm: perm}, nil
}

// ComputeOffsets precomputes per-row span boundaries for every flattened
// field. It must run against the dataset contents the cursor will read;
// Read calls it lazily if the caller has not.
func (c *RandomCursor) ComputeOffsets() error {
	n := c.ds.RowCount()
	boundaries := make([][]int, len(c.ds.specs))
	offsets := make([]int, len(c.ds.specs))
	for f := range boundaries {
		boundaries[f] = make([]int, n+1)
	}
	spans := make([]span, len(c.ds.specs))
	for r := 0; r < n; r++ {
		idx := 0
		if err := advance(c.ds.root, c.ds.bufs, &idx, offsets, spans, 1); err != nil {
			return err
		}
		for f := range spans {
			boundaries[f][r] = spans[f].start
			boundaries[f][r+1] = spans[f].end
		}
	}
	c.boundaries = boundaries
	return nil
}

// Reset rewinds the cursor to the start of the permutation.
func (c *RandomCursor) Reset() {
	c.pos = 0
}

// Read returns the next batch of up to batchSize rows in permutation
// order, concatenating each selected row's spans. Same terminal behavior
// as the sequential cursor: empty batches with hasMore=false forever once
// the permutation is consumed.
func (c *RandomCursor) Read(batchSize int) (bool, *record.Record, error) {
	if batchSize <= 0 {
		return false, nil, errors.Newf(errors.ErrorTypeValidation, "batch size %d must be positive", batchSize)
	}
	if c.boundaries == nil {
		if err := c.ComputeOffsets(); err != nil {
			return false, nil, err
		}
	}

	count := len(c.perm) - c.pos
	if count > batchSize {
		count = batchSize
	}
	if count <= 0 {
		return false, record.NewEmpty(c.ds.root), nil
	}

	batch := record.NewEmpty(c.ds.root)
	for _, r := range c.perm[c.pos : c.pos+count] {
		for f := range c.ds.specs {
			start, end := c.boundaries[f][r], c.boundaries[f][r+1]
			if err := batch.BufferAt(f).AppendRange(c.ds.bufferAt(f), start, end); err != nil {
				return false, nil, err
			}
		}
	}
	c.pos += count
	metrics.RowsRead.WithLabelValues(c.ds.name, "random").Add(float64(count))
	metrics.Batches.WithLabelValues(c.ds.name, "read").Inc()
	return true, batch, nil
}
