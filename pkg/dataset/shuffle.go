package dataset

import (
	"math/rand"
	"sort"
	"time"

	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/schema"
)

// SortAndShuffle builds an approximate-shuffle permutation of the
// dataset's row indices: rows are partitioned into consecutive chunks of
// batchSize*shuffleMultiplier, each chunk is stable-sorted by the named
// flattened field's per-row value, and the chunk order itself is shuffled.
// The result is locally sorted and globally shuffled, which gives batch
// locality without paying for a global sort.
//
// The sort key must be a flattened field with exactly one value per
// top-level row; a ":lengths" path sorts by the stored length values
// themselves. rng may be nil, in which case a process-random source is
// used; pass a seeded source for reproducibility.
func (d *Dataset) SortAndShuffle(sortPath string, batchSize, shuffleMultiplier int, rng *rand.Rand) ([]int, error) {
	if batchSize <= 0 || shuffleMultiplier <= 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"batch size %d and shuffle multiplier %d must be positive", batchSize, shuffleMultiplier)
	}
	fieldIdx, err := schema.SpecIndex(d.root, sortPath)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // shuffle order is not security sensitive
	}

	keys, err := d.rowKeys(fieldIdx)
	if err != nil {
		return nil, err
	}
	isString := d.specs[fieldIdx].Kind == schema.KindString
	keyBuf := d.bufferAt(fieldIdx)

	n := d.RowCount()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	chunkSize := batchSize * shuffleMultiplier
	var chunks [][]int
	for lo := 0; lo < n; lo += chunkSize {
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}
		chunk := perm[lo:hi]
		sort.SliceStable(chunk, func(i, j int) bool {
			if isString {
				return keyBuf.StringAt(keys[chunk[i]]) < keyBuf.StringAt(keys[chunk[j]])
			}
			return keyBuf.SortValueAt(keys[chunk[i]]) < keyBuf.SortValueAt(keys[chunk[j]])
		})
		chunks = append(chunks, chunk)
	}

	rng.Shuffle(len(chunks), func(i, j int) {
		chunks[i], chunks[j] = chunks[j], chunks[i]
	})

	out := make([]int, 0, n)
	for _, chunk := range chunks {
		out = append(out, chunk...)
	}
	return out, nil
}

// rowKeys maps each top-level row to the flat element index of its single
// sort-key value in field f's buffer.
func (d *Dataset) rowKeys(f int) ([]int, error) {
	if d.specs[f].Width != 1 {
		return nil, errors.Newf(errors.ErrorTypeIndex,
			"sort key %q has row width %d, want 1", d.specs[f].Path, d.specs[f].Width)
	}
	n := d.RowCount()
	keys := make([]int, n)
	offsets := make([]int, len(d.specs))
	spans := make([]span, len(d.specs))
	for r := 0; r < n; r++ {
		idx := 0
		if err := advance(d.root, d.bufs, &idx, offsets, spans, 1); err != nil {
			return nil, err
		}
		sp := spans[f]
		if sp.end-sp.start != 1 {
			return nil, errors.Newf(errors.ErrorTypeIndex,
				"sort key %q has %d values for row %d, want exactly 1", d.specs[f].Path, sp.end-sp.start, r)
		}
		keys[r] = sp.start
	}
	return keys, nil
}
