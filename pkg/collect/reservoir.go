package collect

import (
	"math/rand"
	"time"

	"github.com/ajitpratap0/strata/pkg/columnar"
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/metrics"
)

// Reservoir maintains a uniform random fixed-size sample over parallel row
// streams of unknown length. The streams are sampled with shared random
// decisions: in each step the same accept/slot choice applies across all
// streams, so correlated columns stay row-aligned in the sample.
//
// After n rows seen with capacity c, every row has inclusion probability
// c/n.
type Reservoir struct {
	capacity int
	rng      *rand.Rand

	columns []*columnar.Buffer
	seen    int
}

// NewReservoir returns a reservoir of the given capacity over len(layouts)
// parallel streams; layouts supplies each stream's row layout. rng may be
// nil, in which case a process-random source is used; pass a seeded source
// for reproducibility.
func NewReservoir(capacity int, layouts []*columnar.Buffer, rng *rand.Rand) (*Reservoir, error) {
	if capacity <= 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "reservoir capacity %d must be positive", capacity)
	}
	if len(layouts) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "reservoir needs at least one stream")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // sampling is not security sensitive
	}
	columns := make([]*columnar.Buffer, len(layouts))
	for i, l := range layouts {
		columns[i] = columnar.NewBuffer(l.Kind(), l.Width())
	}
	return &Reservoir{capacity: capacity, rng: rng, columns: columns}, nil
}

// Collect submits one step of aligned batches, one per stream, all with the
// same row count. For each row the reservoir either appends (while below
// capacity) or draws r uniform in [0, seen] and overwrites slot r when
// r < capacity, applying the identical decision to every stream.
func (rv *Reservoir) Collect(batches []*columnar.Buffer) error {
	if len(batches) != len(rv.columns) {
		return errors.Newf(errors.ErrorTypeValidation,
			"got %d streams, reservoir tracks %d", len(batches), len(rv.columns))
	}
	rows := batches[0].Len()
	for i, b := range batches {
		if b.Len() != rows {
			return errors.Newf(errors.ErrorTypeBatchIntegrity,
				"stream %d has %d rows, stream 0 has %d", i, b.Len(), rows)
		}
		if b.Kind() != rv.columns[i].Kind() || b.Width() != rv.columns[i].Width() {
			return errors.Newf(errors.ErrorTypeSchemaMismatch,
				"stream %d layout %s/%d does not match reservoir %s/%d",
				i, b.Kind(), b.Width(), rv.columns[i].Kind(), rv.columns[i].Width())
		}
	}

	for r := 0; r < rows; r++ {
		if rv.seen < rv.capacity {
			for i, b := range batches {
				if err := rv.columns[i].AppendRange(b, r, r+1); err != nil {
					return err
				}
			}
		} else {
			slot := rv.rng.Intn(rv.seen + 1)
			if slot < rv.capacity {
				for i, b := range batches {
					if err := rv.columns[i].SetRow(slot, b, r); err != nil {
						return err
					}
				}
				metrics.ReservoirReplacements.Inc()
			}
		}
		rv.seen++
	}
	return nil
}

// Seen returns the total number of rows observed so far.
func (rv *Reservoir) Seen() int { return rv.seen }

// Len returns the current sample size: min(seen, capacity).
func (rv *Reservoir) Len() int { return rv.columns[0].Len() }

// Columns returns the sampled rows of every stream. The slices index
// streams in construction order and stay row-aligned across streams.
func (rv *Reservoir) Columns() []*columnar.Buffer {
	out := make([]*columnar.Buffer, len(rv.columns))
	for i, c := range rv.columns {
		out[i] = c.Clone()
	}
	return out
}
