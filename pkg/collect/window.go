// Package collect provides bounded streaming collectors over row batches:
// a fixed-capacity sliding window holding the most recent rows seen, and a
// fixed-capacity uniform random sample (reservoir sampling) over streams of
// unbounded length.
package collect

import (
	"github.com/ajitpratap0/strata/pkg/columnar"
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/metrics"
	"github.com/ajitpratap0/strata/pkg/schema"
)

// Window keeps the last capacity rows of a row stream in a circular
// buffer. Rows are fixed-width vectors of a declared element kind.
type Window struct {
	capacity int
	kind     schema.Kind
	width    int

	buf  *columnar.Buffer
	next int // slot to overwrite once full
	seen int // total rows submitted
}

// NewWindow returns a window over rows of the given layout, retaining the
// most recent capacity rows.
func NewWindow(capacity int, kind schema.Kind, width int) (*Window, error) {
	if capacity <= 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "window capacity %d must be positive", capacity)
	}
	if width < 1 {
		width = 1
	}
	return &Window{
		capacity: capacity,
		kind:     kind,
		width:    width,
		buf:      columnar.NewBuffer(kind, width),
	}, nil
}

// Collect appends every row of the input batch to the logical stream,
// evicting the oldest retained rows once the window is full. It may be
// called any number of times.
func (w *Window) Collect(batch *columnar.Buffer) error {
	if batch.Kind() != w.kind || batch.Width() != w.width {
		return errors.Newf(errors.ErrorTypeSchemaMismatch,
			"batch layout %s/%d does not match window %s/%d",
			batch.Kind(), batch.Width(), w.kind, w.width)
	}
	for r := 0; r < batch.Len(); r++ {
		if w.buf.Len() < w.capacity {
			if err := w.buf.AppendRange(batch, r, r+1); err != nil {
				return err
			}
		} else {
			if err := w.buf.SetRow(w.next, batch, r); err != nil {
				return err
			}
			w.next = (w.next + 1) % w.capacity
			metrics.WindowEvictions.Inc()
		}
		w.seen++
	}
	return nil
}

// Seen returns the total number of rows submitted so far.
func (w *Window) Seen() int { return w.seen }

// Len returns the number of rows currently retained: min(seen, capacity).
func (w *Window) Len() int { return w.buf.Len() }

// Rows returns the retained rows in chronological order, oldest first.
// After wraparound the circular buffer is rotated at the overwrite point so
// the output reflects the true stream order, not raw slot order.
func (w *Window) Rows() *columnar.Buffer {
	out := columnar.NewBuffer(w.kind, w.width)
	n := w.buf.Len()
	if n == 0 {
		return out
	}
	start := 0
	if w.seen > w.capacity {
		start = w.next
	}
	// identical layouts; appends cannot fail
	_ = out.AppendRange(w.buf, start, n)
	_ = out.AppendRange(w.buf, 0, start)
	return out
}
