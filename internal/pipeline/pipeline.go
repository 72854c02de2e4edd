// Package pipeline provides the execution engine for dataset-to-dataset
// flows: batches are read from a source dataset through a cursor, passed
// through optional transforms, and appended to a destination dataset.
//
// Execution is synchronous and batch-at-a-time. An exhausted source ends
// the run cleanly; transform or write failures abort it. The source cursor
// supports reset, so the same pipeline can be run again from the top.
//
// # Basic Usage
//
//	p := pipeline.New(src, dst, &pipeline.Config{BatchSize: 1000}, logger)
//	p.AddTransform(func(batch *record.Record) (*record.Record, error) {
//	    // derive or mutate columns
//	    return batch, nil
//	})
//	rows, err := p.Run(ctx)
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajitpratap0/strata/pkg/dataset"
	"github.com/ajitpratap0/strata/pkg/errors"
	"github.com/ajitpratap0/strata/pkg/metrics"
	"github.com/ajitpratap0/strata/pkg/record"
)

// Transform derives or mutates one batch. It may return its argument or a
// fresh record; returning an error aborts the run.
type Transform func(batch *record.Record) (*record.Record, error)

// Config controls pipeline execution.
type Config struct {
	// BatchSize is the number of top-level rows read per step.
	BatchSize int
	// EnableMetrics toggles Prometheus metric recording.
	EnableMetrics bool
}

// Pipeline moves rows from a source dataset into a destination dataset.
type Pipeline struct {
	src        *dataset.Cursor
	dst        *dataset.Writer
	dstName    string
	config     *Config
	transforms []Transform
	logger     *zap.Logger
}

// New creates a pipeline reading from src and writing into dst.
func New(src *dataset.Dataset, dst *dataset.Dataset, config *Config, logger *zap.Logger) *Pipeline {
	if config == nil {
		config = &Config{BatchSize: 1000}
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		src:     src.NewCursor(),
		dst:     dst.NewWriter(),
		dstName: dst.Name(),
		config:  config,
		logger:  logger.With(zap.String("source", src.Name()), zap.String("destination", dst.Name())),
	}
}

// AddTransform appends a transform; transforms run in registration order.
func (p *Pipeline) AddTransform(t Transform) {
	p.transforms = append(p.transforms, t)
}

// Run resets the source cursor and moves every row through the transforms
// into the destination, committing at the end. It returns the number of
// top-level rows written. Cancellation is checked between batches; a batch
// in flight always completes.
func (p *Pipeline) Run(ctx context.Context) (int, error) {
	p.src.Reset()
	rows := 0

	for {
		select {
		case <-ctx.Done():
			return rows, errors.Wrap(ctx.Err(), errors.ErrorTypeInternal, "pipeline canceled")
		default:
		}

		timer := metrics.NewTimer("pipeline_step")
		hasMore, batch, err := p.src.Read(p.config.BatchSize)
		if err != nil {
			return rows, errors.Wrap(err, errors.ErrorTypeData, "pipeline read failed")
		}
		if !hasMore {
			timer.Stop()
			break
		}

		for _, t := range p.transforms {
			batch, err = t(batch)
			if err != nil {
				return rows, errors.Wrap(err, errors.ErrorTypeData, "pipeline transform failed")
			}
		}

		if err := p.dst.Write(batch); err != nil {
			return rows, errors.Wrap(err, errors.ErrorTypeData, "pipeline write failed")
		}
		rows += batch.Rows()
		timer.Stop()

		// Writer.Write already counts rows written; only the transform
		// batch counter is recorded here.
		if p.config.EnableMetrics {
			metrics.Batches.WithLabelValues(p.dstName, "transform").Inc()
		}
		p.logger.Debug("pipeline step complete",
			zap.Int("batch_rows", batch.Rows()),
			zap.Int("total_rows", rows))
	}

	if err := p.dst.Commit(); err != nil {
		return rows, errors.Wrap(err, errors.ErrorTypeData, "pipeline commit failed")
	}
	p.logger.Info("pipeline complete", zap.Int("rows", rows))
	return rows, nil
}
