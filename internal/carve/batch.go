package carve

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/steamcarve/steamcarve/internal/model"
)

// RunFunc carves one image end to end (open, scan, sinks) and returns its
// report. Failures are recorded in the report's ErrorMessage; a non-nil
// error is reserved for cancellation.
type RunFunc func(ctx context.Context, imagePath string) *model.CarveReport

// BatchCarver carves multiple memory images with bounded concurrency.
// Each individual carve stays single-threaded; the batch only
// parallelizes across images.
//
// Design decision: errgroup with SetLimit rather than a worker pool keeps
// the concurrency bound explicit and lets cancellation propagate through
// the shared context.
type BatchCarver struct {
	run         RunFunc
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchCarver.
type BatchOption func(*BatchCarver)

// WithBatchLogger sets a custom logger for batch-level logging.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchCarver) { b.logger = logger }
}

// WithConcurrency sets the maximum number of concurrent carves.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchCarver) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchCarver creates a BatchCarver around a per-image run function.
func NewBatchCarver(run RunFunc, opts ...BatchOption) *BatchCarver {
	b := &BatchCarver{
		run:         run,
		concurrency: 2,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// CarveAll carves every image, calling the callback with each finished
// report and the image's index. The callback runs on the goroutine that
// finished the carve and must be safe for concurrent use.
func (b *BatchCarver) CarveAll(ctx context.Context, images []string, callback func(report *model.CarveReport, index int)) error {
	b.logger.Info("starting batch carve",
		"images", len(images),
		"concurrency", b.concurrency,
	)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, img := range images {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := b.run(ctx, img)
			callback(report, i)
			return nil
		})
	}

	err := g.Wait()
	b.logger.Info("batch carve complete",
		"images", len(images),
		"elapsed", time.Since(startTime),
	)
	return err
}
