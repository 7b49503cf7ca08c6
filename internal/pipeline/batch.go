package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/sectioncheck/internal/model"
)

// DefaultConcurrency is the number of documents validated at once.
const DefaultConcurrency = 8

// Factory returns the pipeline for one document. It receives the document
// path so that per-path standards can be applied.
type Factory func(path string) *Pipeline

// BatchProcessor validates multiple documents concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each document.
	pipelineFactory Factory

	// concurrency is the maximum number of concurrent validations.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed reports. Access is synchronized via mutex.
	results []*model.Report
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent validations.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory Factory, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
		results:         make([]*model.Report, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch validates documents concurrently and returns their reports
// in input order. A failing document never stops the batch; its error is
// recorded on its report. The returned error is non-nil only on
// cancellation, in which case unvisited documents have nil reports.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*model.Report, error) {
	bp.logger.Info("starting batch validation",
		"total_documents", len(paths),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.mu.Lock()
	bp.results = make([]*model.Report, len(paths))
	bp.mu.Unlock()

	err := bp.run(ctx, paths, func(report *model.Report, index int) {
		bp.mu.Lock()
		bp.results[index] = report
		bp.mu.Unlock()
	})

	bp.logger.Info("batch validation complete",
		"total_documents", len(paths),
		"elapsed", time.Since(startTime),
	)

	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.results, err
}

// ProcessBatchWithCallback validates documents and calls callback for each
// completed report, which is useful for streaming results.
//
// The callback is called from the goroutine that completed the document, so
// it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(report *model.Report, index int),
) error {
	bp.logger.Info("starting batch validation with callback",
		"total_documents", len(paths),
		"concurrency", bp.concurrency,
	)
	return bp.run(ctx, paths, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, paths []string, done func(*model.Report, int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := model.NewReport(path)
			if err := bp.pipelineFactory(path).Execute(ctx, report); err != nil {
				bp.logger.Warn("validation failed",
					"path", path,
					"error", err,
				)
			}
			model.EnsureSummary(report)

			done(report, i)
			return nil
		})
	}

	return g.Wait()
}
