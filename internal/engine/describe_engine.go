package engine

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/peekknuf/rankstat/internal/connectors"
	"github.com/peekknuf/rankstat/internal/parser"
	"github.com/peekknuf/rankstat/internal/profiler"
	"github.com/peekknuf/rankstat/internal/schema"
)

// Options controls how a batch of files is described
type Options struct {
	Workers int
	Parser  parser.ParserConfig
	// Columns restricts the summary to matching headers; empty means every
	// numeric column.
	Columns []schema.Field
	// OnFileDone is called once per file, from the worker goroutine
	OnFileDone func(path string)
}

// FileResult contains the summaries of one file
type FileResult struct {
	Path           string
	RowCount       int
	Summaries      []profiler.Summary
	Quality        profiler.QualityMetrics
	ProcessingTime time.Duration
	Error          error
}

// DescribeFile profiles one file and summarises its numeric columns
func DescribeFile(path string, opts Options, logger zerolog.Logger) FileResult {
	start := time.Now()
	result := FileResult{Path: path}

	p := profiler.NewCSVProfiler(path, opts.Parser, logger)
	if err := p.Profile(); err != nil {
		result.Error = err
		return result
	}
	result.RowCount = p.RowCount
	result.Quality = p.CalculateQuality()

	columns := p.NumericColumns()
	if len(opts.Columns) > 0 {
		mapping, err := schema.Resolve(p.Table.Headers, opts.Columns)
		if err != nil {
			result.Error = err
			return result
		}
		columns = columns[:0]
		for _, f := range opts.Columns {
			if i, ok := mapping.Index(f.Name); ok {
				columns = append(columns, i)
			}
		}
	}

	summaries, err := p.Describe(columns)
	if err != nil {
		result.Error = err
		return result
	}
	result.Summaries = summaries
	result.ProcessingTime = time.Since(start)
	return result
}

// DescribeFiles describes files concurrently. A file that fails is
// reported through its FileResult.Error and does not stop the others;
// only context cancellation aborts the batch. Results keep the order of
// files.
func DescribeFiles(ctx context.Context, files []connectors.FileMeta, opts Options, logger zerolog.Logger) ([]FileResult, error) {
	results := make([]FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(files, opts.Workers))

	var mu sync.Mutex
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result := DescribeFile(file.Path, opts, logger)
			if result.Error != nil {
				logger.Warn().Err(result.Error).Str("file", file.Path).Msg("failed to describe file")
			}

			mu.Lock()
			results[i] = result
			mu.Unlock()

			if opts.OnFileDone != nil {
				opts.OnFileDone(file.Path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// workerCount scales the requested worker count to the batch: never more
// workers than files, and extra I/O parallelism for large batches.
func workerCount(files []connectors.FileMeta, requested int) int {
	cpuCount := runtime.NumCPU()
	workers := requested
	if workers <= 0 {
		workers = cpuCount
	}

	// I/O bound work on > 500MB can use more workers than CPU cores
	if requested <= 0 && connectors.TotalSize(files) > 500*1024*1024 {
		workers = cpuCount * 2
	}

	maxWorkers := cpuCount * 3
	if maxWorkers > 32 {
		maxWorkers = 32
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
