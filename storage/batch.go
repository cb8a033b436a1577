package storage

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teranos/dlog/logger"
	"github.com/teranos/dlog/types"
)

// ReadResult is the outcome of reading one fact file.
type ReadResult struct {
	Path  string
	Facts []*types.Fact
	Err   error
}

// ReadAll reads every path and returns one result per path, in input order.
// Up to the batch threshold the files are read on the calling goroutine;
// above it a bounded pool of workers reads them. A failed file never stops
// the others; use FirstErr to abort on the first failure instead.
func (s *Store) ReadAll(ctx context.Context, paths []string) []ReadResult {
	results := make([]ReadResult, len(paths))
	start := time.Now()

	read := func(i int) {
		results[i].Path = paths[i]
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			return
		}
		results[i].Facts, results[i].Err = ReadFile(paths[i])
	}

	if len(paths) <= s.batchThreshold {
		for i := range paths {
			read(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(s.batchWorkers)
		for i := range paths {
			g.Go(func() error {
				read(i)
				return nil
			})
		}
		g.Wait()
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			s.logger.Warnw("Failed to read fact file",
				logger.FieldPath, r.Path,
				logger.FieldError, r.Err,
			)
		}
	}
	s.logger.Debugw("Batch read complete",
		logger.FieldBatchSize, len(paths),
		logger.FieldWorkers, s.batchWorkers,
		logger.FieldFailed, failed,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return results
}

// FirstErr returns the first failure in input order, or nil.
func FirstErr(results []ReadResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
