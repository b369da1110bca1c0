package loader

import (
	"context"
	"sync"
	"time"

	"github.com/rohanorton/tsickle-loader/internal/output"
)

// FileResult is the outcome of one file in a batch run.
type FileResult struct {
	// Source is the file as requested, before normalization.
	Source string

	Result

	// Warnings are the advisory messages emitted for this file.
	Warnings []string

	// Err is the pipeline failure, nil on success.
	Err error

	// Duration is the wall time the invocation took.
	Duration time.Duration
}

// ProcessAll runs the pipeline for each file in its own goroutine. Every
// invocation gets its own host; the extern sink is the only shared state
// and appends interleave at fragment granularity. Results come back in
// input order regardless of completion order.
func (l *Loader) ProcessAll(ctx context.Context, files []string) []FileResult {
	type indexed struct {
		i   int
		res FileResult
	}

	resultChan := make(chan indexed, len(files))
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			resultChan <- indexed{i: i, res: l.runOne(ctx, file)}
		}(i, file)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]FileResult, len(files))
	var maxDuration time.Duration
	for r := range resultChan {
		results[r.i] = r.res
		if r.res.Duration > maxDuration {
			maxDuration = r.res.Duration
		}
	}

	output.Debug("batch complete", "files", len(files), "maxDuration", maxDuration)

	return results
}

// runOne executes one invocation with an invocation-scoped host.
func (l *Loader) runOne(ctx context.Context, file string) FileResult {
	start := time.Now()
	fr := FileResult{Source: file}

	host := HostFuncs{
		OnWarning: func(msg string) {
			fr.Warnings = append(fr.Warnings, msg)
		},
		// The returned error already carries the failure.
		OnError: func(error) {},
	}

	fr.Result, fr.Err = l.Run(ctx, file, host)
	fr.Duration = time.Since(start)
	return fr
}
