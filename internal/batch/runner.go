// Package batch distributes per-file pipeline work across a fixed pool
// of workers. Files are independent units: one failure is logged and
// counted but never aborts sibling work, and results land at distinct
// output paths so ordering between files is irrelevant.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/buildingnet/meshprep/internal/logger"
)

// Job is one input file and its derived output path.
type Job struct {
	Input  string
	Output string
}

// ProcessFunc handles a single job.
type ProcessFunc func(ctx context.Context, job Job) error

// PlanGlobs plans jobs for several filename patterns, deriving each
// job's old suffix from the pattern's "*" prefix. A stage that writes
// compressed output by default still has its files picked up by the
// next stage alongside plain ones.
func PlanGlobs(inputDir, outputDir, newSuffix string, patterns ...string) ([]Job, int, error) {
	var jobs []Job
	skipped := 0
	for _, pattern := range patterns {
		js, sk, err := Plan(inputDir, outputDir, pattern, strings.TrimPrefix(pattern, "*"), newSuffix)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, js...)
		skipped += sk
	}
	return jobs, skipped, nil
}

// Plan globs inputDir for files matching pattern and derives each
// job's output path by swapping oldSuffix for newSuffix on the base
// name. Jobs whose output already exists are skipped; the second
// return value counts them.
func Plan(inputDir, outputDir, pattern, oldSuffix, newSuffix string) ([]Job, int, error) {
	matches, err := filepath.Glob(filepath.Join(inputDir, pattern))
	if err != nil {
		return nil, 0, err
	}

	var jobs []Job
	skipped := 0
	for _, input := range matches {
		base := strings.TrimSuffix(filepath.Base(input), oldSuffix) + newSuffix
		output := filepath.Join(outputDir, base)
		if _, err := os.Stat(output); err == nil {
			skipped++
			continue
		}
		jobs = append(jobs, Job{Input: input, Output: output})
	}
	return jobs, skipped, nil
}

// Runner executes jobs on a fixed-size worker pool.
type Runner struct {
	workers int
}

// NewRunner returns a Runner with the given pool size; zero or
// negative sizes default to the number of CPUs.
func NewRunner(workers int) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{workers: workers}
}

// Run processes every job, at most workers at a time, and returns the
// number of failed jobs. Failures are logged with the file path and
// underlying error, and processing always continues.
func (r *Runner) Run(ctx context.Context, jobs []Job, fn ProcessFunc) int {
	queue := make(chan Job)
	var failed atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				if err := fn(ctx, job); err != nil {
					failed.Add(1)
					logger.Error("processing failed",
						zap.String("input", job.Input),
						zap.Error(err))
					continue
				}
				logger.Info("processed",
					zap.String("input", job.Input),
					zap.String("output", job.Output))
			}
		}()
	}

	for _, job := range jobs {
		queue <- job
	}
	close(queue)
	wg.Wait()

	return int(failed.Load())
}
