// SPDX-License-Identifier: MIT
package engine

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skaphos/pendector/internal/model"
	"github.com/skaphos/pendector/internal/vcs"
)

// Progress receives fetch progress. Start is called once with the total,
// Increment once per finished repository, Finish once after all attempts.
type Progress interface {
	Start(total int)
	Increment()
	Finish()
}

// FetchAllOptions configures FetchAll.
type FetchAllOptions struct {
	// Timeout bounds each fetch independently.
	Timeout time.Duration
	// Concurrency bounds parallel fetches. Zero means runtime.NumCPU().
	Concurrency int
	// Progress is optional.
	Progress Progress
}

// FetchAll fetches every path and returns outcomes in input order. A
// failure never cancels the other fetches; FetchAll waits for all of them.
func FetchAll(ctx context.Context, fetcher vcs.Fetcher, paths []string, opts FetchAllOptions) []model.FetchOutcome {
	if len(paths) == 0 {
		return []model.FetchOutcome{}
	}

	if opts.Progress != nil {
		opts.Progress.Start(len(paths))
		defer opts.Progress.Finish()
	}

	outcomes := make([]model.FetchOutcome, len(paths))
	var g errgroup.Group
	g.SetLimit(concurrency(opts.Concurrency))
	for i, path := range paths {
		g.Go(func() error {
			outcomes[i] = fetcher.Fetch(ctx, path, opts.Timeout)
			outcomes[i].Path = path
			if opts.Progress != nil {
				opts.Progress.Increment()
			}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func concurrency(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}
