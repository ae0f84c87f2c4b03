// SPDX-License-Identifier: MIT
package gitx

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/skaphos/pendector/internal/model"
)

// fetchArgs refreshes every remote without touching submodules or the
// working tree.
var fetchArgs = []string{"-c", "fetch.recurseSubmodules=false", "fetch", "--all", "--quiet", "--no-recurse-submodules"}

// Fetcher runs a bounded, non-interactive fetch for one repository.
type Fetcher struct {
	Runner     Runner
	Classifier *Classifier
}

// NewFetcher returns a Fetcher. A nil runner defaults to a non-interactive
// GitRunner and a nil classifier to DefaultClassifier.
func NewFetcher(runner Runner, classifier *Classifier) *Fetcher {
	if runner == nil {
		runner = NewNonInteractiveRunner()
	}
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	return &Fetcher{Runner: runner, Classifier: classifier}
}

// Fetch refreshes remote-tracking refs in dir. It never returns an error:
// every failure is recorded in the outcome. A timeout of zero or less
// expires immediately.
func (f *Fetcher) Fetch(ctx context.Context, dir string, timeout time.Duration) model.FetchOutcome {
	if timeout < 0 {
		timeout = 0
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		out string
		err error
	)
	if err = fetchCtx.Err(); err == nil {
		out, err = f.Runner.Run(fetchCtx, dir, fetchArgs...)
	}
	if err == nil {
		return model.FetchOutcome{Path: dir, Success: true}
	}

	if errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
		timeoutErr := &TimeoutError{Path: dir, Timeout: timeout}
		return model.FetchOutcome{
			Path:    dir,
			Kind:    model.KindTimeout,
			Message: timeoutErr.Error(),
			Err:     timeoutErr,
		}
	}

	msg := strings.TrimSpace(out)
	if msg == "" {
		msg = err.Error()
	}
	fetchErr := &FetchError{
		Path:    dir,
		Kind:    f.Classifier.Classify(msg),
		Message: msg,
		Cause:   err,
	}
	return model.FetchOutcome{
		Path:    dir,
		Kind:    fetchErr.Kind,
		Message: msg,
		Err:     fetchErr,
	}
}
