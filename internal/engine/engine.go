// SPDX-License-Identifier: MIT

// Package engine orchestrates a scan: discovery, optional fetch, and a
// bounded pool of status reads.
package engine

import (
	"context"
	"errors"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/skaphos/pendector/internal/discovery"
	"github.com/skaphos/pendector/internal/gitx"
	"github.com/skaphos/pendector/internal/model"
	"github.com/skaphos/pendector/internal/sortutil"
	"github.com/skaphos/pendector/internal/vcs"
)

// FilterKind represents the report filter options.
type FilterKind string

const (
	FilterAll      FilterKind = "all"
	FilterDirty    FilterKind = "dirty"
	FilterClean    FilterKind = "clean"
	FilterBehind   FilterKind = "behind"
	FilterAhead    FilterKind = "ahead"
	FilterDiverged FilterKind = "diverged"
)

// StatusReader reads one repository.
type StatusReader interface {
	Read(ctx context.Context, path string, opts vcs.ReadOptions) (model.RepositoryReport, error)
}

// Engine is the core orchestrator for Pendector scans.
type Engine struct {
	reader  StatusReader
	fetcher vcs.Fetcher
	now     func() time.Time
}

// New creates an Engine. Nil collaborators default to the go-git reader
// and the git CLI fetcher.
func New(reader StatusReader, fetcher vcs.Fetcher) *Engine {
	if fetcher == nil {
		fetcher = gitx.NewFetcher(nil, nil)
	}
	if reader == nil {
		reader = vcs.NewReader(fetcher, vcs.DefaultRemote)
	}
	return &Engine{reader: reader, fetcher: fetcher, now: time.Now}
}

// ScanOptions configures a scan of one root.
type ScanOptions struct {
	Root         string
	MaxDepth     int
	Exclude      []string
	Fetch        bool
	FetchTimeout time.Duration
	Concurrency  int
	Progress     Progress
}

// Warning records a repository that was fetched unsuccessfully or omitted.
type Warning struct {
	Path    string `json:"path" yaml:"path"`
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// ScanResult is the outcome of a scan.
type ScanResult struct {
	Report   model.ScanReport
	Warnings []Warning
}

// Scan walks opts.Root, optionally fetches every candidate, then reads each
// candidate's status in parallel. Only an invalid root is returned as an
// error; per-repository failures become warnings.
func (e *Engine) Scan(ctx context.Context, opts ScanOptions) (*ScanResult, error) {
	handles, err := discovery.Walk(ctx, discovery.Options{
		Root:     opts.Root,
		MaxDepth: opts.MaxDepth,
		Exclude:  opts.Exclude,
	})
	if err != nil {
		return nil, err
	}
	sortutil.SortHandles(handles)

	result := &ScanResult{Report: model.ScanReport{GeneratedAt: e.now(), Repositories: []model.RepositoryReport{}}}

	if opts.Fetch {
		paths := make([]string, len(handles))
		for i, h := range handles {
			paths[i] = h.Path
		}
		for _, outcome := range FetchAll(ctx, e.fetcher, paths, FetchAllOptions{
			Timeout:     opts.FetchTimeout,
			Concurrency: opts.Concurrency,
			Progress:    opts.Progress,
		}) {
			vcs.LogFetchOutcome(outcome)
			if !outcome.Success {
				result.Warnings = append(result.Warnings, Warning{Path: outcome.Path, Kind: string(outcome.Kind), Message: outcome.Message})
			}
		}
	}

	reports := make([]*model.RepositoryReport, len(handles))
	readErrs := make([]error, len(handles))
	var g errgroup.Group
	g.SetLimit(concurrency(opts.Concurrency))
	for i, h := range handles {
		g.Go(func() error {
			if ctx.Err() != nil {
				readErrs[i] = ctx.Err()
				return nil
			}
			report, err := e.reader.Read(ctx, h.Path, vcs.ReadOptions{})
			if err != nil {
				readErrs[i] = err
				return nil
			}
			reports[i] = &report
			return nil
		})
	}
	_ = g.Wait()

	for i, h := range handles {
		if err := readErrs[i]; err != nil {
			kind := "read_failed"
			if errors.Is(err, gitx.ErrRepositoryNotFound) {
				kind = "not_a_repository"
			}
			logger.WithFields(logger.Fields{"path": h.Path, "kind": kind}).Warnf("skipping repository: %v", err)
			result.Warnings = append(result.Warnings, Warning{Path: h.Path, Kind: kind, Message: err.Error()})
			continue
		}
		result.Report.Repositories = append(result.Report.Repositories, *reports[i])
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortutil.SortReports(result.Report.Repositories)
	return result, nil
}

// Merge combines results from several roots. A repository reached from
// more than one root is reported once.
func Merge(results ...*ScanResult) *ScanResult {
	merged := &ScanResult{Report: model.ScanReport{Repositories: []model.RepositoryReport{}}}
	seen := map[string]struct{}{}
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Report.GeneratedAt.After(merged.Report.GeneratedAt) {
			merged.Report.GeneratedAt = r.Report.GeneratedAt
		}
		for _, repo := range r.Report.Repositories {
			if _, ok := seen[repo.Path]; ok {
				continue
			}
			seen[repo.Path] = struct{}{}
			merged.Report.Repositories = append(merged.Report.Repositories, repo)
		}
		merged.Warnings = append(merged.Warnings, r.Warnings...)
	}
	sortutil.SortReports(merged.Report.Repositories)
	return merged
}

// Filter returns the reports matching kind.
func Filter(reports []model.RepositoryReport, kind FilterKind) []model.RepositoryReport {
	out := make([]model.RepositoryReport, 0, len(reports))
	for _, r := range reports {
		if matchesFilter(kind, r) {
			out = append(out, r)
		}
	}
	return out
}

// ParseFilterKind validates a filter name.
func ParseFilterKind(raw string) (FilterKind, error) {
	switch kind := FilterKind(raw); kind {
	case "":
		return FilterAll, nil
	case FilterAll, FilterDirty, FilterClean, FilterBehind, FilterAhead, FilterDiverged:
		return kind, nil
	default:
		return "", errors.New("unsupported filter " + raw + " (supported: all,dirty,clean,behind,ahead,diverged)")
	}
}

func matchesFilter(kind FilterKind, r model.RepositoryReport) bool {
	switch kind {
	case FilterDirty:
		return r.HasChanges
	case FilterClean:
		return !r.HasChanges
	case FilterBehind:
		return r.NeedsPull && !r.NeedsPush
	case FilterAhead:
		return r.NeedsPush && !r.NeedsPull
	case FilterDiverged:
		return r.Diverged()
	default:
		return true
	}
}
