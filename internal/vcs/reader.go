// SPDX-License-Identifier: MIT

// Package vcs reads the working-tree and sync state of a git repository.
package vcs

import (
	"context"
	"errors"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	logger "github.com/sirupsen/logrus"

	"github.com/skaphos/pendector/internal/ancestry"
	"github.com/skaphos/pendector/internal/gitx"
	"github.com/skaphos/pendector/internal/model"
)

// DefaultRemote is the remote whose tracking refs are compared.
const DefaultRemote = "origin"

const shortHashLen = 7

// Fetcher refreshes the remote-tracking refs of one repository.
type Fetcher interface {
	Fetch(ctx context.Context, dir string, timeout time.Duration) model.FetchOutcome
}

// ReadOptions controls a single Read.
type ReadOptions struct {
	// Fetch runs the fetcher before reading.
	Fetch bool
	// FetchTimeout bounds the fetch. Zero expires immediately.
	FetchTimeout time.Duration
}

// Reader builds repository reports from on-disk git metadata.
type Reader struct {
	Fetcher Fetcher
	// Remote names the remote used for sync state. Defaults to "origin".
	Remote string
}

// NewReader returns a Reader. A nil fetcher defaults to gitx.NewFetcher.
func NewReader(fetcher Fetcher, remote string) *Reader {
	if fetcher == nil {
		fetcher = gitx.NewFetcher(nil, nil)
	}
	if remote == "" {
		remote = DefaultRemote
	}
	return &Reader{Fetcher: fetcher, Remote: remote}
}

// Read reports the status of the repository rooted at path. It returns an
// error matching gitx.ErrRepositoryNotFound when path is not a repository
// root. Fetch failures are logged and never returned.
func (r *Reader) Read(ctx context.Context, path string, opts ReadOptions) (model.RepositoryReport, error) {
	handle := model.NewRepositoryHandle(path)

	repo, err := git.PlainOpen(handle.Path)
	if err != nil {
		return model.RepositoryReport{}, &gitx.RepositoryNotFoundError{Path: handle.Path, Cause: err}
	}

	if opts.Fetch && r.Fetcher != nil {
		outcome := r.Fetcher.Fetch(ctx, handle.Path, opts.FetchTimeout)
		LogFetchOutcome(outcome)
	}

	report := model.RepositoryReport{RepositoryHandle: handle}

	head, err := readHead(repo)
	if err != nil {
		return model.RepositoryReport{}, &gitx.RepositoryOperationFailed{Path: handle.Path, Operation: "head", Cause: err}
	}
	report.CurrentBranch = head.branch
	report.Detached = head.detached

	files, err := worktreeChanges(repo)
	if err != nil {
		return model.RepositoryReport{}, &gitx.RepositoryOperationFailed{Path: handle.Path, Operation: "status", Cause: err}
	}
	report.ChangedFiles = files
	report.HasChanges = len(files) > 0

	if head.attached() {
		report.SyncState = r.syncState(repo, *head.branch, head.tip)
	}
	return report, nil
}

// LogFetchOutcome emits a warning for a failed fetch.
func LogFetchOutcome(outcome model.FetchOutcome) {
	if outcome.Success {
		logger.WithField("path", outcome.Path).Debug("fetch completed")
		return
	}
	logger.WithFields(logger.Fields{
		"path": outcome.Path,
		"kind": string(outcome.Kind),
	}).Warnf("fetch failed: %v", outcome.Err)
}

func (r *Reader) syncState(repo *git.Repository, branch string, local plumbing.Hash) model.SyncState {
	remote := r.Remote
	if remote == "" {
		remote = DefaultRemote
	}
	ref, err := repo.Reference(plumbing.NewRemoteReferenceName(remote, branch), true)
	if err != nil {
		return model.SyncState{}
	}
	rel := ancestry.Classify(ancestry.NewGitHistory(repo), local, ref.Hash())
	return model.SyncState{
		RemoteBranch: model.StringPtr(remote + "/" + branch),
		NeedsPull:    rel.NeedsPull(),
		NeedsPush:    rel.NeedsPush(),
	}
}

type headState struct {
	branch   *string
	detached bool
	tip      plumbing.Hash
}

func (h headState) attached() bool { return h.branch != nil && !h.detached && !h.tip.IsZero() }

func readHead(repo *git.Repository) (headState, error) {
	ref, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return headState{}, err
	}
	if ref.Type() == plumbing.HashReference {
		short := ref.Hash().String()[:shortHashLen]
		return headState{branch: &short, detached: true, tip: ref.Hash()}, nil
	}
	if !ref.Target().IsBranch() {
		return headState{}, nil
	}
	resolved, err := repo.Reference(ref.Target(), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return headState{}, nil
	}
	if err != nil {
		return headState{}, err
	}
	name := ref.Target().Short()
	return headState{branch: &name, tip: resolved.Hash()}, nil
}
