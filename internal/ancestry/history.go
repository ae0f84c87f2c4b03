// SPDX-License-Identifier: MIT
package ancestry

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitHistory reads merge bases from a go-git repository.
type GitHistory struct {
	repo *git.Repository
}

// NewGitHistory wraps repo.
func NewGitHistory(repo *git.Repository) *GitHistory {
	return &GitHistory{repo: repo}
}

// MergeBase returns the best common ancestors of a and b.
func (h *GitHistory) MergeBase(a, b plumbing.Hash) ([]plumbing.Hash, error) {
	left, err := h.repo.CommitObject(a)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", a, err)
	}
	right, err := h.repo.CommitObject(b)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", b, err)
	}
	commits, err := left.MergeBase(right)
	if err != nil {
		return nil, fmt.Errorf("merge base %s %s: %w", a, b, err)
	}
	hashes := make([]plumbing.Hash, 0, len(commits))
	for _, c := range commits {
		hashes = append(hashes, c.Hash)
	}
	return hashes, nil
}
