// SPDX-License-Identifier: MIT

// Package ancestry classifies two branch tips by commit ancestry.
package ancestry

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// Relation is the relationship of a local tip to its remote tip.
type Relation int

const (
	Equal Relation = iota
	Behind
	Ahead
	Diverged
)

func (r Relation) String() string {
	switch r {
	case Equal:
		return "equal"
	case Behind:
		return "behind"
	case Ahead:
		return "ahead"
	default:
		return "diverged"
	}
}

// NeedsPull reports whether the remote has commits the local tip lacks.
func (r Relation) NeedsPull() bool { return r == Behind || r == Diverged }

// NeedsPush reports whether the local tip has commits the remote lacks.
func (r Relation) NeedsPush() bool { return r == Ahead || r == Diverged }

// History answers merge-base queries over a commit graph.
type History interface {
	MergeBase(a, b plumbing.Hash) ([]plumbing.Hash, error)
}

// Classify compares local against remote. A failed or empty merge-base
// lookup is reported as Diverged.
func Classify(h History, local, remote plumbing.Hash) Relation {
	if local == remote {
		return Equal
	}
	bases, err := h.MergeBase(local, remote)
	if err != nil || len(bases) == 0 {
		return Diverged
	}
	for _, base := range bases {
		switch base {
		case local:
			return Behind
		case remote:
			return Ahead
		}
	}
	return Diverged
}
