// Package model defines the core data types used throughout Pendector.
package model

import (
	"path/filepath"
	"time"
)

// RepositoryHandle identifies a discovered repository.
type RepositoryHandle struct {
	// Path is the absolute local filesystem path to the repository root.
	Path string `json:"path" yaml:"path"`
	// Name is the display name, derived from the final path segment.
	Name string `json:"name" yaml:"name"`
}

// NewRepositoryHandle builds a handle for path. When path has no final
// segment (for example "." or "/"), the name is taken from the resolved
// directory instead.
func NewRepositoryHandle(path string) RepositoryHandle {
	abs := path
	if resolved, err := filepath.Abs(path); err == nil {
		abs = resolved
	}
	return RepositoryHandle{Path: abs, Name: displayName(path, abs)}
}

func displayName(raw, abs string) string {
	if base := filepath.Base(raw); base != "." && base != ".." && base != string(filepath.Separator) {
		return base
	}
	canonical := abs
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		canonical = resolved
	}
	if base := filepath.Base(canonical); base != string(filepath.Separator) {
		return base
	}
	return raw
}

// ChangeKind classifies a single changed path.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeRenamed  ChangeKind = "renamed"
	ChangeOther    ChangeKind = "other"
)

// Marker returns the short porcelain-style marker for the kind.
func (k ChangeKind) Marker() string {
	switch k {
	case ChangeAdded:
		return "??"
	case ChangeModified:
		return " M"
	case ChangeDeleted:
		return " D"
	case ChangeRenamed:
		return " R"
	default:
		return "  "
	}
}

// ChangedFile is one entry of a working tree status.
type ChangedFile struct {
	Kind ChangeKind `json:"kind" yaml:"kind"`
	Path string     `json:"path" yaml:"path"`
}

// WorkingTreeStatus is the local modification state of a repository.
type WorkingTreeStatus struct {
	// HasChanges is true iff ChangedFiles is non-empty.
	HasChanges bool `json:"has_changes" yaml:"has_changes"`
	// ChangedFiles is ordered by path.
	ChangedFiles []ChangedFile `json:"changed_files" yaml:"changed_files"`
	// CurrentBranch is nil when HEAD is unborn.
	CurrentBranch *string `json:"current_branch" yaml:"current_branch"`
	// Detached reports whether HEAD points at a commit rather than a branch.
	// CurrentBranch then holds the short commit id.
	Detached bool `json:"detached,omitempty" yaml:"detached,omitempty"`
}

// SyncState is the relationship between the current branch and its tracking ref.
type SyncState struct {
	// RemoteBranch is the tracking ref (for example "origin/main"). Nil when
	// no matching remote ref exists.
	RemoteBranch *string `json:"remote_branch" yaml:"remote_branch"`
	// NeedsPull is true when the remote has commits the local branch lacks.
	NeedsPull bool `json:"needs_pull" yaml:"needs_pull"`
	// NeedsPush is true when the local branch has commits the remote lacks.
	NeedsPush bool `json:"needs_push" yaml:"needs_push"`
}

// Diverged reports whether both sides have unique commits.
func (s SyncState) Diverged() bool { return s.NeedsPull && s.NeedsPush }

// RepositoryReport is the full status of a single repository.
type RepositoryReport struct {
	RepositoryHandle  `yaml:",inline"`
	WorkingTreeStatus `yaml:",inline"`
	SyncState         `yaml:",inline"`
}

// ScanReport is the top-level output of a scan.
type ScanReport struct {
	// GeneratedAt is the timestamp when this report was produced.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	// Repositories holds one report per repository, sorted by name then path.
	Repositories []RepositoryReport `json:"repositories" yaml:"repositories"`
}

// ChangedCount returns the number of repositories with local changes.
func (r ScanReport) ChangedCount() int {
	n := 0
	for _, repo := range r.Repositories {
		if repo.HasChanges {
			n++
		}
	}
	return n
}

// ErrorKind is the fixed taxonomy for fetch failures.
type ErrorKind string

const (
	KindRepositoryUnreachable ErrorKind = "repository_unreachable"
	KindAuthenticationFailed  ErrorKind = "authentication_failed"
	KindNetworkError          ErrorKind = "network_error"
	KindTimeout               ErrorKind = "timeout"
	KindFetchFailed           ErrorKind = "fetch_failed"
)

// FetchOutcome records the result of fetching one repository.
type FetchOutcome struct {
	Path    string `json:"path" yaml:"path"`
	Success bool   `json:"success" yaml:"success"`
	// Kind is empty on success.
	Kind    ErrorKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Message string    `json:"message,omitempty" yaml:"message,omitempty"`
	// Err is the typed failure, nil on success.
	Err error `json:"-" yaml:"-"`
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string { return &s }
