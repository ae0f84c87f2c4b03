// SPDX-License-Identifier: MIT

// Package discovery walks a root directory to find git repositories.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	logger "github.com/sirupsen/logrus"

	"github.com/skaphos/pendector/internal/gitx"
	"github.com/skaphos/pendector/internal/model"
)

// Options configures a walk.
type Options struct {
	// Root is the directory to search.
	Root string
	// MaxDepth bounds the levels below Root that are checked. Zero checks
	// only Root itself.
	MaxDepth int
	// Exclude holds glob patterns; matching directories are skipped with
	// their subtrees.
	Exclude []string
}

// Walk returns every repository root within MaxDepth levels of Root.
// Symbolic links are not followed. Unreadable entries are logged and
// skipped. The result order is unspecified.
func Walk(ctx context.Context, opts Options) ([]model.RepositoryHandle, error) {
	root, err := ValidateRoot(opts.Root)
	if err != nil {
		return nil, err
	}
	maxDepth := opts.MaxDepth
	if maxDepth < 0 {
		maxDepth = 0
	}

	var results []model.RepositoryHandle
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if walkErr != nil {
			if path == root && d == nil {
				return &gitx.FileSystemError{Path: root, Cause: walkErr}
			}
			logger.WithField("path", path).Warnf("skipping inaccessible entry: %v", walkErr)
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return fs.SkipDir
		}

		depth := depthOf(root, path)
		if path != root && MatchesExclude(path, opts.Exclude) {
			logger.WithField("path", path).Debug("excluded")
			return fs.SkipDir
		}
		if isRepoRoot(path) {
			results = append(results, model.NewRepositoryHandle(path))
		}
		if depth >= maxDepth {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ValidateRoot resolves root to an absolute directory path. A symlinked
// root is resolved to its target.
func ValidateRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", &gitx.FileSystemError{Path: root, Cause: err}
	}
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &gitx.FileSystemError{Path: root, Cause: ErrPathNotExist}
	}
	if err != nil {
		return "", &gitx.FileSystemError{Path: root, Cause: err}
	}
	if !info.IsDir() {
		return "", &gitx.FileSystemError{Path: root, Cause: ErrNotDirectory}
	}
	if linfo, err := os.Lstat(abs); err == nil && linfo.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
	}
	return abs, nil
}

var (
	// ErrPathNotExist is the cause of a FileSystemError for a missing root.
	ErrPathNotExist = errors.New("does not exist")
	// ErrNotDirectory is the cause of a FileSystemError for a file root.
	ErrNotDirectory = errors.New("is not a directory")
)

// MatchesExclude checks whether a directory matches any of the given
// exclude glob patterns. Patterns are tried against the slash form of the
// full path and against the final path segment.
func MatchesExclude(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	slashPath := filepath.ToSlash(path)
	name := filepath.Base(path)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			logger.WithField("pattern", pattern).Warn("ignoring invalid exclude pattern")
			continue
		}
		if doublestar.MatchUnvalidated(pattern, slashPath) || doublestar.MatchUnvalidated(pattern, name) {
			return true
		}
	}
	return false
}

// isRepoRoot reports whether dir directly contains a .git directory.
// A .git file (gitlink) does not qualify.
func isRepoRoot(dir string) bool {
	info, err := os.Lstat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

func depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/") + 1
}

// DescribeRootError formats a root validation failure for the terminal.
func DescribeRootError(err error) string {
	var fsErr *gitx.FileSystemError
	if !errors.As(err, &fsErr) {
		return err.Error()
	}
	switch {
	case errors.Is(fsErr.Cause, ErrPathNotExist):
		return fmt.Sprintf("Path '%s' does not exist", fsErr.Path)
	case errors.Is(fsErr.Cause, ErrNotDirectory):
		return fmt.Sprintf("Path '%s' is not a directory", fsErr.Path)
	default:
		return fsErr.Error()
	}
}
