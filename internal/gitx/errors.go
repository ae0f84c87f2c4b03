// SPDX-License-Identifier: MIT
package gitx

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/skaphos/pendector/internal/model"
)

// ErrRepositoryNotFound marks paths without valid repository metadata.
var ErrRepositoryNotFound = errors.New("git repository not found")

// RepositoryNotFoundError reports a path that is not a repository root.
// It matches ErrRepositoryNotFound with errors.Is.
type RepositoryNotFoundError struct {
	Path  string
	Cause error
}

func (e *RepositoryNotFoundError) Error() string {
	return fmt.Sprintf("git repository not found at '%s'", e.Path)
}

func (e *RepositoryNotFoundError) Is(target error) bool { return target == ErrRepositoryNotFound }

func (e *RepositoryNotFoundError) Unwrap() error { return e.Cause }

// RepositoryOperationFailed reports a failed read against an opened repository.
type RepositoryOperationFailed struct {
	Path      string
	Operation string
	Cause     error
}

func (e *RepositoryOperationFailed) Error() string {
	return fmt.Sprintf("git operation '%s' failed in '%s': %v", e.Operation, e.Path, e.Cause)
}

func (e *RepositoryOperationFailed) Unwrap() error { return e.Cause }

// FileSystemError reports an inaccessible path.
type FileSystemError struct {
	Path  string
	Cause error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("file system error for '%s': %v", e.Path, e.Cause)
}

func (e *FileSystemError) Unwrap() error { return e.Cause }

// TimeoutError reports a fetch cut off at its deadline. Timeout is the
// configured bound, not the elapsed time.
type TimeoutError struct {
	Path    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation timed out after %ss for '%s'", e.secondsText(), e.Path)
}

// Seconds returns the configured timeout in seconds.
func (e *TimeoutError) Seconds() float64 { return e.Timeout.Seconds() }

func (e *TimeoutError) secondsText() string {
	return strconv.FormatFloat(e.Timeout.Seconds(), 'f', -1, 64)
}

func (e *TimeoutError) Is(target error) bool { return target == context.DeadlineExceeded }

// FetchError is a classified, non-timeout fetch failure. Message keeps the
// raw git output for diagnostics.
type FetchError struct {
	Path    string
	Kind    model.ErrorKind
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case model.KindRepositoryUnreachable:
		return fmt.Sprintf("remote repository not found for '%s'", e.Path)
	case model.KindAuthenticationFailed:
		return fmt.Sprintf("authentication error for '%s': %s", e.Path, e.Message)
	case model.KindNetworkError:
		return fmt.Sprintf("network error for '%s': %s", e.Path, e.Message)
	default:
		return fmt.Sprintf("fetch failed for '%s': %s", e.Path, e.Message)
	}
}

func (e *FetchError) Unwrap() error { return e.Cause }
