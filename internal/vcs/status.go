// SPDX-License-Identifier: MIT
package vcs

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	logger "github.com/sirupsen/logrus"

	"github.com/skaphos/pendector/internal/model"
)

// worktreeChanges lists every changed path, untracked files included and
// ignored files excluded. Bare repositories have no changes.
func worktreeChanges(repo *git.Repository) ([]model.ChangedFile, error) {
	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return []model.ChangedFile{}, nil
	}
	if err != nil {
		return nil, err
	}
	wt.Excludes = append(wt.Excludes, userExcludes()...)
	status, err := wt.Status()
	if err != nil {
		return nil, err
	}

	files := make([]model.ChangedFile, 0, len(status))
	for path, fs := range status {
		if fs.Staging == git.Unmodified && fs.Worktree == git.Unmodified {
			continue
		}
		files = append(files, model.ChangedFile{Kind: changeKind(fs), Path: path})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func changeKind(fs *git.FileStatus) model.ChangeKind {
	either := func(code git.StatusCode) bool { return fs.Staging == code || fs.Worktree == code }
	switch {
	case either(git.Untracked) || either(git.Added):
		return model.ChangeAdded
	case either(git.Modified):
		return model.ChangeModified
	case either(git.Deleted):
		return model.ChangeDeleted
	case either(git.Renamed):
		return model.ChangeRenamed
	default:
		return model.ChangeOther
	}
}

// userExcludes loads the ignore rules git applies outside the repository:
// the system gitconfig excludesfile, then the user's core.excludesfile or,
// when that is unset, $XDG_CONFIG_HOME/git/ignore.
func userExcludes() []gitignore.Pattern {
	root := osfs.New("/")
	var patterns []gitignore.Pattern
	system, err := gitignore.LoadSystemPatterns(root)
	if err != nil {
		logger.WithError(err).Debug("cannot load system ignore patterns")
	}
	patterns = append(patterns, system...)

	global, err := gitignore.LoadGlobalPatterns(root)
	if err != nil {
		logger.WithError(err).Debug("cannot load global ignore patterns")
	}
	if len(global) == 0 {
		global = xdgIgnorePatterns()
	}
	return append(patterns, global...)
}

func xdgIgnorePatterns() []gitignore.Pattern {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		base = filepath.Join(home, ".config")
	}
	data, err := os.ReadFile(filepath.Join(base, "git", "ignore"))
	if err != nil {
		return nil
	}
	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}
