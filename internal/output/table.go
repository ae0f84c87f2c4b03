// SPDX-License-Identifier: MIT
package output

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/skaphos/pendector/internal/model"
	"github.com/skaphos/pendector/internal/tableutil"
	"github.com/skaphos/pendector/internal/termstyle"
)

const (
	narrowTableWidth = 100
	tinyTableWidth   = 80
)

func writeTable(out io.Writer, report model.ScanReport, opts Options, wide bool) error {
	showBranch := wide || opts.Width == 0 || opts.Width >= tinyTableWidth
	pathMax := 0
	if !wide {
		pathMax = AdaptiveCellLimit(opts.Width, 0, 48, 32)
	}

	headers := []string{"NAME"}
	if showBranch {
		headers = append(headers, "BRANCH")
	}
	headers = append(headers, "DIRTY", "SYNC")
	if wide {
		headers = append(headers, "REMOTE", "CHANGES", "PATH")
	} else {
		headers = append(headers, "PATH")
	}

	rows := make([][]string, 0, len(report.Repositories))
	for _, repo := range report.Repositories {
		row := []string{repo.Name}
		if showBranch {
			row = append(row, branchName(repo))
		}
		row = append(row, dirtyCell(opts.Color, repo), syncCell(opts.Color, repo))
		path := DisplayPath(repo.Path, opts.Cwd)
		if wide {
			remote := "-"
			if repo.RemoteBranch != nil {
				remote = *repo.RemoteBranch
			}
			row = append(row, remote, strconv.Itoa(len(repo.ChangedFiles)), path)
		} else {
			row = append(row, TruncateCell(path, pathMax))
		}
		rows = append(rows, row)
	}
	return tableutil.WriteTable(out, true, opts.NoHeaders, headers, rows)
}

func dirtyCell(color bool, repo model.RepositoryReport) string {
	if repo.HasChanges {
		return termstyle.Colorize(color, "yes", termstyle.Dirty)
	}
	return termstyle.Colorize(color, "no", termstyle.Clean)
}

func syncCell(color bool, repo model.RepositoryReport) string {
	label := SyncLabel(repo)
	switch {
	case repo.RemoteBranch == nil:
		return label
	case repo.Diverged():
		return termstyle.Colorize(color, label, termstyle.Diverged)
	case repo.NeedsPull:
		return termstyle.Colorize(color, label, termstyle.Behind)
	case repo.NeedsPush:
		return termstyle.Colorize(color, label, termstyle.Ahead)
	default:
		return termstyle.Colorize(color, label, termstyle.Clean)
	}
}

// AdaptiveCellLimit picks a column limit for the terminal width. A zero
// width means unknown and yields normal.
func AdaptiveCellLimit(width, normal, narrow, tiny int) int {
	switch {
	case width > 0 && width < tinyTableWidth && tiny > 0:
		return tiny
	case width > 0 && width < narrowTableWidth && narrow > 0:
		return narrow
	default:
		return normal
	}
}

// TruncateCell shortens value to max bytes with a trailing ellipsis.
// A max of zero disables truncation.
func TruncateCell(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}

// DisplayPath shows path relative to cwd when it lies below cwd.
func DisplayPath(path, cwd string) string {
	if strings.TrimSpace(cwd) == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
