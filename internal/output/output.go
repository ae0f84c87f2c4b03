// SPDX-License-Identifier: MIT

// Package output renders scan reports as text, tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/skaphos/pendector/internal/model"
)

// Format selects a renderer.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatWide  Format = "wide"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists every supported format in help order.
var Formats = []Format{FormatText, FormatTable, FormatWide, FormatJSON, FormatYAML}

// ParseFormat validates a format name. Matching is case-insensitive.
func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	if f == "" {
		return FormatText, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, known := range Formats {
		names[i] = string(known)
	}
	return "", fmt.Errorf("unsupported format %q (supported: %s)", raw, strings.Join(names, ", "))
}

// Options controls rendering.
type Options struct {
	Format  Format
	Verbose bool
	Color   bool
	// NoHeaders drops the table header row.
	NoHeaders bool
	// Width is the terminal width, zero when unknown.
	Width int
	// Cwd shortens table paths to be relative to it when possible.
	Cwd string
}

// Render writes report to out in opts.Format.
func Render(out io.Writer, report model.ScanReport, opts Options) error {
	switch opts.Format {
	case FormatText, "":
		return writeText(out, report, opts)
	case FormatTable:
		return writeTable(out, report, opts, false)
	case FormatWide:
		return writeTable(out, report, opts, true)
	case FormatJSON:
		return writeJSON(out, report)
	case FormatYAML:
		return writeYAML(out, report)
	default:
		return fmt.Errorf("unsupported format %q", opts.Format)
	}
}

func writeJSON(out io.Writer, report model.ScanReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func writeYAML(out io.Writer, report model.ScanReport) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

// SyncLabel names the sync state of a report.
func SyncLabel(r model.RepositoryReport) string {
	switch {
	case r.RemoteBranch == nil:
		return "-"
	case r.Diverged():
		return "diverged"
	case r.NeedsPull:
		return "behind"
	case r.NeedsPush:
		return "ahead"
	default:
		return "up to date"
	}
}

// SyncMarker is the one-character form of SyncLabel used by text output.
func SyncMarker(r model.RepositoryReport) string {
	switch {
	case r.Diverged():
		return "↕"
	case r.NeedsPull:
		return "↓"
	case r.NeedsPush:
		return "↑"
	default:
		return ""
	}
}

func branchName(r model.RepositoryReport) string {
	if r.CurrentBranch == nil {
		return "unknown"
	}
	if r.Detached {
		return "detached:" + *r.CurrentBranch
	}
	return *r.CurrentBranch
}

func changedFilesLabel(n int) string {
	if n == 1 {
		return "1 changed file"
	}
	return fmt.Sprintf("%d changed files", n)
}
