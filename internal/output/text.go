// SPDX-License-Identifier: MIT
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/skaphos/pendector/internal/model"
	"github.com/skaphos/pendector/internal/termstyle"
)

type textStyles struct {
	clean  lipgloss.Style
	dirty  lipgloss.Style
	branch lipgloss.Style
	sync   lipgloss.Style
	dim    lipgloss.Style
	header lipgloss.Style
}

func newTextStyles(out io.Writer, color bool) textStyles {
	r := termstyle.Renderer(out, color)
	return textStyles{
		clean:  r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		dirty:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		branch: r.NewStyle().Foreground(lipgloss.Color("6")),
		sync:   r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		dim:    r.NewStyle().Foreground(lipgloss.Color("8")),
		header: r.NewStyle().Bold(true),
	}
}

func writeText(out io.Writer, report model.ScanReport, opts Options) error {
	if len(report.Repositories) == 0 {
		_, err := fmt.Fprintln(out, "No repositories found.")
		return err
	}
	st := newTextStyles(out, opts.Color)

	var b strings.Builder
	b.WriteString(st.header.Render(fmt.Sprintf("Found %d repositories (%d with changes):",
		len(report.Repositories), report.ChangedCount())))
	b.WriteString("\n\n")

	for _, repo := range report.Repositories {
		nameStyle := st.clean
		if repo.HasChanges {
			nameStyle = st.dirty
		}
		parts := []string{
			nameStyle.Render(repo.Name),
			st.branch.Render("[" + branchName(repo) + "]"),
		}
		if repo.HasChanges {
			parts = append(parts, "("+changedFilesLabel(len(repo.ChangedFiles))+")")
		}
		if marker := SyncMarker(repo); marker != "" {
			parts = append(parts, st.sync.Render(marker))
		}
		line := strings.Join(parts, " ")

		if !opts.Verbose {
			b.WriteString(line + " - " + st.dim.Render(repo.Path) + "\n")
			continue
		}

		b.WriteString(line + "\n")
		b.WriteString("  Path: " + st.dim.Render(repo.Path) + "\n")
		if repo.RemoteBranch != nil {
			b.WriteString("  Remote: " + *repo.RemoteBranch + " (" + SyncLabel(repo) + ")\n")
		}
		if repo.HasChanges {
			b.WriteString("  Changed files:\n")
			for _, f := range repo.ChangedFiles {
				b.WriteString("    " + f.Kind.Marker() + " " + f.Path + "\n")
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(out, b.String())
	return err
}
