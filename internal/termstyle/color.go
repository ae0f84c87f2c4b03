// SPDX-License-Identifier: MIT
package termstyle

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/liggitt/tabwriter"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	Reset = "\x1b[0m"
	Green = "\x1b[32m"
	Brown = "\x1b[33m"
	Red   = "\x1b[31m"
	Blue  = "\x1b[34m"

	// Semantic aliases used by table output.
	Clean    = Green
	Dirty    = Red
	Behind   = Brown
	Ahead    = Blue
	Diverged = Red
)

// Colorize wraps a value in ANSI escapes when color output is enabled.
func Colorize(enabled bool, value, color string) string {
	if !enabled || value == "" || color == "" {
		return value
	}
	// Hide ANSI sequences from tabwriter width calculations so columns align.
	esc := string([]byte{tabwriter.Escape})
	return esc + color + esc + value + esc + Reset + esc
}

// Enabled reports whether out should receive color: never with noColor or
// NO_COLOR set, otherwise only when out is a terminal.
func Enabled(out io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Renderer returns a lipgloss renderer for out. When enabled is false the
// renderer emits no escape sequences at all.
func Renderer(out io.Writer, enabled bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(out)
	if enabled {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}
