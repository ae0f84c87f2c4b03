package tableutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/liggitt/tabwriter"
)

// New creates a tabwriter with Pendector's default spacing settings.
// stripEscape hides termstyle escape sequences from width calculations.
func New(out io.Writer, stripEscape bool) *tabwriter.Writer {
	var flags uint
	if stripEscape {
		flags = tabwriter.StripEscape
	}
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', flags)
}

// PrintHeaders writes a tab-separated header row unless disabled.
func PrintHeaders(w io.Writer, noHeaders bool, headers ...string) error {
	if noHeaders {
		return nil
	}
	_, err := fmt.Fprintln(w, strings.Join(headers, "\t"))
	return err
}

// WriteTable renders headers and rows as aligned columns.
func WriteTable(out io.Writer, stripEscape, noHeaders bool, headers []string, rows [][]string) error {
	w := New(out, stripEscape)
	if err := PrintHeaders(w, noHeaders, headers...); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return w.Flush()
}
