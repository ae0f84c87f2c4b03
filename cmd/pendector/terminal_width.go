// SPDX-License-Identifier: MIT
package pendector

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var getTerminalSize = term.GetSize

// tableWidth returns the stdout terminal width. It reports false when
// stdout is not a terminal or the size is unknown.
func tableWidth(cmd *cobra.Command) (int, bool) {
	if cmd == nil {
		return 0, false
	}
	file, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(file.Fd())
	if !isTerminalFD(fd) {
		return 0, false
	}
	width, _, err := getTerminalSize(fd)
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}
