// SPDX-License-Identifier: MIT

// Package strutil holds small string helpers shared by the CLI.
package strutil

import "strings"

// SplitCSV splits a comma-separated flag value, trimming blanks and
// dropping empty items.
func SplitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SplitAllCSV applies SplitCSV to every value of a repeatable flag.
func SplitAllCSV(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, SplitCSV(v)...)
	}
	return out
}
