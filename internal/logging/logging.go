// SPDX-License-Identifier: MIT

// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Level maps the CLI verbosity flags to a log level. Quiet wins over any
// verbosity count.
func Level(verbosity int, quiet bool) logger.Level {
	switch {
	case quiet:
		return logger.ErrorLevel
	case verbosity >= 2:
		return logger.DebugLevel
	case verbosity == 1:
		return logger.InfoLevel
	default:
		return logger.WarnLevel
	}
}

// Configure points the standard logger at out with the level for the
// given flags. Timestamps are shown only at debug level.
func Configure(out io.Writer, verbosity int, quiet bool, noColor bool) {
	level := Level(verbosity, quiet)
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		DisableTimestamp: level < logger.DebugLevel,
		FullTimestamp:    true,
		DisableColors:    noColor || !isTerminal(out),
		ForceColors:      !noColor && isTerminal(out),
	})
}

func isTerminal(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
