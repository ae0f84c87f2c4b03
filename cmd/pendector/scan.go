// SPDX-License-Identifier: MIT
package pendector

import (
	"errors"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skaphos/pendector/internal/config"
	"github.com/skaphos/pendector/internal/discovery"
	"github.com/skaphos/pendector/internal/engine"
	"github.com/skaphos/pendector/internal/gitx"
	"github.com/skaphos/pendector/internal/logging"
	"github.com/skaphos/pendector/internal/output"
	"github.com/skaphos/pendector/internal/progress"
	"github.com/skaphos/pendector/internal/termstyle"
	"github.com/skaphos/pendector/internal/vcs"
)

// errInvalidRoot marks a scan stopped by a bad base path. The message has
// already been printed.
var errInvalidRoot = errors.New("invalid base path")

// newFetcher is overridable in tests.
var newFetcher = func() vcs.Fetcher { return gitx.NewFetcher(nil, nil) }

func runScan(cmd *cobra.Command, args []string) error {
	logging.Configure(cmd.ErrOrStderr(), flagVerbose, flagQuiet, flagNoColor)

	cfg := loadConfig(cmd)
	overrides := overridesFromFlags(cmd)
	global := config.Resolve(cfg, "", overrides)

	format, err := output.ParseFormat(global.Format)
	if err != nil {
		return err
	}
	only, _ := cmd.Flags().GetString("only")
	filter, err := engine.ParseFilterKind(only)
	if err != nil {
		return err
	}

	addPath, _ := cmd.Flags().GetBool("add-path")
	roots, err := validateRoots(cmd, targetPaths(cfg.Defaults.Paths, args, addPath))
	if err != nil {
		if errors.Is(err, errInvalidRoot) {
			raiseExitCode(cmd, exitBoundary)
			return nil
		}
		return err
	}

	results, err := scanRoots(cmd, cfg, overrides, roots)
	if err != nil {
		return err
	}
	merged := engine.Merge(results...)
	merged.Report.Repositories = engine.Filter(merged.Report.Repositories, filter)

	setColorOutputMode(cmd, string(format))
	noHeaders, _ := cmd.Flags().GetBool("no-headers")
	width, _ := tableWidth(cmd)
	cwd, _ := os.Getwd()
	if err := output.Render(cmd.OutOrStdout(), merged.Report, output.Options{
		Format:    format,
		Verbose:   global.Verbose,
		Color:     runtimeStateFor(cmd).colorOutputEnabled,
		NoHeaders: noHeaders,
		Width:     width,
		Cwd:       cwd,
	}); err != nil {
		return err
	}

	debugf(cmd, "scan completed: %d repositories, %d warnings", len(merged.Report.Repositories), len(merged.Warnings))
	if len(merged.Warnings) > 0 {
		infof(cmd, "scan completed with %d warnings", len(merged.Warnings))
		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			raiseExitCode(cmd, exitWarnings)
		}
	}
	return nil
}

// scanRoots runs one engine scan per root with that root's resolved settings.
func scanRoots(cmd *cobra.Command, cfg config.Config, overrides config.Overrides, roots []string) ([]*engine.ScanResult, error) {
	fetcher := newFetcher()
	results := make([]*engine.ScanResult, 0, len(roots))
	for _, root := range roots {
		res := config.Resolve(cfg, root, overrides)
		debugf(cmd, "scanning %s (max depth %d, remote %s)", root, res.MaxDepth, res.Remote)

		opts := engine.ScanOptions{
			Root:         root,
			MaxDepth:     res.MaxDepth,
			Exclude:      res.Exclude,
			Fetch:        res.Fetch,
			FetchTimeout: res.FetchTimeout,
			Concurrency:  res.Jobs,
		}
		if res.Fetch && showProgress(cmd) {
			opts.Progress = progress.New(cmd.ErrOrStderr(), termstyle.Enabled(cmd.ErrOrStderr(), flagNoColor))
		}

		eng := engine.New(vcs.NewReader(fetcher, res.Remote), fetcher)
		result, err := eng.Scan(cmd.Context(), opts)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
		if res.ChangesOnly {
			result.Report.Repositories = engine.Filter(result.Report.Repositories, engine.FilterDirty)
		}
		results = append(results, result)
	}
	return results, nil
}

// loadConfig returns the effective config. An unusable config file is
// reported and replaced by the defaults.
func loadConfig(cmd *cobra.Command) config.Config {
	if noConfig, _ := cmd.Flags().GetBool("no-config"); noConfig {
		return config.DefaultConfig()
	}
	path, err := config.ConfigPath(flagConfig)
	if err != nil {
		logger.WithError(err).Warn("cannot resolve config path, using defaults")
		return config.DefaultConfig()
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.WithField("path", path).Warnf("%v, using defaults", err)
		return config.DefaultConfig()
	}
	debugf(cmd, "using config %s", path)
	return *cfg
}

// targetPaths picks the paths to scan. Positional args replace the
// configured paths unless addPath appends them.
func targetPaths(configured, args []string, addPath bool) []string {
	var paths []string
	switch {
	case len(args) == 0:
		paths = append(paths, configured...)
	case addPath:
		paths = append(append(paths, configured...), args...)
	default:
		paths = append(paths, args...)
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}
	return paths
}

// validateRoots expands and checks every path before any scan starts.
func validateRoots(cmd *cobra.Command, paths []string) ([]string, error) {
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		root, err := discovery.ValidateRoot(config.ExpandTilde(p))
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", discovery.DescribeRootError(err))
			return nil, errInvalidRoot
		}
		roots = append(roots, root)
	}
	return roots, nil
}

func showProgress(cmd *cobra.Command) bool {
	if flagQuiet {
		return false
	}
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); noProgress {
		return false
	}
	return isTerminalWriter(cmd.ErrOrStderr())
}
