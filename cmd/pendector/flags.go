package pendector

import (
	"github.com/spf13/cobra"

	"github.com/skaphos/pendector/internal/config"
	"github.com/skaphos/pendector/internal/strutil"
)

const (
	formatUsage    = "output format: text, table, wide, json, yaml"
	onlyUsage      = "filter: all, dirty, clean, behind, ahead, diverged"
	excludeUsage   = "comma-separated glob patterns for directories to skip"
	noHeadersUsage = "when using table format, do not print headers"
)

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("changes-only", "c", false, "only show repositories with uncommitted changes")
	cmd.Flags().IntP("max-depth", "d", 3, "maximum directory depth to search")
	cmd.Flags().StringP("format", "f", "text", formatUsage)
	cmd.Flags().Bool("fetch", false, "fetch from remotes before computing sync state")
	cmd.Flags().Int("fetch-timeout", 5, "per-repository fetch timeout in seconds")
	cmd.Flags().Bool("no-config", false, "ignore the config file")
	cmd.Flags().BoolP("add-path", "a", false, "append the given paths to the configured default paths")
	cmd.Flags().String("exclude", "", excludeUsage)
	cmd.Flags().String("remote", "", "remote compared for sync state (default origin)")
	cmd.Flags().IntP("jobs", "j", 0, "parallel repository workers (0 uses one per CPU)")
	cmd.Flags().Bool("no-progress", false, "do not show the fetch progress bar")
	cmd.Flags().Bool("strict", false, "exit with status 2 when the scan produced warnings")
	cmd.Flags().String("only", "all", onlyUsage)
	cmd.Flags().Bool("no-headers", false, noHeadersUsage)
}

// overridesFromFlags collects the flags the user set explicitly. Unset
// flags stay nil so config values apply.
func overridesFromFlags(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		v, _ := flags.GetInt("max-depth")
		o.MaxDepth = &v
	}
	if flags.Changed("fetch") {
		v, _ := flags.GetBool("fetch")
		o.Fetch = &v
	}
	if flags.Changed("fetch-timeout") {
		v, _ := flags.GetInt("fetch-timeout")
		o.FetchTimeout = &v
	}
	if flags.Changed("format") {
		v, _ := flags.GetString("format")
		o.Format = &v
	}
	if flagVerbose > 0 {
		v := true
		o.Verbose = &v
	}
	if flags.Changed("changes-only") {
		v, _ := flags.GetBool("changes-only")
		o.ChangesOnly = &v
	}
	if flags.Changed("remote") {
		v, _ := flags.GetString("remote")
		o.Remote = &v
	}
	if flags.Changed("jobs") {
		v, _ := flags.GetInt("jobs")
		o.Jobs = &v
	}
	exclude, _ := flags.GetString("exclude")
	o.Exclude = strutil.SplitCSV(exclude)
	return o
}
