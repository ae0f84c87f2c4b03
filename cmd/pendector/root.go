// Package pendector contains the Cobra command tree for the Pendector CLI.
package pendector

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	exitOK       = 0
	exitBoundary = 1
	exitWarnings = 2
	exitFatal    = 3
)

var (
	// Global flags
	flagVerbose int
	flagQuiet   bool
	flagConfig  string
	flagNoColor bool
	// isTerminalFD is overridable in tests.
	isTerminalFD = term.IsTerminal
	// exitFunc is overridable in tests.
	exitFunc = os.Exit
)

// runtimeState carries per-execution results that outlive RunE.
type runtimeState struct {
	exitCode           int
	colorOutputEnabled bool
}

var (
	runtimeMu     sync.Mutex
	runtimeStates = map[*cobra.Command]*runtimeState{}
)

func runtimeStateFor(cmd *cobra.Command) *runtimeState {
	root := cmd.Root()
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	state, ok := runtimeStates[root]
	if !ok {
		state = &runtimeState{}
		runtimeStates[root] = state
	}
	return state
}

var rootCmd = &cobra.Command{
	Use:   "pendector [paths...]",
	Short: "Report which local git repositories have pending work",
	Long: "Pendector walks directory trees for git repositories and reports uncommitted changes " +
		"and whether each branch needs a pull or a push relative to its remote. " +
		"It never modifies working trees; --fetch only refreshes remote-tracking refs.",
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// `NO_COLOR` is a standard opt-out and should behave like --no-color.
		if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
			flagNoColor = true
		}
	},
	RunE: runScan,
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "show detailed output and increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "override config file path")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	addScanFlags(rootCmd)
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := ExecuteContextWithExitCode(ctx)
	stop()
	exitFunc(code)
}

// ExecuteWithExitCode runs the root command and returns a shell-friendly exit code.
func ExecuteWithExitCode() int {
	return ExecuteContextWithExitCode(context.Background())
}

// ExecuteContextWithExitCode runs the root command under ctx.
func ExecuteContextWithExitCode(ctx context.Context) int {
	state := runtimeStateFor(rootCmd)
	state.exitCode = exitOK
	state.colorOutputEnabled = false
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return exitFatal
	}
	return state.exitCode
}

func raiseExitCode(cmd *cobra.Command, code int) {
	// Keep the highest severity: 0 success, 1 bad path, 2 warnings, 3 fatal.
	state := runtimeStateFor(cmd)
	if code > state.exitCode {
		state.exitCode = code
	}
}

func infof(cmd *cobra.Command, format string, args ...any) {
	if flagQuiet {
		return
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func debugf(cmd *cobra.Command, format string, args ...any) {
	if flagQuiet || flagVerbose <= 0 {
		return
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func setColorOutputMode(cmd *cobra.Command, format string) {
	runtimeStateFor(cmd).colorOutputEnabled = shouldUseColorOutput(cmd, format)
}

func shouldUseColorOutput(cmd *cobra.Command, format string) bool {
	if flagNoColor || !isStyledFormat(format) {
		return false
	}
	file, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isTerminalFD(int(file.Fd()))
}

func isStyledFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "table", "wide":
		return true
	default:
		return false
	}
}

func isTerminalWriter(w any) bool {
	file, ok := w.(*os.File)
	return ok && isTerminalFD(int(file.Fd()))
}
