// Package gitx provides helpers for executing git commands, classifying
// their failures, and fetching remotes. It shells out to the installed git
// binary.
package gitx

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Run waits for output pipes after the process
// has been killed. Helpers such as ssh can inherit the pipes and keep them
// open past the deadline.
const waitDelay = 2 * time.Second

// NonInteractiveEnv suppresses every credential prompt git or ssh could
// raise, so a command either succeeds, fails, or hits its deadline.
var NonInteractiveEnv = []string{
	"GIT_TERMINAL_PROMPT=0",
	"GIT_ASKPASS=true",
	"SSH_ASKPASS=true",
	"GCM_INTERACTIVE=never",
	"GIT_SSH_COMMAND=ssh -o BatchMode=yes",
}

// Runner executes git commands in a given repo directory.
// This interface allows mocking in tests.
type Runner interface {
	// Run executes a git command in the given directory and returns
	// combined stdout/stderr output.
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// GitRunner is the default Runner implementation that shells out to git.
type GitRunner struct {
	// GitBin is the path to the git binary. Defaults to "git".
	GitBin string
	// Env is appended to the process environment.
	Env []string
}

// NewNonInteractiveRunner returns a GitRunner that never prompts.
func NewNonInteractiveRunner() *GitRunner {
	return &GitRunner{Env: append([]string(nil), NonInteractiveEnv...)}
}

// Run executes a git command. When ctx is done the process and every
// child it started are killed.
func (g *GitRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	bin := g.GitBin
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	if len(g.Env) > 0 {
		cmd.Env = append(os.Environ(), g.Env...)
	}
	killProcessGroup(cmd)
	cmd.WaitDelay = waitDelay
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
