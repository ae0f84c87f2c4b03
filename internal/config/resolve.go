// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Overrides carries command-line values. Nil fields are unset.
type Overrides struct {
	MaxDepth     *int
	Fetch        *bool
	FetchTimeout *int
	Format       *string
	Verbose      *bool
	ChangesOnly  *bool
	Remote       *string
	Jobs         *int
	// Exclude is appended to the configured patterns.
	Exclude []string
}

// Resolved is the fully merged set of parameters for one scan root.
type Resolved struct {
	MaxDepth     int
	Fetch        bool
	FetchTimeout time.Duration
	Format       string
	Verbose      bool
	ChangesOnly  bool
	Exclude      []string
	Remote       string
	Jobs         int
}

// Resolve merges cfg for target with precedence: overrides, then the first
// path config containing target, then defaults. It reads no global state.
func Resolve(cfg Config, target string, cli Overrides) Resolved {
	d := cfg.Defaults
	r := Resolved{
		MaxDepth:     d.MaxDepth,
		Fetch:        d.Fetch,
		FetchTimeout: seconds(d.FetchTimeout),
		Format:       d.Format,
		Verbose:      d.Verbose,
		ChangesOnly:  d.ChangesOnly,
		Exclude:      append([]string(nil), d.Exclude...),
		Remote:       d.Remote,
		Jobs:         d.Jobs,
	}

	if pc, ok := MatchPathConfig(cfg.PathConfigs, target); ok {
		if pc.MaxDepth != nil {
			r.MaxDepth = *pc.MaxDepth
		}
		if pc.Fetch != nil {
			r.Fetch = *pc.Fetch
		}
		if pc.FetchTimeout != nil {
			r.FetchTimeout = seconds(*pc.FetchTimeout)
		}
		if pc.Verbose != nil {
			r.Verbose = *pc.Verbose
		}
		if pc.ChangesOnly != nil {
			r.ChangesOnly = *pc.ChangesOnly
		}
		if pc.Remote != nil {
			r.Remote = *pc.Remote
		}
		r.Exclude = append(r.Exclude, pc.Exclude...)
	}

	if cli.MaxDepth != nil {
		r.MaxDepth = *cli.MaxDepth
	}
	if cli.Fetch != nil {
		r.Fetch = *cli.Fetch
	}
	if cli.FetchTimeout != nil {
		r.FetchTimeout = seconds(*cli.FetchTimeout)
	}
	if cli.Format != nil {
		r.Format = *cli.Format
	}
	if cli.Verbose != nil {
		r.Verbose = *cli.Verbose
	}
	if cli.ChangesOnly != nil {
		r.ChangesOnly = *cli.ChangesOnly
	}
	if cli.Remote != nil {
		r.Remote = *cli.Remote
	}
	if cli.Jobs != nil {
		r.Jobs = *cli.Jobs
	}
	r.Exclude = append(r.Exclude, cli.Exclude...)

	if r.Format == "" {
		r.Format = "text"
	}
	if r.Remote == "" {
		r.Remote = "origin"
	}
	return r
}

// MatchPathConfig returns the first path config whose path is target or an
// ancestor of target. Both sides are tilde-expanded and canonicalized.
func MatchPathConfig(configs []PathConfig, target string) (PathConfig, bool) {
	canonicalTarget := Canonicalize(target)
	for _, pc := range configs {
		base := Canonicalize(pc.Path)
		if base == "" {
			continue
		}
		if IsWithin(base, canonicalTarget) {
			return pc, true
		}
	}
	return PathConfig{}, false
}

// IsWithin reports whether path equals base or lies below it.
func IsWithin(base, path string) bool {
	if path == base {
		return true
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// Canonicalize expands a leading tilde, makes path absolute and resolves
// symlinks when the path exists.
func Canonicalize(path string) string {
	path = ExpandTilde(strings.TrimSpace(path))
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// ExpandTilde replaces a leading "~" with the user's home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

func seconds(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	return time.Duration(n) * time.Second
}
