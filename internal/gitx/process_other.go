//go:build !unix

package gitx

import "os/exec"

// killProcessGroup keeps the default behavior of killing only the git process.
func killProcessGroup(*exec.Cmd) {}
