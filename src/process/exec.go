// Package process is the single, narrow choke point every external
// program invocation (virtualenv, dpkg-architecture, dpkg-deb,
// packagemaker) runs through.
package process

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/thought-machine/hackbuild/src/cli/logging"
)

var log = logging.Log

// ToolFailedError is raised when a spawned external tool exits non-zero.
// It carries the full argv, exit code, and captured output so a caller
// reporting the failure never has to reach for state captured in an
// outer scope.
type ToolFailedError struct {
	Argv     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ToolFailedError) Error() string {
	return fmt.Sprintf("command %v exited %d: %s", e.Argv, e.ExitCode, e.Stderr)
}

// Run spawns argv[0] with the remaining elements of argv as its
// arguments, with stdin closed and stdout/stderr captured, in the
// optionally given working directory (empty string for the caller's
// own cwd). It blocks until the subprocess exits. A non-zero exit
// status is reported as a *ToolFailedError carrying the captured
// streams; any other failure to launch is returned as-is.
func Run(ctx context.Context, argv []string, cwd string) (stdout, stderr string, err error) {
	if len(argv) == 0 {
		return "", "", fmt.Errorf("process.Run: empty argv")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	cmd.Stdin = nil

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	log.Debug("running %v", argv)
	runErr := cmd.Run()
	stdout, stderr = outBuf.String(), errBuf.String()

	if runErr == nil {
		return stdout, stderr, nil
	}
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		return stdout, stderr, &ToolFailedError{
			Argv:     argv,
			ExitCode: exitErr.ExitCode(),
			Stdout:   stdout,
			Stderr:   stderr,
		}
	}
	return stdout, stderr, runErr
}
