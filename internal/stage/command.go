// Package stage executes one external tool invocation and classifies its outcome.
//
// Commands come from the project configuration (.qgate/config.yaml) or QGATE_*
// environment variables and are executed directly, without a shell, so that a
// program that cannot be started is distinguishable from one that ran and failed.
package stage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

// CommandRunner defines the interface for executing external programs.
// This allows for testing by injecting mock implementations.
type CommandRunner interface {
	// Run executes argv in workDir. err is non-nil only when the program
	// could not be started; a non-zero exit is reported through exitCode.
	Run(ctx context.Context, workDir string, argv []string) (stdout, stderr string, exitCode int, err error)
}

// LiveOutputRunner defines a command runner that supports live output streaming.
type LiveOutputRunner interface {
	CommandRunner
	// RunWithLiveOutput executes argv and streams output to liveOut while also capturing it.
	RunWithLiveOutput(ctx context.Context, workDir string, argv []string, liveOut io.Writer) (stdout, stderr string, exitCode int, err error)
}

// DefaultCommandRunner implements CommandRunner and LiveOutputRunner using os/exec.
type DefaultCommandRunner struct{}

// Run executes argv and captures its output.
func (r *DefaultCommandRunner) Run(ctx context.Context, workDir string, argv []string) (stdout, stderr string, exitCode int, err error) {
	return r.runCommand(ctx, workDir, argv, nil)
}

// RunWithLiveOutput executes argv and streams output to liveOut while also capturing it.
func (r *DefaultCommandRunner) RunWithLiveOutput(ctx context.Context, workDir string, argv []string, liveOut io.Writer) (stdout, stderr string, exitCode int, err error) {
	return r.runCommand(ctx, workDir, argv, liveOut)
}

// runCommand executes argv with optional live output streaming.
func (r *DefaultCommandRunner) runCommand(ctx context.Context, workDir string, argv []string, liveOut io.Writer) (stdout, stderr string, exitCode int, err error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // argv comes from trusted project configuration
	cmd.Dir = workDir

	var outBuf, errBuf bytes.Buffer
	if liveOut != nil {
		cmd.Stdout = io.MultiWriter(&outBuf, liveOut)
		cmd.Stderr = io.MultiWriter(&errBuf, liveOut)
	} else {
		cmd.Stdout = &outBuf
		cmd.Stderr = &errBuf
	}

	runErr := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return stdout, stderr, exitErr.ExitCode(), nil
		}
		return stdout, stderr, -1, runErr
	}

	return stdout, stderr, 0, nil
}

// Ensure DefaultCommandRunner implements CommandRunner and LiveOutputRunner.
var (
	_ CommandRunner    = (*DefaultCommandRunner)(nil)
	_ LiveOutputRunner = (*DefaultCommandRunner)(nil)
)
