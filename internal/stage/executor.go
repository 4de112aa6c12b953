package stage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/qgate/internal/clock"
	qgerrors "github.com/mrz1836/qgate/internal/errors"
)

// Executor runs stages one at a time. No timeout is applied: a tool that
// never exits blocks the caller.
type Executor struct {
	runner     CommandRunner
	clock      clock.Clock
	workDir    string
	liveOutput io.Writer // Optional: if set, streams command output in real-time
}

// NewExecutor creates an executor with the default command runner and real clock.
func NewExecutor() *Executor {
	return &Executor{
		runner: &DefaultCommandRunner{},
		clock:  clock.RealClock{},
	}
}

// NewExecutorWithRunner creates an executor with a custom runner and clock (for testing).
func NewExecutorWithRunner(runner CommandRunner, clk clock.Clock) *Executor {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Executor{
		runner: runner,
		clock:  clk,
	}
}

// SetWorkDir sets the directory commands run in. Empty means the process working directory.
func (e *Executor) SetWorkDir(dir string) {
	e.workDir = dir
}

// SetLiveOutput configures the executor to stream command output in real-time.
// When set, stdout and stderr are written to w as they are produced.
func (e *Executor) SetLiveOutput(w io.Writer) {
	e.liveOutput = w
}

// Run executes one stage and classifies it PASS when the exit code is 0.
// A non-zero exit is not an error. The returned error is non-nil only when
// argv is empty or the program could not be launched; it wraps ErrStageLaunch
// in the latter case.
func (e *Executor) Run(ctx context.Context, name string, argv []string) (Result, error) {
	log := zerolog.Ctx(ctx)

	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return Result{Name: name}, fmt.Errorf("%w: %s", qgerrors.ErrEmptyCommand, name)
	}

	log.Info().
		Str("stage", name).
		Strs("argv", argv).
		Str("work_dir", e.workDir).
		Msg("executing stage")

	startedAt := e.clock.Now()
	stdout, stderr, exitCode, runErr := e.execute(ctx, argv)
	completedAt := e.clock.Now()

	if runErr != nil {
		log.Error().
			Err(runErr).
			Str("stage", name).
			Str("program", argv[0]).
			Msg("stage command could not be launched")
		return Result{Name: name, Argv: argv}, fmt.Errorf("%w: %s (%s): %w", qgerrors.ErrStageLaunch, name, argv[0], runErr)
	}

	result := Result{
		Name:           name,
		Argv:           argv,
		Status:         StatusFor(exitCode),
		ExitCode:       exitCode,
		ElapsedSeconds: clock.ElapsedSeconds(startedAt, completedAt),
		Stdout:         stdout,
		Stderr:         stderr,
		StartedAt:      startedAt,
		CompletedAt:    completedAt,
	}

	event := log.Info()
	if !result.Passed() {
		event = log.Warn().Str("stderr", result.Stderr)
	}
	event.
		Str("stage", name).
		Str("status", string(result.Status)).
		Int("exit_code", exitCode).
		Float64("elapsed_seconds", result.ElapsedSeconds).
		Msg("stage completed")

	return result, nil
}

// execute runs argv and returns raw output.
func (e *Executor) execute(ctx context.Context, argv []string) (stdout, stderr string, exitCode int, err error) {
	if e.liveOutput != nil {
		if liveRunner, ok := e.runner.(LiveOutputRunner); ok {
			return liveRunner.RunWithLiveOutput(ctx, e.workDir, argv, e.liveOutput)
		}
	}
	return e.runner.Run(ctx, e.workDir, argv)
}

// Runner is the stage execution contract consumed by the gates.
type Runner interface {
	Run(ctx context.Context, name string, argv []string) (Result, error)
}

// Ensure Executor implements Runner.
var _ Runner = (*Executor)(nil)
