package stage_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qgerrors "github.com/mrz1836/qgate/internal/errors"
	"github.com/mrz1836/qgate/internal/stage"
	"github.com/mrz1836/qgate/internal/testutil"
)

func TestExecutor_Run_Pass(t *testing.T) {
	t.Parallel()

	runner := testutil.NewMockCommandRunner()
	runner.Set("mypy src", testutil.Response{Stdout: "Success: no issues found\n"})
	exec := stage.NewExecutorWithRunner(runner, testutil.NewStepClock(1230*time.Millisecond))

	result, err := exec.Run(testutil.TestContext(), "Type Check", []string{"mypy", "src"})

	require.NoError(t, err)
	assert.Equal(t, "Type Check", result.Name)
	assert.Equal(t, stage.StatusPass, result.Status)
	assert.True(t, result.Passed())
	assert.Equal(t, 0, result.ExitCode)
	assert.InDelta(t, 1.23, result.ElapsedSeconds, 1e-9)
	assert.Equal(t, "Success: no issues found", result.Details())
}

func TestExecutor_Run_StatusFollowsExitCode(t *testing.T) {
	t.Parallel()

	for _, code := range []int{0, 1, 2, 127} {
		runner := testutil.NewMockCommandRunner()
		runner.SetProgram("flake8", testutil.Response{ExitCode: code, Stdout: "x", Stderr: "y"})
		exec := stage.NewExecutorWithRunner(runner, testutil.NewStepClock(time.Millisecond))

		result, err := exec.Run(testutil.TestContext(), "Lint Check", []string{"flake8", "src"})
		require.NoError(t, err)

		assert.Equal(t, code != 0, result.Status == stage.StatusFail, "exit code %d", code)
		assert.GreaterOrEqual(t, result.ElapsedSeconds, 0.0)
		assert.Equal(t, "x\ny", result.Details())
		assert.Equal(t, "x\ny", result.CombinedOutput())
	}
}

func TestExecutor_Run_LaunchFailure(t *testing.T) {
	t.Parallel()

	runner := testutil.NewMockCommandRunner()
	exec := stage.NewExecutorWithRunner(runner, nil)

	_, err := exec.Run(testutil.TestContext(), "Formatting Check", []string{"black", "--check", "src"})

	require.Error(t, err)
	require.ErrorIs(t, err, qgerrors.ErrStageLaunch)
	require.ErrorIs(t, err, testutil.ErrMockNotFound)
	assert.Contains(t, err.Error(), "Formatting Check")
}

func TestExecutor_Run_EmptyCommand(t *testing.T) {
	t.Parallel()

	exec := stage.NewExecutorWithRunner(testutil.NewMockCommandRunner(), nil)

	_, err := exec.Run(testutil.TestContext(), "Lint Check", nil)
	require.ErrorIs(t, err, qgerrors.ErrEmptyCommand)

	_, err = exec.Run(testutil.TestContext(), "Lint Check", []string{" "})
	require.ErrorIs(t, err, qgerrors.ErrEmptyCommand)
}

func TestExecutor_Run_WorkDir(t *testing.T) {
	t.Parallel()

	runner := testutil.NewMockCommandRunner()
	runner.SetProgram("npx", testutil.Response{})
	exec := stage.NewExecutorWithRunner(runner, nil)
	exec.SetWorkDir("/srv/client")

	_, err := exec.Run(testutil.TestContext(), "Client/UI Tests", []string{"npx", "ts-node", "r.ts"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/client"}, runner.WorkDirs())
}

// liveRunner records whether the live output path was taken.
type liveRunner struct {
	*testutil.MockCommandRunner

	usedLive bool
}

func (r *liveRunner) RunWithLiveOutput(ctx context.Context, workDir string, argv []string, w io.Writer) (string, string, int, error) {
	r.usedLive = true
	stdout, stderr, code, err := r.Run(ctx, workDir, argv)
	_, _ = io.WriteString(w, stdout)
	return stdout, stderr, code, err
}

func TestExecutor_Run_LiveOutput(t *testing.T) {
	t.Parallel()

	runner := &liveRunner{MockCommandRunner: testutil.NewMockCommandRunner()}
	runner.SetProgram("qgate", testutil.Response{Stdout: "=== gate 1 ===\n"})
	exec := stage.NewExecutorWithRunner(runner, nil)

	var live bytes.Buffer
	exec.SetLiveOutput(&live)

	result, err := exec.Run(testutil.TestContext(), "Server Tests", []string{"qgate", "run"})
	require.NoError(t, err)
	assert.True(t, runner.usedLive)
	assert.True(t, result.Passed())
	assert.Equal(t, "=== gate 1 ===\n", live.String())
}

func TestExpand(t *testing.T) {
	t.Parallel()

	argv := []string{"coverage", "run", "-m", "pytest", "--junitxml={junit}", "{src}", "--cov-report=html:{reports}/html"}
	got := stage.Expand(argv, stage.Vars{Source: "/w/src", Reports: "/w/r", JUnit: "/w/r/junit.xml"})

	assert.Equal(t, []string{"coverage", "run", "-m", "pytest", "--junitxml=/w/r/junit.xml", "/w/src", "--cov-report=html:/w/r/html"}, got)
	assert.Equal(t, "{src}", argv[5], "input is not modified")
}

func TestStatusFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, stage.StatusPass, stage.StatusFor(0))
	assert.Equal(t, stage.StatusFail, stage.StatusFor(1))
	assert.Equal(t, stage.StatusFail, stage.StatusFor(-1))
}
