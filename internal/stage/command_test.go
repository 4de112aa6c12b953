package stage_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/qgate/internal/stage"
)

func TestDefaultCommandRunner_Run_SuccessfulCommand(t *testing.T) {
	runner := &stage.DefaultCommandRunner{}

	stdout, stderr, exitCode, err := runner.Run(context.Background(), t.TempDir(), []string{"sh", "-c", "echo hello"})

	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "hello\n", stdout)
	assert.Empty(t, stderr)
}

func TestDefaultCommandRunner_Run_NonZeroExitIsNotAnError(t *testing.T) {
	runner := &stage.DefaultCommandRunner{}

	stdout, stderr, exitCode, err := runner.Run(context.Background(), t.TempDir(), []string{"sh", "-c", "echo oops >&2; exit 42"})

	require.NoError(t, err)
	assert.Equal(t, 42, exitCode)
	assert.Empty(t, stdout)
	assert.Equal(t, "oops\n", stderr)
}

func TestDefaultCommandRunner_Run_MissingProgram(t *testing.T) {
	runner := &stage.DefaultCommandRunner{}

	_, _, exitCode, err := runner.Run(context.Background(), t.TempDir(), []string{"qgate-definitely-not-installed"})

	require.Error(t, err)
	assert.Equal(t, -1, exitCode)
}

func TestDefaultCommandRunner_Run_WorkingDirectory(t *testing.T) {
	runner := &stage.DefaultCommandRunner{}
	dir := t.TempDir()

	stdout, _, _, err := runner.Run(context.Background(), dir, []string{"pwd"})

	require.NoError(t, err)
	assert.Contains(t, stdout, dir)
}

func TestDefaultCommandRunner_RunWithLiveOutput(t *testing.T) {
	runner := &stage.DefaultCommandRunner{}
	var live bytes.Buffer

	stdout, stderr, exitCode, err := runner.RunWithLiveOutput(context.Background(), t.TempDir(),
		[]string{"sh", "-c", "echo out; echo err >&2"}, &live)

	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "out\n", stdout)
	assert.Equal(t, "err\n", stderr)
	assert.Contains(t, live.String(), "out")
	assert.Contains(t, live.String(), "err")
}
