package config

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/qgate/internal/constants"
	"github.com/mrz1836/qgate/internal/errors"
)

// MockCommandExecutor is a test double for CommandExecutor.
type MockCommandExecutor struct {
	paths      map[string]string
	runResults map[string]struct {
		output string
		err    error
	}
}

// NewMockCommandExecutor creates a new mock executor.
func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{
		paths: make(map[string]string),
		runResults: make(map[string]struct {
			output string
			err    error
		}),
	}
}

// SetLookPath marks file as installed at path.
func (m *MockCommandExecutor) SetLookPath(file, path string) {
	m.paths[file] = path
}

// SetRun configures the response for Run.
func (m *MockCommandExecutor) SetRun(key, output string, err error) {
	m.runResults[key] = struct {
		output string
		err    error
	}{output, err}
}

// LookPath implements CommandExecutor.
func (m *MockCommandExecutor) LookPath(file string) (string, error) {
	if path, ok := m.paths[file]; ok {
		return path, nil
	}
	return "", exec.ErrNotFound
}

// Run implements CommandExecutor.
func (m *MockCommandExecutor) Run(_ context.Context, name string, args ...string) (string, error) {
	key := name + " " + strings.Join(args, " ")
	if result, ok := m.runResults[key]; ok {
		return result.output, result.err
	}
	return "", errors.ErrCommandNotConfigured
}

func TestToolStatus_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "installed", ToolStatusInstalled.String())
	assert.Equal(t, "missing", ToolStatusMissing.String())
	assert.Equal(t, "unknown", ToolStatus(42).String())

	data, err := ToolStatusInstalled.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"installed"`, string(data))
}

func TestDefaultToolDetector_Detect(t *testing.T) {
	t.Parallel()

	executor := NewMockCommandExecutor()
	executor.SetLookPath(constants.ToolMypy, "/usr/bin/mypy")
	executor.SetRun("mypy --version", "mypy 1.11.2 (compiled: yes)", nil)
	executor.SetLookPath(constants.ToolFlake8, "/usr/bin/flake8")
	executor.SetRun("flake8 --version", "7.1.1 (mccabe: 0.7.0)", nil)
	executor.SetLookPath(constants.ToolPip, "/usr/bin/pip")
	executor.SetRun("pip --version", "", assert.AnError)

	detector := NewToolDetectorWithExecutor(DefaultConfig(), executor)
	result, err := detector.Detect(context.Background())
	require.NoError(t, err)

	byName := make(map[string]Tool)
	for _, tool := range result.Tools {
		byName[tool.Name] = tool
	}

	require.Contains(t, byName, constants.ToolMypy)
	assert.Equal(t, ToolStatusInstalled, byName[constants.ToolMypy].Status)
	assert.Equal(t, "1.11.2", byName[constants.ToolMypy].CurrentVersion)
	assert.Equal(t, "7.1.1", byName[constants.ToolFlake8].CurrentVersion)
	assert.Equal(t, "unknown", byName[constants.ToolPip].CurrentVersion)

	pipdeptree := byName[constants.ToolPipdeptree]
	assert.Equal(t, ToolStatusMissing, pipdeptree.Status)
	assert.False(t, pipdeptree.Required, "pipdeptree has a fallback")

	pip := byName[constants.ToolPip]
	assert.True(t, pip.Required)
	assert.ElementsMatch(t, []string{"dep_tree_fallback", "freeze"}, pip.Stages)

	assert.True(t, result.HasMissingRequired)
	missing := result.MissingRequiredTools()
	names := make([]string, 0, len(missing))
	for _, tool := range missing {
		names = append(names, tool.Name)
	}
	assert.NotContains(t, names, constants.ToolPipdeptree)
	assert.Contains(t, names, constants.ToolCoverage)

	for i := 1; i < len(result.Tools); i++ {
		assert.Less(t, result.Tools[i-1].Name, result.Tools[i].Name, "tools are sorted by name")
	}
}

func TestDefaultToolDetector_IncludesAggregatePrograms(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Aggregate.Pipelines = []PipelineConfig{{Name: "Client/UI Tests", Command: []string{"npx", "ts-node", "r.ts"}}}

	result, err := NewToolDetectorWithExecutor(cfg, NewMockCommandExecutor()).Detect(context.Background())
	require.NoError(t, err)

	var found bool
	for _, tool := range result.Tools {
		if tool.Name == "npx" {
			found = true
			assert.False(t, tool.Required)
			assert.Equal(t, []string{"aggregate:Client/UI Tests"}, tool.Stages)
			assert.Contains(t, tool.InstallHint, "npx")
		}
	}
	assert.True(t, found)
}

func TestDefaultToolDetector_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewToolDetectorWithExecutor(DefaultConfig(), NewMockCommandExecutor()).Detect(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPathToolChecker(t *testing.T) {
	t.Parallel()

	executor := NewMockCommandExecutor()
	executor.SetLookPath("pipdeptree", "/usr/bin/pipdeptree")
	checker := NewPathToolCheckerWithExecutor(executor)

	assert.True(t, checker.IsInstalled("pipdeptree"))
	assert.False(t, checker.IsInstalled("npx"))
}
