package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/qgate/internal/config"
	"github.com/mrz1836/qgate/internal/constants"
	"github.com/mrz1836/qgate/internal/testutil"
	"github.com/mrz1836/qgate/internal/tui"
)

// pathExecutor finds only the listed programs and answers --version with a banner.
type pathExecutor map[string]string

func (e pathExecutor) LookPath(file string) (string, error) {
	if _, ok := e[file]; ok {
		return "/usr/bin/" + file, nil
	}
	return "", testutil.ErrMockNotFound
}

func (e pathExecutor) Run(_ context.Context, name string, _ ...string) (string, error) {
	return e[name], nil
}

func allToolsExecutor() pathExecutor {
	return pathExecutor{
		constants.ToolMypy:       "mypy 1.8.0 (compiled: yes)",
		constants.ToolFlake8:     "7.0.0 (mccabe: 0.7.0)",
		constants.ToolIsort:      "VERSION 5.13.2",
		constants.ToolBlack:      "black, 24.1.1 (compiled: yes)",
		constants.ToolPydocstyle: "6.3.0",
		constants.ToolPipdeptree: "2.16.1",
		constants.ToolPip:        "pip 24.0 from /usr/lib/python3",
		constants.ToolCoverage:   "Coverage.py, version 7.4.1",
	}
}

func TestRunDoctor_AllInstalled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	detector := config.NewToolDetectorWithExecutor(config.DefaultConfig(), allToolsExecutor())
	err := runDoctor(testutil.TestContext(), tui.NewOutput(&buf, OutputText), OutputText, detector)

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "mypy")
	assert.Contains(t, output, "1.8.0")
	assert.Contains(t, output, "All required tools are installed.")
}

func TestRunDoctor_MissingToolNeverFails(t *testing.T) {
	t.Parallel()

	executor := allToolsExecutor()
	delete(executor, constants.ToolBlack)
	delete(executor, constants.ToolPipdeptree)

	var buf bytes.Buffer
	detector := config.NewToolDetectorWithExecutor(config.DefaultConfig(), executor)
	err := runDoctor(testutil.TestContext(), tui.NewOutput(&buf, OutputText), OutputText, detector)

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "pip install black")
	assert.Contains(t, output, "Missing required tools: black")
	assert.NotContains(t, output, "Missing required tools: black, pipdeptree")
}

func TestRunDoctor_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	detector := config.NewToolDetectorWithExecutor(config.DefaultConfig(), allToolsExecutor())
	require.NoError(t, runDoctor(testutil.TestContext(), tui.NewOutput(&buf, OutputJSON), OutputJSON, detector))

	var result struct {
		Tools []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"tools"`
		HasMissingRequired bool `json:"has_missing_required"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result.Tools, 8)
	assert.Equal(t, constants.ToolBlack, result.Tools[0].Name)
	assert.Equal(t, "installed", result.Tools[0].Status)
	assert.False(t, result.HasMissingRequired)
}
