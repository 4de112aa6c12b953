package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/qgate/internal/constants"
	qgerrors "github.com/mrz1836/qgate/internal/errors"
	"github.com/mrz1836/qgate/internal/report"
	"github.com/mrz1836/qgate/internal/testutil"
)

const summaryDoc = "# Server Pipeline Summary\n\n## Coding Checks\n- Type Check: PASS (0.1s)\n"

func TestRunSummary_NotFound(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := runSummary(testutil.TestContext(), &buf, OutputText, t.TempDir())
	require.ErrorIs(t, err, qgerrors.ErrSummaryNotFound)
	assert.Empty(t, buf.String())
}

// Rendering tests share the cached glamour renderer and stay serial.
func TestRunSummary_Text(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, report.NewStore(dir).WriteText(constants.ReportSummary, summaryDoc))

	var buf bytes.Buffer
	require.NoError(t, runSummary(testutil.TestContext(), &buf, OutputText, dir))
	assert.Contains(t, buf.String(), "Server Pipeline Summary")
	assert.Contains(t, buf.String(), "Type Check: PASS")
}

func TestRunSummary_JSONIncludesManifest(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := report.NewStore(dir)
	require.NoError(t, store.WriteText(constants.ReportSummary, summaryDoc))
	_, err := store.WriteManifest(report.Manifest{RunID: "run-1", Status: report.StatusPassed, GateReached: constants.GateTest})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, runSummary(testutil.TestContext(), &buf, OutputJSON, dir))

	var resp summaryResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, summaryDoc, resp.Markdown)
	assert.Equal(t, store.Path(constants.ReportSummary), resp.Path)
	require.NotNil(t, resp.Manifest)
	assert.Equal(t, "run-1", resp.Manifest.RunID)
	require.Len(t, resp.Manifest.Artifacts, 1)
	assert.Equal(t, constants.ReportSummary, resp.Manifest.Artifacts[0].Name)
}

func TestRenderMarkdown_PlainText(t *testing.T) {
	rendered := renderMarkdown("plain words")
	assert.Contains(t, rendered, "plain words")
}
