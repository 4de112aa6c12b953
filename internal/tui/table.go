package tui

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/mrz1836/qgate/internal/report"
	"github.com/mrz1836/qgate/internal/stage"
)

// StageHeaders are the columns of the stage results table.
//
//nolint:gochecknoglobals // fixed table schema
var StageHeaders = []string{"Stage", "Result", "Time(s)", "Exit", "Output"}

// maxDetailWidth bounds the output column of the stage table.
const maxDetailWidth = 60

// StageRows converts stage results to rows of the stage results table. The
// output column holds the first line of the stage's output, truncated.
func StageRows(results []stage.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Name,
			string(r.Status),
			report.FormatSeconds(r.ElapsedSeconds),
			strconv.Itoa(r.ExitCode),
			Truncate(firstLine(r.Details()), maxDetailWidth),
		})
	}
	return rows
}

// Truncate shortens s to at most width display columns, ending in "…".
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimRight(line, "\r")
}
