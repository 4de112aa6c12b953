package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mrz1836/qgate/internal/constants"
	"github.com/mrz1836/qgate/internal/junit"
)

// TestLogMarkdown renders the per-test Markdown table. The test values
// column holds the parameter hint as a JSON string.
func TestLogMarkdown(records []junit.Record) string {
	var b strings.Builder
	b.WriteString("| file | function | test values | result | elapsed time |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, r := range records {
		values, err := json.Marshal(r.ParamsHint)
		if err != nil {
			values = []byte(`""`)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %.4fs |\n",
			escapeCell(r.ClassOrFile), escapeCell(r.TestName), escapeCell(string(values)), r.Result, r.ElapsedSeconds)
	}
	return b.String()
}

// WriteTestLogMarkdown writes the per-test Markdown table.
func (s *Store) WriteTestLogMarkdown(records []junit.Record) error {
	return s.WriteText(constants.ReportTestLogMarkdown, TestLogMarkdown(records))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
