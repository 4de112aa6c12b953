package report

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/mrz1836/qgate/internal/audit"
	"github.com/mrz1836/qgate/internal/constants"
	"github.com/mrz1836/qgate/internal/deps"
	"github.com/mrz1836/qgate/internal/junit"
	"github.com/mrz1836/qgate/internal/stage"
)

// Column headers, one per tabular artifact.
//
//nolint:gochecknoglobals // fixed report schemas
var (
	ChecksHeader     = []string{"Check", "Result", "Time(s)", "Details"}
	DocstringHeader  = []string{"File", "Symbol", "Violation"}
	RedundancyHeader = []string{"Area", "Item", "Issue"}
	TestLogHeader    = []string{"File/Class", "TestName", "ParamsInName", "Result", "Elapsed(s)"}
)

// docstyleSource and docstyleSymbol fill the first two columns of the
// pseudo-rows copied from the external docstring tool.
const (
	docstyleSource = "pydocstyle"
	docstyleSymbol = "-"
)

// EncodeCSV renders a header and rows with CRLF line endings.
func EncodeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Store) writeCSV(name string, header []string, rows [][]string) error {
	data, err := EncodeCSV(header, rows)
	if err != nil {
		return err
	}
	return s.WriteFile(name, data)
}

// CheckRows converts stage results to rows of the checks table.
func CheckRows(results []stage.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Name, string(r.Status), FormatSeconds(r.ElapsedSeconds), r.Details()})
	}
	return rows
}

// WriteChecks writes the Gate-1 checks table.
func (s *Store) WriteChecks(results []stage.Result) error {
	return s.writeCSV(constants.ReportChecks, ChecksHeader, CheckRows(results))
}

// DocstringRows copies the docstring tool's stdout and then stderr line by
// line as pseudo-rows, followed by the in-process violations.
func DocstringRows(docstyle stage.Result, violations []audit.Violation) [][]string {
	var rows [][]string
	for _, stream := range []string{docstyle.Stdout, docstyle.Stderr} {
		for _, line := range outputLines(stream) {
			rows = append(rows, []string{docstyleSource, docstyleSymbol, line})
		}
	}
	for _, v := range violations {
		rows = append(rows, []string{v.File, v.Symbol, v.Issue})
	}
	return rows
}

// WriteDocstring writes the Gate-2 docstring and type-hint table.
func (s *Store) WriteDocstring(docstyle stage.Result, violations []audit.Violation) error {
	return s.writeCSV(constants.ReportDocstring, DocstringHeader, DocstringRows(docstyle, violations))
}

// WriteRedundancy writes the redundancy findings table.
func (s *Store) WriteRedundancy(findings []deps.Finding) error {
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []string{f.Area, f.Item, f.Issue})
	}
	return s.writeCSV(constants.ReportRedundancy, RedundancyHeader, rows)
}

// TestLogRows converts interpreted test cases to rows of the per-test
// table. Elapsed time is rounded to milliseconds.
func TestLogRows(records []junit.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ClassOrFile,
			r.TestName,
			r.ParamsHint,
			string(r.Result),
			FormatSeconds(roundTo(r.ElapsedSeconds, 3)),
		})
	}
	return rows
}

// WriteTestLog writes the Gate-3 per-test table.
func (s *Store) WriteTestLog(records []junit.Record) error {
	return s.writeCSV(constants.ReportTestLog, TestLogHeader, TestLogRows(records))
}

// outputLines splits trimmed tool output into lines; blank output has none.
func outputLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
