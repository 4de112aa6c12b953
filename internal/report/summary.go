package report

import (
	"fmt"
	"strings"

	"github.com/mrz1836/qgate/internal/constants"
	"github.com/mrz1836/qgate/internal/stage"
)

// AuditSection is the Gate-2 part of the summary.
type AuditSection struct {
	DocstyleStatus  stage.Status
	ASTViolations   int
	RedundancyFlags int
}

// TestSection is the Gate-3 part of the summary.
type TestSection struct {
	CoverageStatus     stage.Status
	DurationViolations int
}

// SummaryHeader renders the document title, the run ID and the Gate-1 section.
func SummaryHeader(runID string, checks []stage.Result) string {
	var b strings.Builder
	b.WriteString("# Server Pipeline Summary\n\n")
	if runID != "" {
		fmt.Fprintf(&b, "Run ID: `%s`\n\n", runID)
	}
	b.WriteString("## Coding Checks\n")
	for _, r := range checks {
		fmt.Fprintf(&b, "- %s: %s (%ss)\n", r.Name, r.Status, FormatSeconds(r.ElapsedSeconds))
	}
	return b.String()
}

// Render returns the Gate-2 section.
func (a AuditSection) Render() string {
	var b strings.Builder
	b.WriteString("\n## Docstrings & TypeSafe\n")
	fmt.Fprintf(&b, "- pydocstyle: %s\n", a.DocstyleStatus)
	fmt.Fprintf(&b, "- AST violations: %d\n", a.ASTViolations)
	b.WriteString("\n## Dependencies\n")
	fmt.Fprintf(&b, "- Redundancy flags: %d\n", a.RedundancyFlags)
	fmt.Fprintf(&b, "- Tree: written to %s\n", constants.ReportDependencyTree)
	return b.String()
}

// Render returns the Gate-3 section.
func (t TestSection) Render() string {
	var b strings.Builder
	b.WriteString("\n## Tests\n")
	fmt.Fprintf(&b, "- Coverage: %s\n", t.CoverageStatus)
	fmt.Fprintf(&b, "- Per-test <3s violations: %d\n", t.DurationViolations)
	fmt.Fprintf(&b, "- JUnit: %s\n", constants.ReportJUnit)
	fmt.Fprintf(&b, "- Raw: %s\n", constants.ReportPytestOutput)
	return b.String()
}

// StartSummary creates the summary, replacing any file left by an earlier run.
func (s *Store) StartSummary(runID string, checks []stage.Result) error {
	return s.WriteText(constants.ReportSummary, SummaryHeader(runID, checks))
}

// AppendAuditSummary appends the Gate-2 section.
func (s *Store) AppendAuditSummary(section AuditSection) error {
	return s.AppendText(constants.ReportSummary, section.Render())
}

// AppendTestSummary appends the Gate-3 section.
func (s *Store) AppendTestSummary(section TestSection) error {
	return s.AppendText(constants.ReportSummary, section.Render())
}
