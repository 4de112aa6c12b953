package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/qgate/internal/audit"
	"github.com/mrz1836/qgate/internal/constants"
	"github.com/mrz1836/qgate/internal/deps"
	"github.com/mrz1836/qgate/internal/junit"
	"github.com/mrz1836/qgate/internal/report"
	"github.com/mrz1836/qgate/internal/source"
	"github.com/mrz1836/qgate/internal/stage"
)

// Step names reported through ProgressCallback for in-process checks.
const (
	StepDeclarationAudit = "Declaration Audit"
	StepDependencyAudit  = "Dependency Audit"
	StepTestReport       = "Test Report"
)

// styleGate runs the four style stages without short-circuiting, then
// writes the checks table and starts the summary.
func (r *run) styleGate(ctx context.Context) (bool, error) {
	stages := r.config.Stages
	commands := []struct {
		name string
		argv []string
	}{
		{constants.StageTypeCheck, stages.TypeCheck},
		{constants.StageLintCheck, stages.Lint},
		{constants.StageImportStyle, stages.ImportStyle},
		{constants.StageFormatting, stages.Formatting},
	}

	failed := false
	checks := make([]stage.Result, 0, len(commands))
	for _, c := range commands {
		result, err := r.runStage(ctx, constants.GateStyle, c.name, c.argv)
		if err != nil {
			return true, err
		}
		checks = append(checks, result)
		failed = failed || !result.Passed()
	}

	if err := r.store.WriteChecks(checks); err != nil {
		return failed, err
	}
	return failed, r.store.StartSummary(r.result.RunID, checks)
}

// auditGate runs the docstring tool, the declaration audit and the
// dependency audit, then writes their reports and the summary section.
func (r *run) auditGate(ctx context.Context) (bool, error) {
	log := zerolog.Ctx(ctx)

	docstyle, err := r.runStage(ctx, constants.GateAudit, constants.StageDocstyle, r.config.Stages.Docstyle)
	if err != nil {
		return true, err
	}

	r.progress(constants.GateAudit, StepDeclarationAudit, ProgressStarting)
	files, err := source.PythonFiles(r.result.Source.Root)
	if err != nil {
		return true, err
	}
	auditor := audit.NewAuditor()
	auditor.SetProgress(r.config.Progress)
	violations := auditor.AuditFiles(ctx, files)
	r.result.Violations = violations
	r.metrics.AddViolations(report.ViolationDocstring, len(violations))
	r.progress(constants.GateAudit, StepDeclarationAudit, statusFor(len(violations) > 0))

	r.progress(constants.GateAudit, StepDependencyAudit, ProgressStarting)
	stages := r.config.Stages
	depAuditor := deps.NewAuditor(r.runner, r.config.ToolChecker, deps.Commands{
		Tree:         stage.Expand(stages.DepTree, r.vars),
		TreeFallback: stage.Expand(stages.DepTreeFallback, r.vars),
		Freeze:       stage.Expand(stages.Freeze, r.vars),
	})
	depReport, err := depAuditor.Run(ctx)
	if err != nil {
		return true, err
	}
	r.result.Deps = &depReport
	r.result.Stages = append(r.result.Stages, depReport.Tree, depReport.Freeze)
	r.metrics.ObserveStage(constants.GateAudit, depReport.Tree)
	r.metrics.ObserveStage(constants.GateAudit, depReport.Freeze)
	r.metrics.AddViolations(report.ViolationRedundancy, len(depReport.Findings))
	r.progress(constants.GateAudit, StepDependencyAudit, statusFor(depReport.Failed()))

	failed := !docstyle.Passed() || len(violations) > 0 || depReport.Failed()
	log.Info().
		Str("docstyle", string(docstyle.Status)).
		Int("violations", len(violations)).
		Int("redundancies", len(depReport.Findings)).
		Bool("tree_fallback", depReport.UsedFallback).
		Msg("audit gate results")

	if err := r.store.WriteDocstring(docstyle, violations); err != nil {
		return failed, err
	}
	if err := r.store.WriteText(constants.ReportDependencyTree, depReport.TreeText); err != nil {
		return failed, err
	}
	if err := r.store.WriteRedundancy(depReport.Findings); err != nil {
		return failed, err
	}
	return failed, r.store.AppendAuditSummary(report.AuditSection{
		DocstyleStatus:  docstyle.Status,
		ASTViolations:   len(violations),
		RedundancyFlags: len(depReport.Findings),
	})
}

// testGate runs the tests and the coverage threshold, then interprets the
// structured test report.
func (r *run) testGate(ctx context.Context) (bool, error) {
	log := zerolog.Ctx(ctx)

	// The runner may exit without writing a report; an older one must not
	// stand in for it.
	if err := r.store.Remove(constants.ReportJUnit); err != nil {
		return true, err
	}

	tests, err := r.runStage(ctx, constants.GateTest, constants.StageTests, r.config.Stages.Tests)
	if err != nil {
		return true, err
	}
	if err := r.store.WriteText(constants.ReportPytestOutput, tests.CombinedOutput()); err != nil {
		return true, err
	}

	coverage, err := r.runStage(ctx, constants.GateTest, constants.StageCoverage, r.config.Stages.Coverage)
	if err != nil {
		return true, err
	}
	if err := r.store.WriteText(constants.ReportCoverage, coverage.CombinedOutput()); err != nil {
		return true, err
	}

	r.progress(constants.GateTest, StepTestReport, ProgressStarting)
	outcome := junit.Interpret(r.vars.JUnit)
	r.result.Tests = &outcome
	r.metrics.AddViolations(report.ViolationDuration, outcome.DurationViolations)
	if outcome.ParseErr != nil {
		r.metrics.AddViolations(report.ViolationJUnitParse, 1)
		log.Warn().Err(outcome.ParseErr).Str("path", r.vars.JUnit).Msg("structured test report could not be parsed")
		if err := r.store.WriteText(constants.ReportJUnitParseError, outcome.ParseErr.Error()); err != nil {
			return true, err
		}
	}
	r.progress(constants.GateTest, StepTestReport, statusFor(outcome.Failed()))

	failed := !tests.Passed() || !coverage.Passed() || outcome.Failed()
	log.Info().
		Str("tests", string(tests.Status)).
		Str("coverage", string(coverage.Status)).
		Int("test_cases", len(outcome.Records)).
		Int("duration_violations", outcome.DurationViolations).
		Msg("test gate results")

	if err := r.store.WriteTestLog(outcome.Records); err != nil {
		return failed, err
	}
	if err := r.store.WriteTestLogMarkdown(outcome.Records); err != nil {
		return failed, err
	}
	return failed, r.store.AppendTestSummary(report.TestSection{
		CoverageStatus:     coverage.Status,
		DurationViolations: outcome.DurationViolations,
	})
}

func statusFor(failed bool) string {
	if failed {
		return ProgressFailed
	}
	return ProgressCompleted
}
