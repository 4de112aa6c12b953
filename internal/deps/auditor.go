package deps

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/qgate/internal/config"
	"github.com/mrz1836/qgate/internal/constants"
	"github.com/mrz1836/qgate/internal/stage"
)

// Commands are the expanded argv of the dependency stages.
type Commands struct {
	Tree         []string
	TreeFallback []string
	Freeze       []string
}

// Report is the outcome of a dependency audit.
type Report struct {
	// Tree is the stage that produced TreeText; its status never fails the run.
	Tree         stage.Result
	TreeText     string
	UsedFallback bool

	Freeze    stage.Result
	Installed []string
	Findings  []Finding
}

// Failed reports whether any redundancy was flagged.
func (r Report) Failed() bool {
	return len(r.Findings) > 0
}

// Auditor runs the dependency stages.
type Auditor struct {
	runner  stage.Runner
	checker config.ToolChecker
	cmds    Commands
}

// NewAuditor creates an Auditor. checker decides between the preferred tree
// tool and its fallback before anything is launched.
func NewAuditor(runner stage.Runner, checker config.ToolChecker, cmds Commands) *Auditor {
	return &Auditor{runner: runner, checker: checker, cmds: cmds}
}

// Run captures the dependency tree, then lists installed packages and checks
// them for redundancy. Only a launch failure is returned as an error.
func (a *Auditor) Run(ctx context.Context) (Report, error) {
	log := zerolog.Ctx(ctx).With().Str("component", "deps").Logger()

	var report Report

	tree, usedFallback, err := a.tree(ctx)
	if err != nil {
		return report, err
	}
	report.Tree = tree
	report.UsedFallback = usedFallback
	report.TreeText = tree.Stdout
	if report.TreeText == "" {
		report.TreeText = tree.Stderr
	}

	freeze, err := a.runner.Run(ctx, constants.StageFreeze, a.cmds.Freeze)
	if err != nil {
		return report, err
	}
	installed := ParseFreeze(freeze.Stdout)
	report.Freeze = freeze
	report.Installed = SortedNames(installed)
	report.Findings = FindRedundancies(installed)

	log.Info().
		Bool("tree_fallback", usedFallback).
		Int("installed", len(report.Installed)).
		Int("redundancies", len(report.Findings)).
		Msg("dependency audit complete")

	return report, nil
}

// tree runs the preferred tree tool when it is installed, else the fallback.
func (a *Auditor) tree(ctx context.Context) (stage.Result, bool, error) {
	if len(a.cmds.Tree) > 0 && a.checker.IsInstalled(a.cmds.Tree[0]) {
		result, err := a.runner.Run(ctx, constants.StageDepTree, a.cmds.Tree)
		return result, false, err
	}

	zerolog.Ctx(ctx).Debug().Strs("fallback", a.cmds.TreeFallback).Msg("dependency tree tool not installed, using fallback")
	result, err := a.runner.Run(ctx, constants.StageDepTreeFallback, a.cmds.TreeFallback)
	return result, true, err
}
