// Package pipeline runs the three quality gates in order and stops after
// the first gate that fails.
//
// Gates:
//  1. style: type check, lint, import style, formatting
//  2. audit: docstring style, declaration audit, dependency redundancy
//  3. test: tests under coverage, coverage threshold, per-test durations
//
// Every stage of a gate runs even after one fails. A failed gate writes its
// reports and ends the run; later gates never start.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/qgate/internal/audit"
	"github.com/mrz1836/qgate/internal/clock"
	"github.com/mrz1836/qgate/internal/config"
	"github.com/mrz1836/qgate/internal/constants"
	qgerrors "github.com/mrz1836/qgate/internal/errors"
	"github.com/mrz1836/qgate/internal/report"
	"github.com/mrz1836/qgate/internal/source"
	"github.com/mrz1836/qgate/internal/stage"
)

// Stage progress statuses passed to ProgressCallback.
const (
	ProgressStarting  = "starting"
	ProgressCompleted = "completed"
	ProgressFailed    = "failed"
)

// ProgressCallback is called before and after each step of a gate.
type ProgressCallback func(gate, step, status string)

// Locator resolves the source root.
type Locator interface {
	Locate(ctx context.Context, workDir string, exclude ...string) (source.Location, error)
}

// SequencerConfig holds what a run needs besides the stage runner.
type SequencerConfig struct {
	WorkDir    string
	ReportsDir string
	Stages     config.StagesConfig

	// ToolChecker decides between the dependency tree tool and its fallback.
	ToolChecker config.ToolChecker

	// Console receives the one-line gate announcements. Nil discards them.
	Console io.Writer

	// Progress renders declaration audit progress. Nil disables it.
	Progress audit.ProgressManager

	ProgressCallback ProgressCallback
	Clock            clock.Clock

	// RunID identifies the run in logs and reports. Generated when empty.
	RunID string
}

// Sequencer runs the gates.
type Sequencer struct {
	runner  stage.Runner
	locator Locator
	config  *SequencerConfig
}

// NewSequencer creates a gate sequencer.
func NewSequencer(runner stage.Runner, locator Locator, cfg *SequencerConfig) *Sequencer {
	if cfg == nil {
		cfg = &SequencerConfig{}
	}
	if cfg.ToolChecker == nil {
		cfg.ToolChecker = config.NewPathToolChecker()
	}
	return &Sequencer{
		runner:  runner,
		locator: locator,
		config:  cfg,
	}
}

// run is the state of one Run call.
type run struct {
	*Sequencer

	store   *report.Store
	metrics *report.Metrics
	vars    stage.Vars
	state   RunState
	result  *Result
}

// Run executes the gates. It returns ErrPipelineFailed when a gate failed,
// and any other error when the run could not be carried out at all (a
// stage that could not be launched, an unwritable reports directory, a
// failed clone). The Result is populated as far as the run got.
func (s *Sequencer) Run(ctx context.Context) (*Result, error) {
	clk := s.config.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	runID := s.config.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	r := &run{
		Sequencer: s,
		store:     report.NewStore(s.config.ReportsDir),
		metrics:   report.NewMetrics(),
		result: &Result{
			RunID:      runID,
			ReportsDir: s.config.ReportsDir,
			StartedAt:  clk.Now(),
		},
	}

	if err := r.store.EnsureDir(); err != nil {
		return r.result, err
	}
	if err := r.store.Clear(constants.RunArtifacts()...); err != nil {
		return r.result, err
	}

	loc, err := s.locator.Locate(ctx, s.config.WorkDir, s.config.ReportsDir)
	if err != nil {
		return r.result, err
	}
	r.result.Source = loc
	r.vars = stage.Vars{
		Source:  loc.Root,
		Reports: r.store.Dir(),
		JUnit:   r.store.Path(constants.ReportJUnit),
	}

	logger.Info().
		Str("source", loc.Root).
		Str("origin", string(loc.Origin)).
		Str("reports", r.store.Dir()).
		Msg("starting quality gates")

	gates := []struct {
		name string
		run  func(context.Context) (bool, error)
		stop string
	}{
		{constants.GateStyle, r.styleGate, "First pipeline failed, stopping before the audit gate."},
		{constants.GateAudit, r.auditGate, "Second pipeline failed, stopping before the test gate."},
		{constants.GateTest, r.testGate, ""},
	}

	for _, gate := range gates {
		r.result.GateReached = gate.name

		failed, err := gate.run(ctx)
		if err != nil {
			logger.Error().Err(err).Str("gate", gate.name).Msg("gate aborted")
			return r.result, err
		}
		r.state = r.state.Merge(failed)

		if err := r.writeMetrics(); err != nil {
			return r.result, err
		}

		logger.Info().Str("gate", gate.name).Bool("gate_failed", failed).Bool("run_failed", r.state.Failed()).Msg("gate finished")

		if r.state.Failed() && gate.stop != "" {
			r.result.StoppedAt = gate.name
			r.announce(gate.stop)
			return r.finish(ctx, clk)
		}
	}

	r.announce(fmt.Sprintf("Combined pipeline completed. Reports in %s", r.store.Dir()))
	return r.finish(ctx, clk)
}

// finish writes the manifest and turns the final state into an error.
func (r *run) finish(ctx context.Context, clk clock.Clock) (*Result, error) {
	r.result.Failed = r.state.Failed()
	r.result.CompletedAt = clk.Now()

	status := report.StatusPassed
	if r.state.Failed() {
		status = report.StatusFailed
	}
	if _, err := r.store.WriteManifest(report.Manifest{
		RunID:       r.result.RunID,
		Status:      status,
		GateReached: r.result.GateReached,
		StartedAt:   r.result.StartedAt,
		CompletedAt: r.result.CompletedAt,
	}); err != nil {
		return r.result, err
	}

	zerolog.Ctx(ctx).Info().
		Str("status", status).
		Str("gate_reached", r.result.GateReached).
		Msg("quality gates finished")

	if r.state.Failed() {
		return r.result, qgerrors.ErrPipelineFailed
	}
	return r.result, nil
}

func (r *run) writeMetrics() error {
	r.metrics.SetFailed(r.state.Failed())
	return r.store.WriteMetrics(r.metrics)
}

// runStage runs one configured command with placeholders expanded.
func (r *run) runStage(ctx context.Context, gate, name string, argv []string) (stage.Result, error) {
	r.progress(gate, name, ProgressStarting)

	result, err := r.runner.Run(ctx, name, stage.Expand(argv, r.vars))
	if err != nil {
		r.progress(gate, name, ProgressFailed)
		return result, err
	}
	r.record(gate, result)
	return result, nil
}

// record keeps a finished stage in the result and the metrics.
func (r *run) record(gate string, result stage.Result) {
	r.result.Stages = append(r.result.Stages, result)
	r.metrics.ObserveStage(gate, result)

	status := ProgressCompleted
	if !result.Passed() {
		status = ProgressFailed
	}
	r.progress(gate, result.Name, status)
}

func (r *run) progress(gate, step, status string) {
	if r.config.ProgressCallback != nil {
		r.config.ProgressCallback(gate, step, status)
	}
}

func (r *run) announce(msg string) {
	if r.config.Console != nil {
		_, _ = fmt.Fprintln(r.config.Console, msg)
	}
}
