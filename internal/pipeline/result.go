package pipeline

import (
	"time"

	"github.com/mrz1836/qgate/internal/audit"
	"github.com/mrz1836/qgate/internal/deps"
	"github.com/mrz1836/qgate/internal/junit"
	"github.com/mrz1836/qgate/internal/source"
	"github.com/mrz1836/qgate/internal/stage"
)

// Result is everything a run produced, up to the gate it stopped at.
type Result struct {
	RunID      string          `json:"run_id"`
	Source     source.Location `json:"source"`
	ReportsDir string          `json:"reports_dir"`

	// GateReached is the last gate that ran. StoppedAt is the same gate when
	// it failed and stopped the run, and empty when every gate ran.
	GateReached string `json:"gate_reached"`
	StoppedAt   string `json:"stopped_at,omitempty"`
	Failed      bool   `json:"failed"`

	// Stages holds every external stage in execution order.
	Stages []stage.Result `json:"stages"`

	Violations []audit.Violation `json:"violations,omitempty"`
	Deps       *deps.Report      `json:"deps,omitempty"`
	Tests      *junit.Outcome    `json:"-"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Stage returns the result of the named stage, if it ran.
func (r *Result) Stage(name string) (stage.Result, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return stage.Result{}, false
}
