package stage

import (
	"strings"
	"time"
)

// Status is the outcome of a stage.
type Status string

const (
	// StatusPass means the program exited with code 0.
	StatusPass Status = "PASS"

	// StatusFail means the program exited with any other code.
	StatusFail Status = "FAIL"
)

// Result captures the outcome of a single stage. It is never modified after
// the Executor returns it.
type Result struct {
	Name           string    `json:"name"`
	Argv           []string  `json:"argv"`
	Status         Status    `json:"status"`
	ExitCode       int       `json:"exit_code"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	Stdout         string    `json:"stdout"`
	Stderr         string    `json:"stderr"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Passed reports whether the stage exited with code 0.
func (r Result) Passed() bool {
	return r.Status == StatusPass
}

// Details is stdout and stderr joined by a newline, surrounding whitespace trimmed.
func (r Result) Details() string {
	return strings.TrimSpace(r.Stdout + "\n" + r.Stderr)
}

// CombinedOutput is stdout and stderr joined by a newline, untrimmed, as
// written to the raw log artifacts.
func (r Result) CombinedOutput() string {
	return r.Stdout + "\n" + r.Stderr
}

// StatusFor classifies an exit code.
func StatusFor(exitCode int) Status {
	if exitCode == 0 {
		return StatusPass
	}
	return StatusFail
}
