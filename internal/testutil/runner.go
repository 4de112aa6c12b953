package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Response is a scripted result for one command.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error

	// Effect runs before the response is returned, e.g. to write a report file
	// the real tool would have produced.
	Effect func(argv []string)
}

// MockCommandRunner returns scripted responses keyed by the full command line
// ("coverage report --fail-under=85") or by program name ("coverage").
// Unscripted programs behave as if they were not installed.
type MockCommandRunner struct {
	mu        sync.Mutex
	responses map[string]Response
	programs  map[string]Response
	calls     [][]string
	workDirs  []string
}

// NewMockCommandRunner creates a new mock command runner.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		responses: make(map[string]Response),
		programs:  make(map[string]Response),
	}
}

// Set configures the response for an exact command line.
func (m *MockCommandRunner) Set(command string, resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[command] = resp
}

// SetProgram configures the response for any invocation of program.
func (m *MockCommandRunner) SetProgram(program string, resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.programs[program] = resp
}

// Run implements stage.CommandRunner.
func (m *MockCommandRunner) Run(_ context.Context, workDir string, argv []string) (stdout, stderr string, exitCode int, err error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string(nil), argv...))
	m.workDirs = append(m.workDirs, workDir)
	resp, ok := m.responses[strings.Join(argv, " ")]
	if !ok && len(argv) > 0 {
		resp, ok = m.programs[argv[0]]
	}
	m.mu.Unlock()

	if !ok {
		return "", "", -1, ErrMockNotFound
	}
	if resp.Effect != nil {
		resp.Effect(argv)
	}
	return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Err
}

// Calls returns every argv passed to Run, in order.
func (m *MockCommandRunner) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// WorkDirs returns the work directory of every call, in order.
func (m *MockCommandRunner) WorkDirs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.workDirs...)
}

// Called reports whether any invocation of program was made.
func (m *MockCommandRunner) Called(program string) bool {
	for _, argv := range m.Calls() {
		if len(argv) > 0 && argv[0] == program {
			return true
		}
	}
	return false
}

// StepClock is a deterministic clock that advances by Step on every Now call.
type StepClock struct {
	mu      sync.Mutex
	Current time.Time
	Step    time.Duration
}

// NewStepClock creates a clock starting at a fixed instant.
func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{
		Current: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Step:    step,
	}
}

// Now returns the current instant and advances the clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.Current
	c.Current = c.Current.Add(c.Step)
	return now
}

// TestContext returns a context carrying a no-op zerolog logger.
func TestContext() context.Context {
	logger := zerolog.Nop()
	return logger.WithContext(context.Background())
}
