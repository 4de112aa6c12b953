// Package errors provides centralized error handling for qgate.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrPipelineFailed indicates that at least one stage or check in a reached
	// gate failed. The reports directory holds the details.
	ErrPipelineFailed = errors.New("quality gate pipeline failed")

	// ErrStageLaunch indicates that an external tool could not be started at all
	// (missing binary, permission denied). This aborts the whole run.
	ErrStageLaunch = errors.New("stage command could not be launched")

	// ErrEmptyCommand indicates a stage was configured with an empty argv.
	ErrEmptyCommand = errors.New("stage command is empty")

	// ErrCloneFailed indicates that cloning the remote repository failed.
	ErrCloneFailed = errors.New("repository clone failed")

	// ErrSourceNotFound indicates that the resolved source root does not exist.
	ErrSourceNotFound = errors.New("source root not found")

	// ErrReportWrite indicates that a report artifact could not be written.
	ErrReportWrite = errors.New("report write failed")

	// ErrJUnitParse indicates that the structured test report could not be parsed.
	ErrJUnitParse = errors.New("structured test report could not be parsed")

	// ErrSourceParse indicates a source file contained syntax errors.
	ErrSourceParse = errors.New("source parse error")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidSource indicates an invalid source configuration value.
	ErrConfigInvalidSource = errors.New("invalid source configuration")

	// ErrConfigInvalidReports indicates an invalid reports configuration value.
	ErrConfigInvalidReports = errors.New("invalid reports configuration")

	// ErrConfigInvalidStages indicates an invalid stage command configuration.
	ErrConfigInvalidStages = errors.New("invalid stages configuration")

	// ErrConfigInvalidAggregate indicates an invalid aggregate pipeline entry.
	ErrConfigInvalidAggregate = errors.New("invalid aggregate configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrCommandNotConfigured indicates that a mock command was not configured in tests.
	ErrCommandNotConfigured = errors.New("command not configured")

	// ErrToolNotInstalled indicates that a required tool is not on PATH.
	ErrToolNotInstalled = errors.New("tool not installed")

	// ErrNoPipelines indicates that the aggregate command has nothing to run.
	ErrNoPipelines = errors.New("no pipelines configured")

	// ErrSummaryNotFound indicates the summary document has not been written yet.
	ErrSummaryNotFound = errors.New("summary not found")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
