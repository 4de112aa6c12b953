package tui

import (
	"io"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Output is where commands write what the user sees.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error, with a suggested action when one is known.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// Heading prints a section heading.
	Heading(msg string)
	// Table prints rows under headers.
	Table(headers []string, rows [][]string)
	// Stage reports a step of a gate changing status.
	Stage(gate, step, status string)
	// JSON outputs a value as JSON.
	JSON(v any) error
}

// NewOutput returns JSON output for FormatJSON and styled output otherwise.
func NewOutput(w io.Writer, format string) Output {
	if format == FormatJSON {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}
