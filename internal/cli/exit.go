package cli

import (
	stderrors "errors"
	"slices"
	"strings"

	"github.com/mrz1836/qgate/internal/errors"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates every reached gate passed.
	ExitSuccess = 0
	// ExitError indicates a failed pipeline or a fatal error.
	ExitError = 1
	// ExitInvalidInput indicates invalid user input.
	ExitInvalidInput = 2
)

// invalidInputErrors are the sentinels that mean the command line itself was wrong.
var invalidInputErrors = []error{errors.ErrInvalidOutputFormat} //nolint:gochecknoglobals // read-only lookup table

// cobraInputErrors are fragments of the messages Cobra returns for bad flags and arguments.
var cobraInputErrors = []string{ //nolint:gochecknoglobals // read-only lookup table
	"unknown flag",
	"unknown shorthand flag",
	"flag needs an argument",
	"invalid argument",
	"if any flags in the group",
	"required flag",
	"unknown command",
	"accepts 0 arg(s)",
}

// ExitCodeForError maps the error returned by Execute to the process exit
// status. A failed pipeline is 1, like any fatal error; 2 is reserved for
// a command line qgate could not act on.
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case isInvalidInput(err):
		return ExitInvalidInput
	default:
		return ExitError
	}
}

func isInvalidInput(err error) bool {
	if errors.IsExitCode2Error(err) {
		return true
	}
	for _, sentinel := range invalidInputErrors {
		if stderrors.Is(err, sentinel) {
			return true
		}
	}
	msg := err.Error()
	return slices.ContainsFunc(cobraInputErrors, func(fragment string) bool {
		return strings.Contains(msg, fragment)
	})
}
