// Package testutil provides testing utilities for qgate.
//
// This package contains mock errors, a scripted command runner and a
// deterministic clock used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
var (
	// ErrMockNotFound simulates a program that is not on PATH.
	ErrMockNotFound = errors.New("executable file not found in $PATH")

	// ErrMockPermission simulates a program that exists but cannot be executed.
	ErrMockPermission = errors.New("permission denied")

	// ErrMockNetwork indicates a mock network error occurred (used in tests).
	ErrMockNetwork = errors.New("network error")
)
