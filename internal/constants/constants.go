// Package constants provides centralized constant values used throughout qgate.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

// Directory names and paths used by qgate.
const (
	// QGateHome is the hidden directory name where qgate keeps its own log files.
	// This directory is created in the user's home directory.
	QGateHome = ".qgate"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// DefaultSourceRootName is the directory name searched for under the working tree.
	DefaultSourceRootName = "src"

	// DefaultCloneDir is where REPO_URL is cloned when no source root exists locally.
	DefaultCloneDir = "repo"

	// DefaultReportsDir is the reports directory, relative to the working directory.
	DefaultReportsDir = "server/reports"
)

// Fixed gate thresholds.
const (
	// CoverageFailUnder is the minimum total coverage percentage for Gate 3.
	CoverageFailUnder = 85

	// MaxTestDurationSeconds is the per-test duration limit. A test strictly slower
	// than this is recorded as FAIL unless it was skipped.
	MaxTestDurationSeconds = 3.0
)

// Environment variables.
const (
	// EnvPrefix is the prefix for qgate environment variables (QGATE_REPORTS_DIR, ...).
	EnvPrefix = "QGATE"

	// EnvRepoURL supplies the optional remote repository to clone.
	EnvRepoURL = "REPO_URL"

	// EnvHome overrides the qgate home directory used for log files.
	EnvHome = "QGATE_HOME"
)

// Stage command placeholders expanded before execution.
const (
	// PlaceholderSource expands to the resolved source root.
	PlaceholderSource = "{src}"

	// PlaceholderReports expands to the reports directory.
	PlaceholderReports = "{reports}"

	// PlaceholderJUnit expands to the structured test report path.
	PlaceholderJUnit = "{junit}"
)
