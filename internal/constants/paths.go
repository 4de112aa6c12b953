package constants

// Log file names.
const (
	// CLILogFileName is the name of the rotating qgate log file.
	// This file is located in ~/.qgate/logs/qgate.log
	CLILogFileName = "qgate.log"

	// LogMaxSizeMB is the size at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is how many rotated log files are kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is how long rotated log files are kept.
	LogMaxAgeDays = 14

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// Configuration file location, relative to the working directory.
const (
	// ProjectConfigDir is the directory holding the optional project config.
	ProjectConfigDir = ".qgate"

	// ProjectConfigName is the optional project configuration file.
	ProjectConfigName = "config.yaml"
)

// Report artifact names written under the reports directory.
const (
	ReportChecks          = "server_checks.csv"
	ReportSummary         = "server_pipeline_summary.md"
	ReportDocstring       = "server_docstring_typesafe.csv"
	ReportDependencyTree  = "dependency_tree.txt"
	ReportRedundancy      = "server_dependencies_bloat.csv"
	ReportPytestOutput    = "server_pytest_output.log"
	ReportCoverage        = "coverage_report.log"
	ReportJUnit           = "junit.xml"
	ReportTestLog         = "server_test_log.csv"
	ReportTestLogMarkdown = "server_test_log.md"
	ReportJUnitParseError = "junit_parse_error.log"
	ReportMetrics         = "metrics.prom"
	ReportManifest        = "manifest.yaml"
)

// RunArtifacts lists every artifact a run may write. A new run removes them
// all first so a reused reports directory never mixes two runs.
func RunArtifacts() []string {
	return []string{
		ReportChecks,
		ReportSummary,
		ReportDocstring,
		ReportDependencyTree,
		ReportRedundancy,
		ReportPytestOutput,
		ReportCoverage,
		ReportJUnit,
		ReportTestLog,
		ReportTestLogMarkdown,
		ReportJUnitParseError,
		ReportMetrics,
		ReportManifest,
	}
}
