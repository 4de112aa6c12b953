package constants

import "time"

// ToolDetectionTimeout is the maximum duration for probing all tools in `qgate doctor`.
const ToolDetectionTimeout = 5 * time.Second

// External tool names invoked by the default stage commands.
const (
	ToolMypy       = "mypy"
	ToolFlake8     = "flake8"
	ToolIsort      = "isort"
	ToolBlack      = "black"
	ToolPydocstyle = "pydocstyle"
	ToolPipdeptree = "pipdeptree"
	ToolPip        = "pip"
	ToolCoverage   = "coverage"
	ToolGit        = "git"
)

// VersionFlagStandard is the standard version flag used by most tools.
const VersionFlagStandard = "--version"

// Gate names as they appear in logs, console output and the manifest.
const (
	GateStyle = "style"
	GateAudit = "audit"
	GateTest  = "test"
)

// Stage names as they appear in the tabular reports.
const (
	StageTypeCheck       = "Type Check"
	StageLintCheck       = "Lint Check"
	StageImportStyle     = "Import Style Check"
	StageFormatting      = "Formatting Check"
	StageDocstyle        = "Docstring Style (pydocstyle)"
	StageDepTree         = "Dependency Tree (pipdeptree)"
	StageDepTreeFallback = "Dependency Tree (pip freeze)"
	StageFreeze          = "Installed Packages (pip freeze)"
	StageTests           = "Pytest (with coverage + JUnit)"
	StageCoverage        = "Coverage Report"
)
