package config

import (
	"strconv"

	"github.com/mrz1836/qgate/internal/constants"
)

// DefaultConfig returns a new Config with the default Python toolchain commands.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			RootName: constants.DefaultSourceRootName,
			CloneDir: constants.DefaultCloneDir,
		},
		Reports: ReportsConfig{
			Dir: constants.DefaultReportsDir,
		},
		Stages: DefaultStages(),
	}
}

// DefaultStages returns the stage commands used when nothing is configured.
func DefaultStages() StagesConfig {
	return StagesConfig{
		TypeCheck:       []string{constants.ToolMypy, constants.PlaceholderSource},
		Lint:            []string{constants.ToolFlake8, constants.PlaceholderSource},
		ImportStyle:     []string{constants.ToolIsort, "--check-only", constants.PlaceholderSource},
		Formatting:      []string{constants.ToolBlack, "--check", constants.PlaceholderSource},
		Docstyle:        []string{constants.ToolPydocstyle, constants.PlaceholderSource},
		DepTree:         []string{constants.ToolPipdeptree, "--freeze"},
		DepTreeFallback: []string{constants.ToolPip, "freeze"},
		Freeze:          []string{constants.ToolPip, "freeze"},
		Tests: []string{
			constants.ToolCoverage, "run", "-m", "pytest",
			"--maxfail=1", "--disable-warnings", "--junitxml=" + constants.PlaceholderJUnit,
		},
		Coverage: []string{
			constants.ToolCoverage, "report", "--fail-under=" + strconv.Itoa(constants.CoverageFailUnder),
		},
	}
}
