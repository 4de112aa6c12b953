package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/qgate/internal/constants"
	"github.com/mrz1836/qgate/internal/errors"
)

// HomeDir returns the qgate home directory used for log files.
// QGATE_HOME takes precedence over ~/.qgate.
func HomeDir() (string, error) {
	if home := os.Getenv(constants.EnvHome); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.QGateHome), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .qgate/config.yaml relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(constants.ProjectConfigDir, constants.ProjectConfigName)
}

// ReportsDir resolves the reports directory against workDir.
func (c *Config) ReportsDir(workDir string) string {
	if filepath.IsAbs(c.Reports.Dir) {
		return c.Reports.Dir
	}
	return filepath.Join(workDir, c.Reports.Dir)
}
