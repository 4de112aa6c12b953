package config

import (
	"strings"

	"github.com/mrz1836/qgate/internal/errors"
)

// requiredStages are the stage keys that must carry a program to run.
// dep_tree may be disabled; its fallback runs in its place and so is required.
var requiredStages = map[string]bool{ //nolint:gochecknoglobals // read-only lookup table
	"type_check":        true,
	"lint":              true,
	"import_style":      true,
	"formatting":        true,
	"docstyle":          true,
	"dep_tree_fallback": true,
	"freeze":            true,
	"tests":             true,
	"coverage":          true,
}

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - source.root_name must be a plain directory name
//   - source.clone_dir and reports.dir must not be empty
//   - every gate stage must name a program
//   - at least one of stages.dep_tree and stages.dep_tree_fallback must be set
//   - every aggregate pipeline needs a name and a command
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateSourceConfig(&cfg.Source); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.Reports.Dir) == "" {
		return errors.Wrap(errors.ErrConfigInvalidReports, "reports.dir must not be empty")
	}

	if err := validateStagesConfig(&cfg.Stages); err != nil {
		return err
	}

	return validateAggregateConfig(&cfg.Aggregate)
}

func validateSourceConfig(cfg *SourceConfig) error {
	name := strings.TrimSpace(cfg.RootName)
	if name == "" {
		return errors.Wrap(errors.ErrConfigInvalidSource, "source.root_name must not be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return errors.Wrapf(errors.ErrConfigInvalidSource,
			"source.root_name must be a directory name, got %q", cfg.RootName)
	}
	if strings.TrimSpace(cfg.CloneDir) == "" {
		return errors.Wrap(errors.ErrConfigInvalidSource, "source.clone_dir must not be empty")
	}
	return nil
}

func validateStagesConfig(cfg *StagesConfig) error {
	for _, stage := range cfg.Named() {
		if requiredStages[stage.Key] && !hasProgram(stage.Argv) {
			return errors.Wrapf(errors.ErrConfigInvalidStages,
				"stages.%s must name a program", stage.Key)
		}
	}
	return nil
}

func validateAggregateConfig(cfg *AggregateConfig) error {
	for i, p := range cfg.Pipelines {
		if strings.TrimSpace(p.Name) == "" {
			return errors.Wrapf(errors.ErrConfigInvalidAggregate,
				"aggregate.pipelines[%d].name must not be empty", i)
		}
		if !hasProgram(p.Command) {
			return errors.Wrapf(errors.ErrConfigInvalidAggregate,
				"aggregate.pipelines[%d] (%s) must name a program", i, p.Name)
		}
	}
	return nil
}

func hasProgram(argv []string) bool {
	return len(argv) > 0 && strings.TrimSpace(argv[0]) != ""
}
