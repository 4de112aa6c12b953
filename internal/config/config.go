// Package config provides configuration management for qgate with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (applied by the cli package, e.g. `qgate run --out`)
//  2. Environment variables (QGATE_* prefix, plus REPO_URL for source.repo_url)
//  3. Project config (.qgate/config.yaml in the working directory)
//  4. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

// Config is the root configuration structure for qgate.
type Config struct {
	// Source controls how the directory under analysis is located.
	Source SourceConfig `yaml:"source" mapstructure:"source" json:"source"`

	// Reports controls where report artifacts are written.
	Reports ReportsConfig `yaml:"reports" mapstructure:"reports" json:"reports"`

	// Stages holds the argv of every external tool invocation.
	Stages StagesConfig `yaml:"stages" mapstructure:"stages" json:"stages"`

	// Aggregate lists the sibling pipelines run by `qgate aggregate`.
	Aggregate AggregateConfig `yaml:"aggregate" mapstructure:"aggregate" json:"aggregate"`
}

// SourceConfig contains settings for the source locator.
type SourceConfig struct {
	// RootName is the directory name searched for under the working tree.
	// Default: "src"
	RootName string `yaml:"root_name" mapstructure:"root_name" json:"root_name"`

	// RepoURL is cloned when no local source root exists. Bound to REPO_URL.
	RepoURL string `yaml:"repo_url" mapstructure:"repo_url" json:"repo_url"`

	// CloneDir is the local path the repository is cloned into.
	// Default: "repo"
	CloneDir string `yaml:"clone_dir" mapstructure:"clone_dir" json:"clone_dir"`
}

// ReportsConfig contains settings for report output.
type ReportsConfig struct {
	// Dir is the reports directory, relative to the working directory unless absolute.
	// Default: "server/reports"
	Dir string `yaml:"dir" mapstructure:"dir" json:"dir"`
}

// StagesConfig holds the command line for each stage.
// Arguments may contain the {src}, {reports} and {junit} placeholders.
type StagesConfig struct {
	TypeCheck       []string `yaml:"type_check" mapstructure:"type_check" json:"type_check"`
	Lint            []string `yaml:"lint" mapstructure:"lint" json:"lint"`
	ImportStyle     []string `yaml:"import_style" mapstructure:"import_style" json:"import_style"`
	Formatting      []string `yaml:"formatting" mapstructure:"formatting" json:"formatting"`
	Docstyle        []string `yaml:"docstyle" mapstructure:"docstyle" json:"docstyle"`
	DepTree         []string `yaml:"dep_tree" mapstructure:"dep_tree" json:"dep_tree"`
	DepTreeFallback []string `yaml:"dep_tree_fallback" mapstructure:"dep_tree_fallback" json:"dep_tree_fallback"`
	Freeze          []string `yaml:"freeze" mapstructure:"freeze" json:"freeze"`
	Tests           []string `yaml:"tests" mapstructure:"tests" json:"tests"`
	Coverage        []string `yaml:"coverage" mapstructure:"coverage" json:"coverage"`
}

// Named returns the stage commands keyed by their config key, in execution order.
func (s StagesConfig) Named() []NamedCommand {
	return []NamedCommand{
		{Key: "type_check", Argv: s.TypeCheck},
		{Key: "lint", Argv: s.Lint},
		{Key: "import_style", Argv: s.ImportStyle},
		{Key: "formatting", Argv: s.Formatting},
		{Key: "docstyle", Argv: s.Docstyle},
		{Key: "dep_tree", Argv: s.DepTree},
		{Key: "dep_tree_fallback", Argv: s.DepTreeFallback},
		{Key: "freeze", Argv: s.Freeze},
		{Key: "tests", Argv: s.Tests},
		{Key: "coverage", Argv: s.Coverage},
	}
}

// NamedCommand pairs a stage config key with its argv.
type NamedCommand struct {
	Key  string
	Argv []string
}

// AggregateConfig contains the pipelines run by the aggregator.
type AggregateConfig struct {
	Pipelines []PipelineConfig `yaml:"pipelines" mapstructure:"pipelines" json:"pipelines"`
}

// PipelineConfig describes one sibling pipeline.
type PipelineConfig struct {
	// Name is printed as the section heading, e.g. "Server Tests".
	Name string `yaml:"name" mapstructure:"name" json:"name"`

	// Command is the argv to run. Its first element is probed before launch.
	Command []string `yaml:"command" mapstructure:"command" json:"command"`

	// Dir is the working directory. When set and missing, the pipeline is skipped.
	Dir string `yaml:"dir" mapstructure:"dir" json:"dir,omitempty"`
}
