// This file implements tool detection for `qgate doctor` and the capability
// probe used by stages that have a fallback strategy.
package config

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/qgate/internal/constants"
)

// versionRe matches the first dotted version number in a --version banner.
//
//nolint:gochecknoglobals // Package-level compiled regexes are a Go best practice for performance
var versionRe = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?)`)

// ToolStatus represents the installation status of an external tool.
type ToolStatus int

const (
	// ToolStatusMissing indicates the tool is not on PATH.
	ToolStatusMissing ToolStatus = iota

	// ToolStatusInstalled indicates the tool is on PATH.
	ToolStatusInstalled
)

// String returns a human-readable representation of the tool status.
func (s ToolStatus) String() string {
	switch s {
	case ToolStatusInstalled:
		return "installed"
	case ToolStatusMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for human-readable JSON output.
func (s ToolStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Tool represents an external program some stage invokes.
type Tool struct {
	// Name is the program name as it appears in argv[0].
	Name string `json:"name"`

	// Required is false only for programs whose every stage has a fallback.
	Required bool `json:"required"`

	// Stages lists the stage config keys that invoke this program.
	Stages []string `json:"stages"`

	// CurrentVersion is the detected version, "unknown" when it could not be parsed.
	CurrentVersion string `json:"current_version,omitempty"`

	// Status is the current installation status.
	Status ToolStatus `json:"status"`

	// InstallHint provides installation instructions for missing tools.
	InstallHint string `json:"install_hint,omitempty"`
}

// ToolDetectionResult holds the results of detecting all tools.
type ToolDetectionResult struct {
	Tools []Tool `json:"tools"`

	// HasMissingRequired indicates if any required tool is missing.
	HasMissingRequired bool `json:"has_missing_required"`
}

// MissingRequiredTools returns the required tools that are missing.
func (r *ToolDetectionResult) MissingRequiredTools() []Tool {
	var missing []Tool
	for _, tool := range r.Tools {
		if tool.Required && tool.Status == ToolStatusMissing {
			missing = append(missing, tool)
		}
	}
	return missing
}

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// LookPath searches for an executable named file in the PATH.
	LookPath(file string) (string, error)

	// Run executes a command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// DefaultCommandExecutor implements CommandExecutor using os/exec.
type DefaultCommandExecutor struct{}

// LookPath searches for an executable in the PATH.
func (e *DefaultCommandExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its output.
func (e *DefaultCommandExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// ToolChecker reports whether a program can be launched.
type ToolChecker interface {
	IsInstalled(name string) bool
}

// PathToolChecker implements ToolChecker with a PATH lookup.
type PathToolChecker struct {
	executor CommandExecutor
}

// NewPathToolChecker creates a ToolChecker backed by the default executor.
func NewPathToolChecker() *PathToolChecker {
	return &PathToolChecker{executor: &DefaultCommandExecutor{}}
}

// NewPathToolCheckerWithExecutor creates a ToolChecker with a custom executor.
func NewPathToolCheckerWithExecutor(executor CommandExecutor) *PathToolChecker {
	return &PathToolChecker{executor: executor}
}

// IsInstalled returns true if name resolves on PATH.
func (c *PathToolChecker) IsInstalled(name string) bool {
	_, err := c.executor.LookPath(name)
	return err == nil
}

// ToolDetector detects the installation status of external tools.
type ToolDetector interface {
	// Detect checks all configured tools and returns their status.
	Detect(ctx context.Context) (*ToolDetectionResult, error)
}

// DefaultToolDetector implements ToolDetector for the programs named in a Config.
type DefaultToolDetector struct {
	executor CommandExecutor
	cfg      *Config
}

// NewToolDetector creates a new DefaultToolDetector with the default executor.
func NewToolDetector(cfg *Config) *DefaultToolDetector {
	return NewToolDetectorWithExecutor(cfg, &DefaultCommandExecutor{})
}

// NewToolDetectorWithExecutor creates a new DefaultToolDetector with a custom executor.
func NewToolDetectorWithExecutor(cfg *Config, executor CommandExecutor) *DefaultToolDetector {
	return &DefaultToolDetector{
		executor: executor,
		cfg:      cfg,
	}
}

// optionalStages have a designated fallback and never make their program required.
var optionalStages = map[string]bool{ //nolint:gochecknoglobals // read-only lookup table
	"dep_tree": true,
}

// installHints maps well-known programs to their installation instructions.
var installHints = map[string]string{ //nolint:gochecknoglobals // read-only lookup table
	constants.ToolMypy:       "pip install mypy",
	constants.ToolFlake8:     "pip install flake8",
	constants.ToolIsort:      "pip install isort",
	constants.ToolBlack:      "pip install black",
	constants.ToolPydocstyle: "pip install pydocstyle",
	constants.ToolPipdeptree: "pip install pipdeptree (optional, pip freeze is used otherwise)",
	constants.ToolPip:        "install Python 3 with pip",
	constants.ToolCoverage:   "pip install coverage pytest",
}

// toolsFor collects the distinct programs referenced by the stage commands
// and aggregate pipelines, sorted by name.
func toolsFor(cfg *Config) []Tool {
	byName := make(map[string]*Tool)
	add := func(program, stage string, required bool) {
		program = strings.TrimSpace(program)
		if program == "" {
			return
		}
		tool, ok := byName[program]
		if !ok {
			tool = &Tool{Name: program, InstallHint: installHints[program]}
			if tool.InstallHint == "" {
				tool.InstallHint = fmt.Sprintf("install %s and make sure it is on PATH", program)
			}
			byName[program] = tool
		}
		tool.Stages = append(tool.Stages, stage)
		tool.Required = tool.Required || required
	}

	for _, stage := range cfg.Stages.Named() {
		if len(stage.Argv) == 0 {
			continue
		}
		add(stage.Argv[0], stage.Key, !optionalStages[stage.Key])
	}
	for _, p := range cfg.Aggregate.Pipelines {
		if len(p.Command) == 0 {
			continue
		}
		add(p.Command[0], "aggregate:"+p.Name, false)
	}

	tools := make([]Tool, 0, len(byName))
	for _, tool := range byName {
		tools = append(tools, *tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Detect checks all configured tools in parallel and returns their status
// sorted by tool name.
func (d *DefaultToolDetector) Detect(ctx context.Context) (*ToolDetectionResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	detectCtx, cancel := context.WithTimeout(ctx, constants.ToolDetectionTimeout)
	defer cancel()

	tools := toolsFor(d.cfg)
	result := &ToolDetectionResult{Tools: make([]Tool, 0, len(tools))}
	var resultMu sync.Mutex

	g, gCtx := errgroup.WithContext(detectCtx)
	for _, tool := range tools {
		tool := tool
		g.Go(func() error {
			detected := d.detectTool(gCtx, tool)
			resultMu.Lock()
			result.Tools = append(result.Tools, detected)
			resultMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to detect tools: %w", err)
	}

	sort.Slice(result.Tools, func(i, j int) bool { return result.Tools[i].Name < result.Tools[j].Name })
	result.HasMissingRequired = len(result.MissingRequiredTools()) > 0

	return result, nil
}

// detectTool detects a single tool's status.
func (d *DefaultToolDetector) detectTool(ctx context.Context, tool Tool) Tool {
	tool.Status = ToolStatusMissing

	if _, err := d.executor.LookPath(tool.Name); err != nil {
		return tool
	}
	tool.Status = ToolStatusInstalled

	output, err := d.executor.Run(ctx, tool.Name, constants.VersionFlagStandard)
	if err != nil {
		// Present but the version banner failed, still launchable.
		tool.CurrentVersion = "unknown"
		return tool
	}

	tool.CurrentVersion = parseVersion(output)
	if tool.CurrentVersion == "" {
		tool.CurrentVersion = "unknown"
	}
	return tool
}

// parseVersion extracts the first version number from a --version banner.
func parseVersion(output string) string {
	if matches := versionRe.FindStringSubmatch(output); len(matches) >= 2 {
		return matches[1]
	}
	return ""
}
