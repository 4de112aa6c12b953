package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/qgate/internal/config"
	"github.com/mrz1836/qgate/internal/errors"
	"github.com/mrz1836/qgate/internal/stage"
	"github.com/mrz1836/qgate/internal/tui"
)

// AddAggregateCommand adds the aggregate command to the root command.
func AddAggregateCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(&cobra.Command{
		Use:   "aggregate",
		Short: "Run every configured sibling pipeline and combine the results",
		Long: `Run the pipelines listed under aggregate.pipelines one after another,
streaming their output. A pipeline whose directory is missing is skipped.
The command fails if any pipeline failed or could not be started.

A {reports} placeholder in a pipeline command expands to a per-pipeline
directory under reports.dir.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			out := tui.NewOutput(cmd.OutOrStdout(), global.Output)
			err = runAggregate(ctx, cmd.OutOrStdout(), out, aggregateOptions{
				WorkDir: workDir,
				Config:  cfg,
			})
			if err != nil && !stderrors.Is(err, errors.ErrNoPipelines) {
				cmd.SilenceErrors = true
			}
			return err
		},
	})
}

// aggregateOptions carries the inputs of runAggregate. Nil collaborators
// fall back to the real implementations.
type aggregateOptions struct {
	WorkDir string
	Config  *config.Config
	Runner  stage.CommandRunner
	Checker config.ToolChecker
}

// runAggregate runs the sibling pipelines in order and ORs their failures.
// Child output is streamed to w.
func runAggregate(ctx context.Context, w io.Writer, out tui.Output, opts aggregateOptions) error {
	if opts.Config == nil {
		return errors.ErrConfigNil
	}
	pipelines := opts.Config.Aggregate.Pipelines
	if len(pipelines) == 0 {
		return errors.ErrNoPipelines
	}

	checker := opts.Checker
	if checker == nil {
		checker = config.NewPathToolChecker()
	}
	log := zerolog.Ctx(ctx)
	reportsRoot := opts.Config.ReportsDir(opts.WorkDir)

	failed := false
	for _, p := range pipelines {
		out.Heading(fmt.Sprintf("=== %s ===", p.Name))

		dir := opts.WorkDir
		if p.Dir != "" {
			dir = p.Dir
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(opts.WorkDir, dir)
			}
			if _, err := os.Stat(dir); err != nil {
				out.Warning(fmt.Sprintf("%s not found at %s, skipping", p.Name, dir))
				continue
			}
		}

		program := p.Command[0]
		if !checker.IsInstalled(program) {
			out.Error(fmt.Errorf("%w: %s is required for %s", errors.ErrToolNotInstalled, program, p.Name))
			failed = true
			continue
		}

		executor := stage.NewExecutor()
		if opts.Runner != nil {
			executor = stage.NewExecutorWithRunner(opts.Runner, nil)
		}
		executor.SetWorkDir(dir)
		executor.SetLiveOutput(w)

		argv := stage.Expand(p.Command, stage.Vars{Reports: filepath.Join(reportsRoot, p.Name)})
		result, err := executor.Run(ctx, p.Name, argv)
		if err != nil {
			log.Warn().Err(err).Str("pipeline", p.Name).Msg("pipeline could not be launched")
			out.Error(fmt.Errorf("%s failed: %w", p.Name, err))
			failed = true
			continue
		}
		if !result.Passed() {
			out.Error(stderrors.New(p.Name + " failed!"))
			failed = true
			continue
		}
		out.Success(p.Name + " passed.")
	}

	if failed {
		out.Error(stderrors.New("One or more checks failed!"))
		return errors.ErrPipelineFailed
	}
	out.Success("All checks passed successfully!")
	return nil
}
