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

	"github.com/mrz1836/qgate/internal/audit"
	"github.com/mrz1836/qgate/internal/config"
	"github.com/mrz1836/qgate/internal/errors"
	"github.com/mrz1836/qgate/internal/pipeline"
	"github.com/mrz1836/qgate/internal/source"
	"github.com/mrz1836/qgate/internal/stage"
	"github.com/mrz1836/qgate/internal/tui"
)

// RunFlags holds flags specific to the run command.
type RunFlags struct {
	// Out overrides reports.dir.
	Out string
}

// AddRunCommand adds the run command to the root command.
func AddRunCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newRunCmd(global, &RunFlags{}))
}

func newRunCmd(global *GlobalFlags, flags *RunFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the style, audit and test gates",
		Long: `Run the three quality gates in order, stopping at the first gate that fails.

Reports are written to reports.dir (server/reports by default). A failed
pipeline exits with status 1.

Examples:
  qgate run
  qgate run --out build/reports
  qgate run --output json`,
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

			opts := runOptions{
				WorkDir:    workDir,
				ReportsDir: flags.Out,
				Config:     cfg,
				Output:     global.Output,
				Progress:   audit.NewProgressManager(global.Output == OutputText && !global.Quiet, os.Stderr),
			}
			out := tui.NewOutput(cmd.OutOrStdout(), global.Output)
			_, err = runPipeline(ctx, cmd.OutOrStdout(), out, opts)
			if err != nil {
				// Already rendered through out.
				cmd.SilenceErrors = true
			}
			return err
		},
	}

	cmd.Flags().StringVar(&flags.Out, "out", "", "reports directory (overrides reports.dir)")

	return cmd
}

// runOptions carries everything runPipeline needs. Nil collaborators fall
// back to the real implementations.
type runOptions struct {
	WorkDir    string
	ReportsDir string
	Config     *config.Config
	Output     string

	Runner   stage.CommandRunner
	Checker  config.ToolChecker
	Cloner   source.Cloner
	Progress audit.ProgressManager
	RunID    string
}

// runPipeline runs the gates and renders the outcome. The returned error is
// ErrPipelineFailed when a gate failed.
func runPipeline(ctx context.Context, w io.Writer, out tui.Output, opts runOptions) (*pipeline.Result, error) {
	if opts.Config == nil {
		return nil, errors.ErrConfigNil
	}

	reportsDir := opts.ReportsDir
	if reportsDir == "" {
		reportsDir = opts.Config.ReportsDir(opts.WorkDir)
	} else if !filepath.IsAbs(reportsDir) {
		reportsDir = filepath.Join(opts.WorkDir, reportsDir)
	}

	executor := stage.NewExecutor()
	if opts.Runner != nil {
		executor = stage.NewExecutorWithRunner(opts.Runner, nil)
	}
	executor.SetWorkDir(opts.WorkDir)

	locator := source.NewLocator(opts.Config.Source)
	if opts.Cloner != nil {
		locator = source.NewLocatorWithCloner(opts.Config.Source, opts.Cloner)
	}

	var console io.Writer
	if opts.Output == OutputText {
		console = w
	}

	seq := pipeline.NewSequencer(executor, locator, &pipeline.SequencerConfig{
		WorkDir:     opts.WorkDir,
		ReportsDir:  reportsDir,
		Stages:      opts.Config.Stages,
		ToolChecker: opts.Checker,
		Console:     console,
		Progress:    opts.Progress,
		RunID:       opts.RunID,
		ProgressCallback: func(gate, step, status string) {
			out.Stage(gate, step, stageStatus(status))
		},
	})

	zerolog.Ctx(ctx).Debug().
		Str("work_dir", opts.WorkDir).
		Str("reports_dir", reportsDir).
		Msg("starting pipeline")

	result, err := seq.Run(ctx)
	if result != nil {
		if opts.Output == OutputJSON {
			if jsonErr := out.JSON(result); jsonErr != nil {
				return result, jsonErr
			}
		} else if len(result.Stages) > 0 {
			out.Table(tui.StageHeaders, tui.StageRows(result.Stages))
		}
	}

	if err != nil && (opts.Output == OutputText || !stderrors.Is(err, errors.ErrPipelineFailed)) {
		out.Error(err)
	}
	return result, err
}

// stageStatus maps sequencer progress to the console status vocabulary.
func stageStatus(status string) string {
	switch status {
	case pipeline.ProgressCompleted:
		return tui.StatusPass
	case pipeline.ProgressFailed:
		return tui.StatusFail
	default:
		return tui.StatusRunning
	}
}
