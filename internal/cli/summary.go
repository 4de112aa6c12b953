package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/mrz1836/qgate/internal/config"
	"github.com/mrz1836/qgate/internal/constants"
	"github.com/mrz1836/qgate/internal/errors"
	"github.com/mrz1836/qgate/internal/report"
	"github.com/mrz1836/qgate/internal/tui"
)

// SummaryFlags holds flags specific to the summary command.
type SummaryFlags struct {
	// Dir is the reports directory to read. Defaults to reports.dir.
	Dir string
}

// AddSummaryCommand adds the summary command to the root command.
func AddSummaryCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &SummaryFlags{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Render the pipeline summary of the last run",
		Long: `Render server_pipeline_summary.md from the reports directory in the terminal.

With --output json the raw Markdown is printed together with the run
manifest, when one exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			dir := flags.Dir
			if dir == "" {
				cfg, err := config.Load(ctx)
				if err != nil {
					return err
				}
				workDir, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				dir = cfg.ReportsDir(workDir)
			}
			return runSummary(ctx, cmd.OutOrStdout(), global.Output, dir)
		},
	}

	cmd.Flags().StringVar(&flags.Dir, "dir", "", "reports directory to read (defaults to reports.dir)")
	root.AddCommand(cmd)
}

// summaryResponse is the JSON form of the summary command.
type summaryResponse struct {
	Path     string           `json:"path"`
	Markdown string           `json:"markdown"`
	Manifest *report.Manifest `json:"manifest,omitempty"`
}

func runSummary(_ context.Context, w io.Writer, format, dir string) error {
	store := report.NewStore(dir)
	path := store.Path(constants.ReportSummary)

	data, err := os.ReadFile(path) //nolint:gosec // path is built from the reports directory
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", errors.ErrSummaryNotFound, path)
		}
		return errors.Wrapf(err, "failed to read %s", filepath.Base(path))
	}

	if format == OutputJSON {
		resp := summaryResponse{Path: path, Markdown: string(data)}
		if manifest, mErr := store.ReadManifest(); mErr == nil {
			resp.Manifest = &manifest
		}
		return tui.NewOutput(w, format).JSON(resp)
	}

	_, err = fmt.Fprint(w, renderMarkdown(string(data)))
	return err
}

// glamourRenderer is created once; building it probes the terminal background.
var (
	glamourRenderer     *glamour.TermRenderer //nolint:gochecknoglobals // cached renderer
	glamourRendererOnce sync.Once             //nolint:gochecknoglobals // guards glamourRenderer
)

// renderMarkdown renders markdown for the terminal, falling back to the raw
// text when no renderer is available.
func renderMarkdown(content string) string {
	glamourRendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err == nil {
			glamourRenderer = r
		}
	})
	if glamourRenderer == nil {
		return content
	}
	rendered, err := glamourRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
