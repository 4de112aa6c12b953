package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/qgate/internal/config"
	"github.com/mrz1836/qgate/internal/tui"
)

// AddDoctorCommand adds the doctor command to the root command.
func AddDoctorCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check that every configured tool is installed",
		Long: `Probe every program named by the stage commands and aggregate pipelines
and report whether it is on PATH, with its version.

Missing tools are reported but never change the exit status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			out := tui.NewOutput(cmd.OutOrStdout(), global.Output)
			return runDoctor(ctx, out, global.Output, config.NewToolDetector(cfg))
		},
	})
}

// doctorHeaders are the columns of the tool table.
var doctorHeaders = []string{"Tool", "Status", "Version", "Stages", "Install"} //nolint:gochecknoglobals // read-only table header

func runDoctor(ctx context.Context, out tui.Output, format string, detector config.ToolDetector) error {
	result, err := detector.Detect(ctx)
	if err != nil {
		return err
	}

	if format == OutputJSON {
		return out.JSON(result)
	}

	rows := make([][]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		status := tui.StatusPass
		hint := ""
		if tool.Status == config.ToolStatusMissing {
			status = tui.StatusFail
			hint = tool.InstallHint
		}
		rows = append(rows, []string{
			tool.Name,
			status,
			tool.CurrentVersion,
			strings.Join(tool.Stages, ","),
			hint,
		})
	}
	out.Table(doctorHeaders, rows)

	missing := result.MissingRequiredTools()
	if len(missing) == 0 {
		out.Success("All required tools are installed.")
		return nil
	}
	names := make([]string, 0, len(missing))
	for _, tool := range missing {
		names = append(names, tool.Name)
	}
	out.Warning(fmt.Sprintf("Missing required tools: %s", strings.Join(names, ", ")))
	return nil
}
