package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/qgate/internal/config"
	"github.com/mrz1836/qgate/internal/logging"
	"github.com/mrz1836/qgate/internal/tui"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, global *GlobalFlags) {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect qgate configuration",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the configuration qgate would run with: built-in defaults,
overridden by .qgate/config.yaml, overridden by QGATE_* environment variables.

Credentials embedded in source.repo_url are masked.

Examples:
  qgate config show
  qgate config show --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), global.Output, cfg)
		},
	})
	root.AddCommand(configCmd)
}

// runConfigShow prints cfg as YAML, or JSON when format is json.
func runConfigShow(ctx context.Context, w io.Writer, format string, cfg *config.Config) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	shown := *cfg
	shown.Source.RepoURL = logging.RedactURL(cfg.Source.RepoURL)

	if format == OutputJSON {
		return tui.NewOutput(w, format).JSON(shown)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(shown); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}
