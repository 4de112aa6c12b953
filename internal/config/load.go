package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/qgate/internal/constants"
	"github.com/mrz1836/qgate/internal/errors"
)

// newViperInstance creates a new Viper instance with the standard qgate configuration.
// This includes the environment prefix (QGATE_), key replacer, defaults, and the
// REPO_URL binding for source.repo_url.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// QGATE_SOURCE_REPO_URL wins over the bare REPO_URL when both are set.
	_ = v.BindEnv("source.repo_url", constants.EnvPrefix+"_SOURCE_REPO_URL", constants.EnvRepoURL)
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// A missing project config file is not an error.
func Load(ctx context.Context) (*Config, error) {
	cfg, err := LoadFromPath(ctx, ProjectConfigPath())
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Str("source.root_name", cfg.Source.RootName).
		Bool("source.repo_url_set", cfg.Source.RepoURL != "").
		Str("reports.dir", cfg.Reports.Dir).
		Int("aggregate.pipelines", len(cfg.Aggregate.Pipelines)).
		Msg("configuration loaded")

	return cfg, nil
}

// LoadFromPath loads configuration from a specific project config file.
// An empty path or a path that does not exist loads defaults and environment only.
func LoadFromPath(_ context.Context, projectConfigPath string) (*Config, error) {
	v := newViperInstance()

	if projectConfigPath != "" && fileExists(projectConfigPath) {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// setDefaults configures all default values on the Viper instance.
// IMPORTANT: Keys must match the mapstructure tag names exactly, otherwise
// AutomaticEnv never sees them during Unmarshal.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("source.root_name", def.Source.RootName)
	v.SetDefault("source.repo_url", "")
	v.SetDefault("source.clone_dir", def.Source.CloneDir)

	v.SetDefault("reports.dir", def.Reports.Dir)

	for _, stage := range def.Stages.Named() {
		v.SetDefault("stages."+stage.Key, stage.Argv)
	}

	v.SetDefault("aggregate.pipelines", []map[string]any{})
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// Space-separated strings (typically from environment variables) decode into argv slices.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(" "),
		),
	)
}
