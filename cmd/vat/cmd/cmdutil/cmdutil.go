// Package cmdutil loads configuration and logging for the vat subcommands.
package cmdutil

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voice-analysis-toolkit/internal/app/common"
	"voice-analysis-toolkit/internal/config"
)

const (
	ConfigFlag  = "config"
	VerboseFlag = "verbose"
)

// Load reads the configuration named by --config and builds the logger,
// which also becomes the global zap logger. Quiet commands log at warn level
// unless --verbose is given.
func Load(cmd *cobra.Command, quiet bool) (*config.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString(ConfigFlag)
	verbose, _ := cmd.Flags().GetBool(VerboseFlag)

	cfg, envFile, err := config.InitializeConfig(path)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Log.Level
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "warn"
	}

	logger, err := common.NewLogger(common.LoggerConfig{
		Development: !cfg.IsProduction(),
		Level:       level,
		FilePath:    cfg.Log.FilePath,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
	})
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(logger)

	if envFile != "" {
		logger.Debug("Loaded environment file", zap.String("path", envFile))
	}
	return cfg, logger, nil
}
