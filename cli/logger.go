package cli

import (
	"github.com/grovetools/teamwatch/config"
	"github.com/grovetools/teamwatch/logging"
	"github.com/spf13/cobra"
)

// LoggingConfig is the "logging" extension with --verbose and --json
// applied on top.
func LoggingConfig(cmd *cobra.Command, cfg *config.Config) logging.Config {
	logCfg := logging.ConfigFrom(cfg)
	opts := GetOptions(cmd)
	if opts.Verbose {
		logCfg.Level = "debug"
	}
	if opts.JSONOutput {
		logCfg.Format.Preset = "json"
	}
	return logCfg
}

// SetupLogging configures every component logger for this invocation.
func SetupLogging(cmd *cobra.Command, cfg *config.Config) {
	logging.Configure(LoggingConfig(cmd, cfg))
}
