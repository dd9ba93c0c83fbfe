// Package cmd implements the teamwatch subcommands.
package cmd

import (
	"os"
	"time"

	"github.com/grovetools/teamwatch/cli"
	"github.com/grovetools/teamwatch/config"
	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/logging"
	"github.com/grovetools/teamwatch/pkg/client"
	"github.com/grovetools/teamwatch/pkg/filter"
	"github.com/grovetools/teamwatch/pkg/locale"
	"github.com/grovetools/teamwatch/pkg/render"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// LoadDotEnv reads .env from the working directory into the environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to load .env")
	}
	return nil
}

// dashboard is everything a host needs, built from config and flags.
type dashboard struct {
	cfg          *config.Config
	client       client.Client
	localizer    *render.Localizer
	localePath   string
	filter       *filter.Filter
	interval     time.Duration
	timeout      time.Duration
	allowOverlap bool
}

// addEndpointFlag registers --endpoint, which overrides the config file.
func addEndpointFlag(cmd *cobra.Command) {
	cmd.Flags().String("endpoint", "", "Snapshot producer base URL (http(s)://, unix:// or file://)")
}

func loadDashboard(cmd *cobra.Command) (*dashboard, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
		cfg.Endpoint = endpoint
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	interval, err := cfg.PollInterval()
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}
	timeout, err := cfg.PollTimeout()
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	table, localePath, err := loadLocale(cfg)
	if err != nil {
		return nil, err
	}

	var include, exclude []string
	if cfg.Teams != nil {
		include, exclude = cfg.Teams.Include, cfg.Teams.Exclude
	}
	f, err := filter.New(include, exclude)
	if err != nil {
		return nil, err
	}

	c, err := client.New(cfg.Endpoint, timeout)
	if err != nil {
		return nil, err
	}

	logging.NewLogger("cmd").WithFields(logrus.Fields{
		"endpoint": cfg.Endpoint,
		"interval": interval,
		"locale":   table.Name,
	}).Debug("Dashboard configured")

	return &dashboard{
		cfg:          cfg,
		client:       c,
		localizer:    render.NewLocalizer(table),
		localePath:   localePath,
		filter:       f,
		interval:     interval,
		timeout:      timeout,
		allowOverlap: !cfg.SingleFlightEnabled(),
	}, nil
}

// loadLocale returns the custom locale file when configured, else the
// named locale. The path is the file to watch for changes, "" for an
// embedded locale.
func loadLocale(cfg *config.Config) (*locale.Table, string, error) {
	path := cfg.LocaleFile
	if path == "" {
		path = locale.Path(cfg.Locale)
	}
	if path == "" {
		table, err := locale.Load(cfg.Locale)
		return table, "", err
	}
	table, err := locale.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	if cfg.LocaleFile == "" && table.Name == locale.DefaultName {
		table.Name = cfg.Locale
	}
	return table, path, nil
}
