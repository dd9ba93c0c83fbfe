package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Defaults applied by SetDefaults.
const (
	DefaultEndpoint = "http://localhost:8080"
	DefaultInterval = "1s"
	DefaultTimeout  = "5s"
	DefaultLocale   = "en"
	DefaultListen   = ":8090"
)

// TeamsConfig narrows which teams are displayed.
type TeamsConfig struct {
	Include []string `yaml:"include,omitempty" toml:"include,omitempty" json:"include,omitempty" jsonschema:"description=Glob patterns of team names to show (default: all)"`
	Exclude []string `yaml:"exclude,omitempty" toml:"exclude,omitempty" json:"exclude,omitempty" jsonschema:"description=Glob patterns of team names to hide"`
}

// Config represents the teamwatch.yml configuration.
type Config struct {
	Endpoint     string       `yaml:"endpoint,omitempty" toml:"endpoint,omitempty" json:"endpoint,omitempty" jsonschema:"description=Base URL of the snapshot producer (http(s)://host or unix:///path.sock or file:///state.json)"`
	Interval     string       `yaml:"interval,omitempty" toml:"interval,omitempty" json:"interval,omitempty" jsonschema:"description=Poll interval as a Go duration (default: 1s)"`
	Timeout      string       `yaml:"timeout,omitempty" toml:"timeout,omitempty" json:"timeout,omitempty" jsonschema:"description=Per-request timeout as a Go duration (default: 5s)"`
	SingleFlight *bool        `yaml:"single_flight,omitempty" toml:"single_flight,omitempty" json:"single_flight,omitempty" jsonschema:"description=Skip a tick while a poll is still outstanding (default: true)"`
	Locale       string       `yaml:"locale,omitempty" toml:"locale,omitempty" json:"locale,omitempty" jsonschema:"description=Display locale: en or zh-CN (default: en)"`
	LocaleFile   string       `yaml:"locale_file,omitempty" toml:"locale_file,omitempty" json:"locale_file,omitempty" jsonschema:"description=Path to a custom locale table layered over en; reloaded on change"`
	Listen       string       `yaml:"listen,omitempty" toml:"listen,omitempty" json:"listen,omitempty" jsonschema:"description=Listen address for the web dashboard (default: :8090)"`
	Teams        *TeamsConfig `yaml:"teams,omitempty" toml:"teams,omitempty" json:"teams,omitempty" jsonschema:"description=Team name filter"`

	// Extensions captures all other top-level keys, e.g. logging and tui.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" json:"-" jsonschema:"-"`
}

// TUIConfig is the "tui" extension.
type TUIConfig struct {
	Theme       string              `yaml:"theme,omitempty"`
	Icons       string              `yaml:"icons,omitempty"`
	Keybindings map[string][]string `yaml:"keybindings,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Interval == "" {
		c.Interval = DefaultInterval
	}
	if c.Timeout == "" {
		c.Timeout = DefaultTimeout
	}
	if c.SingleFlight == nil {
		enabled := true
		c.SingleFlight = &enabled
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Teams == nil {
		c.Teams = &TeamsConfig{}
	}
}

// PollInterval parses Interval.
func (c *Config) PollInterval() (time.Duration, error) {
	return parsePositiveDuration("interval", c.Interval)
}

// PollTimeout parses Timeout.
func (c *Config) PollTimeout() (time.Duration, error) {
	return parsePositiveDuration("timeout", c.Timeout)
}

// SingleFlightEnabled reports the effective single-flight setting.
func (c *Config) SingleFlightEnabled() bool {
	return c.SingleFlight == nil || *c.SingleFlight
}

// UnmarshalExtension decodes a specific extension's configuration into the
// provided target struct. The target must be a pointer. A missing key
// leaves the target untouched.
//
// Example:
//
//	var tuiCfg config.TUIConfig
//	err := cfg.UnmarshalExtension("tui", &tuiCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

func parsePositiveDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", field, value)
	}
	return d, nil
}
