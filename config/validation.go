package config

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/pkg/filter"
	"github.com/grovetools/teamwatch/pkg/locale"
)

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	if err := validateEndpoint(c.Endpoint); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid endpoint").
			WithDetail("endpoint", c.Endpoint)
	}

	if _, err := c.PollInterval(); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid interval").
			WithDetail("interval", c.Interval)
	}
	if _, err := c.PollTimeout(); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid timeout").
			WithDetail("timeout", c.Timeout)
	}

	if c.LocaleFile == "" && !slices.Contains(locale.Available(), c.Locale) {
		return errors.LocaleNotFound(c.Locale).WithDetail("available", locale.Available())
	}

	if c.Teams != nil {
		if _, err := filter.New(c.Teams.Include, c.Teams.Exclude); err != nil {
			return err
		}
	}

	validator, err := NewSchemaValidator()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create config validator")
	}
	if err := validator.Validate(c); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}

	return nil
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("missing host in %q", endpoint)
		}
	case "unix", "file":
		if u.Path == "" {
			return fmt.Errorf("missing path in %q", endpoint)
		}
	default:
		return fmt.Errorf("unsupported scheme %q (want http, https, unix or file)", u.Scheme)
	}
	return nil
}
