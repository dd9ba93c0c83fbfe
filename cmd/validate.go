package cmd

import (
	"io"
	"os"

	"github.com/grovetools/teamwatch/cli"
	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/logging"
	"github.com/grovetools/teamwatch/schema"
	"github.com/spf13/cobra"
)

// NewValidateCmd creates the `validate` command
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [snapshot.json|-]",
		Short: "Validate the configuration, or a snapshot document",
		Long: `Without arguments, load and validate the configuration file. With a file
argument, or - for stdin, validate that snapshot document against the
snapshot schema. The dashboard itself never validates snapshots; this is a
debugging aid for producers.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pretty := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())

			if len(args) == 0 {
				cfg, err := cli.LoadConfig(cmd)
				if err != nil {
					return err
				}
				pretty.Success("configuration is valid")
				pretty.Field("endpoint", cfg.Endpoint)
				pretty.Field("locale", cfg.Locale)
				pretty.Field("interval", cfg.Interval)
				return nil
			}

			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			v, err := schema.NewSnapshotValidator()
			if err != nil {
				return err
			}
			if err := v.ValidateJSON(raw); err != nil {
				return err
			}
			pretty.Success(args[0] + " is a valid snapshot")
			return nil
		},
	}
	return cmd
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to read snapshot").
			WithDetail("path", name)
	}
	return data, nil
}
