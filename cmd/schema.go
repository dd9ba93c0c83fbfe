package cmd

import (
	"fmt"

	"github.com/grovetools/teamwatch/config"
	"github.com/grovetools/teamwatch/schema"
	"github.com/spf13/cobra"
)

// NewSchemaCmd creates the `schema` command
func NewSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print JSON Schemas for the snapshot document and the config file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "snapshot",
		Short: "Print the JSON Schema of the /api/state document",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := schema.GenerateSnapshot()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the JSON Schema of teamwatch.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	return cmd
}
