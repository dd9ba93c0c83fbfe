package cmd

import (
	"github.com/grovetools/teamwatch/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the teamwatch command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"teamwatch",
		"Live dashboard for agent teams",
	)
	root.Long = `teamwatch polls an agent team monitor for its state snapshot and shows
processes, teams, members and tasks, in the browser or in the terminal.`
	cli.SetVersionTemplate(root)

	root.AddCommand(NewServeCmd())
	root.AddCommand(NewTUICmd())
	root.AddCommand(NewSnapshotCmd())
	root.AddCommand(NewSchemaCmd())
	root.AddCommand(NewValidateCmd())
	root.AddCommand(cli.NewVersionCommand("teamwatch"))

	return root
}
