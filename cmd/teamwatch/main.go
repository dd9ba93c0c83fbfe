package main

import (
	"os"

	"github.com/grovetools/teamwatch/cli"
	"github.com/grovetools/teamwatch/cmd"
)

func main() {
	if err := cmd.LoadDotEnv(); err != nil {
		cli.NewErrorHandler(false).Handle(err)
		os.Exit(1)
	}

	root := cmd.NewRootCmd()
	if err := root.Execute(); err != nil {
		verbose, _ := root.PersistentFlags().GetBool("verbose")
		cli.NewErrorHandler(verbose).Handle(err)
		os.Exit(1)
	}
}
