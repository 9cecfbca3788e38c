package main

import (
	"github.com/spf13/cobra"
)

var exitCode int

// Build the cobra command that handles our command line tool.
func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lakehouse COMMAND [args]",
		Short: "Transform raw song and event data into star schema parquet tables",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.AddCommand(
		runCmd(),
		versionCmd(),
	)

	return rootCmd
}

func Execute() int {
	rootCmd := rootCommand()

	if err := rootCmd.Execute(); err != nil {
		exitCode = -1
	}
	return exitCode
}
