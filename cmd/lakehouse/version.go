package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// set by the build via -ldflags
var version = "dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lakehouse version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lakehouse %s\n", version)
		},
	}
}
