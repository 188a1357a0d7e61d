package main

import "github.com/spf13/cobra"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("questcheck %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
