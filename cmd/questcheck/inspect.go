package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/questcheck/cli"
	"github.com/nathoo/questcheck/tui"
)

func inspectCmd() *cobra.Command {
	var (
		plain  bool
		script string
	)
	cmd := &cobra.Command{
		Use:   "inspect [world_directory]",
		Short: "Browse check results and parameter domains interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openWorld(args)
			if err != nil {
				return err
			}

			// Script mode: read commands from a file, force plain, echo input.
			if script != "" {
				f, err := os.Open(script)
				if err != nil {
					return err
				}
				defer f.Close()
				c := cli.New(s.engine, s.cfg, s.defs.Name)
				c.In = f
				c.Out = cmd.OutOrStdout()
				c.EchoInput = true
				c.Run()
				return nil
			}

			// Use the plain loop if --plain or stdout is not a terminal.
			if plain || !isTerminal() {
				c := cli.New(s.engine, s.cfg, s.defs.Name)
				c.Out = cmd.OutOrStdout()
				c.Run()
				return nil
			}
			return tui.Run(s.engine, s.cfg, s.defs.Name)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "use the line-oriented prompt instead of the TUI")
	cmd.Flags().StringVar(&script, "script", "", "read commands from a file")
	return cmd
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
