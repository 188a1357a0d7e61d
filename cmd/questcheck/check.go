package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/questcheck/cli"
	"github.com/nathoo/questcheck/engine/report"
)

func checkCmd() *cobra.Command {
	var (
		format   string
		baseline string
		save     string
		suggest  bool
	)
	cmd := &cobra.Command{
		Use:   "check [world_directory]",
		Short: "Run every check and report problems",
		Long: `Run the template, object and quest checks over a world.

Exits non-zero when any problem remains after the ignore filters. With
--baseline only problems not present in the saved report count.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openWorld(args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				s.cfg.Format = format
				if err := s.cfg.Validate(); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("suggest") {
				s.engine.SetSuggest(suggest)
			}

			results := s.cfg.Filter(s.engine.CheckAll())
			if save != "" {
				data, err := report.Save(s.defs.Name, results)
				if err != nil {
					return err
				}
				if err := os.WriteFile(save, data, 0o644); err != nil {
					return err
				}
			}

			out := cli.New(s.engine, s.cfg, s.defs.Name)
			out.Out = cmd.OutOrStdout()

			failed := len(results)
			if baseline != "" {
				data, err := os.ReadFile(baseline)
				if err != nil {
					return err
				}
				base, err := report.Load(data)
				if err != nil {
					return fmt.Errorf("%s: %w", baseline, err)
				}
				delta := report.Diff(base.Results, results)
				failed = len(delta.Added)
				if s.cfg.Format == "json" {
					if err := writeJSON(cmd, delta); err != nil {
						return err
					}
				} else {
					out.PrintDelta(delta)
				}
			} else if s.cfg.Format == "json" {
				if err := writeJSON(cmd, report.New(s.defs.Name, results)); err != nil {
					return err
				}
			} else {
				out.PrintReport(results)
			}

			if failed > 0 {
				return failedError{count: failed}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	cmd.Flags().StringVar(&baseline, "baseline", "", "only fail on problems missing from this saved report")
	cmd.Flags().StringVar(&save, "save", "", "write the report to this file")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "attach \"did you mean\" hints to unresolved names")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
