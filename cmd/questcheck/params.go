package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathoo/questcheck/engine"
	"github.com/nathoo/questcheck/engine/domain"
	"github.com/nathoo/questcheck/engine/world"
)

func paramsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "params template|quest|object <name> [world_directory]",
		Short: "Show the inferred parameters of a template, quest or object",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openWorld(args[2:])
			if err != nil {
				return err
			}
			m, err := lookupParams(s.engine, args[0], args[1])
			if err != nil {
				return err
			}
			rows := s.engine.Describe(m)
			if asJSON {
				return writeJSON(cmd, rows)
			}
			out := cmd.OutOrStdout()
			for _, r := range rows {
				fmt.Fprintln(out, engine.FormatRow(r))
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "(no parameters)")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON")
	return cmd
}

func lookupParams(eng *engine.Engine, kind, name string) (domain.Map, error) {
	switch kind {
	case "template":
		tpl, ok := eng.Repo.FindTemplate(name)
		if !ok {
			return nil, fmt.Errorf("template %q not found", name)
		}
		return eng.TemplateParameters(tpl), nil
	case "quest":
		q, ok := eng.Repo.FindQuest(name)
		if !ok {
			return nil, fmt.Errorf("quest %q not found", name)
		}
		return eng.QuestParameters(q), nil
	case "object":
		obj, ok := eng.Repo.FindObject(name)
		if !ok {
			return nil, fmt.Errorf("object %q not found", name)
		}
		return eng.ObjectParameters(obj), nil
	}
	return nil, fmt.Errorf("unknown resource kind %q (want template, quest or object)", kind)
}

func kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds [trigger|reward|seqop]",
		Short: "List the supported trigger, reward and sequence operation kinds",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := engine.New(world.NewDefs(nil, nil, nil, nil), nil)
			out := cmd.OutOrStdout()
			family := ""
			if len(args) > 0 {
				family = args[0]
			}
			n := 0
			for _, k := range eng.ListKinds() {
				if family != "" && k.Family != family {
					continue
				}
				n++
				fmt.Fprintf(out, "%-8s %s\n", k.Family, k.Name)
				for _, f := range k.Fields {
					fmt.Fprintf(out, "         %s\n", f)
				}
				for _, e := range k.Entities {
					fmt.Fprintf(out, "         %s\n", e)
				}
			}
			if n == 0 {
				return fmt.Errorf("unknown kind family %q", family)
			}
			return nil
		},
	}
}
