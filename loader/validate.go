package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/questcheck/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled definitions for structural problems.
// Reference consistency is left to the sanity checker; only content that
// cannot be analysed at all is an error here.
func validate(coll *collector, templates []types.Template, quests []types.Quest, factories []types.Factory, cells []types.Cell, ve *ValidationError) {
	seen := map[string]string{}
	for i, t := range templates {
		file := coll.templates[i].file
		if t.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: template without a name", file))
			continue
		}
		if prev, dup := seen[t.Name]; dup {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"%s: duplicate template %q, keeping the one from %s", file, t.Name, prev))
			continue
		}
		seen[t.Name] = file
	}

	seen = map[string]string{}
	for i, q := range quests {
		file := coll.quests[i].file
		if q.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: quest without a name", file))
			continue
		}
		if prev, dup := seen[q.Name]; dup {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"%s: duplicate quest %q, keeping the one from %s", file, q.Name, prev))
			continue
		}
		seen[q.Name] = file
		validateQuest(file, q, ve)
	}

	seen = map[string]string{}
	for i, f := range factories {
		file := coll.factories[i].file
		if f.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: factory without a name", file))
			continue
		}
		if prev, dup := seen[f.Name]; dup {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"%s: duplicate factory %q, keeping the one from %s", file, f.Name, prev))
			continue
		}
		seen[f.Name] = file
	}

	ids := map[int]string{}
	names := map[string]string{}
	for i, c := range cells {
		file := coll.cells[i].file
		for _, o := range c.Objects {
			if prev, dup := ids[o.ID]; dup {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"%s: cell %q reuses object id #%d from cell %q", file, c.Name, o.ID, prev))
			} else {
				ids[o.ID] = c.Name
			}
			if o.Name == "" {
				continue
			}
			if prev, dup := names[o.Name]; dup {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"%s: cell %q reuses object name %q from cell %q", file, c.Name, o.Name, prev))
			} else {
				names[o.Name] = c.Name
			}
		}
	}
}

func validateQuest(file string, q types.Quest, ve *ValidationError) {
	states := map[string]bool{}
	for _, s := range q.States {
		if s.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: quest %q has a state without a name", file, q.Name))
			continue
		}
		if states[s.Name] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"%s: quest %q defines state %q twice", file, q.Name, s.Name))
		}
		states[s.Name] = true
	}
	seqs := map[string]bool{}
	for _, s := range q.Sequences {
		if s.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: quest %q has a sequence without a name", file, q.Name))
			continue
		}
		if seqs[s.Name] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"%s: quest %q defines sequence %q twice", file, q.Name, s.Name))
		}
		seqs[s.Name] = true
	}
}
