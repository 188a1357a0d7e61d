package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/questcheck/types"
)

func rawDefs(file string, names ...string) []rawDef {
	out := make([]rawDef, len(names))
	for i, n := range names {
		out[i] = rawDef{name: n, file: file}
	}
	return out
}

func TestValidate_DuplicatesAreWarnings(t *testing.T) {
	coll := &collector{
		templates: rawDefs("a.lua", "T", "T"),
		quests:    rawDefs("b.lua", "Q", "Q"),
		factories: rawDefs("c.lua", "f", "f"),
		cells:     rawDefs("d.lua", "one", "two"),
	}
	ve := &ValidationError{}
	validate(coll,
		[]types.Template{{Name: "T"}, {Name: "T"}},
		[]types.Quest{{Name: "Q"}, {Name: "Q"}},
		[]types.Factory{{Name: "f"}, {Name: "f"}},
		[]types.Cell{
			{Name: "one", Objects: []types.Object{{ID: 1, Name: "a", Factory: "f"}}},
			{Name: "two", Objects: []types.Object{{ID: 1, Name: "a", Factory: "f"}}},
		},
		ve)
	if len(ve.Errors) != 0 {
		t.Errorf("unexpected errors: %v", ve.Errors)
	}
	if len(ve.Warnings) != 5 {
		t.Errorf("expected 5 warnings, got %v", ve.Warnings)
	}
	if !strings.Contains(ve.Warnings[0], "keeping the one from a.lua") {
		t.Errorf("warning = %q", ve.Warnings[0])
	}
}

func TestValidate_UnnamedQuestParts(t *testing.T) {
	coll := &collector{quests: rawDefs("q.lua", "Q")}
	ve := &ValidationError{}
	validate(coll, nil, []types.Quest{{
		Name:      "Q",
		States:    []types.State{{}},
		Sequences: []types.Sequence{{}},
	}}, nil, nil, ve)
	if len(ve.Errors) != 2 {
		t.Errorf("errors = %v", ve.Errors)
	}
}

func TestValidationError_Message(t *testing.T) {
	ve := &ValidationError{Errors: []string{"a", "b"}}
	if !strings.Contains(ve.Error(), "2 error(s)") {
		t.Errorf("Error() = %q", ve.Error())
	}
}
