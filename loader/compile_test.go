package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/questcheck/types"
	lua "github.com/yuin/gopher-lua"
)

// newTestVM creates a sandboxed Lua VM with the API registered and a fresh collector.
func newTestVM() (*lua.LState, *collector) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{file: "test.lua"}
	registerAPI(L, coll)
	return L, coll
}

func TestLuaString(t *testing.T) {
	tests := []struct {
		v    lua.LValue
		want string
	}{
		{lua.LString("$speed"), "$speed"},
		{lua.LNumber(3), "3"},
		{lua.LNumber(2.5), "2.5"},
		{lua.LBool(true), "true"},
		{lua.LNil, ""},
	}
	for _, tt := range tests {
		if got := luaString(tt.v); got != tt.want {
			t.Errorf("luaString(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestCompileTemplate(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Template "Lamp" {
			parents = { "Base", "Glow" },
			classes = { "light" },
			pcs = {
				PC("pcobject.light", "main") {
					properties = { Param("red", "float", "$r") },
					actions = { Action("SetColor", { Param("green", "float", 1) }) },
				},
			},
			messages = { Message("lit", { Param("by", "string", "$who") }) },
		}
	`); err != nil {
		t.Fatal(err)
	}
	if len(coll.templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(coll.templates))
	}

	c := &compiler{ve: &ValidationError{}}
	tpl := c.template(coll.templates[0])
	if len(c.ve.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", c.ve.Errors)
	}
	if tpl.Name != "Lamp" || len(tpl.Parents) != 2 || tpl.Parents[1] != "Glow" {
		t.Errorf("template = %+v", tpl)
	}
	if len(tpl.PropertyClasses) != 1 {
		t.Fatalf("expected 1 property class, got %d", len(tpl.PropertyClasses))
	}
	pc := tpl.PropertyClasses[0]
	if pc.Name != "pcobject.light" || pc.Tag != "main" {
		t.Errorf("pc = %q tag %q", pc.Name, pc.Tag)
	}
	if pc.Properties[0] != (types.Parameter{Name: "red", Type: types.TypeFloat, Value: "$r"}) {
		t.Errorf("property = %+v", pc.Properties[0])
	}
	if got := pc.Actions[0].Params[0]; got.Value != "1" || got.Type != types.TypeFloat {
		t.Errorf("action param = %+v", got)
	}
	if tpl.Messages[0].ID != "lit" || tpl.Messages[0].Params[0].Value != "$who" {
		t.Errorf("message = %+v", tpl.Messages[0])
	}
}

func TestCompileQuest(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Quest "Hunt" {
			states = {
				State "idle" {
					init = { Reward("debugprint", { message = "$greeting" }) },
					responses = {
						Response(Trigger("timeout", { timeout = 100 }), {
							Reward("newstate", { state = "$next" }),
							Reward("action", { entity = "door", pc = "pctools.properties", id = "Open" },
								{ Param("force", "bool", true) }),
						}),
					},
				},
			},
			sequences = {
				Sequence "run" { Op("movepath", { entity = "$prey" }, "$dur"), Op("debugprint", {}) },
			},
		}
	`); err != nil {
		t.Fatal(err)
	}

	c := &compiler{ve: &ValidationError{}}
	q := c.quest(coll.quests[0])
	if len(c.ve.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", c.ve.Errors)
	}
	st := q.States[0]
	if st.Name != "idle" || st.Init[0].Fields["message"] != "$greeting" {
		t.Errorf("state = %+v", st)
	}
	resp := st.Responses[0]
	if resp.Trigger.Kind != "timeout" || resp.Trigger.Fields["timeout"] != "100" {
		t.Errorf("trigger = %+v", resp.Trigger)
	}
	if len(resp.Rewards) != 2 || resp.Rewards[1].Params[0].Value != "true" {
		t.Errorf("rewards = %+v", resp.Rewards)
	}
	seq := q.Sequences[0]
	if seq.Name != "run" || len(seq.Operations) != 2 || seq.Operations[0].Duration != "$dur" {
		t.Errorf("sequence = %+v", seq)
	}
	if seq.Operations[1].Duration != "" {
		t.Errorf("missing duration = %q", seq.Operations[1].Duration)
	}
}

func TestCompileCell(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Cell "cave" {
			Object { id = 4, name = "gob", factory = "goblin_mesh", template = "Goblin",
				params = { Param("loot", "long", 3) } },
			Object { id = 5, factory = "rock" },
		}
	`); err != nil {
		t.Fatal(err)
	}

	c := &compiler{ve: &ValidationError{}}
	cell := c.cell(coll.cells[0])
	if len(cell.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(cell.Objects))
	}
	gob := cell.Objects[0]
	if gob.ID != 4 || gob.Name != "gob" || gob.Template != "Goblin" || gob.Cell != "cave" {
		t.Errorf("object = %+v", gob)
	}
	if gob.Params[0] != (types.Parameter{Name: "loot", Type: types.TypeLong, Value: "3"}) {
		t.Errorf("param = %+v", gob.Params[0])
	}
}

func TestCompile_BadParamType(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`Template "T" { pcs = { PC "pc" { properties = { Param("x", "decimal", 1) } } } }`); err != nil {
		t.Fatal(err)
	}
	c := &compiler{ve: &ValidationError{}}
	c.template(coll.templates[0])
	if len(c.ve.Errors) != 1 || !strings.Contains(c.ve.Errors[0], `unknown type "decimal"`) {
		t.Errorf("errors = %v", c.ve.Errors)
	}
}

func TestSandbox(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "require", "os", "io"} {
		if L.GetGlobal(name) != lua.LNil {
			t.Errorf("%s should not be available", name)
		}
	}
	if err := L.DoString(`local s = string.format("%d", math.floor(2.5))`); err != nil {
		t.Errorf("safe libs should be available: %v", err)
	}
}

func TestSortedLuaFiles(t *testing.T) {
	got := sortedLuaFiles([]string{"quests.lua", "cells.lua", "world.lua"})
	want := []string{"world.lua", "cells.lua", "quests.lua"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sortedLuaFiles = %v, want %v", got, want)
		}
	}
}
