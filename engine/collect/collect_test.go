package collect

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/nathoo/questcheck/engine/domain"
	"github.com/nathoo/questcheck/engine/kinds"
	"github.com/nathoo/questcheck/engine/symbols"
	"github.com/nathoo/questcheck/engine/world"
	"github.com/nathoo/questcheck/types"
)

func newCollector(t *testing.T, d *world.Defs) (*Collector, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	return New(d, symbols.NewTable(), kinds.Default(), logger), &logs
}

func lookup(t *testing.T, c *Collector, m domain.Map, name string) domain.Domain {
	t.Helper()
	id, ok := c.Symbols.Lookup(name)
	if !ok {
		t.Fatalf("parameter %q was never interned", name)
	}
	d, ok := m[id]
	if !ok {
		t.Fatalf("parameter %q not collected; have %v", name, m.Names(c.Symbols))
	}
	return d
}

func entityPC(name, param string) types.PropertyClass {
	return types.PropertyClass{
		Name:       "pcmove.actor",
		Properties: []types.Parameter{{Name: name, Type: types.TypeString, Value: param}},
	}
}

func TestReference_OnlyDollarNames(t *testing.T) {
	c, _ := newCollector(t, world.NewDefs(nil, nil, nil, nil))
	m := domain.Map{}
	for _, v := range []string{"", "literal", "@external", "=1+2", "$this", "$"} {
		c.Reference(v, types.TypeString, domain.RoleEntity, m)
	}
	if len(m) != 0 {
		t.Errorf("collected %v from non-parameter values", m.Names(c.Symbols))
	}
	c.Reference("$target", types.TypeString, domain.RoleEntity, m)
	if d := lookup(t, c, m, "target"); d.Role != domain.RoleEntity {
		t.Errorf("target role = %v", d.Role)
	}
}

func TestTemplate_ParentsMergeWithoutConflict(t *testing.T) {
	spawn := func(v string) types.PropertyClass {
		return types.PropertyClass{
			Name:       "pctools.inventory",
			Properties: []types.Parameter{{Name: "child", Type: types.TypeString, Value: v}},
		}
	}
	d := world.NewDefs([]types.Template{
		{Name: "A", PropertyClasses: []types.PropertyClass{spawn("$target")}},
		{Name: "B", PropertyClasses: []types.PropertyClass{spawn("$target")}},
		{Name: "C", Parents: []string{"A", "B"}},
	}, nil, nil, nil)
	c, _ := newCollector(t, d)

	tplC, _ := d.FindTemplate("C")
	m := c.Template(tplC)
	if len(m) != 1 {
		t.Fatalf("expected one parameter, got %v", m.Names(c.Symbols))
	}
	got := lookup(t, c, m, "target")
	if got.Role != domain.RoleEntity || got.Type != types.TypeString {
		t.Errorf("target = %v/%v, want string/entity", got.Type, got.Role)
	}
}

func TestTemplate_UnionLaw(t *testing.T) {
	d := world.NewDefs([]types.Template{
		{Name: "Mesh", PropertyClasses: []types.PropertyClass{{
			Name: "pcobject.mesh",
			Properties: []types.Parameter{
				{Name: "sector", Type: types.TypeString, Value: "$room"},
				{Name: "x", Type: types.TypeFloat, Value: "$px"},
			},
		}}},
		{Name: "Light", PropertyClasses: []types.PropertyClass{{
			Name:    "pcobject.light",
			Actions: []types.Action{{Name: "SetColor", Params: []types.Parameter{{Name: "red", Type: types.TypeFloat, Value: "$px"}}}},
		}}},
		{
			Name:     "Lamp",
			Parents:  []string{"Mesh", "Light"},
			Messages: []types.Message{{ID: "lit", Params: []types.Parameter{{Name: "by", Type: types.TypeString, Value: "$who"}}}},
		},
	}, nil, nil, nil)
	c, _ := newCollector(t, d)

	lamp, _ := d.FindTemplate("Lamp")
	whole := c.Template(lamp)

	parts := domain.Map{}
	c.TemplateOwn(lamp, parts)
	for _, name := range lamp.Parents {
		p, _ := d.FindTemplate(name)
		parts.Merge(c.Template(p))
	}

	if len(whole) != len(parts) {
		t.Fatalf("whole has %v, parts have %v", whole.Names(c.Symbols), parts.Names(c.Symbols))
	}
	for id, want := range parts {
		got := whole[id]
		if got.Type != want.Type || got.Role.Simplify() != want.Role.Simplify() || !got.Obligations.Equal(want.Obligations) {
			t.Errorf("%s: whole %v/%v, parts %v/%v", c.Symbols.Name(id), got.Type, got.Role, want.Type, want.Role)
		}
	}
	// px is a vector component on the mesh and a color component on the
	// light: both simplify to value.
	if px := lookup(t, c, whole, "px"); px.Conflicted() {
		t.Error("px should not conflict")
	}
}

func TestTemplate_CycleTerminates(t *testing.T) {
	d := world.NewDefs([]types.Template{
		{Name: "A", Parents: []string{"B"}, PropertyClasses: []types.PropertyClass{entityPC("speed", "$a")}},
		{Name: "B", Parents: []string{"A"}, PropertyClasses: []types.PropertyClass{entityPC("speed", "$b")}},
	}, nil, nil, nil)
	c, _ := newCollector(t, d)
	a, _ := d.FindTemplate("A")
	m := c.Template(a)
	if len(m) != 2 {
		t.Errorf("expected a and b, got %v", m.Names(c.Symbols))
	}
}

func TestQuest_DispatchesByKind(t *testing.T) {
	q := &types.Quest{
		Name: "Hunt",
		States: []types.State{{
			Name: "idle",
			Init: []types.RewardDef{{Kind: "debugprint", Fields: map[string]string{"message": "$greeting"}}},
			Responses: []types.Response{{
				Trigger: types.TriggerDef{Kind: "propertychange", Fields: map[string]string{
					"entity": "$prey", "tag": "$ptag", "property": "$prop",
				}},
				Rewards: []types.RewardDef{
					{Kind: "newstate", Fields: map[string]string{"state": "$next", "entity": "$this"}},
					{Kind: "changeproperty", Fields: map[string]string{"entity": "$mark", "tag": "$qtag", "property": "hp"}},
					{Kind: "action", Fields: map[string]string{"entity": "$mark", "tag": "$atag", "id": "Open"}},
				},
			}},
		}},
		Sequences: []types.Sequence{{
			Name: "run",
			Operations: []types.SeqOpDef{{
				Kind:     "movepath",
				Fields:   map[string]string{"entity": "$prey", "sector": "$room", "time": "$t"},
				Duration: "$dur",
			}},
		}},
	}
	c, _ := newCollector(t, world.NewDefs(nil, []types.Quest{*q}, nil, nil))
	m := c.Quest(q)

	prey := lookup(t, c, m, "prey")
	if prey.Role != domain.RoleEntity {
		t.Errorf("prey role = %v", prey.Role)
	}
	wantObl := domain.ObligationSet{}
	wantObl.Add(domain.Obligation{Tag: "$ptag", PropertyClass: kinds.PCProperties})
	wantObl.Add(domain.Obligation{PropertyClass: kinds.PCMesh})
	if !prey.Obligations.Equal(wantObl) {
		t.Errorf("prey obligations = %v", prey.Obligations.Sorted())
	}

	checks := map[string]domain.Role{
		"ptag":     domain.RoleTag,
		"prop":     domain.RoleProperty,
		"next":     domain.RoleState,
		"mark":     domain.RoleEntity,
		"qtag":     domain.RoleTag,
		"atag":     domain.RoleTag,
		"room":     domain.RoleSector,
		"t":        domain.RoleValue,
		"dur":      domain.RoleValue,
		"greeting": domain.RoleNone,
	}
	for name, role := range checks {
		if got := lookup(t, c, m, name).Role; got != role {
			t.Errorf("%s role = %v, want %v", name, got, role)
		}
	}
	if _, ok := c.Symbols.Lookup("this"); ok {
		t.Error("$this must not be collected")
	}
}

func TestQuest_UnknownKindWarns(t *testing.T) {
	q := &types.Quest{
		Name: "Odd",
		States: []types.State{{
			Name: "s",
			Init: []types.RewardDef{{Kind: "teleport", Fields: map[string]string{"to": "$where"}}},
		}},
	}
	c, logs := newCollector(t, world.NewDefs(nil, []types.Quest{*q}, nil, nil))
	m := c.Quest(q)
	if len(m) != 0 {
		t.Errorf("unknown kind contributed %v", m.Names(c.Symbols))
	}
	if !strings.Contains(logs.String(), "unsupported reward kind") || !strings.Contains(logs.String(), "teleport") {
		t.Errorf("missing warning, logs: %s", logs.String())
	}
}

func TestPropertyClass_QuestContextPropagates(t *testing.T) {
	patrol := types.Quest{
		Name: "Patrol",
		States: []types.State{{
			Name: "watching",
			Responses: []types.Response{{
				Trigger: types.TriggerDef{Kind: "propertychange", Fields: map[string]string{"entity": "$target", "property": "hp"}},
			}},
		}},
	}
	guard := types.Template{
		Name: "Guard",
		PropertyClasses: []types.PropertyClass{{
			Name: kinds.PCQuest,
			Actions: []types.Action{{Name: kinds.ActionNewQuest, Params: []types.Parameter{
				{Name: "name", Type: types.TypeString, Value: "Patrol"},
				{Name: "target", Type: types.TypeString, Value: "$foe"},
			}}},
		}},
	}
	d := world.NewDefs([]types.Template{guard}, []types.Quest{patrol}, nil, nil)
	c, _ := newCollector(t, d)

	tpl, _ := d.FindTemplate("Guard")
	m := c.Template(tpl)
	foe := lookup(t, c, m, "foe")
	if foe.Role != domain.RoleEntity {
		t.Errorf("foe role = %v, want entity", foe.Role)
	}
	if _, ok := foe.Obligations[domain.Obligation{PropertyClass: kinds.PCProperties}]; !ok {
		t.Errorf("foe obligations = %v, want pctools.properties", foe.Obligations.Sorted())
	}
	if len(m) != 1 {
		t.Errorf("quest parameters leaked into template: %v", m.Names(c.Symbols))
	}
}

func TestObject_UsesResolvedTemplate(t *testing.T) {
	d := world.NewDefs(
		[]types.Template{{Name: "Crate", PropertyClasses: []types.PropertyClass{entityPC("owner", "$owner")}}},
		nil,
		[]types.Factory{{Name: "crate_mesh", DefaultTemplate: "Crate"}},
		[]types.Cell{{Name: "room", Objects: []types.Object{{ID: 1, Name: "box", Factory: "crate_mesh"}, {ID: 2, Factory: "nothing"}}}},
	)
	c, _ := newCollector(t, d)
	objs := d.Objects()
	if m := c.Object(objs[0]); len(m) != 1 {
		t.Errorf("box parameters = %v", m.Names(c.Symbols))
	}
	if m := c.Object(objs[1]); len(m) != 0 {
		t.Errorf("unresolvable object should have no parameters, got %v", m.Names(c.Symbols))
	}
}
