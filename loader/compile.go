package loader

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/nathoo/questcheck/engine/world"
	"github.com/nathoo/questcheck/types"
	lua "github.com/yuin/gopher-lua"
)

// getString returns a field from a Lua table as a string, or "" if missing.
// Numbers and booleans are formatted the way they were written.
func getString(tbl *lua.LTable, key string) string {
	return luaString(tbl.RawGetString(key))
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// luaString converts a scalar Lua value to its string form.
func luaString(v lua.LValue) string {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	case lua.LBool:
		return strconv.FormatBool(bool(val))
	}
	return ""
}

// eachTable calls fn for every table in the array part of tbl, in order.
func eachTable(tbl *lua.LTable, fn func(*lua.LTable)) {
	if tbl == nil {
		return
	}
	for i := 1; i <= tbl.Len(); i++ {
		if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			fn(t)
		}
	}
}

// stringList converts the array part of tbl to strings.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.Len(); i++ {
		if s := luaString(tbl.RawGetInt(i)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// tableToStringMap converts the string-keyed entries of a Lua table to a
// map[string]string.
func tableToStringMap(tbl *lua.LTable) map[string]string {
	m := map[string]string{}
	if tbl == nil {
		return m
	}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = luaString(v)
		}
	})
	return m
}

// compiler converts collected Lua tables into world types, recording
// structural problems as it goes.
type compiler struct {
	ve *ValidationError
}

func (c *compiler) errorf(where, format string, args ...any) {
	c.ve.Errors = append(c.ve.Errors, where+": "+fmt.Sprintf(format, args...))
}

// compile converts all collected Lua data into indexed definitions.
func compile(coll *collector) (*world.Defs, *ValidationError) {
	c := &compiler{ve: &ValidationError{}}

	var templates []types.Template
	for _, raw := range coll.templates {
		templates = append(templates, c.template(raw))
	}
	var quests []types.Quest
	for _, raw := range coll.quests {
		quests = append(quests, c.quest(raw))
	}
	var factories []types.Factory
	for _, raw := range coll.factories {
		factories = append(factories, types.Factory{
			Name:            raw.name,
			DefaultTemplate: getString(raw.table, "template"),
		})
	}
	var cells []types.Cell
	for _, raw := range coll.cells {
		cells = append(cells, c.cell(raw))
	}

	validate(coll, templates, quests, factories, cells, c.ve)
	return world.NewDefs(templates, quests, factories, cells), c.ve
}

func (c *compiler) template(raw rawDef) types.Template {
	where := fmt.Sprintf("%s: template %q", raw.file, raw.name)
	tpl := types.Template{
		Name:    raw.name,
		Parents: stringList(getTable(raw.table, "parents")),
		Classes: stringList(getTable(raw.table, "classes")),
	}
	eachTable(getTable(raw.table, "pcs"), func(t *lua.LTable) {
		tpl.PropertyClasses = append(tpl.PropertyClasses, c.propertyClass(where, t))
	})
	eachTable(getTable(raw.table, "messages"), func(t *lua.LTable) {
		tpl.Messages = append(tpl.Messages, types.Message{
			ID:     getString(t, "id"),
			Params: c.params(where, getTable(t, "params")),
		})
	})
	return tpl
}

func (c *compiler) propertyClass(where string, tbl *lua.LTable) types.PropertyClass {
	pc := types.PropertyClass{
		Name:       getString(tbl, "name"),
		Tag:        getString(tbl, "tag"),
		Properties: c.params(where, getTable(tbl, "properties")),
	}
	if pc.Name == "" {
		c.errorf(where, "property class without a name")
	}
	eachTable(getTable(tbl, "actions"), func(t *lua.LTable) {
		pc.Actions = append(pc.Actions, types.Action{
			Name:   getString(t, "name"),
			Params: c.params(where, getTable(t, "params")),
		})
	})
	return pc
}

func (c *compiler) params(where string, tbl *lua.LTable) []types.Parameter {
	var out []types.Parameter
	eachTable(tbl, func(t *lua.LTable) {
		p := types.Parameter{
			Name:  getString(t, "name"),
			Value: getString(t, "value"),
		}
		typ := getString(t, "type")
		dt, ok := types.ParseDataType(typ)
		if !ok {
			c.errorf(where, "parameter %q has unknown type %q", p.Name, typ)
		}
		p.Type = dt
		if p.Name == "" {
			c.errorf(where, "parameter without a name")
		}
		out = append(out, p)
	})
	return out
}

func (c *compiler) quest(raw rawDef) types.Quest {
	where := fmt.Sprintf("%s: quest %q", raw.file, raw.name)
	q := types.Quest{Name: raw.name}
	eachTable(getTable(raw.table, "states"), func(t *lua.LTable) {
		st := types.State{
			Name: getString(t, "name"),
			Init: c.rewards(where, getTable(t, "init")),
			Exit: c.rewards(where, getTable(t, "exit")),
		}
		eachTable(getTable(t, "responses"), func(r *lua.LTable) {
			resp := types.Response{Rewards: c.rewards(where, getTable(r, "rewards"))}
			if trig := getTable(r, "trigger"); trig != nil {
				resp.Trigger = types.TriggerDef{
					Kind:   getString(trig, "kind"),
					Fields: tableToStringMap(getTable(trig, "fields")),
				}
			}
			if resp.Trigger.Kind == "" {
				c.errorf(where, "state %q has a response without a trigger kind", st.Name)
			}
			st.Responses = append(st.Responses, resp)
		})
		q.States = append(q.States, st)
	})
	eachTable(getTable(raw.table, "sequences"), func(t *lua.LTable) {
		seq := types.Sequence{Name: getString(t, "name")}
		eachTable(t, func(op *lua.LTable) {
			def := types.SeqOpDef{
				Kind:     getString(op, "kind"),
				Fields:   tableToStringMap(getTable(op, "fields")),
				Duration: getString(op, "duration"),
			}
			if def.Kind == "" {
				c.errorf(where, "sequence %q has an operation without a kind", seq.Name)
			}
			seq.Operations = append(seq.Operations, def)
		})
		q.Sequences = append(q.Sequences, seq)
	})
	return q
}

func (c *compiler) rewards(where string, tbl *lua.LTable) []types.RewardDef {
	var out []types.RewardDef
	eachTable(tbl, func(t *lua.LTable) {
		r := types.RewardDef{
			Kind:   getString(t, "kind"),
			Fields: tableToStringMap(getTable(t, "fields")),
			Params: c.params(where, getTable(t, "params")),
		}
		if r.Kind == "" {
			c.errorf(where, "reward without a kind")
		}
		out = append(out, r)
	})
	return out
}

func (c *compiler) cell(raw rawDef) types.Cell {
	where := fmt.Sprintf("%s: cell %q", raw.file, raw.name)
	cell := types.Cell{Name: raw.name}
	eachTable(raw.table, func(t *lua.LTable) {
		obj := types.Object{
			ID:       getInt(t, "id"),
			Name:     getString(t, "name"),
			Factory:  getString(t, "factory"),
			Template: getString(t, "template"),
			Cell:     raw.name,
			Params:   c.params(where, getTable(t, "params")),
		}
		if obj.Factory == "" {
			c.errorf(where, "object #%d has no factory", obj.ID)
		}
		cell.Objects = append(cell.Objects, obj)
	})
	return cell
}

// sortedLuaFiles returns .lua files with world.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var worldFile string
	var others []string
	for _, f := range files {
		if f == "world.lua" {
			worldFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if worldFile != "" {
		return append([]string{worldFile}, others...)
	}
	return others
}
