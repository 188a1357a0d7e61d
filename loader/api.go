package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerHelpers(L)
}

// curried returns a constructor used as Name "id" { ... }: the outer call
// takes the name, the returned function takes the table.
func curried(L *lua.LState, fn func(name string, tbl *lua.LTable)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			fn(name, L.CheckTable(1))
			return 0
		}))
		return 1
	})
}

// named is like curried but returns the table with its name set, for
// definitions nested inside another constructor.
func named(L *lua.LState) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("name", lua.LString(name))
			L.Push(tbl)
			return 1
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Template "name" { parents = {...}, classes = {...}, pcs = {...}, messages = {...} }
	L.SetGlobal("Template", curried(L, func(name string, tbl *lua.LTable) {
		coll.add(&coll.templates, name, tbl)
	}))

	// Quest "name" { states = {...}, sequences = {...} }
	L.SetGlobal("Quest", curried(L, func(name string, tbl *lua.LTable) {
		coll.add(&coll.quests, name, tbl)
	}))

	// Factory "name" { template = "..." }
	L.SetGlobal("Factory", curried(L, func(name string, tbl *lua.LTable) {
		coll.add(&coll.factories, name, tbl)
	}))

	// Cell "name" { Object {...}, ... }
	L.SetGlobal("Cell", curried(L, func(name string, tbl *lua.LTable) {
		coll.add(&coll.cells, name, tbl)
	}))

	// State "name" { init = {...}, exit = {...}, responses = {...} }
	L.SetGlobal("State", named(L))

	// Sequence "name" { Op(...), ... }
	L.SetGlobal("Sequence", named(L))

	// Object { id = 1, name = "...", factory = "...", params = {...} } — pass-through.
	L.SetGlobal("Object", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}))
}

func registerHelpers(L *lua.LState) {
	// Param("name", "type", value)
	L.SetGlobal("Param", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("name", lua.LString(L.CheckString(1)))
		tbl.RawSetString("type", lua.LString(L.CheckString(2)))
		tbl.RawSetString("value", L.Get(3))
		L.Push(tbl)
		return 1
	}))

	// PC("name", "tag") { properties = {...}, actions = {...} } — tag optional.
	L.SetGlobal("PC", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		tag := L.OptString(2, "")
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("name", lua.LString(name))
			tbl.RawSetString("tag", lua.LString(tag))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))

	// Action("name", { Param(...), ... })
	L.SetGlobal("Action", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("name", lua.LString(L.CheckString(1)))
		tbl.RawSetString("params", L.OptTable(2, L.NewTable()))
		L.Push(tbl)
		return 1
	}))

	// Message("id", { Param(...), ... })
	L.SetGlobal("Message", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("id", lua.LString(L.CheckString(1)))
		tbl.RawSetString("params", L.OptTable(2, L.NewTable()))
		L.Push(tbl)
		return 1
	}))

	// Trigger("kind", { field = value, ... })
	L.SetGlobal("Trigger", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString(L.CheckString(1)))
		tbl.RawSetString("fields", L.OptTable(2, L.NewTable()))
		L.Push(tbl)
		return 1
	}))

	// Reward("kind", { field = value, ... }, { Param(...), ... }) — params optional.
	L.SetGlobal("Reward", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString(L.CheckString(1)))
		tbl.RawSetString("fields", L.OptTable(2, L.NewTable()))
		tbl.RawSetString("params", L.OptTable(3, L.NewTable()))
		L.Push(tbl)
		return 1
	}))

	// Op("kind", { field = value, ... }, duration) — duration optional.
	L.SetGlobal("Op", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString(L.CheckString(1)))
		tbl.RawSetString("fields", L.OptTable(2, L.NewTable()))
		tbl.RawSetString("duration", L.Get(3))
		L.Push(tbl)
		return 1
	}))

	// Response(Trigger(...), { Reward(...), ... })
	L.SetGlobal("Response", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("trigger", L.CheckTable(1))
		tbl.RawSetString("rewards", L.OptTable(2, L.NewTable()))
		L.Push(tbl)
		return 1
	}))
}
