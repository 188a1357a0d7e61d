// Package loader loads Lua world content (templates, quests, factories and
// placed objects) into Go structs. The Lua VM is discarded after loading.
package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/questcheck/engine/world"
	lua "github.com/yuin/gopher-lua"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	templates []rawDef
	quests    []rawDef
	factories []rawDef
	cells     []rawDef
	file      string
}

// rawDef is a named constructor call before compilation.
type rawDef struct {
	name  string
	file  string
	table *lua.LTable
}

func (c *collector) add(list *[]rawDef, name string, tbl *lua.LTable) {
	*list = append(*list, rawDef{name: name, file: c.file, table: tbl})
}

// Load reads all .lua files from dir, compiles them into world definitions,
// validates their structure, and returns the indexed Defs. Warnings are
// logged; errors are returned as a *ValidationError.
func Load(dir string, logger *slog.Logger) (*world.Defs, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading world directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// Sort: world.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		coll.file = f
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	defs, ve := compile(coll)
	defs.Name = filepath.Base(filepath.Clean(dir))
	logger.Debug("world loaded", "world", defs.Name, "files", len(luaFiles),
		"templates", len(defs.Templates()), "quests", len(defs.Quests()),
		"objects", len(defs.Objects()))

	for _, w := range ve.Warnings {
		logger.Warn(w, "world", defs.Name)
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}
	return defs, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the world files.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
}
