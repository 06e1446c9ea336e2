package loader

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/doomcrawl/engine/rules"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	entries []rawEntry
	order   int
}

func (c *collector) add(kind string, key lua.LValue, tbl *lua.LTable) {
	c.order++
	c.entries = append(c.entries, rawEntry{kind: kind, key: key, table: tbl, order: c.order})
}

// Load reads a ruleset from a .lua file, or from every .lua file in a
// directory, and applies it on top of base. base is never modified. The
// Lua VM is discarded after loading.
func Load(path string, base *rules.Ruleset) (*rules.Ruleset, error) {
	luaFiles, err := discover(path)
	if err != nil {
		return nil, err
	}

	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	// Open safe libs only.
	openSafeLibs(L)

	// Sandbox: remove dangerous globals.
	sandbox(L)

	// Register API.
	coll := &collector{}
	registerAPI(L, coll)

	// Execute each file.
	for _, f := range luaFiles {
		if err := L.DoFile(f); err != nil {
			return nil, fmt.Errorf("executing %s: %w", filepath.Base(f), err)
		}
	}
	if len(coll.entries) == 0 {
		return nil, fmt.Errorf("no ruleset definitions found in %s", path)
	}

	// Compile and validate.
	rs, ve := compile(coll, base)
	validate(rs, ve)

	for _, w := range ve.Warnings {
		log.Printf("ruleset warning: %s", w)
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}
	return rs, nil
}

// discover returns the .lua files to execute, in execution order.
func discover(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading ruleset %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading ruleset directory %s: %w", path, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", path)
	}

	// Sort: rules.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)
	for i, f := range luaFiles {
		luaFiles[i] = filepath.Join(path, f)
	}
	return luaFiles, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	// Table library (table.insert, table.sort, etc.)
	lua.OpenTable(L)
	// String library (string.format, string.sub, etc.)
	lua.OpenString(L)
	// Math library (math.floor, math.max, etc.)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// The ruleset must not depend on Lua's own RNG.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}
