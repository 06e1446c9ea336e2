package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Ruleset { combat = {...}, potions = {...}, ... }
	L.SetGlobal("Ruleset", L.NewFunction(func(L *lua.LState) int {
		coll.add(kindRuleset, lua.LNil, L.CheckTable(1))
		return 0
	}))

	// Monster(level) { name = "..." }, Treasure(id) { name = "..." },
	// Weapon(tier) { name = "...", price = n }, Armor(tier) { ... }.
	// Curried: the first call picks the slot.
	for name, kind := range map[string]string{
		"Monster":  kindMonster,
		"Treasure": kindTreasure,
		"Weapon":   kindWeapon,
		"Armor":    kindArmor,
	} {
		L.SetGlobal(name, curried(L, coll, kind, func(L *lua.LState) lua.LValue {
			return lua.LNumber(L.CheckInt(1))
		}))
	}

	// Spell "fireball" { price = n }
	L.SetGlobal("Spell", curried(L, coll, kindSpell, func(L *lua.LState) lua.LValue {
		return lua.LString(L.CheckString(1))
	}))
}

// curried returns a constructor taking a key and then a table.
func curried(L *lua.LState, coll *collector, kind string, key func(*lua.LState) lua.LValue) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		k := key(L)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.add(kind, k, L.CheckTable(1))
			return 0
		}))
		return 1
	})
}

// registerHelpers adds small conveniences for ruleset authors.
func registerHelpers(L *lua.LState) {
	// percent(40) -> 0.4
	L.SetGlobal("percent", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(float64(L.CheckNumber(1)) / 100))
		return 1
	}))
}
