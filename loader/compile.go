// Package loader reads Lua ruleset files into a rules.Ruleset.
// The Lua VM is discarded after loading; the engine never runs Lua.
package loader

import (
	"fmt"
	"math"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/doomcrawl/engine/rules"
	"github.com/nathoo/doomcrawl/engine/state"
	"github.com/nathoo/doomcrawl/types"
)

// Constructor kinds.
const (
	kindRuleset  = "Ruleset"
	kindMonster  = "Monster"
	kindTreasure = "Treasure"
	kindWeapon   = "Weapon"
	kindArmor    = "Armor"
	kindSpell    = "Spell"
)

// rawEntry holds one constructor call before compilation.
type rawEntry struct {
	kind  string
	key   lua.LValue // level, id, tier or spell name; LNil for Ruleset
	table *lua.LTable
	order int
}

// fields reads typed fields from one Lua table, recording problems in ve
// and remembering which keys were consumed.
type fields struct {
	where string
	tbl   *lua.LTable
	ve    *ValidationError
	seen  map[string]bool
}

func newFields(where string, tbl *lua.LTable, ve *ValidationError) *fields {
	return &fields{where: where, tbl: tbl, ve: ve, seen: map[string]bool{}}
}

func (f *fields) get(key string) lua.LValue {
	f.seen[key] = true
	return f.tbl.RawGetString(key)
}

func (f *fields) errorf(format string, args ...any) {
	f.ve.Errors = append(f.ve.Errors, f.where+": "+fmt.Sprintf(format, args...))
}

// int sets *dst when key is present and holds an integer.
func (f *fields) int(key string, dst *int) {
	switch v := f.get(key).(type) {
	case *lua.LNilType:
	case lua.LNumber:
		if float64(v) != math.Trunc(float64(v)) {
			f.errorf("%s must be an integer, got %v", key, v)
			return
		}
		*dst = int(v)
	default:
		f.errorf("%s must be a number, got %s", key, v.Type())
	}
}

// float sets *dst when key is present and holds a number.
func (f *fields) float(key string, dst *float64) {
	switch v := f.get(key).(type) {
	case *lua.LNilType:
	case lua.LNumber:
		*dst = float64(v)
	default:
		f.errorf("%s must be a number, got %s", key, v.Type())
	}
}

// str sets *dst when key is present and holds a string.
func (f *fields) str(key string, dst *string) {
	switch v := f.get(key).(type) {
	case *lua.LNilType:
	case lua.LString:
		*dst = string(v)
	default:
		f.errorf("%s must be a string, got %s", key, v.Type())
	}
}

// table returns the sub-table at key, or nil when absent.
func (f *fields) table(key string) *lua.LTable {
	switch v := f.get(key).(type) {
	case *lua.LNilType:
	case *lua.LTable:
		return v
	default:
		f.errorf("%s must be a table, got %s", key, v.Type())
	}
	return nil
}

// names copies a list of strings into dst, starting at index 0.
func (f *fields) names(key string, dst []string) {
	tbl := f.table(key)
	if tbl == nil {
		return
	}
	n := tbl.MaxN()
	if n > len(dst) {
		f.errorf("%s lists %d names, at most %d allowed", key, n, len(dst))
		return
	}
	for i := 1; i <= n; i++ {
		s, ok := tbl.RawGetInt(i).(lua.LString)
		if !ok {
			f.errorf("%s[%d] must be a string", key, i)
			continue
		}
		dst[i-1] = string(s)
	}
}

// done warns about keys nobody asked for, in sorted order.
func (f *fields) done() {
	var unknown []string
	f.tbl.ForEach(func(k, _ lua.LValue) {
		if ks, ok := k.(lua.LString); ok && f.seen[string(ks)] {
			return
		}
		unknown = append(unknown, k.String())
	})
	sort.Strings(unknown)
	for _, k := range unknown {
		f.ve.Warnings = append(f.ve.Warnings, fmt.Sprintf("%s: unknown field %s", f.where, k))
	}
}

// compile applies every collected definition, in call order, to a copy of
// base.
func compile(coll *collector, base *rules.Ruleset) (*rules.Ruleset, *ValidationError) {
	rs := base.Clone()
	ve := &ValidationError{}

	for _, e := range coll.entries {
		switch e.kind {
		case kindRuleset:
			compileRuleset(e.table, rs, ve)
		case kindMonster:
			compileName(e, rs.MonsterNames[:], ve)
		case kindTreasure:
			compileName(e, rs.TreasureNames[:], ve)
		case kindWeapon:
			compileGear(e, &rs.WeaponNames, &rs.WeaponPrices, ve)
		case kindArmor:
			compileGear(e, &rs.ArmorNames, &rs.ArmorPrices, ve)
		case kindSpell:
			compileSpell(e, rs, ve)
		}
	}
	return rs, ve
}

func compileRuleset(tbl *lua.LTable, rs *rules.Ruleset, ve *ValidationError) {
	top := newFields("Ruleset", tbl, ve)
	top.names("monsters", rs.MonsterNames[:])
	top.names("treasures", rs.TreasureNames[:])

	if t := top.table("potions"); t != nil {
		f := newFields("Ruleset.potions", t, ve)
		f.int("healing_price", &rs.HealingPotionPrice)
		f.int("healing_amount", &rs.HealingPotionAmount)
		f.int("attribute_price", &rs.AttributePotionPrice)
		f.done()
	}
	if t := top.table("flares"); t != nil {
		f := newFields("Ruleset.flares", t, ve)
		f.int("bundle_size", &rs.FlareBundleSize)
		f.int("bundle_price", &rs.FlareBundlePrice)
		f.done()
	}
	if t := top.table("creation"); t != nil {
		f := newFields("Ruleset.creation", t, ve)
		f.int("points", &rs.CreationPoints)
		f.int("flare_price", &rs.CreationFlarePrice)
		f.int("gold_min", &rs.StartingGoldMin)
		f.int("gold_max", &rs.StartingGoldMax)
		f.done()
	}
	if t := top.table("combat"); t != nil {
		f := newFields("Ruleset.combat", t, ve)
		f.int("min_spell_iq", &rs.MinSpellIQ)
		f.int("protection_bonus", &rs.ProtectionBonus)
		f.float("run_chance", &rs.RunChance)
		f.float("weapon_break_chance", &rs.WeaponBreakChance)
		f.float("final_attack_chance", &rs.FinalAttackChance)
		f.done()
	}
	top.done()
}

// slot returns the integer key of a curried constructor if it lies in
// [lo, hi].
func slot(e rawEntry, lo, hi int, ve *ValidationError) (int, bool) {
	n, ok := e.key.(lua.LNumber)
	if !ok || int(n) < lo || int(n) > hi {
		ve.Errors = append(ve.Errors, fmt.Sprintf("%s(%s): must be within %d..%d", e.kind, e.key, lo, hi))
		return 0, false
	}
	return int(n), true
}

func compileName(e rawEntry, names []string, ve *ValidationError) {
	i, ok := slot(e, 1, len(names), ve)
	if !ok {
		return
	}
	f := newFields(fmt.Sprintf("%s(%d)", e.kind, i), e.table, ve)
	f.str("name", &names[i-1])
	f.done()
}

func compileGear(e rawEntry, names *[4]string, prices *[4]int, ve *ValidationError) {
	tier, ok := slot(e, 1, 3, ve)
	if !ok {
		return
	}
	f := newFields(fmt.Sprintf("%s(%d)", e.kind, tier), e.table, ve)
	f.str("name", &names[tier])
	f.int("price", &prices[tier])
	f.done()
}

func compileSpell(e rawEntry, rs *rules.Ruleset, ve *ValidationError) {
	name := e.key.String()
	spell, ok := spellByName(name)
	if !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf("Spell %q: unknown spell", name))
		return
	}
	price := rs.SpellPrices[spell]
	f := newFields(fmt.Sprintf("Spell %q", name), e.table, ve)
	f.int("price", &price)
	f.done()
	rs.SpellPrices[spell] = price
}

func spellByName(name string) (types.Spell, bool) {
	for _, s := range types.AllSpells {
		if state.SpellWord(s) == name || state.SpellLabel(s) == name {
			return s, true
		}
	}
	return 0, false
}

// sortedLuaFiles returns files sorted with rules.lua first.
func sortedLuaFiles(files []string) []string {
	var rulesFile string
	var others []string
	for _, f := range files {
		if f == "rules.lua" {
			rulesFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if rulesFile != "" {
		return append([]string{rulesFile}, others...)
	}
	return others
}
