package state

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/doomcrawl/types"
)

var (
	titleCase = cases.Title(language.English)
	lowerCase = cases.Lower(language.English)
)

// Spell names are kept as they appear on scrolls.
var spellWords = map[types.Spell]string{
	types.SpellProtection: "PROTECTION",
	types.SpellFireball:   "FIREBALL",
	types.SpellLightning:  "LIGHTNING",
	types.SpellWeaken:     "WEAKEN",
	types.SpellTeleport:   "TELEPORT",
}

var spellKeys = map[types.Spell]string{
	types.SpellProtection: "P",
	types.SpellFireball:   "F",
	types.SpellLightning:  "L",
	types.SpellWeaken:     "W",
	types.SpellTeleport:   "T",
}

// SpellLabel returns the menu label of a spell, e.g. "Fireball".
func SpellLabel(s types.Spell) string {
	return titleCase.String(spellWords[s])
}

// SpellWord returns the lower-case spell name used in narration.
func SpellWord(s types.Spell) string {
	return lowerCase.String(spellWords[s])
}

// SpellKey returns the single-letter menu key of a spell.
func SpellKey(s types.Spell) string {
	return spellKeys[s]
}

// SpellByKey maps a menu key back to its spell.
func SpellByKey(key string) (types.Spell, bool) {
	for _, s := range types.AllSpells {
		if spellKeys[s] == key {
			return s, true
		}
	}
	return 0, false
}

// RaceLabel returns the display name of a race.
func RaceLabel(r types.Race) string {
	switch r {
	case types.RaceHuman:
		return "Human"
	case types.RaceDwarf:
		return "Dwarf"
	case types.RaceElf:
		return "Elf"
	case types.RaceHalfling:
		return "Halfling"
	}
	return "Adventurer"
}

// ParseRace accepts a race name or its 1-based number, in any case.
func ParseRace(s string) (types.Race, bool) {
	switch lowerCase.String(s) {
	case "1", "human":
		return types.RaceHuman, true
	case "2", "dwarf":
		return types.RaceDwarf, true
	case "3", "elf":
		return types.RaceElf, true
	case "4", "halfling":
		return types.RaceHalfling, true
	}
	return 0, false
}

// FeatureSymbol returns the one-character map symbol of a feature.
func FeatureSymbol(f types.Feature) string {
	switch f {
	case types.FeatureEmpty:
		return "-"
	case types.FeatureMirror:
		return "m"
	case types.FeatureScroll:
		return "s"
	case types.FeatureChest:
		return "c"
	case types.FeatureFlares:
		return "f"
	case types.FeaturePotion:
		return "p"
	case types.FeatureVendor:
		return "v"
	case types.FeatureThief:
		return "t"
	case types.FeatureWarp:
		return "w"
	case types.FeatureStairsUp:
		return "U"
	case types.FeatureStairsDown:
		return "D"
	case types.FeatureExit:
		return "X"
	}
	return "0"
}

// FeatureLabel returns a human name for a feature, e.g. "Stairs Down".
func FeatureLabel(f types.Feature) string {
	names := map[types.Feature]string{
		types.FeatureEmpty:      "empty",
		types.FeatureMirror:     "mirror",
		types.FeatureScroll:     "scroll",
		types.FeatureChest:      "chest",
		types.FeatureFlares:     "flares",
		types.FeaturePotion:     "potion",
		types.FeatureVendor:     "vendor",
		types.FeatureThief:      "thief",
		types.FeatureWarp:       "warp",
		types.FeatureStairsUp:   "stairs up",
		types.FeatureStairsDown: "stairs down",
		types.FeatureExit:       "exit",
	}
	if n, ok := names[f]; ok {
		return titleCase.String(n)
	}
	return "Unknown"
}
