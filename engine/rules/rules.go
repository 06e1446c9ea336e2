// Package rules holds the tunable tables of the game: names, prices and
// the probabilities the sessions roll against. A Ruleset is immutable once
// built; Default returns the classic values and the loader can produce an
// overridden copy from a Lua file.
package rules

import (
	"fmt"

	"github.com/nathoo/doomcrawl/types"
)

// Ruleset is the full set of tunables consumed by the engine.
type Ruleset struct {
	MonsterNames  [10]string `json:"monster_names"`  // index = level-1
	TreasureNames [10]string `json:"treasure_names"` // index = id-1

	WeaponNames  [4]string `json:"weapon_names"` // index = tier
	ArmorNames   [4]string `json:"armor_names"`
	WeaponPrices [4]int    `json:"weapon_prices"` // index 0 unused
	ArmorPrices  [4]int    `json:"armor_prices"`

	SpellPrices map[types.Spell]int `json:"spell_prices"`

	HealingPotionPrice   int `json:"healing_potion_price"`
	HealingPotionAmount  int `json:"healing_potion_amount"`
	AttributePotionPrice int `json:"attribute_potion_price"`

	FlareBundleSize  int `json:"flare_bundle_size"`
	FlareBundlePrice int `json:"flare_bundle_price"`

	// Character creation.
	CreationPoints     int `json:"creation_points"`
	CreationFlarePrice int `json:"creation_flare_price"`
	StartingGoldMin    int `json:"starting_gold_min"`
	StartingGoldMax    int `json:"starting_gold_max"`

	// Encounter tunables.
	MinSpellIQ        int     `json:"min_spell_iq"`
	ProtectionBonus   int     `json:"protection_bonus"`
	RunChance         float64 `json:"run_chance"`
	WeaponBreakChance float64 `json:"weapon_break_chance"`
	FinalAttackChance float64 `json:"final_attack_chance"`
}

// Default returns the classic Dungeon of Doom tables.
func Default() *Ruleset {
	return &Ruleset{
		MonsterNames: [10]string{
			"Skeleton", "Goblin", "Kobold", "Orc", "Troll",
			"Werewolf", "Banshee", "Hellhound", "Chimaera", "Dragon",
		},
		TreasureNames: [10]string{
			"Gold Fleece", "Black Pearl", "Ruby Ring", "Diamond Clasp", "Silver Medallion",
			"Precious Spices", "Sapphire", "Golden Circlet", "Jeweled Cross", "Silmaril",
		},
		WeaponNames:  [4]string{"(None)", "Dagger", "Short sword", "Broadsword"},
		ArmorNames:   [4]string{"(None)", "Leather", "Wooden", "Chain mail"},
		WeaponPrices: [4]int{0, 10, 20, 30},
		ArmorPrices:  [4]int{0, 10, 20, 30},
		SpellPrices: map[types.Spell]int{
			types.SpellProtection: 50,
			types.SpellFireball:   30,
			types.SpellLightning:  50,
			types.SpellWeaken:     75,
			types.SpellTeleport:   80,
		},
		HealingPotionPrice:   50,
		HealingPotionAmount:  10,
		AttributePotionPrice: 100,
		FlareBundleSize:      10,
		FlareBundlePrice:     10,
		CreationPoints:       5,
		CreationFlarePrice:   1,
		StartingGoldMin:      50,
		StartingGoldMax:      60,
		MinSpellIQ:           12,
		ProtectionBonus:      3,
		RunChance:            0.4,
		WeaponBreakChance:    0.05,
		FinalAttackChance:    0.3,
	}
}

// Clone returns a deep copy, so overrides never alias the defaults.
func (r *Ruleset) Clone() *Ruleset {
	c := *r
	c.SpellPrices = make(map[types.Spell]int, len(r.SpellPrices))
	for k, v := range r.SpellPrices {
		c.SpellPrices[k] = v
	}
	return &c
}

// MonsterName returns the display name of a monster level (1..10).
func (r *Ruleset) MonsterName(level int) string {
	if level < 1 || level > len(r.MonsterNames) {
		return "monster"
	}
	return r.MonsterNames[level-1]
}

// TreasureName returns the display name of a treasure id (1..10).
func (r *Ruleset) TreasureName(id int) string {
	if id < 1 || id > len(r.TreasureNames) {
		return "treasure"
	}
	return r.TreasureNames[id-1]
}

// SpellPrice returns the vendor price of one scroll of s.
func (r *Ruleset) SpellPrice(s types.Spell) int {
	return r.SpellPrices[s]
}

// Validate reports every inconsistency in the ruleset. An empty result
// means the ruleset is usable.
func (r *Ruleset) Validate() []string {
	var errs []string

	for i, n := range r.MonsterNames {
		if n == "" {
			errs = append(errs, fmt.Sprintf("monster level %d has no name", i+1))
		}
	}
	for i, n := range r.TreasureNames {
		if n == "" {
			errs = append(errs, fmt.Sprintf("treasure %d has no name", i+1))
		}
	}
	for tier := 1; tier < 4; tier++ {
		if r.WeaponNames[tier] == "" {
			errs = append(errs, fmt.Sprintf("weapon tier %d has no name", tier))
		}
		if r.ArmorNames[tier] == "" {
			errs = append(errs, fmt.Sprintf("armor tier %d has no name", tier))
		}
		if r.WeaponPrices[tier] <= 0 {
			errs = append(errs, fmt.Sprintf("weapon tier %d price must be positive", tier))
		}
		if r.ArmorPrices[tier] <= 0 {
			errs = append(errs, fmt.Sprintf("armor tier %d price must be positive", tier))
		}
	}
	for _, s := range types.AllSpells {
		if r.SpellPrices[s] <= 0 {
			errs = append(errs, fmt.Sprintf("spell %d price must be positive", s))
		}
	}

	positive := []struct {
		name string
		v    int
	}{
		{"healing_potion_price", r.HealingPotionPrice},
		{"healing_potion_amount", r.HealingPotionAmount},
		{"attribute_potion_price", r.AttributePotionPrice},
		{"flare_bundle_size", r.FlareBundleSize},
		{"flare_bundle_price", r.FlareBundlePrice},
		{"starting_gold_min", r.StartingGoldMin},
	}
	for _, p := range positive {
		if p.v <= 0 {
			errs = append(errs, p.name+" must be positive")
		}
	}
	if r.CreationPoints < 0 {
		errs = append(errs, "creation_points must not be negative")
	}
	if r.CreationFlarePrice < 0 {
		errs = append(errs, "creation_flare_price must not be negative")
	}
	if r.StartingGoldMax < r.StartingGoldMin {
		errs = append(errs, "starting_gold_max must be >= starting_gold_min")
	}
	if r.MinSpellIQ < 1 || r.MinSpellIQ > 18 {
		errs = append(errs, "min_spell_iq must be within 1..18")
	}
	if r.ProtectionBonus < 0 {
		errs = append(errs, "protection_bonus must not be negative")
	}

	chances := []struct {
		name string
		v    float64
	}{
		{"run_chance", r.RunChance},
		{"weapon_break_chance", r.WeaponBreakChance},
		{"final_attack_chance", r.FinalAttackChance},
	}
	for _, c := range chances {
		if c.v < 0 || c.v > 1 {
			errs = append(errs, c.name+" must be within 0..1")
		}
	}

	return errs
}
