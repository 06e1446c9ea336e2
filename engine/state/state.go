// Package state owns the player-side mutation helpers: character creation,
// clamped attribute changes, treasure bookkeeping and the status snapshot.
// Everything here works on *types.Player borrowed from the Game.
package state

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nathoo/doomcrawl/engine/rng"
	"github.com/nathoo/doomcrawl/engine/rules"
	"github.com/nathoo/doomcrawl/types"
)

// Attribute bounds.
const (
	MinAttribute = 1
	MaxAttribute = 18
)

// StartPos is where every new character begins.
var StartPos = types.Coord{Z: 0, Y: 3, X: 3}

var (
	ErrUnknownRace        = errors.New("unknown race")
	ErrInvalidAllocation  = errors.New("invalid allocation")
	ErrInvalidTier        = errors.New("equipment tier must be 1..3")
	ErrNegativeFlares     = errors.New("flare count must be non-negative")
	ErrInsufficientGold   = errors.New("not enough gold for purchases")
	ErrUnknownAttribute   = errors.New("unknown attribute")
	ErrTreasureOutOfRange = errors.New("treasure id out of range")
)

// Allocation is the distribution of creation points over the three
// allocatable attributes.
type Allocation struct {
	Str int
	Dex int
	IQ  int
}

// Loadout is the equipment bought during character creation.
type Loadout struct {
	WeaponTier int
	ArmorTier  int
	Flares     int
}

// Rolled is a freshly rolled character before allocation and purchases.
type Rolled struct {
	Race types.Race
	Str  int
	Dex  int
	IQ   int
	HP   int
	Gold int
}

type baseStats struct{ str, dex, iq, hp int }

var raceBase = map[types.Race]baseStats{
	types.RaceHuman:    {8, 8, 8, 20},
	types.RaceDwarf:    {10, 8, 6, 22},
	types.RaceElf:      {6, 9, 10, 16},
	types.RaceHalfling: {6, 10, 9, 18},
}

// RollCharacter draws the race-adjusted base stats and starting gold.
func RollCharacter(r rng.Source, race types.Race, rs *rules.Ruleset) (Rolled, error) {
	base, ok := raceBase[race]
	if !ok {
		return Rolled{}, fmt.Errorf("%w: %d", ErrUnknownRace, race)
	}
	rolled := Rolled{Race: race}
	rolled.Str = base.str + r.Range(0, 4)
	rolled.Dex = base.dex + r.Range(0, 4)
	rolled.IQ = base.iq + r.Range(0, 4)
	rolled.HP = base.hp + r.Range(0, 6)
	rolled.Gold = r.Range(rs.StartingGoldMin, rs.StartingGoldMax)
	return rolled, nil
}

// ValidateAllocation checks that the points are non-negative and sum to
// the ruleset's creation budget.
func ValidateAllocation(a Allocation, rs *rules.Ruleset) error {
	if a.Str < 0 || a.Dex < 0 || a.IQ < 0 {
		return fmt.Errorf("%w: points must be non-negative", ErrInvalidAllocation)
	}
	if sum := a.Str + a.Dex + a.IQ; sum != rs.CreationPoints {
		return fmt.Errorf("%w: allocated %d of %d points", ErrInvalidAllocation, sum, rs.CreationPoints)
	}
	return nil
}

// ValidateLoadout checks tiers and flare count without looking at gold.
func ValidateLoadout(l Loadout) error {
	if l.WeaponTier < 1 || l.WeaponTier > 3 {
		return fmt.Errorf("%w: weapon tier %d", ErrInvalidTier, l.WeaponTier)
	}
	if l.ArmorTier < 1 || l.ArmorTier > 3 {
		return fmt.Errorf("%w: armor tier %d", ErrInvalidTier, l.ArmorTier)
	}
	if l.Flares < 0 {
		return ErrNegativeFlares
	}
	return nil
}

// LoadoutCost returns the gold a loadout costs at creation.
func LoadoutCost(l Loadout, rs *rules.Ruleset) int {
	return rs.WeaponPrices[l.WeaponTier] + rs.ArmorPrices[l.ArmorTier] + l.Flares*rs.CreationFlarePrice
}

// Outfit turns a rolled character into a player. It never draws from the
// RNG, so shells can re-prompt on error without disturbing the sequence.
func Outfit(rolled Rolled, a Allocation, l Loadout, rs *rules.Ruleset) (*types.Player, error) {
	if err := ValidateAllocation(a, rs); err != nil {
		return nil, err
	}
	if err := ValidateLoadout(l); err != nil {
		return nil, err
	}
	cost := LoadoutCost(l, rs)
	if cost > rolled.Gold {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientGold, cost, rolled.Gold)
	}

	p := &types.Player{
		Pos:        StartPos,
		Race:       rolled.Race,
		Str:        min(MaxAttribute, rolled.Str+a.Str),
		Dex:        min(MaxAttribute, rolled.Dex+a.Dex),
		IQ:         min(MaxAttribute, rolled.IQ+a.IQ),
		HP:         rolled.HP,
		MaxHP:      rolled.HP,
		Gold:       rolled.Gold - cost,
		Flares:     l.Flares,
		Treasures:  []int{},
		WeaponTier: l.WeaponTier,
		ArmorTier:  l.ArmorTier,
		WeaponName: rs.WeaponNames[l.WeaponTier],
		ArmorName:  rs.ArmorNames[l.ArmorTier],
		Spells:     NewSpellBook(),
	}
	return p, nil
}

// NewPlayer validates the choices, rolls the character and outfits it.
// Allocation and loadout errors are reported before any draw; a gold
// shortfall is only known after the roll.
func NewPlayer(r rng.Source, race types.Race, a Allocation, l Loadout, rs *rules.Ruleset) (*types.Player, error) {
	if _, ok := raceBase[race]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRace, race)
	}
	if err := ValidateAllocation(a, rs); err != nil {
		return nil, err
	}
	if err := ValidateLoadout(l); err != nil {
		return nil, err
	}
	rolled, err := RollCharacter(r, race, rs)
	if err != nil {
		return nil, err
	}
	return Outfit(rolled, a, l, rs)
}

// NewSpellBook returns a charge table with every spell at zero.
func NewSpellBook() map[types.Spell]int {
	book := make(map[types.Spell]int, len(types.AllSpells))
	for _, s := range types.AllSpells {
		book[s] = 0
	}
	return book
}

// Normalize repairs nil collections after decoding a saved player.
func Normalize(p *types.Player) {
	if p.Treasures == nil {
		p.Treasures = []int{}
	}
	if p.Spells == nil {
		p.Spells = NewSpellBook()
	}
	slices.Sort(p.Treasures)
	p.Treasures = slices.Compact(p.Treasures)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// ApplyAttributeChange nudges an attribute by delta with clamping:
// STR/DEX/IQ stay in [1,18]; MaxHP never drops below 1 and HP moves with
// it, staying within [1, MaxHP].
func ApplyAttributeChange(p *types.Player, attr types.Attribute, delta int) error {
	switch attr {
	case types.AttrStrength:
		p.Str = clamp(p.Str+delta, MinAttribute, MaxAttribute)
	case types.AttrDexterity:
		p.Dex = clamp(p.Dex+delta, MinAttribute, MaxAttribute)
	case types.AttrIntelligence:
		p.IQ = clamp(p.IQ+delta, MinAttribute, MaxAttribute)
	case types.AttrMaxHP:
		p.MaxHP = max(1, p.MaxHP+delta)
		p.HP = clamp(p.HP+delta, 1, p.MaxHP)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, attr)
	}
	return nil
}

// Heal restores HP up to MaxHP and returns the amount actually gained.
func Heal(p *types.Player, amount int) int {
	before := p.HP
	p.HP = min(p.MaxHP, p.HP+amount)
	if p.HP < before {
		p.HP = before
	}
	return p.HP - before
}

// HasTreasure reports whether id is already in the found set.
func HasTreasure(p *types.Player, id int) bool {
	_, found := slices.BinarySearch(p.Treasures, id)
	return found
}

// AwardTreasure adds id to the found set. It returns false when the
// treasure was already held, leaving the player untouched.
func AwardTreasure(p *types.Player, id int) (bool, error) {
	if id < 1 || id > types.TreasureCount {
		return false, fmt.Errorf("%w: %d", ErrTreasureOutOfRange, id)
	}
	i, found := slices.BinarySearch(p.Treasures, id)
	if found {
		return false, nil
	}
	p.Treasures = slices.Insert(p.Treasures, i, id)
	return true, nil
}

// TreasuresRemaining returns how many treasures are still missing.
func TreasuresRemaining(p *types.Player) int {
	return types.TreasureCount - len(p.Treasures)
}

// ResetCombatFlags clears the transient encounter flags.
func ResetCombatFlags(p *types.Player) {
	p.Fatigued = false
	p.TempArmorBonus = 0
}

// BreakWeapon destroys the equipped weapon. Returns false when there was
// nothing to break.
func BreakWeapon(p *types.Player) bool {
	if p.WeaponTier <= 0 {
		return false
	}
	p.WeaponTier = 0
	p.WeaponBroken = true
	return true
}

// DamageArmor drops the armour one tier and marks it damaged. At tier 0
// the armour is gone. Returns false when no armour was worn.
func DamageArmor(p *types.Player, rs *rules.Ruleset) bool {
	if p.ArmorTier <= 0 {
		return false
	}
	p.ArmorTier--
	p.ArmorDamaged = p.ArmorTier > 0
	p.ArmorName = rs.ArmorNames[p.ArmorTier]
	return true
}

// EquipWeapon records a weapon purchase. The tier only changes when it is
// an upgrade; the broken flag is always cleared.
func EquipWeapon(p *types.Player, tier int, rs *rules.Ruleset) bool {
	p.WeaponBroken = false
	if tier <= p.WeaponTier {
		return false
	}
	p.WeaponTier = tier
	p.WeaponName = rs.WeaponNames[tier]
	return true
}

// EquipArmor is EquipWeapon for armour.
func EquipArmor(p *types.Player, tier int, rs *rules.Ruleset) bool {
	p.ArmorDamaged = false
	if tier <= p.ArmorTier {
		return false
	}
	p.ArmorTier = tier
	p.ArmorName = rs.ArmorNames[tier]
	return true
}

// WeaponDisplayName returns the weapon name with a "(broken)" suffix.
func WeaponDisplayName(p *types.Player) string {
	if p.WeaponBroken {
		return p.WeaponName + " (broken)"
	}
	return p.WeaponName
}

// ArmorDisplayName returns the armour name with a "(damaged)" suffix.
func ArmorDisplayName(p *types.Player) string {
	if p.ArmorDamaged {
		return p.ArmorName + " (damaged)"
	}
	return p.ArmorName
}

// StatusOf captures the player's visible state.
func StatusOf(p *types.Player) types.Status {
	spells := make(map[types.Spell]int, len(types.AllSpells))
	for _, s := range types.AllSpells {
		spells[s] = p.Spells[s]
	}
	return types.Status{
		Gold:      p.Gold,
		Treasures: len(p.Treasures),
		Flares:    p.Flares,
		Spells:    spells,
		Armor:     ArmorDisplayName(p),
		Weapon:    WeaponDisplayName(p),
		Str:       p.Str,
		Dex:       p.Dex,
		IQ:        p.IQ,
		HP:        p.HP,
		MaxHP:     p.MaxHP,
	}
}
