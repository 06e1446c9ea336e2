// Package types defines the shared data structures for the doomcrawl engine.
// This package contains only type definitions, no logic.
package types

// Size is the edge length of the dungeon cube.
const Size = 7

// TreasureCount is the number of unique treasures hidden in every dungeon.
const TreasureCount = 10

// Feature is the non-combat, non-treasure content of a room.
type Feature int

const (
	FeatureEmpty Feature = iota
	FeatureMirror
	FeatureScroll
	FeatureChest
	FeatureFlares
	FeaturePotion
	FeatureVendor
	FeatureThief
	FeatureWarp
	FeatureStairsUp
	FeatureStairsDown
	FeatureExit
)

// AllFeatures lists every feature in declaration order.
var AllFeatures = []Feature{
	FeatureEmpty, FeatureMirror, FeatureScroll, FeatureChest, FeatureFlares, FeaturePotion,
	FeatureVendor, FeatureThief, FeatureWarp, FeatureStairsUp, FeatureStairsDown, FeatureExit,
}

// Race is the player's ancestry, which decides the base stat table.
type Race int

const (
	RaceHuman Race = iota + 1
	RaceDwarf
	RaceElf
	RaceHalfling
)

// Spell is one of the five castable spells.
type Spell int

const (
	SpellProtection Spell = iota + 1
	SpellFireball
	SpellLightning
	SpellWeaken
	SpellTeleport
)

// AllSpells lists every spell in menu order.
var AllSpells = []Spell{SpellProtection, SpellFireball, SpellLightning, SpellWeaken, SpellTeleport}

// Attribute names a player attribute that potions can change.
type Attribute string

const (
	AttrStrength     Attribute = "STR"
	AttrDexterity    Attribute = "DEX"
	AttrIntelligence Attribute = "IQ"
	AttrMaxHP        Attribute = "MHP"
)

// Mode is the top-level game mode.
type Mode string

const (
	ModeExplore   Mode = "explore"
	ModeEncounter Mode = "encounter"
	ModeVendor    Mode = "vendor"
	ModeGameOver  Mode = "game_over"
	ModeVictory   Mode = "victory"
)

// Coord addresses a room: floor (0 = topmost), row, column.
type Coord struct {
	Z int `json:"z"`
	Y int `json:"y"`
	X int `json:"x"`
}

// Room is one cell of the dungeon.
type Room struct {
	Feature      Feature `json:"feature"`
	MonsterLevel int     `json:"monster_level,omitempty"` // 0 = none, else 1..10
	TreasureID   int     `json:"treasure_id,omitempty"`   // 0 = none, else 1..10
	Seen         bool    `json:"seen,omitempty"`
}

// Dungeon is the fixed-size cube of rooms, indexed [floor][row][column].
type Dungeon struct {
	Rooms [Size][Size][Size]Room `json:"rooms"`
}

// Player holds the player's runtime state.
type Player struct {
	Pos  Coord `json:"pos"`
	Race Race  `json:"race"`

	Str   int `json:"str"`
	Dex   int `json:"dex"`
	IQ    int `json:"iq"`
	HP    int `json:"hp"`
	MaxHP int `json:"max_hp"`

	Gold      int   `json:"gold"`
	Flares    int   `json:"flares"`
	Treasures []int `json:"treasures"` // sorted set of found treasure ids

	WeaponTier   int    `json:"weapon_tier"`
	ArmorTier    int    `json:"armor_tier"`
	WeaponName   string `json:"weapon_name"`
	ArmorName    string `json:"armor_name"`
	WeaponBroken bool   `json:"weapon_broken,omitempty"`
	ArmorDamaged bool   `json:"armor_damaged,omitempty"`

	Spells map[Spell]int `json:"spells"`

	Fatigued       bool `json:"fatigued,omitempty"`
	TempArmorBonus int  `json:"temp_armor_bonus,omitempty"`
}

// EncounterState is the transient state of one fight.
type EncounterState struct {
	MonsterLevel  int    `json:"monster_level"`
	MonsterName   string `json:"monster_name"`
	Vitality      int    `json:"vitality"`
	AwaitingSpell bool   `json:"awaiting_spell,omitempty"`
}

// VendorPhase is the step of a shop transaction.
type VendorPhase string

const (
	PhaseCategory  VendorPhase = "category"
	PhaseItem      VendorPhase = "item"
	PhaseAttribute VendorPhase = "attribute"
)

// VendorCategory is the shelf selected in the category phase.
type VendorCategory string

const (
	CategoryNone    VendorCategory = ""
	CategoryWeapons VendorCategory = "W"
	CategoryArmor   VendorCategory = "A"
	CategoryScrolls VendorCategory = "S"
	CategoryPotions VendorCategory = "P"
)

// VendorState is the transient state of one shop visit.
type VendorState struct {
	Phase    VendorPhase    `json:"phase"`
	Category VendorCategory `json:"category,omitempty"`
}

// EventKind classifies a narration event for the renderer.
type EventKind string

const (
	EventInfo   EventKind = "info"
	EventError  EventKind = "error"
	EventCombat EventKind = "combat"
	EventLoot   EventKind = "loot"
	EventStatus EventKind = "status"
	EventMap    EventKind = "map"
	EventPrompt EventKind = "prompt"
	EventDebug  EventKind = "debug"
)

// Option is one selectable entry of a prompt.
type Option struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Status is a snapshot of the player's visible state.
type Status struct {
	Gold      int           `json:"gold"`
	Treasures int           `json:"treasures"`
	Flares    int           `json:"flares"`
	Spells    map[Spell]int `json:"spells"`
	Armor     string        `json:"armor"`
	Weapon    string        `json:"weapon"`
	Str       int           `json:"str"`
	Dex       int           `json:"dex"`
	IQ        int           `json:"iq"`
	HP        int           `json:"hp"`
	MaxHP     int           `json:"max_hp"`
}

// Event is one typed piece of narration emitted by the engine.
type Event struct {
	Kind       EventKind `json:"kind"`
	Text       string    `json:"text,omitempty"`
	Options    []Option  `json:"options,omitempty"`    // prompt events
	Cancelable bool      `json:"cancelable,omitempty"` // prompt accepts a cancel token
	Status     *Status   `json:"status,omitempty"`     // status events
	Map        []string  `json:"map,omitempty"`        // map events, one string per row
}

// Result is the output of a single game step.
type Result struct {
	Events     []Event
	Mode       Mode
	NeedsInput bool
}

// Snapshot is the complete serialisable orchestrator state.
type Snapshot struct {
	Seed        int64           `json:"seed"`
	RNGPosition int64           `json:"rng_position"`
	Dungeon     Dungeon         `json:"dungeon"`
	Player      Player          `json:"player"`
	Over        bool            `json:"over,omitempty"`
	Won         bool            `json:"won,omitempty"`
	Encounter   *EncounterState `json:"encounter,omitempty"`
	Vendor      *VendorState    `json:"vendor,omitempty"`
	Debug       bool            `json:"debug,omitempty"`
	TurnCount   int             `json:"turn"`
	CommandLog  []string        `json:"command_log"`
}
