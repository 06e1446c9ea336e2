package engine

import (
	"fmt"
	"maps"
	"slices"

	"github.com/nathoo/doomcrawl/engine/dungeon"
	"github.com/nathoo/doomcrawl/engine/encounter"
	"github.com/nathoo/doomcrawl/engine/rng"
	"github.com/nathoo/doomcrawl/engine/state"
	"github.com/nathoo/doomcrawl/engine/vendor"
	"github.com/nathoo/doomcrawl/types"
)

// Snapshot captures the complete game state. The result shares no memory
// with the running game.
func (g *Game) Snapshot() types.Snapshot {
	p := *g.Player
	p.Treasures = slices.Clone(g.Player.Treasures)
	p.Spells = maps.Clone(g.Player.Spells)

	snap := types.Snapshot{
		Seed:        g.RNG.Seed(),
		RNGPosition: g.RNG.Position(),
		Dungeon:     *g.Dungeon,
		Player:      p,
		Over:        g.over,
		Won:         g.won,
		Debug:       g.Debug,
		TurnCount:   g.turn,
		CommandLog:  slices.Clone(g.log),
	}
	if snap.CommandLog == nil {
		snap.CommandLog = []string{}
	}
	if g.encounter != nil {
		st := g.encounter.State()
		snap.Encounter = &st
	}
	if g.shop != nil {
		st := g.shop.State()
		snap.Vendor = &st
	}
	return snap
}

// Restore rebuilds a game from a snapshot. The RNG is reseeded and advanced
// to the recorded position, so play continues exactly where it stopped.
// The snapshot is copied; later changes to it do not reach the game.
func Restore(snap types.Snapshot, opts Options) (*Game, error) {
	if err := checkSnapshot(&snap); err != nil {
		return nil, err
	}

	d := snap.Dungeon
	p := snap.Player
	p.Treasures = slices.Clone(p.Treasures)
	p.Spells = maps.Clone(p.Spells)
	state.Normalize(&p)

	g := &Game{
		Dungeon: &d,
		Player:  &p,
		RNG:     rng.Restore(snap.Seed, snap.RNGPosition),
		Rules:   opts.Ruleset(),
		Debug:   snap.Debug || opts.Debug,
		over:    snap.Over,
		won:     snap.Won,
		turn:    snap.TurnCount,
		log:     slices.Clone(snap.CommandLog),
	}
	if g.log == nil {
		g.log = []string{}
	}

	switch {
	case snap.Encounter != nil:
		g.encounter = encounter.Resume(g.RNG, g.Player, g.room(), g.Rules, g.Debug, *snap.Encounter)
	case snap.Vendor != nil:
		g.shop = vendor.Resume(g.RNG, g.Player, g.Rules, *snap.Vendor)
	}
	return g, nil
}

func checkSnapshot(snap *types.Snapshot) error {
	if snap.RNGPosition < 0 {
		return fmt.Errorf("%w: negative rng position %d", ErrCorruptSnapshot, snap.RNGPosition)
	}
	if !dungeon.InBounds(snap.Player.Pos) {
		return fmt.Errorf("%w: player outside the dungeon at %d,%d,%d", ErrCorruptSnapshot,
			snap.Player.Pos.Z, snap.Player.Pos.Y, snap.Player.Pos.X)
	}
	if snap.Over && snap.Won {
		return fmt.Errorf("%w: game both lost and won", ErrCorruptSnapshot)
	}
	if snap.Encounter != nil && snap.Vendor != nil {
		return fmt.Errorf("%w: encounter and vendor both active", ErrCorruptSnapshot)
	}
	if snap.Encounter != nil {
		if dungeon.At(&snap.Dungeon, snap.Player.Pos).MonsterLevel == 0 {
			return fmt.Errorf("%w: encounter in a room without a monster", ErrCorruptSnapshot)
		}
		if snap.Encounter.Vitality <= 0 {
			return fmt.Errorf("%w: encounter with a dead monster", ErrCorruptSnapshot)
		}
	}
	if snap.Player.WeaponTier < 0 || snap.Player.WeaponTier > 3 || snap.Player.ArmorTier < 0 || snap.Player.ArmorTier > 3 {
		return fmt.Errorf("%w: equipment tier out of range", ErrCorruptSnapshot)
	}
	return nil
}

// Replay starts a new game and feeds it the given commands, returning the
// game and every event produced, starting-room narration included.
func Replay(seed int64, c Creation, commands []string, opts Options) (*Game, []types.Event, error) {
	g, err := New(seed, c, opts)
	if err != nil {
		return nil, nil, err
	}
	evs := g.StartEvents()
	for _, cmd := range commands {
		if g.Over() {
			break
		}
		evs = append(evs, g.Step(cmd).Events...)
	}
	return g, evs, nil
}
