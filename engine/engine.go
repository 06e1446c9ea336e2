// Package engine provides the Game orchestrator: it owns the dungeon, the
// player and the shared RNG, and turns one command token per Step into a
// list of typed narration events.
package engine

import (
	"errors"

	"github.com/nathoo/doomcrawl/engine/dungeon"
	"github.com/nathoo/doomcrawl/engine/encounter"
	"github.com/nathoo/doomcrawl/engine/parser"
	"github.com/nathoo/doomcrawl/engine/rng"
	"github.com/nathoo/doomcrawl/engine/rules"
	"github.com/nathoo/doomcrawl/engine/state"
	"github.com/nathoo/doomcrawl/engine/vendor"
	"github.com/nathoo/doomcrawl/types"
)

// ErrCorruptSnapshot is returned when a snapshot cannot describe a game.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Options tune a Game without affecting its saved state.
type Options struct {
	Rules *rules.Ruleset // nil means rules.Default()
	Debug bool
}

// Ruleset returns the configured ruleset, or the defaults.
func (o Options) Ruleset() *rules.Ruleset {
	if o.Rules == nil {
		return rules.Default()
	}
	return o.Rules
}

// Creation is the set of choices made at character creation.
type Creation struct {
	Race       types.Race
	Allocation state.Allocation
	Loadout    state.Loadout
}

// Game holds the dungeon, the player and at most one active sub-session.
type Game struct {
	Dungeon *types.Dungeon
	Player  *types.Player
	RNG     *rng.RNG
	Rules   *rules.Ruleset
	Debug   bool

	over bool
	won  bool

	encounter *encounter.Session
	shop      *vendor.Session

	turn int
	log  []string

	draws rng.Source // overrides RNG for draws when set
}

func (g *Game) rand() rng.Source {
	if g.draws != nil {
		return g.draws
	}
	return g.RNG
}

// New rolls the character and generates the dungeon from one seeded RNG.
// The character is rolled first so a seed fixes both.
func New(seed int64, c Creation, opts Options) (*Game, error) {
	rs := opts.Ruleset()
	r := rng.New(seed)
	p, err := state.NewPlayer(r, c.Race, c.Allocation, c.Loadout, rs)
	if err != nil {
		return nil, err
	}
	return NewWithPlayer(r, p, opts), nil
}

// NewWithPlayer generates a dungeon from r for an existing player.
func NewWithPlayer(r *rng.RNG, p *types.Player, opts Options) *Game {
	state.Normalize(p)
	return &Game{
		Dungeon: dungeon.Generate(r),
		Player:  p,
		RNG:     r,
		Rules:   opts.Ruleset(),
		Debug:   opts.Debug,
		log:     []string{},
	}
}

// Mode derives the top-level mode from the terminal flags and the active
// sub-session.
func (g *Game) Mode() types.Mode {
	switch {
	case g.won:
		return types.ModeVictory
	case g.over:
		return types.ModeGameOver
	case g.encounter != nil:
		return types.ModeEncounter
	case g.shop != nil:
		return types.ModeVendor
	}
	return types.ModeExplore
}

// Over reports whether the run has ended, in death, abandonment or victory.
func (g *Game) Over() bool {
	return g.over || g.won
}

// Turn returns the number of commands accepted. Rejected input is logged
// but does not use up a turn.
func (g *Game) Turn() int {
	return g.turn
}

// CommandLog returns a copy of every command processed, in order.
func (g *Game) CommandLog() []string {
	return append([]string(nil), g.log...)
}

// Prompt returns the input prompt for the current mode.
func (g *Game) Prompt() string {
	switch {
	case g.shop != nil:
		return g.shop.Prompt()
	case g.encounter != nil:
		return g.encounter.Prompt()
	}
	return "--> "
}

// Status returns the player's visible state.
func (g *Game) Status() types.Status {
	return state.StatusOf(g.Player)
}

// StartEvents enters the starting room. Call once after New.
func (g *Game) StartEvents() []types.Event {
	return g.enterRoom()
}

// ResumeEvents re-narrates the pending situation after a restore: the
// encounter banner or the open shop menu, then the map.
func (g *Game) ResumeEvents() []types.Event {
	var evs []types.Event
	switch {
	case g.encounter != nil:
		evs = append(evs, g.encounter.ResumeEvents()...)
	case g.shop != nil:
		evs = append(evs, g.shop.ResumeEvents()...)
	}
	return append(evs, g.mapEvent())
}

// Step processes one command token and returns the result.
func (g *Game) Step(input string) types.Result {
	// Terminal states ignore input.
	if g.Over() {
		return types.Result{Mode: g.Mode()}
	}

	cmd := parser.Parse(input)
	g.log = append(g.log, input)

	var evs []types.Event
	switch {
	case g.shop != nil:
		evs = g.stepShop(cmd)
	case g.encounter != nil:
		evs = g.stepEncounter(cmd)
	default:
		evs = g.explore(cmd)
	}
	if !rejected(evs) {
		g.turn++
	}

	return types.Result{
		Events:     evs,
		Mode:       g.Mode(),
		NeedsInput: !g.Over(),
	}
}

// rejected reports whether a step refused its input. Every refusal leads
// with an error event and leaves the state and the RNG untouched.
func rejected(evs []types.Event) bool {
	return len(evs) > 0 && evs[0].Kind == types.EventError
}

func (g *Game) stepShop(cmd parser.Command) []types.Event {
	res := g.shop.Step(cmd)
	if res.Done {
		g.shop = nil
	}
	return res.Events
}

func (g *Game) stepEncounter(cmd parser.Command) []types.Event {
	res := g.encounter.Step(cmd)
	evs := res.Events

	switch res.Outcome {
	case encounter.Continue:
	case encounter.MonsterSlain:
		g.encounter = nil
	case encounter.Fled, encounter.Teleported:
		g.encounter = nil
		g.relocateOnFloor()
		evs = append(evs, g.enterRoom()...)
	case encounter.PlayerDied:
		g.encounter = nil
		g.over = true
	}
	return evs
}
