// Package encounter runs one fight between the player and the monster in
// the current room. The session borrows the player, the room and the
// shared random source from the Game and reports an Outcome the Game uses
// to close the fight, relocate the player or end the run.
package encounter

import (
	"fmt"

	"github.com/nathoo/doomcrawl/engine/events"
	"github.com/nathoo/doomcrawl/engine/parser"
	"github.com/nathoo/doomcrawl/engine/rng"
	"github.com/nathoo/doomcrawl/engine/rules"
	"github.com/nathoo/doomcrawl/engine/state"
	"github.com/nathoo/doomcrawl/types"
)

// Outcome tells the Game what to do after a step.
type Outcome int

const (
	Continue     Outcome = iota // fight goes on
	MonsterSlain                // monster dead, loot resolved
	Fled                        // player escaped; relocate on the same floor
	Teleported                  // teleport spell; relocate on the same floor
	PlayerDied                  // game over
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case MonsterSlain:
		return "monster_slain"
	case Fled:
		return "fled"
	case Teleported:
		return "teleported"
	case PlayerDied:
		return "player_died"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Done reports whether the encounter is over.
func (o Outcome) Done() bool {
	return o != Continue
}

// Result is the output of one encounter step.
type Result struct {
	Events  []types.Event
	Outcome Outcome
}

const notUnderstood = "I don't understand that."

// Session is one active encounter.
type Session struct {
	rng    rng.Source
	player *types.Player
	room   *types.Room
	rules  *rules.Ruleset
	debug  bool

	st types.EncounterState
}

// Start opens an encounter with the monster in room: names it, rolls its
// vitality and clears the player's transient combat flags.
func Start(r rng.Source, p *types.Player, room *types.Room, rs *rules.Ruleset, debug bool) *Session {
	level := room.MonsterLevel
	s := &Session{
		rng:    r,
		player: p,
		room:   room,
		rules:  rs,
		debug:  debug,
		st: types.EncounterState{
			MonsterLevel: level,
			MonsterName:  rs.MonsterName(level),
			Vitality:     3*level + r.Range(0, 3),
		},
	}
	state.ResetCombatFlags(p)
	return s
}

// Resume rebuilds a session from saved state without drawing.
func Resume(r rng.Source, p *types.Player, room *types.Room, rs *rules.Ruleset, debug bool, st types.EncounterState) *Session {
	return &Session{rng: r, player: p, room: room, rules: rs, debug: debug, st: st}
}

// State returns a copy of the serialisable encounter state.
func (s *Session) State() types.EncounterState {
	return s.st
}

// OpeningEvents narrates the start of the fight.
func (s *Session) OpeningEvents() []types.Event {
	evs := []types.Event{events.Combat(fmt.Sprintf("You are facing an angry %s!", s.st.MonsterName))}
	if s.debug {
		evs = append(evs, s.monsterDebug())
	}
	return evs
}

// ResumeEvents re-shows the pending spell menu, or the opening banner.
func (s *Session) ResumeEvents() []types.Event {
	if s.st.AwaitingSpell {
		return []types.Event{s.spellMenu()}
	}
	return s.OpeningEvents()
}

// Prompt returns the input prompt for the current state.
func (s *Session) Prompt() string {
	if s.st.AwaitingSpell {
		return "?> "
	}
	return "F/R/S> "
}

// Step consumes one command token.
func (s *Session) Step(cmd parser.Command) Result {
	var res Result
	switch {
	case s.st.AwaitingSpell:
		res = s.spellChoice(cmd)
	case cmd.Cancel || cmd.Empty():
		res = Result{Events: []types.Event{events.Error(notUnderstood)}}
	default:
		switch cmd.Key {
		case "F":
			res = s.fight()
		case "R":
			res = s.run()
		case "S":
			s.st.AwaitingSpell = true
			res = Result{Events: []types.Event{s.spellMenu()}}
		default:
			res = Result{Events: []types.Event{events.Error(notUnderstood)}}
		}
	}
	if s.debug && !res.Outcome.Done() {
		res.Events = append(res.Events, s.monsterDebug())
	}
	return res
}

func (s *Session) monsterDebug() types.Event {
	return events.Debug(fmt.Sprintf("monster %s level=%d vitality=%d",
		s.st.MonsterName, s.st.MonsterLevel, s.st.Vitality))
}

func (s *Session) fight() Result {
	var evs []types.Event
	p := s.player
	level := s.st.MonsterLevel

	score := 20 + 5*(11-level) + p.Dex + 3*p.WeaponTier
	roll := s.rng.Range(1, 100)
	if s.debug {
		evs = append(evs, events.Debug(fmt.Sprintf("attack score=%d roll=%d weapon=%d str=%d dex=%d",
			score, roll, p.WeaponTier, p.Str, p.Dex)))
	}

	if roll > score {
		evs = append(evs, events.Combat(fmt.Sprintf("The %s evades your blow!", s.st.MonsterName)))
	} else {
		damage := max(p.WeaponTier+p.Str/3+s.rng.Range(0, 4)-2, 1)
		s.st.Vitality -= damage
		evs = append(evs, events.Combat(fmt.Sprintf("You hit the %s!", s.st.MonsterName)))
		if s.debug {
			evs = append(evs, events.Debug(fmt.Sprintf("damage=%d vitality=%d", damage, s.st.Vitality)))
		}
		if s.st.Vitality <= 0 {
			return s.monsterDeath(evs)
		}
		if s.rng.Float64() < s.rules.WeaponBreakChance && state.BreakWeapon(p) {
			evs = append(evs, events.Info("Your weapon breaks with the impact!"))
		}
	}

	return s.retaliate(evs)
}

func (s *Session) run() Result {
	if s.player.Fatigued {
		return Result{Events: []types.Event{events.Info("You are quite fatigued after your previous efforts.")}}
	}
	if s.rng.Float64() < s.rules.RunChance {
		state.ResetCombatFlags(s.player)
		name := s.st.MonsterName
		return Result{
			Events: []types.Event{
				events.Info(fmt.Sprintf("You turn and flee, the vile %s following close behind.", name)),
				events.Info(fmt.Sprintf("Suddenly, you realize that the %s is no longer following you.", name)),
			},
			Outcome: Fled,
		}
	}
	s.player.Fatigued = true
	return Result{Events: []types.Event{
		events.Info("Although you run your hardest, your efforts to escape are made in vain."),
	}}
}

// attack resolves one monster blow against the player and reports whether
// it was fatal.
func (s *Session) attack() ([]types.Event, bool) {
	var evs []types.Event
	p := s.player
	level := s.st.MonsterLevel

	score := 20 + 5*(11-level) + 2*p.Dex
	roll := s.rng.Range(1, 100)
	if s.debug {
		evs = append(evs, events.Debug(fmt.Sprintf("dodge score=%d roll=%d armor=%d bonus=%d",
			score, roll, p.ArmorTier, p.TempArmorBonus)))
	}
	if roll <= score {
		return append(evs, events.Combat("You deftly dodge the blow!")), false
	}

	// floor(2.5 + level/3) == (15 + 2*level) / 6 for level >= 0.
	armor := p.ArmorTier + p.TempArmorBonus
	damage := max(s.rng.Range(0, level-1)+(15+2*level)/6-armor, 0)
	p.HP -= damage
	evs = append(evs, events.Combat(fmt.Sprintf("The %s hits you!", s.st.MonsterName)))
	if s.debug {
		evs = append(evs, events.Debug(fmt.Sprintf("damage=%d hp=%d", damage, p.HP)))
	}
	if p.HP <= 0 {
		return append(evs, events.Info("YOU HAVE DIED.")), true
	}
	return evs, false
}

func (s *Session) retaliate(evs []types.Event) Result {
	more, dead := s.attack()
	evs = append(evs, more...)
	if dead {
		return Result{Events: evs, Outcome: PlayerDied}
	}
	return Result{Events: evs}
}

func (s *Session) monsterDeath(evs []types.Event) Result {
	level := s.st.MonsterLevel
	evs = append(evs, events.Combat(fmt.Sprintf("The foul %s expires.", s.st.MonsterName)))

	if s.rng.Float64() > 1-s.rules.FinalAttackChance {
		evs = append(evs, events.Combat("As he dies, though, he launches one final desperate attack."))
		more, dead := s.attack()
		evs = append(evs, more...)
		if dead {
			s.clearMonster()
			return Result{Events: evs, Outcome: PlayerDied}
		}
	}

	s.clearMonster()
	state.ResetCombatFlags(s.player)
	evs = append(evs, s.loot(level)...)
	return Result{Events: evs, Outcome: MonsterSlain}
}

func (s *Session) clearMonster() {
	s.room.MonsterLevel = 0
	s.st.Vitality = 0
	s.st.AwaitingSpell = false
}

// loot awards the room's uncollected treasure, or gold when there is none.
func (s *Session) loot(level int) []types.Event {
	if id := s.room.TreasureID; id > 0 {
		s.room.TreasureID = 0
		if added, err := state.AwardTreasure(s.player, id); err == nil && added {
			return []types.Event{events.Loot(fmt.Sprintf("You find the %s!", s.rules.TreasureName(id)))}
		}
	}
	gold := 5*level + s.rng.Range(0, 20)
	s.player.Gold += gold
	return []types.Event{events.Loot(fmt.Sprintf("You find %d gold pieces!", gold))}
}

func (s *Session) spellMenu() types.Event {
	p := s.player
	tooDim := p.IQ < s.rules.MinSpellIQ
	opts := make([]types.Option, 0, len(types.AllSpells))
	for _, sp := range types.AllSpells {
		charges := p.Spells[sp]
		opts = append(opts, types.Option{
			Key:      state.SpellKey(sp),
			Label:    fmt.Sprintf("%s (%d)", state.SpellLabel(sp), charges),
			Disabled: tooDim || charges <= 0,
		})
	}
	return events.Prompt("Choose a spell:", true, opts...)
}

func (s *Session) spellChoice(cmd parser.Command) Result {
	if cmd.Cancel {
		s.st.AwaitingSpell = false
		return Result{Events: []types.Event{events.Info("You ready yourself for the fight.")}}
	}
	spell, ok := state.SpellByKey(cmd.Key)
	if !ok {
		return Result{Events: []types.Event{
			events.Error("Choose P/F/L/W/T or Esc to cancel."),
			s.spellMenu(),
		}}
	}

	s.st.AwaitingSpell = false
	if s.player.IQ < s.rules.MinSpellIQ {
		return Result{Events: []types.Event{events.Info("You have insufficient intelligence.")}}
	}
	if s.player.Spells[spell] <= 0 {
		return Result{Events: []types.Event{events.Info("You know not that spell.")}}
	}
	s.player.Spells[spell]--
	return s.cast(spell)
}

func (s *Session) cast(spell types.Spell) Result {
	var evs []types.Event
	p := s.player
	name := s.st.MonsterName

	switch spell {
	case types.SpellProtection:
		p.TempArmorBonus += s.rules.ProtectionBonus
		if p.ArmorTier > 0 {
			evs = append(evs, events.Info("Your armour glows briefly in response to your spell."))
		} else {
			evs = append(evs, events.Info("Your clothes glow briefly, becoming, temporarily, armour."))
		}
	case types.SpellFireball:
		s.st.Vitality -= max(s.rng.Range(1, 5)+p.IQ/3, 0)
		evs = append(evs, events.Combat(fmt.Sprintf("A glowing ball of fire converges with the %s.", name)))
	case types.SpellLightning:
		s.st.Vitality -= max(s.rng.Range(1, 10)+p.IQ/2, 0)
		evs = append(evs, events.Combat(fmt.Sprintf("The %s is thunderstruck!", name)))
	case types.SpellWeaken:
		s.st.Vitality = floorHalf(s.st.Vitality)
		evs = append(evs, events.Combat(fmt.Sprintf(
			"A green mist envelops the %s, depriving him of half his vitality.", name)))
	case types.SpellTeleport:
		state.ResetCombatFlags(p)
		evs = append(evs, events.Info(
			"Thy surroundings vibrate momentarily, as you are magically transported elsewhere..."))
		return Result{Events: evs, Outcome: Teleported}
	}

	if s.st.Vitality <= 0 {
		return s.monsterDeath(evs)
	}
	return s.retaliate(evs)
}

func floorHalf(v int) int {
	if v < 0 {
		return (v - 1) / 2
	}
	return v / 2
}
