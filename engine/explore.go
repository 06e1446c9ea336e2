package engine

import (
	"fmt"

	"github.com/nathoo/doomcrawl/engine/dungeon"
	"github.com/nathoo/doomcrawl/engine/events"
	"github.com/nathoo/doomcrawl/engine/parser"
	"github.com/nathoo/doomcrawl/engine/state"
	"github.com/nathoo/doomcrawl/engine/vendor"
	"github.com/nathoo/doomcrawl/types"
)

const unknownCommand = "I don't understand that."

const blankVision = "The mirror is cloudy and yields no vision."

var visions = []string{
	blankVision,
	"You see yourself dead and lying in a black coffin.",
	"You see a dragon beckoning to you.",
	"You see the three heads of a chimaera grinning at you.",
	"You see the exit on the 7th floor, big and friendly-looking.",
}

// explore routes one explore-mode command. Unknown commands touch neither
// the state nor the RNG.
func (g *Game) explore(cmd parser.Command) []types.Event {
	switch parser.ExploreKey(cmd) {
	case "N":
		return g.move(-1, 0)
	case "S":
		return g.move(1, 0)
	case "E":
		return g.move(0, 1)
	case "W":
		return g.move(0, -1)
	case "U":
		return g.stairsUp()
	case "D":
		return g.stairsDown()
	case "F":
		return g.flare()
	case "X":
		return g.exit()
	case "L":
		return g.mirror()
	case "O":
		return g.chest()
	case "R":
		return g.scroll()
	case "P":
		return g.potion()
	case "B":
		return g.openVendor()
	case "H":
		return []types.Event{events.Info(helpText)}
	case "M":
		return []types.Event{g.mapEvent()}
	case "I":
		return []types.Event{events.Status(g.Status())}
	}
	return []types.Event{events.Error(unknownCommand)}
}

func (g *Game) move(dy, dx int) []types.Event {
	to := g.Player.Pos
	to.Y += dy
	to.X += dx
	if !dungeon.InBounds(to) {
		return []types.Event{events.Info("A wall interposes itself.")}
	}
	g.Player.Pos = to
	return g.enterRoom()
}

func (g *Game) stairsUp() []types.Event {
	if g.room().Feature != types.FeatureStairsUp {
		return []types.Event{events.Info("There are no stairs leading up here, foolish adventurer.")}
	}
	g.Player.Pos.Z++
	return g.enterRoom()
}

func (g *Game) stairsDown() []types.Event {
	if g.room().Feature != types.FeatureStairsDown {
		return []types.Event{events.Info("There is no downward staircase here.")}
	}
	g.Player.Pos.Z--
	return g.enterRoom()
}

func (g *Game) exit() []types.Event {
	if g.room().Feature != types.FeatureExit {
		return []types.Event{events.Info("There is no exit here.")}
	}
	if remaining := state.TreasuresRemaining(g.Player); remaining > 0 {
		g.over = true
		return []types.Event{events.Info(fmt.Sprintf("You abandon your quest with %d treasures remaining.", remaining))}
	}
	g.won = true
	return []types.Event{events.Info("ALL HAIL THE VICTOR!")}
}

func (g *Game) flare() []types.Event {
	p := g.Player
	if p.Flares < 1 {
		return []types.Event{events.Info("Thou hast no flares.")}
	}
	p.Flares--
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c := types.Coord{Z: p.Pos.Z, Y: p.Pos.Y + dy, X: p.Pos.X + dx}
			if (dy != 0 || dx != 0) && dungeon.InBounds(c) {
				dungeon.At(g.Dungeon, c).Seen = true
			}
		}
	}
	return []types.Event{
		events.Info("The flare illuminates nearby rooms."),
		g.mapEvent(),
	}
}

// consume checks the current room holds f and empties it.
func (g *Game) consume(f types.Feature) bool {
	room := g.room()
	if room.Feature != f {
		return false
	}
	room.Feature = types.FeatureEmpty
	return true
}

func (g *Game) mirror() []types.Event {
	if !g.consume(types.FeatureMirror) {
		return []types.Event{events.Info("There is no mirror here.")}
	}
	if state.TreasuresRemaining(g.Player) == 0 {
		return []types.Event{events.Info(blankVision)}
	}

	if g.rand().Range(1, 50) > g.Player.IQ {
		if g.rand().Range(1, 10) <= 5 {
			return []types.Event{events.Info(visions[g.rand().Intn(len(visions))])}
		}
		id := g.rand().Range(1, types.TreasureCount)
		x := g.rand().Range(1, types.Size)
		y := g.rand().Range(1, types.Size)
		z := g.rand().Range(1, types.Size)
		return []types.Event{events.Info(g.vision(id, z, y, x))}
	}

	var hidden []types.Coord
	for z := range types.Size {
		for y := range types.Size {
			for x := range types.Size {
				id := g.Dungeon.Rooms[z][y][x].TreasureID
				if id > 0 && !state.HasTreasure(g.Player, id) {
					hidden = append(hidden, types.Coord{Z: z, Y: y, X: x})
				}
			}
		}
	}
	if len(hidden) == 0 {
		return []types.Event{events.Info(blankVision)}
	}
	c := hidden[g.rand().Intn(len(hidden))]
	id := dungeon.At(g.Dungeon, c).TreasureID
	return []types.Event{events.Info(g.vision(id, c.Z+1, c.Y+1, c.X+1))}
}

func (g *Game) vision(id, z, y, x int) string {
	return fmt.Sprintf("You see the %s at %d,%d,%d!", g.Rules.TreasureName(id), z, y, x)
}

func (g *Game) chest() []types.Event {
	if !g.consume(types.FeatureChest) {
		return []types.Event{events.Info("There is no chest here.")}
	}
	p := g.Player
	switch roll := g.rand().Range(1, 10); {
	case roll == 1:
		if state.DamageArmor(p, g.Rules) {
			return []types.Event{events.Info("The perverse thing explodes, damaging your armor!")}
		}
		dmg := g.rand().Range(1, 5)
		p.HP -= dmg
		evs := []types.Event{events.Combat(fmt.Sprintf("The perverse thing explodes, wounding you for %d hit points!", dmg))}
		if p.HP <= 0 {
			p.HP = 0
			g.over = true
			evs = append(evs, events.Combat("YOU HAVE DIED."))
		}
		return evs
	case roll <= 4:
		return []types.Event{events.Info("It containeth naught.")}
	default:
		gold := 10 + g.rand().Range(0, 20)
		p.Gold += gold
		return []types.Event{events.Loot(fmt.Sprintf("You find %d gold pieces!", gold))}
	}
}

func (g *Game) scroll() []types.Event {
	if !g.consume(types.FeatureScroll) {
		return []types.Event{events.Info("Sorry. There is nothing to read here.")}
	}
	spell := types.AllSpells[g.rand().Intn(len(types.AllSpells))]
	g.Player.Spells[spell]++
	return []types.Event{events.Info(fmt.Sprintf("The scroll contains the %s spell.", state.SpellWord(spell)))}
}

func (g *Game) potion() []types.Event {
	if !g.consume(types.FeaturePotion) {
		return []types.Event{events.Info("There is no potion here, I fear.")}
	}
	p := g.Player
	if g.rand().Range(1, 5) == 1 {
		state.Heal(p, 5+g.rand().Range(1, 10))
		return []types.Event{events.Info(state.DrinkText), events.Info(state.HealingText)}
	}

	attr := state.PotionAttributes[g.rand().Intn(len(state.PotionAttributes))]
	delta := g.rand().Range(1, 6)
	if g.rand().Float64() > 0.5 {
		delta = -delta
	}
	// PotionAttributes only holds known attributes.
	_ = state.ApplyAttributeChange(p, attr, delta)
	return []types.Event{events.Info(state.DrinkText), events.Info(state.AttributePotionText(attr, delta))}
}

func (g *Game) openVendor() []types.Event {
	if g.room().Feature != types.FeatureVendor {
		return []types.Event{events.Info("There is no vendor here.")}
	}
	g.shop = vendor.Open(g.rand(), g.Player, g.Rules)
	return g.shop.OpeningEvents()
}

const helpText = `COMMAND SUMMARY:
Move: N=North  S=South  E=East  W=West  U=Up  D=Down
Act:  L=Look in mirror  O=Open chest  R=Read scroll  P=Potion  F=Flare  B=Buy
Info: M=Map  I=Inventory  H=Help  X=eXit

Encounter: F=Fight  R=Run  S=Spell (Esc cancels the spell menu)

MAP LEGEND:
-=Empty  m=Mirror  s=Scroll  c=Chest  f=Flares  p=Potion
v=Vendor  t=Thief  w=Warp  U=Up  D=Down  X=eXit
T=Treasure  M=Monster  *=You  ?=Unknown`
