package engine

import (
	"fmt"
	"strings"

	"github.com/nathoo/doomcrawl/engine/dungeon"
	"github.com/nathoo/doomcrawl/engine/encounter"
	"github.com/nathoo/doomcrawl/engine/events"
	"github.com/nathoo/doomcrawl/engine/state"
	"github.com/nathoo/doomcrawl/types"
)

// maxWarps bounds warp chains at one hop per room.
const maxWarps = types.Size * types.Size * types.Size

func (g *Game) room() *types.Room {
	return dungeon.At(g.Dungeon, g.Player.Pos)
}

// enterRoom resolves the current room. A warp relocates the player and the
// loop resolves the destination, up to maxWarps hops.
func (g *Game) enterRoom() []types.Event {
	var evs []types.Event
	for hop := 0; hop < maxWarps; hop++ {
		room := g.room()
		room.Seen = true

		// A live monster overrides the room's treasure and feature.
		if room.MonsterLevel > 0 {
			g.encounter = encounter.Start(g.rand(), g.Player, room, g.Rules, g.Debug)
			return append(evs, g.encounter.OpeningEvents()...)
		}

		if id := room.TreasureID; id > 0 {
			room.TreasureID = 0
			evs = append(evs, g.awardTreasure(id)...)
		}

		if room.Feature != types.FeatureWarp {
			feature := room.Feature
			evs = append(evs, g.resolveFeature(room)...)
			if g.Debug {
				evs = append(evs, g.roomDebug(feature))
			}
			return evs
		}
		evs = append(evs, events.Info("This room contains a warp. You are whisked elsewhere..."))
		g.relocateAnywhere()
	}
	return evs
}

func (g *Game) roomDebug(f types.Feature) types.Event {
	c := g.Player.Pos
	return events.Debug(fmt.Sprintf("Room %d,%d,%d: %s", c.Z+1, c.Y+1, c.X+1, state.FeatureLabel(f)))
}

func (g *Game) awardTreasure(id int) []types.Event {
	added, err := state.AwardTreasure(g.Player, id)
	if err != nil || !added {
		return nil
	}
	return []types.Event{events.Loot(fmt.Sprintf("You find the %s!", g.Rules.TreasureName(id)))}
}

func (g *Game) resolveFeature(room *types.Room) []types.Event {
	p := g.Player
	switch room.Feature {
	case types.FeatureEmpty:
		return []types.Event{events.Info("This room is empty.")}
	case types.FeatureMirror:
		return []types.Event{events.Info("There is a magic mirror mounted on the wall here.")}
	case types.FeatureScroll:
		return []types.Event{events.Info("There is a spell scroll here.")}
	case types.FeatureChest:
		return []types.Event{events.Info("There is a chest here.")}
	case types.FeatureFlares:
		gained := g.rand().Range(1, 5)
		p.Flares += gained
		room.Feature = types.FeatureEmpty
		return []types.Event{events.Info(fmt.Sprintf("You pick up %d flares.", gained))}
	case types.FeaturePotion:
		return []types.Event{events.Info("There is a magic potion here.")}
	case types.FeatureVendor:
		return []types.Event{events.Info("There is a vendor here.")}
	case types.FeatureThief:
		stolen := min(g.rand().Range(1, 50), p.Gold)
		p.Gold -= stolen
		room.Feature = types.FeatureEmpty
		return []types.Event{events.Info(fmt.Sprintf("A thief steals %d gold pieces.", stolen))}
	case types.FeatureWarp:
		// Handled by enterRoom; reached only when the hop cap is exhausted.
		return nil
	case types.FeatureStairsUp:
		return []types.Event{events.Info("There are stairs up here.")}
	case types.FeatureStairsDown:
		return []types.Event{events.Info("There are stairs down here.")}
	case types.FeatureExit:
		return []types.Event{events.Info("You see the exit to the Dungeon of Doom here.")}
	}
	return nil
}

// relocateAnywhere moves the player to a uniformly random room other than
// the current one, possibly on another floor.
func (g *Game) relocateAnywhere() {
	from := g.Player.Pos
	for {
		to := types.Coord{
			Z: g.rand().Intn(types.Size),
			Y: g.rand().Intn(types.Size),
			X: g.rand().Intn(types.Size),
		}
		if to != from {
			g.Player.Pos = to
			return
		}
	}
}

// relocateOnFloor moves the player to a random other room on this floor.
func (g *Game) relocateOnFloor() {
	from := g.Player.Pos
	for {
		to := types.Coord{Z: from.Z, Y: g.rand().Intn(types.Size), X: g.rand().Intn(types.Size)}
		if to != from {
			g.Player.Pos = to
			return
		}
	}
}

// MapRows renders the player's current floor, one string per row.
func (g *Game) MapRows() []string {
	pos := g.Player.Pos
	rows := make([]string, types.Size)
	cells := make([]string, types.Size)
	for y := 0; y < types.Size; y++ {
		for x := 0; x < types.Size; x++ {
			room := &g.Dungeon.Rooms[pos.Z][y][x]
			switch {
			case y == pos.Y && x == pos.X:
				cells[x] = "*"
			case !room.Seen:
				cells[x] = "?"
			case room.MonsterLevel > 0:
				cells[x] = "M"
			case room.TreasureID > 0:
				cells[x] = "T"
			default:
				cells[x] = state.FeatureSymbol(room.Feature)
			}
		}
		rows[y] = strings.Join(cells, " ")
	}
	return rows
}

func (g *Game) mapEvent() types.Event {
	return events.Map(g.MapRows())
}
