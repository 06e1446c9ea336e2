// Package dungeon generates and validates the 7x7x7 room cube.
package dungeon

import (
	"fmt"

	"github.com/nathoo/doomcrawl/engine/rng"
	"github.com/nathoo/doomcrawl/types"
)

const (
	plainChance  = 0.7 // share of rooms left empty before placement passes
	monsterRolls = 8   // feature rolls above this place a monster
)

// Deepest is the floor that holds the exit.
const Deepest = types.Size - 1

// Generate builds a dungeon that satisfies every placement invariant.
// Draw order is fixed: room contents in (z, y, x) order, then treasures,
// then one stair pair per floor, then the exit.
func Generate(r rng.Source) *types.Dungeon {
	d := &types.Dungeon{}
	for z := 0; z < types.Size; z++ {
		for y := 0; y < types.Size; y++ {
			for x := 0; x < types.Size; x++ {
				d.Rooms[z][y][x] = newRoom(r, z)
			}
		}
	}
	placeTreasures(r, d)
	placeStairs(r, d)
	placeExit(r, d)
	return d
}

func newRoom(r rng.Source, z int) types.Room {
	var room types.Room
	if r.Float64() < plainChance {
		return room
	}
	roll := r.Range(1, 10)
	if roll > monsterRolls {
		room.MonsterLevel = r.Range(z+1, min(10, z+6))
		return room
	}
	room.Feature = types.Feature(roll)
	return room
}

func randomCoord(r rng.Source, z int) types.Coord {
	return types.Coord{Z: z, Y: r.Intn(types.Size), X: r.Intn(types.Size)}
}

// At returns the room at c.
func At(d *types.Dungeon, c types.Coord) *types.Room {
	return &d.Rooms[c.Z][c.Y][c.X]
}

// InBounds reports whether c addresses a room of the cube.
func InBounds(c types.Coord) bool {
	in := func(v int) bool { return v >= 0 && v < types.Size }
	return in(c.Z) && in(c.Y) && in(c.X)
}

func isVacant(room *types.Room) bool {
	return room.Feature == types.FeatureEmpty && room.MonsterLevel == 0 && room.TreasureID == 0
}

func isOccupied(room *types.Room) bool {
	return room.MonsterLevel > 0 || room.TreasureID > 0
}

func placeTreasures(r rng.Source, d *types.Dungeon) {
	for id := 1; id <= types.TreasureCount; {
		c := randomCoord(r, r.Intn(types.Size))
		room := At(d, c)
		if !isVacant(room) {
			continue
		}
		room.TreasureID = id
		id++
	}
}

func placeStairs(r rng.Source, d *types.Dungeon) {
	for z := 0; z < types.Size-1; z++ {
		for {
			c := randomCoord(r, z)
			room := At(d, c)
			below := At(d, types.Coord{Z: z + 1, Y: c.Y, X: c.X})
			if isOccupied(room) || isOccupied(below) || room.Feature == types.FeatureStairsDown {
				continue
			}
			room.Feature = types.FeatureStairsUp
			below.Feature = types.FeatureStairsDown
			break
		}
	}
}

func placeExit(r rng.Source, d *types.Dungeon) {
	for {
		room := At(d, randomCoord(r, Deepest))
		if isOccupied(room) {
			continue
		}
		switch room.Feature {
		case types.FeatureStairsUp, types.FeatureStairsDown, types.FeatureExit:
			continue
		}
		room.Feature = types.FeatureExit
		return
	}
}

// Validate re-checks every placement invariant and returns one message
// per violation. Generator output always yields an empty slice.
func Validate(d *types.Dungeon) []string {
	var errs []string
	exits := 0
	seenTreasure := map[int]types.Coord{}

	for z := 0; z < types.Size; z++ {
		ups, downs := 0, 0
		for y := 0; y < types.Size; y++ {
			for x := 0; x < types.Size; x++ {
				c := types.Coord{Z: z, Y: y, X: x}
				room := At(d, c)

				contents := 0
				if room.Feature != types.FeatureEmpty {
					contents++
				}
				if room.MonsterLevel > 0 {
					contents++
				}
				if room.TreasureID > 0 {
					contents++
				}
				if contents > 1 {
					errs = append(errs, fmt.Sprintf("room %s holds more than one of feature, monster, treasure", coordString(c)))
				}

				if room.MonsterLevel < 0 || room.MonsterLevel > 10 {
					errs = append(errs, fmt.Sprintf("room %s has monster level %d", coordString(c), room.MonsterLevel))
				}
				if room.Feature < types.FeatureEmpty || room.Feature > types.FeatureExit {
					errs = append(errs, fmt.Sprintf("room %s has unknown feature %d", coordString(c), room.Feature))
				}

				if id := room.TreasureID; id != 0 {
					if id < 1 || id > types.TreasureCount {
						errs = append(errs, fmt.Sprintf("room %s has treasure id %d", coordString(c), id))
					} else if prev, dup := seenTreasure[id]; dup {
						errs = append(errs, fmt.Sprintf("treasure %d placed at both %s and %s", id, coordString(prev), coordString(c)))
					} else {
						seenTreasure[id] = c
					}
				}

				switch room.Feature {
				case types.FeatureExit:
					exits++
					if z != Deepest {
						errs = append(errs, fmt.Sprintf("exit at %s is not on the deepest floor", coordString(c)))
					}
				case types.FeatureStairsUp:
					ups++
					if z == Deepest {
						errs = append(errs, fmt.Sprintf("stairs up at %s on the deepest floor", coordString(c)))
					} else if At(d, types.Coord{Z: z + 1, Y: y, X: x}).Feature != types.FeatureStairsDown {
						errs = append(errs, fmt.Sprintf("stairs up at %s have no stairs down below", coordString(c)))
					}
				case types.FeatureStairsDown:
					downs++
					if z == 0 {
						errs = append(errs, fmt.Sprintf("stairs down at %s on the top floor", coordString(c)))
					} else if At(d, types.Coord{Z: z - 1, Y: y, X: x}).Feature != types.FeatureStairsUp {
						errs = append(errs, fmt.Sprintf("stairs down at %s have no stairs up above", coordString(c)))
					}
				}
			}
		}

		wantUps, wantDowns := 1, 1
		if z == Deepest {
			wantUps = 0
		}
		if z == 0 {
			wantDowns = 0
		}
		if ups != wantUps {
			errs = append(errs, fmt.Sprintf("floor %d has %d stairs up, want %d", z, ups, wantUps))
		}
		if downs != wantDowns {
			errs = append(errs, fmt.Sprintf("floor %d has %d stairs down, want %d", z, downs, wantDowns))
		}
	}

	if exits != 1 {
		errs = append(errs, fmt.Sprintf("dungeon has %d exits, want 1", exits))
	}
	if len(seenTreasure) != types.TreasureCount {
		errs = append(errs, fmt.Sprintf("dungeon has %d distinct treasures, want %d", len(seenTreasure), types.TreasureCount))
	}
	return errs
}

func coordString(c types.Coord) string {
	return fmt.Sprintf("%d,%d,%d", c.Z, c.Y, c.X)
}
