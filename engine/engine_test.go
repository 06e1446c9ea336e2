package engine

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/nathoo/doomcrawl/engine/dungeon"
	"github.com/nathoo/doomcrawl/engine/events"
	"github.com/nathoo/doomcrawl/engine/rng"
	"github.com/nathoo/doomcrawl/engine/rng/rngtest"
	"github.com/nathoo/doomcrawl/engine/rules"
	"github.com/nathoo/doomcrawl/engine/state"
	"github.com/nathoo/doomcrawl/types"
)

var testCreation = Creation{
	Race:       types.RaceHuman,
	Allocation: state.Allocation{Str: 2, Dex: 2, IQ: 1},
	Loadout:    state.Loadout{WeaponTier: 1, ArmorTier: 1, Flares: 0},
}

// emptyGame returns a game in an empty dungeon so tests can place exactly
// the rooms they need.
func emptyGame(seed int64) *Game {
	rs := rules.Default()
	p := &types.Player{
		Pos:        state.StartPos,
		Race:       types.RaceHuman,
		Str:        12,
		Dex:        12,
		IQ:         12,
		HP:         20,
		MaxHP:      20,
		Gold:       50,
		Treasures:  []int{},
		WeaponTier: 1,
		ArmorTier:  1,
		WeaponName: rs.WeaponNames[1],
		ArmorName:  rs.ArmorNames[1],
		Spells:     state.NewSpellBook(),
	}
	return &Game{
		Dungeon: &types.Dungeon{},
		Player:  p,
		RNG:     rng.New(seed),
		Rules:   rs,
		log:     []string{},
	}
}

func (g *Game) roomAt(z, y, x int) *types.Room {
	return &g.Dungeon.Rooms[z][y][x]
}

func hasText(evs []types.Event, text string) bool {
	for _, e := range evs {
		if e.Text == text {
			return true
		}
	}
	return false
}

func TestNew_StartsAtEntrance(t *testing.T) {
	g, err := New(42, testCreation, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.Player.Pos != (types.Coord{Z: 0, Y: 3, X: 3}) {
		t.Errorf("start position = %+v", g.Player.Pos)
	}
	if g.Mode() != types.ModeExplore {
		t.Errorf("mode = %s, want explore", g.Mode())
	}
	if problems := dungeon.Validate(g.Dungeon); len(problems) > 0 {
		t.Errorf("generated dungeon invalid: %v", problems)
	}
	if g.Prompt() != "--> " {
		t.Errorf("prompt = %q", g.Prompt())
	}
}

func TestNew_InvalidCreation(t *testing.T) {
	bad := testCreation
	bad.Allocation = state.Allocation{Str: 5, Dex: 5}
	if _, err := New(1, bad, Options{}); !errors.Is(err, state.ErrInvalidAllocation) {
		t.Fatalf("expected ErrInvalidAllocation, got %v", err)
	}
}

func TestStep_UnknownCommand(t *testing.T) {
	g := emptyGame(1)
	before := g.RNG.Position()
	pos := g.Player.Pos

	for _, input := range []string{"Q", "", "   ", "ZAP"} {
		res := g.Step(input)
		if len(res.Events) != 1 || res.Events[0].Kind != types.EventError || res.Events[0].Text != unknownCommand {
			t.Fatalf("Step(%q) events = %+v", input, res.Events)
		}
		if !res.NeedsInput {
			t.Errorf("Step(%q) should still need input", input)
		}
	}
	if g.RNG.Position() != before {
		t.Errorf("unknown commands drew from the RNG: %d -> %d", before, g.RNG.Position())
	}
	if g.Player.Pos != pos {
		t.Errorf("unknown commands moved the player")
	}
	if g.Turn() != 0 {
		t.Errorf("turn = %d, want 0 after rejected input", g.Turn())
	}
	if got := len(g.CommandLog()); got != 4 {
		t.Errorf("command log has %d entries, want 4", got)
	}
}

func TestStep_LogsCommands(t *testing.T) {
	g := emptyGame(1)
	g.Step("n")
	g.Step("bogus")
	if g.Turn() != 1 {
		t.Errorf("turn = %d, want 1", g.Turn())
	}
	if got := g.CommandLog(); !reflect.DeepEqual(got, []string{"n", "bogus"}) {
		t.Errorf("command log = %v", got)
	}
}

func TestMove(t *testing.T) {
	g := emptyGame(1)
	res := g.Step("north")
	if g.Player.Pos != (types.Coord{Z: 0, Y: 2, X: 3}) {
		t.Fatalf("pos = %+v", g.Player.Pos)
	}
	if !hasText(res.Events, "This room is empty.") {
		t.Errorf("events = %v", events.Texts(res.Events))
	}
	if !g.roomAt(0, 2, 3).Seen {
		t.Error("entered room should be seen")
	}
}

func TestMove_DebugNamesRoom(t *testing.T) {
	g := emptyGame(1)
	g.roomAt(0, 2, 3).Feature = types.FeatureStairsDown

	res := g.Step("N")
	if got := events.Filter(res.Events, types.EventDebug); len(got) != 0 {
		t.Errorf("debug events without debug: %v", events.Texts(got))
	}

	g.Debug = true
	g.Step("S")
	res = g.Step("N")
	got := events.Filter(res.Events, types.EventDebug)
	if len(got) != 1 || got[0].Text != "Room 1,3,4: Stairs Down" {
		t.Errorf("debug events = %v", events.Texts(got))
	}
}

func TestMove_Wall(t *testing.T) {
	g := emptyGame(1)
	g.Player.Pos = types.Coord{Z: 0, Y: 0, X: 6}
	for _, dir := range []string{"N", "E"} {
		res := g.Step(dir)
		if !hasText(res.Events, "A wall interposes itself.") {
			t.Errorf("%s: events = %v", dir, events.Texts(res.Events))
		}
	}
	if g.Player.Pos != (types.Coord{Z: 0, Y: 0, X: 6}) {
		t.Errorf("player moved through a wall: %+v", g.Player.Pos)
	}
}

func TestStairs(t *testing.T) {
	g := emptyGame(1)
	res := g.Step("U")
	if !hasText(res.Events, "There are no stairs leading up here, foolish adventurer.") {
		t.Fatalf("events = %v", events.Texts(res.Events))
	}

	g.roomAt(0, 3, 3).Feature = types.FeatureStairsUp
	g.roomAt(1, 3, 3).Feature = types.FeatureStairsDown
	res = g.Step("U")
	if g.Player.Pos.Z != 1 {
		t.Fatalf("U should move to floor 1, at %+v", g.Player.Pos)
	}
	if !hasText(res.Events, "There are stairs down here.") {
		t.Errorf("events = %v", events.Texts(res.Events))
	}

	g.Step("D")
	if g.Player.Pos.Z != 0 {
		t.Errorf("D should move back to floor 0, at %+v", g.Player.Pos)
	}

	g.Step("S")
	res = g.Step("D")
	if !hasText(res.Events, "There is no downward staircase here.") {
		t.Errorf("events = %v", events.Texts(res.Events))
	}
}

func TestWarp_Relocates(t *testing.T) {
	g := emptyGame(7)
	g.roomAt(0, 3, 4).Feature = types.FeatureWarp

	res := g.Step("E")
	if res.Events[0].Text != "This room contains a warp. You are whisked elsewhere..." {
		t.Fatalf("first event = %q", res.Events[0].Text)
	}
	if g.Player.Pos == (types.Coord{Z: 0, Y: 3, X: 4}) {
		t.Error("warp should move the player elsewhere")
	}
	if !hasText(res.Events, "This room is empty.") {
		t.Errorf("destination should be entered: %v", events.Texts(res.Events))
	}
}

func TestWarp_ChainTerminates(t *testing.T) {
	g := emptyGame(3)
	for z := range types.Size {
		for y := range types.Size {
			for x := range types.Size {
				g.roomAt(z, y, x).Feature = types.FeatureWarp
			}
		}
	}
	res := g.Step("E")
	if n := len(events.Filter(res.Events, types.EventInfo)); n != maxWarps {
		t.Errorf("warp narrations = %d, want %d", n, maxWarps)
	}
}

func TestFlare(t *testing.T) {
	g := emptyGame(1)
	res := g.Step("F")
	if !hasText(res.Events, "Thou hast no flares.") {
		t.Fatalf("events = %v", events.Texts(res.Events))
	}

	g.Player.Flares = 2
	g.Player.Pos = types.Coord{Z: 0, Y: 0, X: 0}
	res = g.Step("F")
	if g.Player.Flares != 1 {
		t.Errorf("flares = %d, want 1", g.Player.Flares)
	}
	for _, c := range [][2]int{{0, 1}, {1, 0}, {1, 1}} {
		if !g.roomAt(0, c[0], c[1]).Seen {
			t.Errorf("room %v should be lit", c)
		}
	}
	if g.roomAt(0, 2, 2).Seen || g.roomAt(1, 0, 1).Seen {
		t.Error("flare lit rooms beyond its neighbours")
	}
	m, ok := events.Last(res.Events, types.EventMap)
	if !ok || len(m.Map) != types.Size {
		t.Fatalf("expected a map event, got %+v", res.Events)
	}
	if m.Map[0] != "* - ? ? ? ? ?" {
		t.Errorf("map row 0 = %q", m.Map[0])
	}
}

func TestExit_Abandon(t *testing.T) {
	g := emptyGame(1)
	res := g.Step("X")
	if !hasText(res.Events, "There is no exit here.") {
		t.Fatalf("events = %v", events.Texts(res.Events))
	}

	g.roomAt(0, 3, 3).Feature = types.FeatureExit
	g.Player.Treasures = []int{1, 2, 3}
	res = g.Step("X")
	if !hasText(res.Events, "You abandon your quest with 7 treasures remaining.") {
		t.Errorf("events = %v", events.Texts(res.Events))
	}
	if res.Mode != types.ModeGameOver || res.NeedsInput {
		t.Errorf("mode = %s needsInput = %v", res.Mode, res.NeedsInput)
	}

	after := g.Step("N")
	if len(after.Events) != 0 || after.NeedsInput {
		t.Errorf("terminal game should ignore input, got %+v", after)
	}
	if g.Turn() != 2 {
		t.Errorf("terminal steps should not count as turns, turn = %d", g.Turn())
	}
}

func TestExit_Victory(t *testing.T) {
	g := emptyGame(1)
	g.roomAt(0, 3, 3).Feature = types.FeatureExit
	g.Player.Treasures = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	res := g.Step("X")
	if res.Mode != types.ModeVictory {
		t.Fatalf("mode = %s, want victory", res.Mode)
	}
	if !hasText(res.Events, "ALL HAIL THE VICTOR!") {
		t.Errorf("events = %v", events.Texts(res.Events))
	}
}

func TestEnterRoom_Thief(t *testing.T) {
	g := emptyGame(5)
	g.Player.Gold = 3
	g.roomAt(0, 3, 4).Feature = types.FeatureThief
	g.Step("E")
	if g.Player.Gold < 0 || g.Player.Gold >= 3 {
		t.Errorf("gold = %d, thief should take 1..3", g.Player.Gold)
	}
	if g.roomAt(0, 3, 4).Feature != types.FeatureEmpty {
		t.Error("thief room should be emptied")
	}
}

func TestEnterRoom_Flares(t *testing.T) {
	g := emptyGame(5)
	g.roomAt(0, 3, 4).Feature = types.FeatureFlares
	g.Step("E")
	if g.Player.Flares < 1 || g.Player.Flares > 5 {
		t.Errorf("flares = %d, want 1..5", g.Player.Flares)
	}
	if g.roomAt(0, 3, 4).Feature != types.FeatureEmpty {
		t.Error("flare room should be emptied")
	}
}

func TestEnterRoom_TreasureOnce(t *testing.T) {
	g := emptyGame(1)
	g.roomAt(0, 3, 4).TreasureID = 3
	res := g.Step("E")
	loot := events.Filter(res.Events, types.EventLoot)
	if len(loot) != 1 || loot[0].Text != "You find the "+g.Rules.TreasureName(3)+"!" {
		t.Fatalf("loot = %+v", loot)
	}
	if g.roomAt(0, 3, 4).TreasureID != 0 || !state.HasTreasure(g.Player, 3) {
		t.Error("treasure should move from the room to the player")
	}

	g.Step("W")
	res = g.Step("E")
	if len(events.Filter(res.Events, types.EventLoot)) != 0 {
		t.Error("treasure awarded twice")
	}
}

func TestEnterRoom_MonsterStartsEncounter(t *testing.T) {
	g := emptyGame(1)
	room := g.roomAt(0, 3, 4)
	room.MonsterLevel = 2
	room.TreasureID = 4
	room.Feature = types.FeatureChest

	res := g.Step("E")
	if res.Mode != types.ModeEncounter {
		t.Fatalf("mode = %s, want encounter", res.Mode)
	}
	if g.Prompt() != "F/R/S> " {
		t.Errorf("prompt = %q", g.Prompt())
	}
	if len(events.Filter(res.Events, types.EventLoot)) != 0 || room.TreasureID != 4 {
		t.Error("monster should guard the treasure")
	}
	if !hasText(res.Events, "You are facing an angry "+g.Rules.MonsterName(2)+"!") {
		t.Errorf("events = %v", events.Texts(res.Events))
	}
}

func TestEncounter_RunRelocatesOnFloor(t *testing.T) {
	for seed := int64(1); seed < 40; seed++ {
		g := emptyGame(seed)
		g.roomAt(0, 3, 4).MonsterLevel = 1
		g.Player.HP, g.Player.MaxHP = 500, 500
		g.Step("E")

		for i := 0; i < 30 && g.Mode() == types.ModeEncounter; i++ {
			g.Player.Fatigued = false
			g.Step("R")
		}
		if g.Mode() != types.ModeExplore {
			continue
		}
		if g.Player.Pos.Z != 0 || g.Player.Pos == (types.Coord{Z: 0, Y: 3, X: 4}) {
			t.Fatalf("seed %d: fled to %+v", seed, g.Player.Pos)
		}
		if g.roomAt(0, 3, 4).MonsterLevel != 1 {
			t.Fatalf("seed %d: fleeing should leave the monster", seed)
		}
		return
	}
	t.Fatal("no seed produced a successful run")
}

func TestEncounter_Slay(t *testing.T) {
	g := emptyGame(11)
	g.roomAt(0, 3, 4).MonsterLevel = 1
	g.Player.HP, g.Player.MaxHP = 1000, 1000
	g.Player.Str = 18
	g.Step("E")

	for i := 0; i < 200 && g.Mode() == types.ModeEncounter; i++ {
		g.Step("F")
	}
	if g.Mode() != types.ModeExplore {
		t.Fatalf("mode = %s after fighting", g.Mode())
	}
	if g.roomAt(0, 3, 4).MonsterLevel != 0 {
		t.Error("slain monster should leave the room")
	}
}

func TestVendor(t *testing.T) {
	g := emptyGame(1)
	res := g.Step("B")
	if !hasText(res.Events, "There is no vendor here.") {
		t.Fatalf("events = %v", events.Texts(res.Events))
	}

	g.roomAt(0, 3, 3).Feature = types.FeatureVendor
	res = g.Step("B")
	if res.Mode != types.ModeVendor {
		t.Fatalf("mode = %s, want vendor", res.Mode)
	}
	if _, ok := events.Last(res.Events, types.EventPrompt); !ok {
		t.Error("vendor should prompt")
	}

	// The vendor consumes tokens before explore commands.
	g.Step("N")
	if g.Player.Pos != state.StartPos {
		t.Error("N inside the shop should not move the player")
	}

	res = g.Step("ESC")
	if res.Mode != types.ModeExplore || !hasText(res.Events, "Perhaps another time.") {
		t.Errorf("cancel: mode = %s events = %v", res.Mode, events.Texts(res.Events))
	}
}

func TestVendor_RejectedKeyKeepsTurn(t *testing.T) {
	g := emptyGame(1)
	g.roomAt(0, 3, 3).Feature = types.FeatureVendor
	g.Step("B")
	gold := g.Player.Gold

	res := g.Step("Z")
	if res.Events[0].Kind != types.EventError || res.Mode != types.ModeVendor {
		t.Fatalf("mode = %s events = %+v", res.Mode, res.Events)
	}
	if g.Turn() != 1 {
		t.Errorf("turn = %d, want 1", g.Turn())
	}
	if g.Player.Gold != gold {
		t.Errorf("gold = %d, want %d", g.Player.Gold, gold)
	}
	if got := g.CommandLog(); !reflect.DeepEqual(got, []string{"B", "Z"}) {
		t.Errorf("command log = %v", got)
	}
}

func TestFeatureActions_ConsumeRoom(t *testing.T) {
	tests := []struct {
		feature types.Feature
		cmd     string
		missing string
	}{
		{types.FeatureMirror, "L", "There is no mirror here."},
		{types.FeatureChest, "O", "There is no chest here."},
		{types.FeatureScroll, "R", "Sorry. There is nothing to read here."},
		{types.FeaturePotion, "P", "There is no potion here, I fear."},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			g := emptyGame(9)
			g.roomAt(0, 3, 3).Feature = tt.feature
			res := g.Step(tt.cmd)
			if len(res.Events) == 0 {
				t.Fatal("expected narration")
			}
			if g.roomAt(0, 3, 3).Feature != types.FeatureEmpty {
				t.Error("room should be emptied")
			}
			res = g.Step(tt.cmd)
			if !hasText(res.Events, tt.missing) {
				t.Errorf("second use: %v", events.Texts(res.Events))
			}
		})
	}
}

func TestScroll_GrantsCharge(t *testing.T) {
	g := emptyGame(4)
	g.roomAt(0, 3, 3).Feature = types.FeatureScroll
	res := g.Step("R")

	total := 0
	for _, n := range g.Player.Spells {
		total += n
	}
	if total != 1 {
		t.Fatalf("spell charges = %d, want 1", total)
	}
	if !strings.HasPrefix(res.Events[0].Text, "The scroll contains the ") {
		t.Errorf("text = %q", res.Events[0].Text)
	}
}

func TestPotion_KeepsBounds(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		g := emptyGame(seed)
		g.roomAt(0, 3, 3).Feature = types.FeaturePotion
		res := g.Step("P")
		if res.Events[0].Text != state.DrinkText {
			t.Fatalf("seed %d: first text = %q", seed, res.Events[0].Text)
		}
		p := g.Player
		for name, v := range map[string]int{"str": p.Str, "dex": p.Dex, "iq": p.IQ} {
			if v < state.MinAttribute || v > state.MaxAttribute {
				t.Fatalf("seed %d: %s = %d out of range", seed, name, v)
			}
		}
		if p.MaxHP < 1 || p.HP < 1 || p.HP > p.MaxHP {
			t.Fatalf("seed %d: hp %d/%d", seed, p.HP, p.MaxHP)
		}
	}
}

func TestChest_Outcomes(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		g := emptyGame(seed)
		g.roomAt(0, 3, 3).Feature = types.FeatureChest
		res := g.Step("O")
		switch text := res.Events[0].Text; {
		case text == "It containeth naught.":
			if g.Player.Gold != 50 || g.Player.ArmorTier != 1 {
				t.Fatalf("seed %d: empty chest changed the player", seed)
			}
		case text == "The perverse thing explodes, damaging your armor!":
			if g.Player.ArmorTier != 0 || g.Player.ArmorDamaged {
				t.Fatalf("seed %d: tier-1 armour should be destroyed, got tier %d damaged %v",
					seed, g.Player.ArmorTier, g.Player.ArmorDamaged)
			}
		case strings.HasPrefix(text, "You find "):
			if g.Player.Gold < 60 || g.Player.Gold > 80 {
				t.Fatalf("seed %d: gold = %d, want 60..80", seed, g.Player.Gold)
			}
		default:
			t.Fatalf("seed %d: unexpected text %q", seed, text)
		}
	}
}

func TestChest_NoArmorWounds(t *testing.T) {
	g := emptyGame(1)
	g.draws = rngtest.New(1, 4)
	g.Player.ArmorTier = 0
	g.Player.HP = 10
	g.roomAt(0, 3, 3).Feature = types.FeatureChest
	res := g.Step("O")
	if len(res.Events) != 1 || res.Events[0].Text != "The perverse thing explodes, wounding you for 4 hit points!" {
		t.Fatalf("events = %v", events.Texts(res.Events))
	}
	if g.Player.HP != 6 {
		t.Errorf("hp = %d, want 6", g.Player.HP)
	}
	if res.Mode != types.ModeExplore {
		t.Errorf("mode = %s, want explore", res.Mode)
	}
}

func TestChest_NoArmorCanKill(t *testing.T) {
	g := emptyGame(1)
	g.draws = rngtest.New(1, 5)
	g.Player.ArmorTier = 0
	g.Player.HP = 1
	g.roomAt(0, 3, 3).Feature = types.FeatureChest
	res := g.Step("O")
	if res.Events[0].Text != "The perverse thing explodes, wounding you for 5 hit points!" {
		t.Fatalf("first text = %q", res.Events[0].Text)
	}
	if res.Mode != types.ModeGameOver || !hasText(res.Events, "YOU HAVE DIED.") {
		t.Fatalf("mode = %s events = %v", res.Mode, events.Texts(res.Events))
	}
	if g.Player.HP != 0 {
		t.Errorf("hp = %d, want 0", g.Player.HP)
	}
}

func TestMirror_AllFoundIsBlank(t *testing.T) {
	g := emptyGame(1)
	g.Player.Treasures = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	g.roomAt(0, 3, 3).Feature = types.FeatureMirror
	before := g.RNG.Position()
	res := g.Step("L")
	if res.Events[0].Text != blankVision {
		t.Errorf("text = %q", res.Events[0].Text)
	}
	if g.RNG.Position() != before {
		t.Error("blank vision should not draw")
	}
}

// mirrorGame hides treasure 6 at 3,5,6 and stands the player at a mirror.
func mirrorGame(draws *rngtest.Scripted) *Game {
	g := emptyGame(1)
	g.draws = draws
	g.roomAt(2, 4, 5).TreasureID = 6
	g.roomAt(0, 3, 3).Feature = types.FeatureMirror
	return g
}

func TestMirror_TrueVision(t *testing.T) {
	// A roll equal to IQ still succeeds.
	draws := rngtest.New(12, 0)
	g := mirrorGame(draws)
	res := g.Step("L")
	want := "You see the " + g.Rules.TreasureName(6) + " at 3,5,6!"
	if res.Events[0].Text != want {
		t.Errorf("text = %q, want %q", res.Events[0].Text, want)
	}
	if draws.Remaining() != 0 {
		t.Errorf("%d scripted draws unused", draws.Remaining())
	}
	if g.roomAt(0, 3, 3).Feature != types.FeatureEmpty {
		t.Error("mirror should be consumed")
	}
}

func TestMirror_FailedIntelligence(t *testing.T) {
	live := "at 3,5,6!"
	tests := []struct {
		name  string
		draws []int
		want  func(g *Game) string
	}{
		{
			name:  "flavour",
			draws: []int{13, 5, 2},
			want:  func(*Game) string { return "You see a dragon beckoning to you." },
		},
		{
			name:  "false location",
			draws: []int{50, 6, 3, 7, 1, 2},
			want: func(g *Game) string {
				return "You see the " + g.Rules.TreasureName(3) + " at 2,1,7!"
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draws := rngtest.New(tt.draws...)
			g := mirrorGame(draws)
			res := g.Step("L")
			if len(res.Events) != 1 {
				t.Fatalf("events = %v", events.Texts(res.Events))
			}
			text := res.Events[0].Text
			if want := tt.want(g); text != want {
				t.Errorf("text = %q, want %q", text, want)
			}
			if strings.HasSuffix(text, live) {
				t.Errorf("failed roll revealed the real treasure: %q", text)
			}
			if draws.Remaining() != 0 {
				t.Errorf("%d scripted draws unused", draws.Remaining())
			}
			if g.roomAt(0, 3, 3).Feature != types.FeatureEmpty {
				t.Error("mirror should be consumed")
			}
			if g.roomAt(2, 4, 5).TreasureID != 6 {
				t.Error("looking should not move the treasure")
			}
		})
	}
}

func TestQueries(t *testing.T) {
	g := emptyGame(1)
	before := g.RNG.Position()

	res := g.Step("I")
	if len(res.Events) != 1 || res.Events[0].Status == nil || res.Events[0].Status.Gold != 50 {
		t.Errorf("status = %+v", res.Events)
	}
	res = g.Step("M")
	if _, ok := events.Last(res.Events, types.EventMap); !ok {
		t.Errorf("map = %+v", res.Events)
	}
	res = g.Step("H")
	if !strings.Contains(res.Events[0].Text, "MAP LEGEND") {
		t.Errorf("help = %q", res.Events[0].Text)
	}
	if g.RNG.Position() != before {
		t.Error("queries should not draw")
	}
}

var replayCommands = []string{
	"N", "E", "F", "S", "R", "W", "S", "S", "F", "S", "E", "E", "ESC",
	"U", "D", "L", "O", "P", "B", "X", "M", "I", "N", "N", "W", "W", "F",
}

func TestReplay_Deterministic(t *testing.T) {
	for _, seed := range []int64{1, 42, 1234} {
		g1, evs1, err := Replay(seed, testCreation, replayCommands, Options{})
		if err != nil {
			t.Fatalf("Replay: %v", err)
		}
		g2, evs2, err := Replay(seed, testCreation, replayCommands, Options{})
		if err != nil {
			t.Fatalf("Replay: %v", err)
		}
		if !reflect.DeepEqual(evs1, evs2) {
			t.Fatalf("seed %d: events differ", seed)
		}
		if !reflect.DeepEqual(g1.Snapshot(), g2.Snapshot()) {
			t.Fatalf("seed %d: snapshots differ", seed)
		}
	}
}

func TestSnapshotRestore_Continues(t *testing.T) {
	g, err := New(99, testCreation, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.StartEvents()
	for _, cmd := range replayCommands[:10] {
		g.Step(cmd)
	}

	restored, err := Restore(g.Snapshot(), Options{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Mode() != g.Mode() {
		t.Fatalf("mode %s != %s", restored.Mode(), g.Mode())
	}
	for _, cmd := range replayCommands[10:] {
		a := g.Step(cmd)
		b := restored.Step(cmd)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("after %q: results differ\n%+v\n%+v", cmd, a, b)
		}
	}
	if !reflect.DeepEqual(g.Snapshot(), restored.Snapshot()) {
		t.Error("final snapshots differ")
	}
}

func TestSnapshot_Independent(t *testing.T) {
	g := emptyGame(1)
	g.Player.Treasures = []int{2}
	snap := g.Snapshot()
	snap.Player.Treasures[0] = 9
	snap.Player.Spells[types.SpellFireball] = 5
	snap.Dungeon.Rooms[0][0][0].Feature = types.FeatureExit

	if g.Player.Treasures[0] != 2 || g.Player.Spells[types.SpellFireball] != 0 {
		t.Error("snapshot aliases the player")
	}
	if g.Dungeon.Rooms[0][0][0].Feature != types.FeatureEmpty {
		t.Error("snapshot aliases the dungeon")
	}
}

func TestRestore_Encounter(t *testing.T) {
	g := emptyGame(1)
	g.roomAt(0, 3, 4).MonsterLevel = 3
	g.Step("E")

	restored, err := Restore(g.Snapshot(), Options{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Mode() != types.ModeEncounter {
		t.Fatalf("mode = %s", restored.Mode())
	}
	evs := restored.ResumeEvents()
	if evs[0].Kind != types.EventCombat || evs[len(evs)-1].Kind != types.EventMap {
		t.Errorf("resume events = %+v", evs)
	}
}

func TestRestore_Corrupt(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.Snapshot)
	}{
		{"out of bounds", func(s *types.Snapshot) { s.Player.Pos.Z = types.Size }},
		{"encounter without monster", func(s *types.Snapshot) {
			s.Encounter = &types.EncounterState{MonsterLevel: 1, Vitality: 3}
		}},
		{"both sessions", func(s *types.Snapshot) {
			s.Encounter = &types.EncounterState{MonsterLevel: 1, Vitality: 3}
			s.Vendor = &types.VendorState{Phase: types.PhaseCategory}
		}},
		{"lost and won", func(s *types.Snapshot) { s.Over, s.Won = true, true }},
		{"negative rng", func(s *types.Snapshot) { s.RNGPosition = -1 }},
		{"bad tier", func(s *types.Snapshot) { s.Player.WeaponTier = 4 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := emptyGame(1).Snapshot()
			tt.mutate(&snap)
			if _, err := Restore(snap, Options{}); !errors.Is(err, ErrCorruptSnapshot) {
				t.Errorf("expected ErrCorruptSnapshot, got %v", err)
			}
		})
	}
}

func TestMapRows_Symbols(t *testing.T) {
	g := emptyGame(1)
	g.Player.Pos = types.Coord{Z: 0, Y: 0, X: 0}
	g.roomAt(0, 0, 1).Seen = true
	g.roomAt(0, 0, 1).MonsterLevel = 2
	g.roomAt(0, 0, 2).Seen = true
	g.roomAt(0, 0, 2).TreasureID = 1
	g.roomAt(0, 0, 3).Seen = true
	g.roomAt(0, 0, 3).Feature = types.FeatureVendor

	if row := g.MapRows()[0]; row != "* M T v ? ? ?" {
		t.Errorf("row = %q", row)
	}
}
