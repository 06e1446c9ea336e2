package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nathoo/doomcrawl/engine/rng"
	"github.com/nathoo/doomcrawl/engine/rules"
	"github.com/nathoo/doomcrawl/engine/state"
	"github.com/nathoo/doomcrawl/types"
)

// Creator walks the player through character creation over a line-based
// reader. Invalid answers are re-prompted without touching the RNG.
type Creator struct {
	In    *bufio.Scanner
	Out   io.Writer
	Rules *rules.Ruleset
	Echo  bool // echo each answer (script playback)
}

// Create asks for race, point allocation and purchases, rolling the
// character from r once the race is known.
func (c *Creator) Create(r rng.Source) (*types.Player, error) {
	fmt.Fprintln(c.Out, "Races: 1) Human  2) Dwarf  3) Elf  4) Halfling")
	var race types.Race
	for {
		ans, err := c.ask("Race? ")
		if err != nil {
			return nil, err
		}
		var ok bool
		if race, ok = state.ParseRace(ans); ok {
			break
		}
		fmt.Fprintln(c.Out, "No such race.")
	}

	rolled, err := state.RollCharacter(r, race, c.Rules)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(c.Out, "You are a %s. STR %d  DEX %d  IQ %d  HP %d  Gold %d\n",
		state.RaceLabel(race), rolled.Str, rolled.Dex, rolled.IQ, rolled.HP, rolled.Gold)

	var alloc state.Allocation
	for {
		ans, err := c.ask(fmt.Sprintf("Allocate %d points as STR DEX IQ? ", c.Rules.CreationPoints))
		if err != nil {
			return nil, err
		}
		n, perr := ints(ans, 3)
		if perr != nil {
			fmt.Fprintln(c.Out, perr)
			continue
		}
		alloc = state.Allocation{Str: n[0], Dex: n[1], IQ: n[2]}
		if err := state.ValidateAllocation(alloc, c.Rules); err != nil {
			fmt.Fprintln(c.Out, err)
			continue
		}
		break
	}

	c.printPrices()
	for {
		ans, err := c.ask("Buy WEAPON ARMOUR FLARES? ")
		if err != nil {
			return nil, err
		}
		n, perr := ints(ans, 3)
		if perr != nil {
			fmt.Fprintln(c.Out, perr)
			continue
		}
		l := state.Loadout{WeaponTier: n[0], ArmorTier: n[1], Flares: n[2]}
		p, err := state.Outfit(rolled, alloc, l, c.Rules)
		if err != nil {
			fmt.Fprintln(c.Out, err)
			continue
		}
		return p, nil
	}
}

func (c *Creator) printPrices() {
	rs := c.Rules
	for tier := 1; tier <= 3; tier++ {
		fmt.Fprintf(c.Out, "  %d) %-12s %3dg    %-12s %3dg\n", tier,
			rs.WeaponNames[tier], rs.WeaponPrices[tier], rs.ArmorNames[tier], rs.ArmorPrices[tier])
	}
	fmt.Fprintf(c.Out, "  Flares %dg each\n", rs.CreationFlarePrice)
}

func (c *Creator) ask(prompt string) (string, error) {
	for {
		fmt.Fprint(c.Out, prompt)
		if !c.In.Scan() {
			if err := c.In.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		ans := strings.TrimSpace(c.In.Text())
		if ans == "" || strings.HasPrefix(ans, "#") {
			continue
		}
		if c.Echo {
			fmt.Fprintln(c.Out, ans)
		}
		return ans, nil
	}
}

func ints(s string, want int) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) != want {
		return nil, fmt.Errorf("enter %d numbers", want)
	}
	out := make([]int, want)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", f)
		}
		out[i] = v
	}
	return out, nil
}
