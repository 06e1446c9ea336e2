package shell

import (
	"fmt"
	"strings"

	"github.com/nathoo/doomcrawl/engine/state"
	"github.com/nathoo/doomcrawl/types"
)

// Lines renders one event as plain text lines.
func Lines(e types.Event) []string {
	switch e.Kind {
	case types.EventPrompt:
		return promptLines(e)
	case types.EventStatus:
		if e.Status == nil {
			return nil
		}
		return StatusLines(*e.Status)
	case types.EventMap:
		return append([]string(nil), e.Map...)
	case types.EventDebug:
		return []string{"[debug] " + e.Text}
	case types.EventInfo, types.EventError, types.EventCombat, types.EventLoot:
		return []string{e.Text}
	}
	return nil
}

func promptLines(e types.Event) []string {
	lines := make([]string, 0, len(e.Options)+2)
	if e.Text != "" {
		lines = append(lines, e.Text)
	}
	for _, o := range e.Options {
		line := fmt.Sprintf("  %s) %s", o.Key, o.Label)
		if o.Disabled {
			line += " -- unavailable"
		}
		lines = append(lines, line)
	}
	if e.Cancelable {
		lines = append(lines, "  ESC) Cancel")
	}
	return lines
}

// StatusLines renders a status snapshot.
func StatusLines(st types.Status) []string {
	spells := make([]string, 0, len(types.AllSpells))
	for _, sp := range types.AllSpells {
		spells = append(spells, fmt.Sprintf("%s:%d", state.SpellLabel(sp), st.Spells[sp]))
	}
	return []string{
		fmt.Sprintf("STR %d  DEX %d  IQ %d  HP %d/%d", st.Str, st.Dex, st.IQ, st.HP, st.MaxHP),
		fmt.Sprintf("Gold %d  Treasures %d/%d  Flares %d", st.Gold, st.Treasures, types.TreasureCount, st.Flares),
		fmt.Sprintf("Weapon: %s  Armour: %s", st.Weapon, st.Armor),
		"Spells: " + strings.Join(spells, "  "),
	}
}

// Render renders every event of evs in order.
func Render(evs []types.Event) []string {
	var out []string
	for _, e := range evs {
		out = append(out, Lines(e)...)
	}
	return out
}
