package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/doomcrawl/types"
)

func floorTitle(z int) string {
	return fmt.Sprintf("Floor %d", z+1)
}

// renderStatusBar produces a full-width inverted status line showing
// position, health, purse and progress on the left, mode and turn on the
// right.
func (m Model) renderStatusBar() string {
	g := m.session.Game
	st := g.Status()
	pos := g.Player.Pos

	left := fmt.Sprintf(" %s (%d,%d) | HP %d/%d | Gold %d | Treasures %d/%d",
		floorTitle(pos.Z), pos.Y+1, pos.X+1, st.HP, st.MaxHP, st.Gold, st.Treasures, types.TreasureCount)
	right := fmt.Sprintf("%s | T:%d ", modeLabel(g.Mode()), g.Turn())

	// Add flares and gear when they fit.
	if candidate := fmt.Sprintf("%s | Flares %d | %s/%s", left, st.Flares, st.Weapon, st.Armor); lipgloss.Width(candidate)+lipgloss.Width(right)+2 < m.width {
		left = candidate
	}

	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

func modeLabel(mode types.Mode) string {
	switch mode {
	case types.ModeEncounter:
		return "FIGHT"
	case types.ModeVendor:
		return "SHOP"
	case types.ModeGameOver:
		return "GAME OVER"
	case types.ModeVictory:
		return "VICTORY"
	}
	return "EXPLORE"
}
