package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/doomcrawl/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	styleLoot = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	stylePrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleStatus = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleMap = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleMapPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	styleMapTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)
)

// renderKind applies the style for an event kind.
func renderKind(line string, kind types.EventKind) string {
	switch kind {
	case types.EventError:
		return styleError.Render(line)
	case types.EventCombat:
		return styleCombat.Render(line)
	case types.EventLoot:
		return styleLoot.Render(line)
	case types.EventPrompt:
		return stylePrompt.Render(line)
	case types.EventStatus:
		return styleStatus.Render(line)
	case types.EventMap:
		return styleMap.Render(line)
	case types.EventDebug:
		return styleTrace.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
