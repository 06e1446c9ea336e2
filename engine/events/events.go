// Package events builds the typed narration events the engine emits.
// Front ends switch on Kind and never parse Text.
package events

import "github.com/nathoo/doomcrawl/types"

// Info is plain narration.
func Info(text string) types.Event {
	return types.Event{Kind: types.EventInfo, Text: text}
}

// Error reports rejected input.
func Error(text string) types.Event {
	return types.Event{Kind: types.EventError, Text: text}
}

// Combat narrates a blow, dodge or death.
func Combat(text string) types.Event {
	return types.Event{Kind: types.EventCombat, Text: text}
}

// Loot narrates a treasure find.
func Loot(text string) types.Event {
	return types.Event{Kind: types.EventLoot, Text: text}
}

// Debug carries diagnostic detail, only emitted in debug mode.
func Debug(text string) types.Event {
	return types.Event{Kind: types.EventDebug, Text: text}
}

// Prompt asks for a choice among options.
func Prompt(text string, cancelable bool, options ...types.Option) types.Event {
	return types.Event{Kind: types.EventPrompt, Text: text, Options: options, Cancelable: cancelable}
}

// Status carries a player status snapshot.
func Status(st types.Status) types.Event {
	return types.Event{Kind: types.EventStatus, Status: &st}
}

// Map carries a rendered floor, one string per row.
func Map(rows []string) types.Event {
	return types.Event{Kind: types.EventMap, Map: rows}
}

// Texts returns the text of every event, skipping events without text.
func Texts(evs []types.Event) []string {
	out := make([]string, 0, len(evs))
	for _, e := range evs {
		if e.Text != "" {
			out = append(out, e.Text)
		}
	}
	return out
}

// Filter returns the events of the given kind, in order.
func Filter(evs []types.Event, kind types.EventKind) []types.Event {
	var out []types.Event
	for _, e := range evs {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Last returns the final event of the given kind.
func Last(evs []types.Event, kind types.EventKind) (types.Event, bool) {
	for i := len(evs) - 1; i >= 0; i-- {
		if evs[i].Kind == kind {
			return evs[i], true
		}
	}
	return types.Event{}, false
}
