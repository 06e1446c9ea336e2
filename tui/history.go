// Package tui provides a Bubble Tea terminal UI for the dungeon crawler.
package tui

import (
	"slices"
	"strings"

	"github.com/nathoo/doomcrawl/shell"
)

// History recalls earlier input lines with the up and down keys. Game
// commands are stored upper-cased since the engine ignores case, and a
// repeated line moves to the newest slot instead of being stored twice.
// Blank lines and "again" are not stored.
type History struct {
	entries []string // oldest first
	max     int
	back    int // steps back from fresh input; 0 = not navigating
}

// NewHistory creates a history holding at most max lines.
func NewHistory(max int) *History {
	return &History{entries: make([]string, 0, max), max: max}
}

// Push records a submitted line.
func (h *History) Push(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.EqualFold(line, "again") {
		return
	}
	if !shell.IsMeta(line) {
		line = strings.ToUpper(line)
	}
	if i := slices.Index(h.entries, line); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}
	h.entries = append(h.entries, line)
	if over := len(h.entries) - h.max; over > 0 {
		h.entries = h.entries[over:]
	}
}

// Prev steps one line older, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.back < len(h.entries) {
		h.back++
	}
	return h.entries[len(h.entries)-h.back], true
}

// Next steps one line newer. It reports false once back at fresh input.
func (h *History) Next() (string, bool) {
	if h.back <= 1 {
		h.back = 0
		return "", false
	}
	h.back--
	return h.entries[len(h.entries)-h.back], true
}

// ResetCursor returns to fresh input.
func (h *History) ResetCursor() {
	h.back = 0
}
