// Package parser converts raw input lines into command tokens.
// Intentionally dumb: the first word decides everything.
package parser

import "strings"

// Command is one normalized input token.
type Command struct {
	Raw    string // trimmed input as typed
	Word   string // first whitespace-separated field, upper-cased
	Key    string // first letter of Word
	Cancel bool   // Word is a cancel token
}

// Empty reports whether the input carried no token at all.
func (c Command) Empty() bool {
	return c.Word == ""
}

var cancelWords = map[string]bool{
	"ESC":    true,
	"ESCAPE": true,
	"CANCEL": true,
	"BACK":   true,
}

// Word aliases accepted while exploring. Letters map to themselves.
var exploreAliases = map[string]string{
	// Movement
	"NORTH": "N",
	"SOUTH": "S",
	"EAST":  "E",
	"WEST":  "W",
	"UP":    "U",
	"DOWN":  "D",
	"CLIMB": "U",

	// Actions
	"FLARE":  "F",
	"EXIT":   "X",
	"LEAVE":  "X",
	"LOOK":   "L",
	"MIRROR": "L",
	"OPEN":   "O",
	"CHEST":  "O",
	"READ":   "R",
	"SCROLL": "R",
	"POTION": "P",
	"DRINK":  "P",
	"QUAFF":  "P",
	"BUY":    "B",
	"SHOP":   "B",
	"TRADE":  "B",

	// Queries
	"HELP":      "H",
	"MAP":       "M",
	"STATUS":    "I",
	"INFO":      "I",
	"INV":       "I",
	"INVENTORY": "I",
}

// Parse normalizes an input line. Only the first field is significant.
func Parse(input string) Command {
	raw := strings.TrimSpace(input)
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Command{Raw: raw}
	}
	word := strings.ToUpper(fields[0])
	return Command{
		Raw:    raw,
		Word:   word,
		Key:    word[:1],
		Cancel: cancelWords[word],
	}
}

// ExploreKey resolves the exploration command letter for c. Single letters
// pass through; known words map through the alias table; anything else
// yields "".
func ExploreKey(c Command) string {
	if len(c.Word) == 1 {
		return c.Word
	}
	return exploreAliases[c.Word]
}
