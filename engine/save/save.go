// Package save implements JSON serialization and deserialization of game state.
package save

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nathoo/doomcrawl/engine"
	"github.com/nathoo/doomcrawl/engine/state"
	"github.com/nathoo/doomcrawl/types"
)

// FormatVersion is the save format written by Save. Load refuses others.
const FormatVersion = 1

// GameTitle tags every save file.
const GameTitle = "Dungeon of Doom"

// ErrIncompatibleVersion is returned by Load for saves of another format.
var ErrIncompatibleVersion = errors.New("incompatible save version")

// Data is the JSON-serializable save format.
type Data struct {
	Version  int            `json:"version"`
	Game     string         `json:"game"`
	Turn     int            `json:"turn"`
	Snapshot types.Snapshot `json:"snapshot"`
}

// Save serializes a game to JSON bytes.
func Save(g *engine.Game) ([]byte, error) {
	snap := g.Snapshot()
	data := Data{
		Version:  FormatVersion,
		Game:     GameTitle,
		Turn:     snap.TurnCount,
		Snapshot: snap,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into Data.
func Load(data []byte) (*Data, error) {
	var sd Data
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("decoding save: %w", err)
	}
	if sd.Version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrIncompatibleVersion, sd.Version, FormatVersion)
	}
	// Ensure collections are never nil after load.
	state.Normalize(&sd.Snapshot.Player)
	if sd.Snapshot.CommandLog == nil {
		sd.Snapshot.CommandLog = []string{}
	}
	return &sd, nil
}

// Apply builds a game from loaded save data. The running game, if any, is
// untouched; callers swap it in only on success.
func Apply(sd *Data, opts engine.Options) (*engine.Game, error) {
	g, err := engine.Restore(sd.Snapshot, opts)
	if err != nil {
		return nil, fmt.Errorf("restoring save: %w", err)
	}
	return g, nil
}
