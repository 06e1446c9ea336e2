// Package storage defines the save-slot store used by the shells. The
// engine never touches storage; shells serialise a game with engine/save
// and hand the bytes to a Store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	// ErrNotFound is returned when a slot holds no save.
	ErrNotFound = errors.New("save slot not found")
	// ErrInvalidSlot is returned for slot names that are not plain words.
	ErrInvalidSlot = errors.New("invalid slot name")
)

// DefaultSlot is used when the player names no slot.
const DefaultSlot = "quicksave"

// Slot describes one stored save.
type Slot struct {
	Name      string
	Size      int
	UpdatedAt time.Time
}

// Store persists save payloads by slot name.
type Store interface {
	Put(ctx context.Context, slot string, data []byte) error
	Get(ctx context.Context, slot string) ([]byte, error)
	List(ctx context.Context) ([]Slot, error)
	Delete(ctx context.Context, slot string) error
	Close() error
}

var slotPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateSlot checks that a slot name is safe to use as a file name.
func ValidateSlot(slot string) error {
	if !slotPattern.MatchString(slot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return nil
}
