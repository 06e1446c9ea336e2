// Package file stores save slots as JSON files in one directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nathoo/doomcrawl/storage"
)

const ext = ".json"

// Store keeps one <slot>.json file per save.
type Store struct {
	dir string
}

// Open creates dir if needed and returns a store rooted there.
func Open(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("save directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save directory %s: %w", dir, err)
	}
	return &Store{dir: filepath.Clean(dir)}, nil
}

func (s *Store) path(slot string) string {
	return filepath.Join(s.dir, slot+ext)
}

// Put writes the slot atomically: a temp file renamed over the target.
func (s *Store) Put(ctx context.Context, slot string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := storage.ValidateSlot(slot); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, slot+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	if err := os.Rename(tmp.Name(), s.path(slot)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	return nil
}

// Get reads a slot.
func (s *Store) Get(ctx context.Context, slot string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := storage.ValidateSlot(slot); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", slot, err)
	}
	return data, nil
}

// List returns every slot, sorted by name.
func (s *Store) List(ctx context.Context) ([]storage.Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading save directory %s: %w", s.dir, err)
	}
	var slots []storage.Slot
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ext)
		if e.IsDir() || !ok || storage.ValidateSlot(name) != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		slots = append(slots, storage.Slot{Name: name, Size: int(info.Size()), UpdatedAt: info.ModTime().UTC()})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Name < slots[j].Name })
	return slots, nil
}

// Delete removes a slot.
func (s *Store) Delete(ctx context.Context, slot string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := storage.ValidateSlot(slot); err != nil {
		return err
	}
	err := os.Remove(s.path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, slot)
	}
	return err
}

// Close is a no-op; files are closed after every call.
func (s *Store) Close() error {
	return nil
}

var _ storage.Store = (*Store)(nil)
