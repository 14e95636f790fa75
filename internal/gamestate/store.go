// Package gamestate serializes game states into versioned envelopes and persists them in save slots.
package gamestate

import (
	"context"

	"github.com/myrjola/casefile/internal/errors"
)

var (
	// ErrNotFound is returned when the save slot holds no state.
	ErrNotFound = errors.NewSentinel("save slot not found")
	// ErrRevisionConflict is returned when the save slot was written by someone else since it was read.
	ErrRevisionConflict = errors.NewSentinel("save slot revision conflict")
	// ErrIncompatibleState is returned when stored data can't be decoded or migrated into a valid state.
	ErrIncompatibleState = errors.NewSentinel("incompatible game state")
)

// DefaultSlot is the save slot used when the caller has no session of its own.
const DefaultSlot = "detective-ai-game-state"

// Record is a stored save slot.
type Record struct {
	// Revision starts at 1 and grows by one on every write and every delete. It never goes back within a slot, so
	// a writer holding a revision from before a delete conflicts with whatever is written after it.
	Revision int64
	Data     []byte
}

// Store persists opaque save slot data with optimistic concurrency.
type Store interface {
	// Get returns the record in slot or ErrNotFound.
	Get(ctx context.Context, slot string) (Record, error)
	// Put replaces the data in slot if its current revision is expectedRevision, 0 meaning the slot must be empty.
	// It returns the new revision or ErrRevisionConflict.
	Put(ctx context.Context, slot string, data []byte, expectedRevision int64) (int64, error)
	// Delete empties the slot and bumps its revision. Deleting an empty slot is not an error.
	Delete(ctx context.Context, slot string) error
}
