package gamestate

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/myrjola/casefile/internal/errors"
)

// memorySlot is a stored record. A deleted slot keeps its revision as a tombstone.
type memorySlot struct {
	record  Record
	deleted bool
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]memorySlot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu:    sync.Mutex{},
		slots: make(map[string]memorySlot),
	}
}

func (m *MemoryStore) Get(_ context.Context, slot string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.slots[slot]
	if !ok || stored.deleted {
		return Record{}, errors.Wrap(ErrNotFound, "get slot", slog.String("slot", slot))
	}
	record := stored.record
	record.Data = slices.Clone(record.Data)
	return record, nil
}

func (m *MemoryStore) Put(_ context.Context, slot string, data []byte, expectedRevision int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.slots[slot]
	live := ok && !stored.deleted
	current := stored.record.Revision
	if (live && current != expectedRevision) || (!live && expectedRevision != 0) {
		return 0, errors.Wrap(ErrRevisionConflict, "put slot",
			slog.String("slot", slot),
			slog.Int64("expectedRevision", expectedRevision),
			slog.Int64("currentRevision", current),
			slog.Bool("live", live))
	}
	record := Record{Revision: current + 1, Data: slices.Clone(data)}
	m.slots[slot] = memorySlot{record: record, deleted: false}
	return record.Revision, nil
}

func (m *MemoryStore) Delete(_ context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.slots[slot]
	if !ok || stored.deleted {
		return nil
	}
	m.slots[slot] = memorySlot{record: Record{Revision: stored.record.Revision + 1, Data: nil}, deleted: true}
	return nil
}
