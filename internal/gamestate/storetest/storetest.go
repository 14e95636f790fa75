// Package storetest holds the behaviour every gamestate.Store implementation must share.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/myrjola/casefile/internal/gamestate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises store. newSlot must return a slot name that no other test uses.
func Run(t *testing.T, store gamestate.Store, newSlot func() string) {
	t.Helper()

	t.Run("get empty slot", func(t *testing.T) {
		_, err := store.Get(context.Background(), newSlot())
		require.ErrorIs(t, err, gamestate.ErrNotFound)
	})

	t.Run("put and get", func(t *testing.T) {
		ctx := context.Background()
		slot := newSlot()
		revision, err := store.Put(ctx, slot, []byte(`{"a":1}`), 0)
		require.NoError(t, err)
		require.Equal(t, int64(1), revision)

		record, err := store.Get(ctx, slot)
		require.NoError(t, err)
		require.Equal(t, gamestate.Record{Revision: 1, Data: []byte(`{"a":1}`)}, record)

		revision, err = store.Put(ctx, slot, []byte(`{"a":2}`), 1)
		require.NoError(t, err)
		require.Equal(t, int64(2), revision)

		record, err = store.Get(ctx, slot)
		require.NoError(t, err)
		require.Equal(t, gamestate.Record{Revision: 2, Data: []byte(`{"a":2}`)}, record)
	})

	t.Run("stale revision conflicts", func(t *testing.T) {
		ctx := context.Background()
		slot := newSlot()
		_, err := store.Put(ctx, slot, []byte(`{}`), 0)
		require.NoError(t, err)

		_, err = store.Put(ctx, slot, []byte(`{"stale":true}`), 0)
		require.ErrorIs(t, err, gamestate.ErrRevisionConflict)
		_, err = store.Put(ctx, slot, []byte(`{"future":true}`), 5)
		require.ErrorIs(t, err, gamestate.ErrRevisionConflict)

		record, err := store.Get(ctx, slot)
		require.NoError(t, err)
		require.Equal(t, []byte(`{}`), record.Data)
	})

	t.Run("put into empty slot requires revision 0", func(t *testing.T) {
		_, err := store.Put(context.Background(), newSlot(), []byte(`{}`), 3)
		require.ErrorIs(t, err, gamestate.ErrRevisionConflict)
	})

	t.Run("delete", func(t *testing.T) {
		ctx := context.Background()
		slot := newSlot()
		_, err := store.Put(ctx, slot, []byte(`{}`), 0)
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, slot))
		_, err = store.Get(ctx, slot)
		require.ErrorIs(t, err, gamestate.ErrNotFound)
		require.NoError(t, store.Delete(ctx, slot), "deleting an empty slot")

		// A deleted slot takes a new write without going back to an old revision.
		revision, err := store.Put(ctx, slot, []byte(`{"again":true}`), 0)
		require.NoError(t, err)
		require.Equal(t, int64(3), revision)
		record, err := store.Get(ctx, slot)
		require.NoError(t, err)
		require.Equal(t, gamestate.Record{Revision: 3, Data: []byte(`{"again":true}`)}, record)
	})

	t.Run("stale put after delete conflicts", func(t *testing.T) {
		ctx := context.Background()
		slot := newSlot()
		staleRevision, err := store.Put(ctx, slot, []byte(`{"campaign":"old"}`), 0)
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, slot))

		_, err = store.Put(ctx, slot, []byte(`{"campaign":"stale"}`), staleRevision)
		require.ErrorIs(t, err, gamestate.ErrRevisionConflict, "writer from before the delete")
		_, err = store.Get(ctx, slot)
		require.ErrorIs(t, err, gamestate.ErrNotFound)

		revision, err := store.Put(ctx, slot, []byte(`{"campaign":"new"}`), 0)
		require.NoError(t, err)
		require.Greater(t, revision, staleRevision)

		_, err = store.Put(ctx, slot, []byte(`{"campaign":"stale"}`), staleRevision)
		require.ErrorIs(t, err, gamestate.ErrRevisionConflict, "writer from before the delete")
		_, err = store.Put(ctx, slot, []byte(`{"campaign":"stale"}`), 0)
		require.ErrorIs(t, err, gamestate.ErrRevisionConflict, "slot is no longer empty")

		record, err := store.Get(ctx, slot)
		require.NoError(t, err)
		require.Equal(t, gamestate.Record{Revision: revision, Data: []byte(`{"campaign":"new"}`)}, record)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		ctx := context.Background()
		slot := newSlot()
		_, err := store.Put(ctx, slot, []byte(`{}`), 0)
		require.NoError(t, err)

		const writers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		for range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, putErr := store.Put(ctx, slot, []byte(`{"w":1}`), 1)
				if putErr == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, putErr, gamestate.ErrRevisionConflict)
			}()
		}
		wg.Wait()
		require.Equal(t, 1, succeeded)
	})
}
