package gamestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/models"
)

// Gateway saves and loads game states in save slots of a Store.
type Gateway struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

type GatewayOption func(*Gateway)

// WithClock overrides the clock used for envelope timestamps.
func WithClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) {
		g.now = now
	}
}

func NewGateway(store Store, logger *slog.Logger, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		store:  store,
		logger: logger.With("source", "Gateway"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Save writes state into slot and returns the new revision.
//
// The write only succeeds if the slot is still at state.Revision, otherwise ErrRevisionConflict is returned.
func (g *Gateway) Save(ctx context.Context, slot string, state models.GameState) (int64, error) {
	data, err := encode(state, g.now())
	if err != nil {
		return 0, errors.Wrap(err, "encode state", slog.String("slot", slot))
	}
	revision, err := g.store.Put(ctx, slot, data, state.Revision)
	if err != nil {
		return 0, errors.Wrap(err, "put state", slog.String("slot", slot))
	}
	return revision, nil
}

// Load reads the state in slot.
//
// Returns ErrNotFound for an empty slot and ErrIncompatibleState when the stored data can't be used.
func (g *Gateway) Load(ctx context.Context, slot string) (models.GameState, error) {
	record, err := g.store.Get(ctx, slot)
	if err != nil {
		return models.GameState{}, errors.Wrap(err, "get state", slog.String("slot", slot))
	}
	state, version, err := decode(record.Data)
	if err != nil {
		return models.GameState{}, errors.Wrap(err, "decode state", slog.String("slot", slot))
	}
	if version < SchemaVersion {
		g.logger.LogAttrs(ctx, slog.LevelWarn, "migrated legacy game state",
			slog.String("slot", slot), slog.Int("fromVersion", version), slog.Int("toVersion", SchemaVersion))
	}
	state.Revision = record.Revision
	return state, nil
}

// LoadOrNil is Load for callers that treat every failure as an empty slot. Failures other than an empty slot are
// logged.
func (g *Gateway) LoadOrNil(ctx context.Context, slot string) *models.GameState {
	state, err := g.Load(ctx, slot)
	switch {
	case err == nil:
		return &state
	case errors.Is(err, ErrNotFound):
	case errors.Is(err, ErrIncompatibleState):
		g.logger.LogAttrs(ctx, slog.LevelWarn, "ignoring incompatible game state", errors.SlogError(err))
	default:
		g.logger.LogAttrs(ctx, slog.LevelError, "failed to load game state", errors.SlogError(err))
	}
	return nil
}

// Clear empties slot.
func (g *Gateway) Clear(ctx context.Context, slot string) error {
	if err := g.store.Delete(ctx, slot); err != nil {
		return errors.Wrap(err, "delete state", slog.String("slot", slot))
	}
	return nil
}
