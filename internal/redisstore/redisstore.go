// Package redisstore keeps save slots in Redis hashes.
package redisstore

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/gamestate"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "casefile:slot:"
	fieldRevision = "revision"
	fieldData     = "data"
)

// Store is a gamestate.Store on Redis. The revision check uses WATCH so that concurrent writers conflict instead
// of overwriting each other.
type Store struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

type Option func(*Store)

// WithPrefix namespaces the keys, e.g. per test.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

func New(client *redis.Client, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: defaultPrefix,
		logger: logger.With("source", "RedisStore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect creates a client for addr and checks that the server answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr}) //nolint:exhaustruct // defaults are fine
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "ping redis", slog.String("redisAddr", addr))
	}
	return client, nil
}

func (s *Store) key(slot string) string {
	return s.prefix + slot
}

func (s *Store) Get(ctx context.Context, slot string) (gamestate.Record, error) {
	values, err := s.client.HGetAll(ctx, s.key(slot)).Result()
	if err != nil {
		return gamestate.Record{}, errors.Wrap(err, "hgetall", slog.String("slot", slot))
	}
	if _, live := values[fieldData]; !live {
		return gamestate.Record{}, errors.Wrap(gamestate.ErrNotFound, "hgetall", slog.String("slot", slot))
	}
	return s.parseRecord(slot, values)
}

func (s *Store) parseRecord(slot string, values map[string]string) (gamestate.Record, error) {
	revision, err := strconv.ParseInt(values[fieldRevision], 10, 64)
	if err != nil {
		return gamestate.Record{}, errors.Wrap(err, "parse revision", slog.String("slot", slot))
	}
	return gamestate.Record{Revision: revision, Data: []byte(values[fieldData])}, nil
}

// current reads the revision of key inside a transaction and whether the slot holds data. A cleared slot keeps
// its revision field without data.
func current(ctx context.Context, tx *redis.Tx, key string) (int64, bool, error) {
	values, err := tx.HMGet(ctx, key, fieldRevision, fieldData).Result()
	if err != nil {
		return 0, false, errors.Wrap(err, "hmget")
	}
	revisionValue, ok := values[0].(string)
	if !ok {
		return 0, false, nil
	}
	revision, err := strconv.ParseInt(revisionValue, 10, 64)
	if err != nil {
		return 0, false, errors.Wrap(err, "parse revision")
	}
	return revision, values[1] != nil, nil
}

func (s *Store) Put(ctx context.Context, slot string, data []byte, expectedRevision int64) (int64, error) {
	key := s.key(slot)
	var newRevision int64

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		revision, live, err := current(ctx, tx, key)
		if err != nil {
			return err
		}
		if (live && revision != expectedRevision) || (!live && expectedRevision != 0) {
			return errors.Wrap(gamestate.ErrRevisionConflict, "compare revision",
				slog.Int64("currentRevision", revision), slog.Bool("live", live))
		}
		newRevision = revision + 1
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldRevision, newRevision, fieldData, data)
			return nil
		})
		return err //nolint:wrapcheck // wrapped below
	}, key)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return 0, errors.Wrap(gamestate.ErrRevisionConflict, "slot changed during write",
			slog.String("slot", slot), slog.Int64("expectedRevision", expectedRevision))
	case err != nil:
		return 0, errors.Wrap(err, "put slot", slog.String("slot", slot), slog.Int64("expectedRevision", expectedRevision))
	}
	return newRevision, nil
}

// Delete drops the data of slot and bumps its revision so that writers from before the delete conflict.
func (s *Store) Delete(ctx context.Context, slot string) error {
	key := s.key(slot)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		revision, live, err := current(ctx, tx, key)
		if err != nil || !live {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldRevision, revision+1)
			pipe.HDel(ctx, key, fieldData)
			return nil
		})
		return err //nolint:wrapcheck // wrapped below
	}, key)
	if err != nil {
		return errors.Wrap(err, "clear slot", slog.String("slot", slot))
	}
	return nil
}
