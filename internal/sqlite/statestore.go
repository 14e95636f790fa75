package sqlite

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/gamestate"
)

// StateStore keeps save slots in the game_states table.
type StateStore struct {
	db     *Database
	logger *slog.Logger
}

func NewStateStore(db *Database, logger *slog.Logger) *StateStore {
	return &StateStore{
		db:     db,
		logger: logger.With("source", "StateStore"),
	}
}

func (s *StateStore) Get(ctx context.Context, slot string) (gamestate.Record, error) {
	var record gamestate.Record
	err := s.db.ReadOnly.QueryRowContext(ctx, `SELECT revision, data FROM game_states WHERE slot = ? AND data IS NOT NULL`, slot).
		Scan(&record.Revision, &record.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return gamestate.Record{}, errors.Wrap(gamestate.ErrNotFound, "select game state", slog.String("slot", slot))
	}
	if err != nil {
		return gamestate.Record{}, errors.Wrap(err, "select game state", slog.String("slot", slot))
	}
	return record, nil
}

// Put writes data with a single conditional statement so that concurrent writers can't both succeed.
//
// A cleared slot keeps its row with NULL data, so writing into it continues from the revision it had.
func (s *StateStore) Put(ctx context.Context, slot string, data []byte, expectedRevision int64) (int64, error) {
	if expectedRevision == 0 {
		var revision int64
		err := s.db.ReadWrite.QueryRowContext(ctx, `INSERT INTO game_states (slot, revision, data)
VALUES (?, 1, ?)
ON CONFLICT (slot) DO UPDATE SET revision   = revision + 1,
                                 data       = excluded.data,
                                 updated_at = strftime('%Y-%m-%dT%H:%M:%fZ')
WHERE game_states.data IS NULL
RETURNING revision`, slot, data).Scan(&revision)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errors.Wrap(gamestate.ErrRevisionConflict, "insert game state",
				slog.String("slot", slot), slog.Int64("expectedRevision", expectedRevision))
		}
		if err != nil {
			return 0, errors.Wrap(err, "insert game state", slog.String("slot", slot))
		}
		return revision, nil
	}

	result, err := s.db.ReadWrite.ExecContext(ctx, `UPDATE game_states
SET revision   = revision + 1,
    data       = ?,
    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ')
WHERE slot = ? AND revision = ? AND data IS NOT NULL`, data, slot, expectedRevision)
	if err != nil {
		return 0, errors.Wrap(err, "update game state", slog.String("slot", slot))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected", slog.String("slot", slot))
	}
	if affected == 0 {
		return 0, errors.Wrap(gamestate.ErrRevisionConflict, "update game state",
			slog.String("slot", slot), slog.Int64("expectedRevision", expectedRevision))
	}
	return expectedRevision + 1, nil
}

// Delete clears the save slot together with its case history. The row stays behind with a bumped revision so
// that writers from before the delete conflict.
func (s *StateStore) Delete(ctx context.Context, slot string) (err error) {
	tx, err := s.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			s.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback", errors.SlogError(rollbackErr))
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE game_states
SET revision   = revision + 1,
    data       = NULL,
    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ')
WHERE slot = ? AND data IS NOT NULL`, slot); err != nil {
		return errors.Wrap(err, "clear game state", slog.String("slot", slot))
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM case_results WHERE slot = ?`, slot); err != nil {
		return errors.Wrap(err, "delete case history", slog.String("slot", slot))
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit", slog.String("slot", slot))
	}
	return nil
}

// Slots lists every stored save slot in name order.
func (s *StateStore) Slots(ctx context.Context) ([]string, error) {
	rows, err := s.db.ReadOnly.QueryContext(ctx, `SELECT slot FROM game_states WHERE data IS NOT NULL ORDER BY slot`)
	if err != nil {
		return nil, errors.Wrap(err, "select slots")
	}
	defer func() {
		_ = rows.Close()
	}()
	var slots []string
	for rows.Next() {
		var slot string
		if err = rows.Scan(&slot); err != nil {
			return nil, errors.Wrap(err, "scan slot")
		}
		slots = append(slots, slot)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate slots")
	}
	return slots, nil
}
