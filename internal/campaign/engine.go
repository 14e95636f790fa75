package campaign

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/gamestate"
	"github.com/myrjola/casefile/internal/logging"
	"github.com/myrjola/casefile/internal/models"
)

// HistoryRecorder receives every case result that was persisted as part of a saved state.
type HistoryRecorder interface {
	Append(ctx context.Context, slot string, result models.CaseResult) error
}

// Engine runs the campaign transactions against save slots.
//
// Persistence failures never fail a transaction: they are logged and the caller still gets the next state.
type Engine struct {
	gateway *gamestate.Gateway
	history HistoryRecorder
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Engine)

// WithHistory records closed cases into h.
func WithHistory(h HistoryRecorder) Option {
	return func(e *Engine) {
		e.history = h
	}
}

// WithClock overrides the clock used for profile creation and session start times.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(gateway *gamestate.Gateway, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		gateway: gateway,
		history: nil,
		logger:  logger.With("source", "Engine"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewCampaign empties slot and starts a new campaign for a detective called name.
func (e *Engine) NewCampaign(ctx context.Context, slot string, name string) (models.GameState, error) {
	ctx = logging.WithAttrs(ctx, slog.String("slot", slot))
	if err := e.gateway.Clear(ctx, slot); err != nil {
		return models.GameState{}, errors.Wrap(err, "clear slot")
	}
	state, _ := e.persist(ctx, slot, NewGameState(name, e.now()))
	e.logger.LogAttrs(ctx, slog.LevelInfo, "new campaign started", slog.String("detectiveId", state.Detective.ID))
	return state, nil
}

// Resume loads the state in slot. An empty slot or an incompatible stored state starts a new campaign instead.
//
// Only storage failures are returned.
func (e *Engine) Resume(ctx context.Context, slot string) (models.GameState, error) {
	ctx = logging.WithAttrs(ctx, slog.String("slot", slot))
	state, err := e.gateway.Load(ctx, slot)
	switch {
	case err == nil:
		return state, nil
	case errors.Is(err, gamestate.ErrNotFound):
		state, _ = e.persist(ctx, slot, NewGameState("", e.now()))
		return state, nil
	case errors.Is(err, gamestate.ErrIncompatibleState):
		e.logger.LogAttrs(ctx, slog.LevelWarn, "stored state is incompatible, starting over", errors.SlogError(err))
		return e.NewCampaign(ctx, slot, "")
	}
	return models.GameState{}, errors.Wrap(err, "load state")
}

// StartCase makes caseData the current case and opens a session for it.
func (e *Engine) StartCase(
	ctx context.Context,
	slot string,
	state models.GameState,
	caseData models.CaseData,
) (models.GameState, error) {
	ctx = logging.WithAttrs(ctx, slog.String("slot", slot), slog.String("caseId", caseData.CaseID))
	if caseData.CaseID == "" {
		return state, errors.Wrap(ErrInvalidInput, "missing case id")
	}

	next := state.Clone()
	current := caseData.Clone()
	next.CurrentCase = &current
	next.ActiveSession = &models.ActiveSession{
		CaseData:  caseData.Clone(),
		StartTime: e.now().UnixMilli(),
		Notes:     "",
		Stats:     models.SessionStats{QuestionsAsked: 0, HintsUsed: 0, MinigamesCompleted: 0},
	}
	next, _ = e.persist(ctx, slot, next)
	e.logger.LogAttrs(ctx, slog.LevelInfo, "case started")
	return next, nil
}

// SaveSession stores the notes and running counters of the active session.
func (e *Engine) SaveSession(
	ctx context.Context,
	slot string,
	state models.GameState,
	notes string,
	stats models.SessionStats,
) (models.GameState, error) {
	ctx = logging.WithAttrs(ctx, slog.String("slot", slot))
	if state.ActiveSession == nil {
		return state, errors.Wrap(ErrInvalidInput, "no active session")
	}
	if stats.QuestionsAsked < 0 || stats.HintsUsed < 0 || stats.MinigamesCompleted < 0 {
		return state, errors.Wrap(ErrInvalidInput, "negative session stats")
	}

	next := state.Clone()
	next.ActiveSession.Notes = notes
	next.ActiveSession.Stats = stats
	next, _ = e.persist(ctx, slot, next)
	return next, nil
}

// RecordExchange appends an answered question to the active session's transcript and counts it.
func (e *Engine) RecordExchange(
	ctx context.Context,
	slot string,
	state models.GameState,
	exchange models.Exchange,
) (models.GameState, error) {
	if state.ActiveSession == nil {
		return state, errors.Wrap(ErrInvalidInput, "no active session")
	}
	if exchange.Suspect < 0 || exchange.Suspect >= len(state.ActiveSession.CaseData.Suspects) {
		return state, errors.Wrap(ErrInvalidInput, "unknown suspect", slog.Int("suspect", exchange.Suspect))
	}

	next := state.Clone()
	next.ActiveSession.Transcript = append(next.ActiveSession.Transcript, exchange)
	stats := next.ActiveSession.Stats
	stats.QuestionsAsked++
	return e.SaveSession(ctx, slot, next, next.ActiveSession.Notes, stats)
}

// RecordHint counts a hint handed out in the active session.
func (e *Engine) RecordHint(ctx context.Context, slot string, state models.GameState) (models.GameState, error) {
	if state.ActiveSession == nil {
		return state, errors.Wrap(ErrInvalidInput, "no active session")
	}
	stats := state.ActiveSession.Stats
	stats.HintsUsed++
	return e.SaveSession(ctx, slot, state, state.ActiveSession.Notes, stats)
}

// CompleteCase closes the case and saves the next state when auto-save is on. See [Complete].
//
// The only error is ErrInvalidInput, in which case state is returned unchanged.
func (e *Engine) CompleteCase(
	ctx context.Context,
	slot string,
	state models.GameState,
	caseData models.CaseData,
	wasCorrect bool,
	stats models.CaseStats,
) (models.GameState, error) {
	ctx = logging.WithAttrs(ctx, slog.String("slot", slot), slog.String("caseId", caseData.CaseID))
	completion, err := Complete(state, caseData, wasCorrect, stats)
	if err != nil {
		return state, err
	}

	next := completion.State
	e.logger.LogAttrs(ctx, slog.LevelInfo, "case completed",
		slog.String("grade", string(completion.Result.Grade)),
		slog.Int("experienceGained", completion.Result.ExperienceGained),
		slog.Bool("correctAccusation", wasCorrect))
	if completion.LeveledUp {
		e.logger.LogAttrs(ctx, slog.LevelInfo, "detective leveled up",
			slog.Int("level", next.Detective.Level), slog.String("rank", next.Detective.Rank))
	}
	if completion.CompletedChapter != nil {
		e.logger.LogAttrs(ctx, slog.LevelInfo, "chapter completed",
			slog.Int("chapter", completion.CompletedChapter.Number),
			slog.Int("currentChapter", next.Campaign.CurrentChapter))
	}
	if len(completion.Result.AchievementsUnlocked) > 0 {
		e.logger.LogAttrs(ctx, slog.LevelInfo, "achievements unlocked",
			slog.Any("achievements", completion.Result.AchievementsUnlocked))
	}

	next, saved := e.persist(ctx, slot, next)
	if saved && e.history != nil {
		if err = e.history.Append(ctx, slot, completion.Result); err != nil {
			e.logger.LogAttrs(ctx, slog.LevelError, "failed to record case history", errors.SlogError(err))
		}
	}
	return next, nil
}

// persist saves state when auto-save is on and reports whether it was saved. The returned state carries the new
// revision on success.
func (e *Engine) persist(ctx context.Context, slot string, state models.GameState) (models.GameState, bool) {
	if !state.Settings.AutoSave {
		return state, false
	}
	revision, err := e.gateway.Save(ctx, slot, state)
	switch {
	case errors.Is(err, gamestate.ErrRevisionConflict):
		e.logger.LogAttrs(ctx, slog.LevelWarn, "save slot changed by another writer, state not saved",
			slog.Int64("revision", state.Revision), errors.SlogError(err))
		return state, false
	case err != nil:
		e.logger.LogAttrs(ctx, slog.LevelError, "failed to save state", errors.SlogError(err))
		return state, false
	}
	state.Revision = revision
	return state, true
}
