package main

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/myrjola/casefile/internal/ai"
	"github.com/myrjola/casefile/internal/campaign"
	"github.com/myrjola/casefile/internal/contexthelpers"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/models"
)

var (
	errInterrogationDisabled = errors.NewSentinel("interrogation is disabled")
	errNoActiveSession       = errors.NewSentinel("no active session")
	errNotQuestioned         = errors.NewSentinel("suspect has not been questioned")
)

type interrogateRequest struct {
	Suspect  int    `json:"suspect"`
	Question string `json:"question"`
}

type interrogateResponse struct {
	Answer string           `json:"answer"`
	State  models.GameState `json:"state"`
}

type analyzeRequest struct {
	Suspect int `json:"suspect"`
}

type hintsResponse struct {
	Hints []string         `json:"hints"`
	State models.GameState `json:"state"`
}

// activeSession resumes the slot of the request and answers the request itself when there is nothing to
// interrogate.
func (app *application) activeSession(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
) (models.GameState, bool) {
	if app.interrogator == nil {
		app.clientError(w, r, http.StatusServiceUnavailable, errInterrogationDisabled)
		return models.GameState{}, false
	}
	state, err := app.engine.Resume(ctx, contexthelpers.Slot(ctx))
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "resume campaign"))
		return models.GameState{}, false
	}
	if state.ActiveSession == nil {
		app.clientError(w, r, http.StatusBadRequest, errNoActiveSession)
		return models.GameState{}, false
	}
	return state, true
}

// interrogationError answers with the status matching err.
func (app *application) interrogationError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, ai.ErrUnknownSuspect), errors.Is(err, campaign.ErrInvalidInput):
		app.clientError(w, r, http.StatusBadRequest, err)
	case errors.Is(err, ai.ErrMalformedResponse):
		app.clientError(w, r, http.StatusBadGateway, err)
	default:
		app.serverError(w, r, errors.Wrap(err, msg))
	}
}

// interrogate puts a question to a suspect of the active case and records the exchange in the session.
func (app *application) interrogate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req interrogateRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		app.clientError(w, r, http.StatusBadRequest, errors.Wrap(campaign.ErrInvalidInput, "empty question"))
		return
	}
	state, ok := app.activeSession(ctx, w, r)
	if !ok {
		return
	}

	session := state.ActiveSession
	answer, err := app.interrogator.Ask(ctx, session.CaseData, req.Suspect, session.Conversation(req.Suspect), req.Question)
	if err != nil {
		app.interrogationError(w, r, err, "interrogate suspect")
		return
	}
	exchange := models.Exchange{Suspect: req.Suspect, Question: req.Question, Answer: answer}
	if state, err = app.engine.RecordExchange(ctx, contexthelpers.Slot(ctx), state, exchange); err != nil {
		app.interrogationError(w, r, err, "record exchange")
		return
	}
	app.writeJSON(w, r, http.StatusOK, interrogateResponse{Answer: answer, State: state})
}

// analyzeAnswer reads the latest answer of a suspect for signs of deception.
func (app *application) analyzeAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req analyzeRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	state, ok := app.activeSession(ctx, w, r)
	if !ok {
		return
	}

	session := state.ActiveSession
	conversation := session.Conversation(req.Suspect)
	if len(conversation) == 0 {
		app.clientError(w, r, http.StatusBadRequest,
			errors.Wrap(errNotQuestioned, "analyze answer", slog.Int("suspect", req.Suspect)))
		return
	}
	last := len(conversation) - 1
	analysis, err := app.interrogator.Analyze(ctx, session.CaseData, req.Suspect, conversation[:last], conversation[last])
	if err != nil {
		app.interrogationError(w, r, err, "analyze answer")
		return
	}
	app.writeJSON(w, r, http.StatusOK, analysis)
}

// hints hands out investigation hints and counts them against the session.
func (app *application) hints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, ok := app.activeSession(ctx, w, r)
	if !ok {
		return
	}

	session := state.ActiveSession
	hints, err := app.interrogator.Hints(ctx, session.CaseData, ai.ProgressOf(*session))
	if err != nil {
		app.interrogationError(w, r, err, "generate hints")
		return
	}
	if state, err = app.engine.RecordHint(ctx, contexthelpers.Slot(ctx), state); err != nil {
		app.interrogationError(w, r, err, "record hint")
		return
	}
	app.writeJSON(w, r, http.StatusOK, hintsResponse{Hints: hints, State: state})
}
