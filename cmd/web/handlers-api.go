package main

import (
	"net/http"

	"github.com/myrjola/casefile/internal/achievements"
	"github.com/myrjola/casefile/internal/ai"
	"github.com/myrjola/casefile/internal/campaign"
	"github.com/myrjola/casefile/internal/chapters"
	"github.com/myrjola/casefile/internal/contexthelpers"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/grading"
	"github.com/myrjola/casefile/internal/models"
)

var errCaseGenerationDisabled = errors.NewSentinel("case generation is disabled")

func (app *application) state(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := app.engine.Resume(ctx, contexthelpers.Slot(ctx))
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "resume campaign"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, state)
}

func (app *application) chapterList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := app.engine.Resume(ctx, contexthelpers.Slot(ctx))
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "resume campaign"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, chapters.Statuses(state.Campaign))
}

func (app *application) achievementList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := app.engine.Resume(ctx, contexthelpers.Slot(ctx))
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "resume campaign"))
		return
	}
	unlocked := make([]achievements.Details, len(state.Detective.Achievements))
	for i, id := range state.Detective.Achievements {
		unlocked[i] = achievements.Describe(id)
	}
	app.writeJSON(w, r, http.StatusOK, unlocked)
}

// caseHistory lists the closed cases of the slot, from the SQLite read model when it is available.
func (app *application) caseHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slot := contexthelpers.Slot(ctx)
	if app.history != nil {
		results, err := app.history.List(ctx, slot)
		if err != nil {
			app.serverError(w, r, errors.Wrap(err, "list case history"))
			return
		}
		app.writeJSON(w, r, http.StatusOK, results)
		return
	}
	state, err := app.engine.Resume(ctx, slot)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "resume campaign"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, state.CaseHistory)
}

func (app *application) generateCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if app.cases == nil {
		app.clientError(w, r, http.StatusServiceUnavailable, errCaseGenerationDisabled)
		return
	}
	slot := contexthelpers.Slot(ctx)
	state, err := app.engine.Resume(ctx, slot)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "resume campaign"))
		return
	}
	params := ai.ParamsForChapter(chapters.Current(state.Campaign), state.Settings.Difficulty)
	var caseData models.CaseData
	if caseData, err = app.cases.Generate(ctx, params); err != nil {
		if errors.Is(err, ai.ErrMalformedResponse) {
			app.clientError(w, r, http.StatusBadGateway, err)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "generate case"))
		return
	}
	if state, err = app.engine.StartCase(ctx, slot, state, caseData); err != nil {
		app.serverError(w, r, errors.Wrap(err, "start case"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, state)
}

type saveSessionRequest struct {
	Notes string              `json:"notes"`
	Stats models.SessionStats `json:"stats"`
}

func (app *application) saveSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req saveSessionRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	slot := contexthelpers.Slot(ctx)
	state, err := app.engine.Resume(ctx, slot)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "resume campaign"))
		return
	}
	if state, err = app.engine.SaveSession(ctx, slot, state, req.Notes, req.Stats); err != nil {
		if errors.Is(err, campaign.ErrInvalidInput) {
			app.clientError(w, r, http.StatusBadRequest, err)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "save session"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, state)
}

type completeCaseRequest struct {
	// CaseData defaults to the current case of the slot.
	CaseData   *models.CaseData `json:"caseData"`
	WasCorrect bool             `json:"wasCorrect"`
	Stats      models.CaseStats `json:"stats"`
}

func (app *application) completeCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req completeCaseRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	slot := contexthelpers.Slot(ctx)
	state, err := app.engine.Resume(ctx, slot)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "resume campaign"))
		return
	}
	caseData := req.CaseData
	if caseData == nil {
		caseData = state.CurrentCase
	}
	if caseData == nil {
		app.clientError(w, r, http.StatusBadRequest, errors.Wrap(campaign.ErrInvalidInput, "no case to complete"))
		return
	}
	if state, err = app.engine.CompleteCase(ctx, slot, state, *caseData, req.WasCorrect, req.Stats); err != nil {
		if errors.Is(err, campaign.ErrInvalidInput) {
			app.clientError(w, r, http.StatusBadRequest, err)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "complete case"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, state)
}

type gradeRequest struct {
	CorrectAccusation  bool  `json:"correctAccusation"`
	HintsUsed          int   `json:"hintsUsed"`
	QuestionsAsked     int   `json:"questionsAsked"`
	MinigamesCompleted int   `json:"minigamesCompleted"`
	TimeSpent          int64 `json:"timeSpent"`
}

type gradeResponse struct {
	Grade models.Grade `json:"grade"`
	Score int          `json:"score"`
}

func (app *application) grade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	outcome := grading.Outcome{
		CorrectAccusation:  req.CorrectAccusation,
		HintsUsed:          req.HintsUsed,
		QuestionsAsked:     req.QuestionsAsked,
		MinigamesCompleted: req.MinigamesCompleted,
		TimeSpent:          req.TimeSpent,
	}
	app.writeJSON(w, r, http.StatusOK, gradeResponse{
		Grade: grading.CalculateGrade(outcome),
		Score: grading.Score(outcome),
	})
}
