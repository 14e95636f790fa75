package main

import (
	"net/http"
	"strings"

	"github.com/myrjola/casefile/internal/achievements"
	"github.com/myrjola/casefile/internal/chapters"
	"github.com/myrjola/casefile/internal/contexthelpers"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/myrjola/casefile/internal/models"
)

const maxDetectiveNameLength = 60

type homeTemplateData struct {
	BaseTemplateData

	Detective    models.DetectiveProfile
	Chapter      models.Chapter
	Intro        string
	Clues        []string
	Achievements []achievements.Details
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := app.engine.Resume(ctx, contexthelpers.Slot(ctx))
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "resume campaign"))
		return
	}

	chapter := chapters.Current(state.Campaign)
	unlocked := make([]achievements.Details, len(state.Detective.Achievements))
	for i, id := range state.Detective.Achievements {
		unlocked[i] = achievements.Describe(id)
	}
	data := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Detective:        state.Detective,
		Chapter:          chapter,
		Intro:            strings.ReplaceAll(chapters.Intro(chapter), "**", ""),
		Clues:            state.Campaign.MastermindCluesFound,
		Achievements:     unlocked,
	}

	app.render(w, r, http.StatusOK, "home", data)
}

func (app *application) newCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest, errors.Wrap(err, "parse form"))
		return
	}
	name := strings.TrimSpace(r.PostForm.Get("name"))
	if len([]rune(name)) > maxDetectiveNameLength {
		name = string([]rune(name)[:maxDetectiveNameLength])
	}
	if _, err := app.engine.NewCampaign(ctx, contexthelpers.Slot(ctx), name); err != nil {
		app.serverError(w, r, errors.Wrap(err, "new campaign"))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
