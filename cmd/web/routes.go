package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/healthy", app.healthy)
	mux.Handle("POST /api/grade", alice.New(app.requireJSON, timeoutHandler(defaultTimeout)).ThenFunc(app.grade))

	session := alice.New(app.sessionManager.LoadAndSave, app.resolveSlot, noSurf, commonContext)
	dynamic := session.Append(timeoutHandler(defaultTimeout))
	apiWrite := session.Append(app.requireJSON, timeoutHandler(defaultTimeout))
	generation := session.Append(app.requireJSON, timeoutHandler(generationTimeout))

	mux.Handle("GET /{$}", dynamic.ThenFunc(app.home))
	mux.Handle("POST /campaign/new", dynamic.ThenFunc(app.newCampaign))

	mux.Handle("GET /api/state", dynamic.ThenFunc(app.state))
	mux.Handle("GET /api/chapters", dynamic.ThenFunc(app.chapterList))
	mux.Handle("GET /api/achievements", dynamic.ThenFunc(app.achievementList))
	mux.Handle("GET /api/history", dynamic.ThenFunc(app.caseHistory))
	mux.Handle("PUT /api/session", apiWrite.ThenFunc(app.saveSession))
	mux.Handle("POST /api/cases", generation.ThenFunc(app.generateCase))
	mux.Handle("POST /api/cases/complete", apiWrite.ThenFunc(app.completeCase))
	mux.Handle("POST /api/cases/interrogate", generation.ThenFunc(app.interrogate))
	mux.Handle("POST /api/cases/analyze", generation.ThenFunc(app.analyzeAnswer))
	mux.Handle("POST /api/cases/hints", generation.ThenFunc(app.hints))

	return alice.New(app.recoverPanic, app.logRequest, secureHeaders).Then(mux)
}
