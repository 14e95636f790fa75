package main

import "net/http"

type healthResponse struct {
	Status         string `json:"status"`
	CaseGeneration bool   `json:"caseGeneration"`
}

// healthy reports that the server is up and whether cases can be generated.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, healthResponse{Status: "ok", CaseGeneration: app.cases != nil})
}
