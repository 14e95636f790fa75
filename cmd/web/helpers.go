package main

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	"github.com/myrjola/casefile/internal/errors"
)

const maxRequestBodyBytes = 1 << 20

var errUnsupportedMediaType = errors.NewSentinel("content type must be application/json")

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	app.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "marshal response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// hasJSONContentType reports whether the request declares a JSON body. Cross-site forms can't send that content
// type and cross-site scripts need a CORS preflight for it.
func hasJSONContentType(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeJSON decodes the JSON request body into v. Unknown fields and other content types are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if !hasJSONContentType(r) {
		return errors.Wrap(errUnsupportedMediaType, "check content type",
			slog.String("contentType", r.Header.Get("Content-Type")))
	}
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}

// readJSON decodes the request body into v and answers the request with a client error when that fails.
func (app *application) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := decodeJSON(w, r, v)
	switch {
	case err == nil:
		return true
	case errors.Is(err, errUnsupportedMediaType):
		app.clientError(w, r, http.StatusUnsupportedMediaType, err)
	default:
		app.clientError(w, r, http.StatusBadRequest, err)
	}
	return false
}
