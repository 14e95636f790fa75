package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"

	"github.com/myrjola/casefile/internal/contexthelpers"
	"github.com/myrjola/casefile/internal/errors"
)

//go:embed templates
var templateFS embed.FS

// BaseTemplateData is embedded in every page's template data.
type BaseTemplateData struct {
	CurrentPath string
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	return BaseTemplateData{
		CurrentPath: contexthelpers.CurrentPath(r.Context()),
	}
}

// parseTemplates parses every page under templates/pages together with the base layout.
//
// Each page directory has to include a template named "page".
func parseTemplates() (map[string]*template.Template, error) {
	pages, err := fs.ReadDir(templateFS, "templates/pages")
	if err != nil {
		return nil, errors.Wrap(err, "read pages")
	}
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		if !page.IsDir() {
			continue
		}
		pageName := page.Name()
		// We need to initialize the FuncMap before parsing the files. These will be overridden in the render function.
		t, parseErr := template.New(pageName).Funcs(template.FuncMap{
			"nonce": func() template.HTMLAttr {
				panic("not implemented")
			},
			"csrf": func() template.HTML {
				panic("not implemented")
			},
		}).ParseFS(templateFS, "templates/base.gohtml", path.Join("templates/pages", pageName, "*.gohtml"))
		if parseErr != nil {
			return nil, errors.Wrap(parseErr, "parse page", slog.String("page", pageName))
		}
		templates[pageName] = t
	}
	return templates, nil
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	base, ok := app.templates[page]
	if !ok {
		app.serverError(w, r, errors.New("template not found", slog.String("template", page)))
		return
	}
	t, err := base.Clone()
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "clone template", slog.String("template", page)))
		return
	}

	buf := new(bytes.Buffer)
	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=%q", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=%q/>", contexthelpers.CSRFToken(ctx))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // we trust the nonce since it's not provided by user.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // we trust the csrf since it's not provided by user.
		},
	})
	if err = t.ExecuteTemplate(buf, "base", data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template", slog.String("template", page)))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}
