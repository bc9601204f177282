package api

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/harrylevesque/academicverify/internal/models"
	"github.com/harrylevesque/academicverify/internal/pages"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplates = map[pages.Page]string{
	pages.Dashboard:         "templates/dashboard.html",
	pages.VerifyCredential:  "templates/verify.html",
	pages.InstitutionPortal: "templates/institutions.html",
	pages.Documentation:     "templates/docs.html",
	pages.About:             "templates/about.html",
}

var templateFuncs = template.FuncMap{
	"date":     func(t time.Time) string { return t.Format(models.DateLayout) },
	"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
	"join":     strings.Join,
	"json": func(v any) (string, error) {
		b, err := json.MarshalIndent(v, "", "  ")
		return string(b), err
	},
}

// renderer holds one parsed template set per page, each combining the shared
// layout with the page's "content" block.
type renderer struct {
	sets map[pages.Page]*template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{sets: make(map[pages.Page]*template.Template, len(pageTemplates))}
	for _, p := range pages.All() {
		file, ok := pageTemplates[p]
		if !ok {
			return nil, fmt.Errorf("no template for page %s", p)
		}
		t, err := template.New("layout").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.sets[p] = t
	}
	return r, nil
}

func (r *renderer) render(w io.Writer, view pages.View) error {
	t, ok := r.sets[view.Page]
	if !ok {
		return fmt.Errorf("no template for page %s", view.Page)
	}
	return t.ExecuteTemplate(w, "layout", view)
}
