package pages

import (
	"fmt"
	"html/template"
	"time"

	"github.com/harrylevesque/academicverify/internal/credentials"
)

// Env is the read-only data the render functions draw from.
type Env struct {
	Now      func() time.Time
	Registry *credentials.Registry
	Docs     func() (template.HTML, error)
}

// NavItem is one sidebar entry.
type NavItem struct {
	Page   Page
	Slug   string
	Label  string
	Active bool
}

// View is a rendered page ready for a template.
type View struct {
	Page  Page
	Title string
	Nav   []NavItem
	Body  any
}

// RenderFunc builds the body of a page.
type RenderFunc func(Env) (any, error)

// Router dispatches navigation state to page render functions.
type Router struct {
	env       Env
	renderers [pageCount]RenderFunc
}

// NewRouter binds the default render function to every page.
func NewRouter(env Env) *Router {
	if env.Now == nil {
		env.Now = time.Now
	}
	return &Router{
		env: env,
		renderers: [pageCount]RenderFunc{
			Dashboard:         renderDashboard,
			VerifyCredential:  renderVerify,
			InstitutionPortal: renderPortal,
			Documentation:     renderDocumentation,
			About:             renderAbout,
		},
	}
}

// Select returns st moved to page p. p must be one of the five pages.
func (r *Router) Select(st State, p Page) State {
	if !p.Valid() {
		panic(fmt.Sprintf("pages: select unknown page %d", int(p)))
	}
	st.Page = p
	return st
}

// Render builds the view for the current page of st.
func (r *Router) Render(st State) (View, error) {
	p := st.Page
	if !p.Valid() {
		panic(fmt.Sprintf("pages: render unknown page %d", int(p)))
	}
	body, err := r.renderers[p](r.env)
	if err != nil {
		return View{}, fmt.Errorf("render %s: %w", p, err)
	}
	return View{Page: p, Title: p.Title(), Nav: Nav(p), Body: body}, nil
}

// Nav returns the sidebar with active marked.
func Nav(active Page) []NavItem {
	items := make([]NavItem, 0, pageCount)
	for _, p := range All() {
		items = append(items, NavItem{Page: p, Slug: p.Slug(), Label: p.Label(), Active: p == active})
	}
	return items
}
