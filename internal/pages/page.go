// Package pages is the session router: a closed set of pages, the per-session
// navigation state, and one render function per page.
package pages

import (
	"fmt"
	"time"
)

// Page is one of the five sidebar destinations.
type Page int

const (
	Dashboard Page = iota
	VerifyCredential
	InstitutionPortal
	Documentation
	About

	pageCount
)

type pageMeta struct {
	slug  string
	label string
	title string
}

var meta = [pageCount]pageMeta{
	Dashboard:         {"dashboard", "Dashboard", "Verification Dashboard"},
	VerifyCredential:  {"verify", "Verify Credential", "Verify Academic Credential"},
	InstitutionPortal: {"institutions", "Institution Portal", "Institution Portal"},
	Documentation:     {"docs", "Documentation", "Documentation"},
	About:             {"about", "About", "About AcademicVerify"},
}

// All returns every page in sidebar order.
func All() []Page {
	out := make([]Page, 0, pageCount)
	for p := Page(0); p < pageCount; p++ {
		out = append(out, p)
	}
	return out
}

// Valid reports whether p is one of the five pages.
func (p Page) Valid() bool { return p >= 0 && p < pageCount }

func (p Page) mustMeta() pageMeta {
	if !p.Valid() {
		panic(fmt.Sprintf("pages: unknown page %d", int(p)))
	}
	return meta[p]
}

// Slug is the URL path segment for p.
func (p Page) Slug() string { return p.mustMeta().slug }

// Label is the sidebar label for p.
func (p Page) Label() string { return p.mustMeta().label }

// Title is the page header for p.
func (p Page) Title() string { return p.mustMeta().title }

func (p Page) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Page(%d)", int(p))
	}
	return meta[p].label
}

// ParseSlug returns the page for a URL slug.
func ParseSlug(slug string) (Page, bool) {
	for p := Page(0); p < pageCount; p++ {
		if meta[p].slug == slug {
			return p, true
		}
	}
	return 0, false
}

// State is the navigation state of one user session. It is a plain value:
// the router returns an updated copy and the caller decides where it lives.
type State struct {
	Page      Page
	SessionID string
	StartedAt time.Time
}

// NewState starts a session on the dashboard.
func NewState(sessionID string, startedAt time.Time) State {
	return State{Page: Dashboard, SessionID: sessionID, StartedAt: startedAt}
}
