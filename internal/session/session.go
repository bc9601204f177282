// Package session keeps each browser's navigation state in a signed and
// encrypted cookie. Nothing is held server side.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/harrylevesque/academicverify/internal/crypto"
	"github.com/harrylevesque/academicverify/internal/pages"
)

const (
	keySessionID = "sid"
	keyPage      = "page"
	keyStarted   = "started"
)

// Options configures a Store.
type Options struct {
	Name   string
	MaxAge int // seconds
	Secure bool
	Now    func() time.Time
}

// Store loads and saves pages.State from the session cookie.
type Store struct {
	cookies *sessions.CookieStore
	name    string
	now     func() time.Time
}

// NewStore returns a cookie store keyed by keys.
func NewStore(keys crypto.SessionKeys, opts Options) *Store {
	cs := sessions.NewCookieStore(keys.Hash, keys.Block)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	// MaxAge also bounds the codecs, so an old cookie stops decoding.
	cs.MaxAge(opts.MaxAge)
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{cookies: cs, name: opts.Name, now: now}
}

// Load returns the navigation state for r. A missing or undecodable cookie
// starts a new session on the dashboard; the decode error is returned
// alongside the fresh state so callers can log it.
func (s *Store) Load(r *http.Request) (pages.State, error) {
	sess, err := s.cookies.Get(r, s.name)
	if err != nil || sess.IsNew {
		return pages.NewState(uuid.NewString(), s.now()), err
	}

	sid, _ := sess.Values[keySessionID].(string)
	if sid == "" {
		return pages.NewState(uuid.NewString(), s.now()), nil
	}
	st := pages.NewState(sid, s.now())
	if started, ok := sess.Values[keyStarted].(int64); ok {
		st.StartedAt = time.Unix(started, 0).UTC()
	}
	if slug, ok := sess.Values[keyPage].(string); ok {
		if p, ok := pages.ParseSlug(slug); ok {
			st.Page = p
		}
	}
	return st, nil
}

// Save writes st to the response cookie.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, st pages.State) error {
	// Get returns a usable session even when the existing cookie fails to
	// decode, in which case it is replaced.
	sess, _ := s.cookies.Get(r, s.name)
	sess.Values[keySessionID] = st.SessionID
	sess.Values[keyPage] = st.Page.Slug()
	sess.Values[keyStarted] = st.StartedAt.Unix()
	return sess.Save(r, w)
}

// Clear expires the session cookie.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	// Get still returns a session to expire when the cookie fails to decode.
	sess, _ := s.cookies.Get(r, s.name)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
