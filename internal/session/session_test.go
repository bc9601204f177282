package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrylevesque/academicverify/internal/crypto"
	"github.com/harrylevesque/academicverify/internal/pages"
)

var started = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *Store {
	t.Helper()
	master, err := crypto.NewMasterKey()
	require.NoError(t, err)
	keys, err := crypto.DeriveSessionKeys(master)
	require.NoError(t, err)
	return NewStore(keys, Options{Name: "av", MaxAge: 3600, Now: func() time.Time { return started }})
}

func TestLoad_NewSessionStartsOnDashboard(t *testing.T) {
	s := newStore(t)
	st, err := s.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, pages.Dashboard, st.Page)
	assert.NotEmpty(t, st.SessionID)
	assert.Equal(t, started, st.StartedAt)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	st, err := s.Load(req)
	require.NoError(t, err)
	st.Page = pages.InstitutionPortal

	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(rec, req, st))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "av", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	loaded, err := s.Load(next)
	require.NoError(t, err)
	assert.Equal(t, pages.InstitutionPortal, loaded.Page)
	assert.Equal(t, st.SessionID, loaded.SessionID)
	assert.Equal(t, started, loaded.StartedAt)
}

func TestLoad_ForeignCookieStartsFresh(t *testing.T) {
	issuer := newStore(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, issuer.Save(rec, req, pages.State{Page: pages.About, SessionID: "x", StartedAt: started}))

	other := newStore(t)
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(rec.Result().Cookies()[0])
	st, err := other.Load(next)
	assert.Error(t, err)
	assert.Equal(t, pages.Dashboard, st.Page)
	assert.NotEqual(t, "x", st.SessionID)
}

func TestClear(t *testing.T) {
	s := newStore(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, s.Clear(rec, req))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestLoad_ExpiredCookieStartsFresh(t *testing.T) {
	master, err := crypto.NewMasterKey()
	require.NoError(t, err)
	keys, err := crypto.DeriveSessionKeys(master)
	require.NoError(t, err)
	s := NewStore(keys, Options{Name: "av", MaxAge: 1})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(rec, req, pages.State{Page: pages.About, SessionID: "sid-1", StartedAt: started}))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, 1, cookies[0].MaxAge)

	time.Sleep(2500 * time.Millisecond)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	st, err := s.Load(next)
	assert.Error(t, err)
	assert.NotEqual(t, "sid-1", st.SessionID)
	assert.Equal(t, pages.Dashboard, st.Page)
}
