package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"marquee/handlers"
	"marquee/models"
	"marquee/services"
	"marquee/services/servicestest"
	"marquee/shared/logger"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	results []models.SearchResult
	err     error
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string) ([]models.SearchResult, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.SearchResult, len(s.results))
	copy(out, s.results)
	return out, nil
}

type testApp struct {
	handler http.Handler
	repo    *servicestest.MovieRepository
	kv      *servicestest.KVStore
	search  *stubSearcher
	posters afero.Fs
	cookies map[string]*http.Cookie
}

func newTestApp(t *testing.T, posterHosts ...string) *testApp {
	t.Helper()
	log := logger.Discard()

	app := &testApp{
		repo:    servicestest.NewMovieRepository(),
		kv:      servicestest.NewKVStore(),
		search:  &stubSearcher{},
		posters: afero.NewMemMapFs(),
		cookies: make(map[string]*http.Cookie),
	}

	h, err := handlers.New(handlers.Deps{
		Collection: services.NewCollection(app.repo, []string{"kenny", "nicole"}, 25, log),
		Search:     app.search,
		Todos:      services.NewTodos(app.kv, log),
		Posters:    services.NewPosterCache(app.posters, "posters", posterHosts, nil, log),
		Sessions:   services.NewSessions("test-secret", false),
		Categories: []string{"general", "groceries"},
		Logger:     log,
	})
	require.NoError(t, err)

	app.handler = h.Routes()
	return app
}

// do sends a request carrying the cookies collected so far.
func (a *testApp) do(t *testing.T, method, target string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		a.cookies[c.Name] = c
	}
	return rec
}

func (a *testApp) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return a.do(t, http.MethodGet, target, nil, nil)
}

func (a *testApp) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return a.do(t, http.MethodPost, target, strings.NewReader(form.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
}

func (a *testApp) selectViewer(t *testing.T, name string) {
	t.Helper()
	rec := a.postForm(t, "/viewer", url.Values{"viewer": {name}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/movies", rec.Header().Get("Location"))
}

func (a *testApp) seed(title string, year int, watchedBy ...string) models.Movie {
	m := models.Movie{
		ID:        uuid.NewString(),
		IMDbID:    "tt" + uuid.NewString()[:7],
		Title:     title,
		Year:      year,
		WatchedBy: watchedBy,
		ToWatch:   true,
	}
	a.repo.Seed(m)
	return m
}

func (a *testApp) stored(t *testing.T, id string) *models.Movie {
	t.Helper()
	m, err := a.repo.Get(context.Background(), id)
	require.NoError(t, err)
	return m
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	rec := app.get(t, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRootRedirectsToMovies(t *testing.T) {
	app := newTestApp(t)

	rec := app.get(t, "/")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/movies", rec.Header().Get("Location"))
}

func TestStaticAssets(t *testing.T) {
	app := newTestApp(t)

	rec := app.get(t, "/static/style.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
}

func TestUnknownPage(t *testing.T) {
	app := newTestApp(t)

	rec := app.get(t, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not found")
}
