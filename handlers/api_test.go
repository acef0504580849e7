package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marquee/models"
	"marquee/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (a *testApp) api(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var headers map[string]string
	if body != "" {
		headers = map[string]string{"Content-Type": "application/json"}
	}
	return a.do(t, method, target, strings.NewReader(body), headers)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func TestAPIAddAndListMovies(t *testing.T) {
	app := newTestApp(t)

	rec := app.api(t, http.MethodPost, "/api/movies", `{"imdb_id":"tt1375666","title":"Inception","year":"2010","poster":"N/A","runtime":"148 min"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Movie](t, rec)
	assert.Equal(t, 2010, created.Year)
	assert.Empty(t, created.ImageURL)
	assert.True(t, created.ToWatch)

	rec = app.api(t, http.MethodPost, "/api/movies", `{"imdb_id":"tt1375666","title":"Inception"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[models.Movie](t, rec).ID)

	rec = app.api(t, http.MethodGet, "/api/movies?q=incep&sort=title&order=asc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[models.MoviePage](t, rec)
	require.Len(t, page.Movies, 1)
	assert.Equal(t, models.SortTitle, page.Options.SortBy)
	assert.False(t, page.HasNext)

	rec = app.api(t, http.MethodGet, "/api/movies/to-watch", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Movie](t, rec), 1)
}

func TestAPIAddMovieValidation(t *testing.T) {
	app := newTestApp(t)

	rec := app.api(t, http.MethodPost, "/api/movies", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.api(t, http.MethodPost, "/api/movies", `{"title":"No id"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	app.repo.FailOn("Insert", errors.New("db down"))
	rec = app.api(t, http.MethodPost, "/api/movies", `{"imdb_id":"tt1","title":"Alien"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to add movie", errorMessage(t, rec))
}

func TestAPIDeleteMovie(t *testing.T) {
	app := newTestApp(t)
	m := app.seed("Heat", 1995)

	rec := app.api(t, http.MethodDelete, "/api/movies/"+m.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, app.repo.Len())

	rec = app.api(t, http.MethodDelete, "/api/movies/"+m.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Failed to delete movie", errorMessage(t, rec))
}

func TestAPIWatchedBy(t *testing.T) {
	app := newTestApp(t)
	m := app.seed("Up", 2009)

	rec := app.api(t, http.MethodPut, "/api/movies/"+m.ID+"/watched-by", `{"watched_by":["nicole","kenny"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"kenny", "nicole"}, decode[models.Movie](t, rec).WatchedBy)

	rec = app.api(t, http.MethodPut, "/api/movies/"+m.ID+"/watched-by", `{"watched_by":["eve"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Failed to update watch status", errorMessage(t, rec))

	rec = app.api(t, http.MethodPost, "/api/movies/"+m.ID+"/watched/toggle?viewer=kenny", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"nicole"}, decode[models.Movie](t, rec).WatchedBy)

	rec = app.api(t, http.MethodGet, "/api/watched/nicole", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Movie](t, rec), 1)

	rec = app.api(t, http.MethodGet, "/api/watched/kenny", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Movie](t, rec))

	rec = app.api(t, http.MethodGet, "/api/watched/eve", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.api(t, http.MethodPost, "/api/movies/"+uuid.NewString()+"/watched/toggle?viewer=kenny", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIToggleToWatch(t *testing.T) {
	app := newTestApp(t)
	m := app.seed("Jaws", 1975)

	rec := app.api(t, http.MethodPost, "/api/movies/"+m.ID+"/to-watch", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[models.Movie](t, rec).ToWatch)

	app.repo.FailOn("UpdateToWatch", errors.New("boom"))
	rec = app.api(t, http.MethodPost, "/api/movies/"+m.ID+"/to-watch", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to update to-watch status", errorMessage(t, rec))
	assert.False(t, app.stored(t, m.ID).ToWatch)
}

func TestAPISearch(t *testing.T) {
	app := newTestApp(t)
	saved := app.seed("Alien", 1979)
	app.search.results = []models.SearchResult{
		{IMDbID: saved.IMDbID, Title: "Alien", Year: "1979"},
		{IMDbID: "tt0090605", Title: "Aliens", Year: "1986"},
	}

	rec := app.api(t, http.MethodGet, "/api/search?q=alien", "")
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode[[]models.SearchResult](t, rec)
	require.Len(t, results, 2)
	assert.True(t, results[0].InCollection)
	assert.False(t, results[1].InCollection)
}

func TestAPISearchErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "empty query", err: services.ErrEmptyQuery, wantStatus: http.StatusBadRequest, wantMsg: "Query is required"},
		{name: "not found", err: &services.OMDbError{Message: "Movie not found!"}, wantStatus: http.StatusNotFound, wantMsg: "Movie not found!"},
		{name: "no results", err: &services.OMDbError{Message: services.NoResultsMessage}, wantStatus: http.StatusNotFound, wantMsg: services.NoResultsMessage},
		{name: "too many", err: &services.OMDbError{Message: "Too many results."}, wantStatus: http.StatusBadRequest, wantMsg: "Too many results."},
		{name: "bad key", err: &services.OMDbError{Message: "Invalid API key!"}, wantStatus: http.StatusBadGateway, wantMsg: "Failed to fetch movies. Please try again."},
		{name: "unreachable", err: errors.New("connection refused"), wantStatus: http.StatusBadGateway, wantMsg: "Failed to fetch movies. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.search.err = tt.err

			rec := app.api(t, http.MethodGet, "/api/search?q=x", "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, errorMessage(t, rec))
		})
	}
}

func TestAPITodos(t *testing.T) {
	app := newTestApp(t)

	rec := app.api(t, http.MethodGet, "/api/todos/general", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = app.api(t, http.MethodPost, "/api/todos/general", `{"text":"Pick a movie"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	item := decode[models.TodoItem](t, rec)
	assert.Equal(t, "Pick a movie", item.Text)

	rec = app.api(t, http.MethodPost, "/api/todos/general", `{"text":" "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.api(t, http.MethodPost, "/api/todos/general/"+item.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.TodoItem](t, rec).Completed)

	rec = app.api(t, http.MethodDelete, "/api/todos/general/"+item.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.api(t, http.MethodDelete, "/api/todos/general/"+item.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.api(t, http.MethodGet, "/api/todos/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPITodoWriteFailure(t *testing.T) {
	app := newTestApp(t)
	app.kv.PutErr = errors.New("disk full")

	rec := app.api(t, http.MethodPost, "/api/todos/general", `{"text":"Pick a movie"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	app.kv.PutErr = nil
	rec = app.api(t, http.MethodGet, "/api/todos/general", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAPIUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	rec := app.api(t, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", errorMessage(t, rec))
}
