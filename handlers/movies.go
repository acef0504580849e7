package handlers

import (
	"net/http"
	"strings"

	"marquee/middleware"
	"marquee/models"

	"github.com/go-chi/chi/v5"
)

type MoviesData struct {
	PageData
	SearchQuery string
	ToWatch     []models.Movie
	Watched     []models.Movie
	Movies      []models.Movie
	Options     models.ListOptions
	HasNext     bool
	HasPrev     bool
	LoadError   string
	ReturnTo    string
}

// PageURL links to another page of the current list.
func (d MoviesData) PageURL(page int) string {
	return listURL(d.Options.Filter, d.Options.SortBy, d.Options.Order, page)
}

// SortURL sorts by field, flipping the order when field is already active.
func (d MoviesData) SortURL(field string) string {
	order := models.OrderAsc
	if field == d.Options.SortBy && d.Options.Order == models.OrderAsc {
		order = models.OrderDesc
	}
	return listURL(d.Options.Filter, field, order, 1)
}

func (d MoviesData) SortMarker(field string) string {
	if field != d.Options.SortBy {
		return ""
	}
	if d.Options.Order == models.OrderAsc {
		return " ▲"
	}
	return " ▼"
}

func (h *Handler) MoviesPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := middleware.Viewer(ctx)

	data := MoviesData{
		PageData: h.pageData(w, r, "Movies", "/movies"),
		ReturnTo: r.URL.RequestURI(),
	}

	opts := listOptionsFromQuery(r.URL.Query())
	page, err := h.collection.Browse(ctx, opts)
	if err != nil {
		h.log.Error("Error browsing movies", "error", err)
		data.LoadError = msgLoadFailed
		data.Options = opts.Normalize()
	} else {
		data.Movies = page.Movies
		data.Options = page.Options
		data.HasNext = page.HasNext
		data.HasPrev = page.HasPrev
	}

	if data.ToWatch, err = h.collection.ToWatch(ctx); err != nil {
		h.log.Error("Error getting to-watch movies", "error", err)
		data.LoadError = msgLoadFailed
	}
	if data.Watched, err = h.collection.WatchedBy(ctx, viewer); err != nil {
		h.log.Error("Error getting watched movies", "viewer", viewer, "error", err)
		data.LoadError = msgLoadFailed
	}

	h.render(w, http.StatusOK, "movies", data)
}

// searchResultFromForm reads the hidden fields of a search result's add form.
func searchResultFromForm(r *http.Request) models.SearchResult {
	field := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
	return models.SearchResult{
		IMDbID:   field("imdb_id"),
		Title:    field("title"),
		Year:     field("year"),
		Type:     field("type"),
		Poster:   field("poster"),
		Runtime:  field("runtime"),
		Director: field("director"),
		Genre:    field("genre"),
	}
}

func (h *Handler) AddMovie(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	if _, _, err := h.collection.AddFromSearch(r.Context(), searchResultFromForm(r)); err != nil {
		h.fail(w, r, msgAddFailed, err)
	}
	redirect(w, r, returnTo(r, "/movies"))
}

func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.collection.Delete(r.Context(), id); err != nil {
		h.fail(w, r, msgDeleteFailed, err)
	} else {
		h.posters.Evict(id)
	}
	redirect(w, r, returnTo(r, "/movies"))
}

// SetWatchedBy replaces the watched set with the checked viewers.
func (h *Handler) SetWatchedBy(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	if _, err := h.collection.SetWatchedBy(r.Context(), chi.URLParam(r, "id"), r.Form["viewers"]); err != nil {
		h.fail(w, r, msgWatchFailed, err)
	}
	redirect(w, r, returnTo(r, "/movies"))
}

func (h *Handler) ToggleWatched(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())
	if _, err := h.collection.ToggleWatched(r.Context(), chi.URLParam(r, "id"), viewer); err != nil {
		h.fail(w, r, msgWatchFailed, err)
	}
	redirect(w, r, returnTo(r, "/movies"))
}

func (h *Handler) ToggleToWatch(w http.ResponseWriter, r *http.Request) {
	if _, err := h.collection.ToggleToWatch(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, msgToWatchFailed, err)
	}
	redirect(w, r, returnTo(r, "/movies"))
}
