package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"marquee/models"
	"marquee/services"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) apiRoutes(r chi.Router) {
	r.Get("/movies", h.apiListMovies)
	r.Post("/movies", h.apiAddMovie)
	r.Get("/movies/to-watch", h.apiToWatch)
	r.Delete("/movies/{id}", h.apiDeleteMovie)
	r.Put("/movies/{id}/watched-by", h.apiSetWatchedBy)
	r.Post("/movies/{id}/watched/toggle", h.apiToggleWatched)
	r.Post("/movies/{id}/to-watch", h.apiToggleToWatch)
	r.Get("/watched/{viewer}", h.apiWatchedBy)
	r.Get("/search", h.apiSearch)

	r.Get("/todos/{category}", h.apiListTodos)
	r.Post("/todos/{category}", h.apiAddTodo)
	r.Post("/todos/{category}/{id}/toggle", h.apiToggleTodo)
	r.Delete("/todos/{category}/{id}", h.apiDeleteTodo)
}

// apiStatus maps service errors to HTTP status codes.
func apiStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrMovieNotFound), errors.Is(err, services.ErrTodoNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUnknownViewer),
		errors.Is(err, services.ErrEmptyQuery),
		errors.Is(err, services.ErrEmptyTodo),
		errors.Is(err, services.ErrInvalidCategory):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) apiError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := apiStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error(message, "error", err, "method", r.Method, "path", r.URL.Path)
	}
	writeError(w, status, message)
}

func (h *Handler) apiListMovies(w http.ResponseWriter, r *http.Request) {
	page, err := h.collection.Browse(r.Context(), listOptionsFromQuery(r.URL.Query()))
	if err != nil {
		h.apiError(w, r, err, msgLoadFailed)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// apiAddMovie answers 201 for a new movie and 200 with the stored movie for
// a duplicate.
func (h *Handler) apiAddMovie(w http.ResponseWriter, r *http.Request) {
	var result models.SearchResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(result.IMDbID) == "" || strings.TrimSpace(result.Title) == "" {
		writeError(w, http.StatusBadRequest, "imdb_id and title are required")
		return
	}

	movie, added, err := h.collection.AddFromSearch(r.Context(), result)
	if err != nil {
		h.apiError(w, r, err, msgAddFailed)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, movie)
}

func (h *Handler) apiToWatch(w http.ResponseWriter, r *http.Request) {
	movies, err := h.collection.ToWatch(r.Context())
	if err != nil {
		h.apiError(w, r, err, msgLoadFailed)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (h *Handler) apiDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.collection.Delete(r.Context(), id); err != nil {
		h.apiError(w, r, err, msgDeleteFailed)
		return
	}
	h.posters.Evict(id)
	w.WriteHeader(http.StatusNoContent)
}

type watchedByRequest struct {
	WatchedBy []string `json:"watched_by"`
}

func (h *Handler) apiSetWatchedBy(w http.ResponseWriter, r *http.Request) {
	var req watchedByRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	movie, err := h.collection.SetWatchedBy(r.Context(), chi.URLParam(r, "id"), req.WatchedBy)
	if err != nil {
		h.apiError(w, r, err, msgWatchFailed)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *Handler) apiToggleWatched(w http.ResponseWriter, r *http.Request) {
	viewer := strings.ToLower(r.URL.Query().Get("viewer"))
	movie, err := h.collection.ToggleWatched(r.Context(), chi.URLParam(r, "id"), viewer)
	if err != nil {
		h.apiError(w, r, err, msgWatchFailed)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *Handler) apiToggleToWatch(w http.ResponseWriter, r *http.Request) {
	movie, err := h.collection.ToggleToWatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.apiError(w, r, err, msgToWatchFailed)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *Handler) apiWatchedBy(w http.ResponseWriter, r *http.Request) {
	movies, err := h.collection.WatchedBy(r.Context(), strings.ToLower(chi.URLParam(r, "viewer")))
	if err != nil {
		if errors.Is(err, services.ErrUnknownViewer) {
			writeError(w, http.StatusNotFound, "Unknown viewer")
			return
		}
		h.apiError(w, r, err, msgLoadFailed)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// apiSearch returns 404 when OMDb has nothing, 400 when the query is too broad
// and 502 when OMDb could not be reached or rejected the request.
func (h *Handler) apiSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		var omdbErr *services.OMDbError
		switch {
		case errors.Is(err, services.ErrEmptyQuery):
			writeError(w, http.StatusBadRequest, "Query is required")
		case errors.As(err, &omdbErr) && omdbErr.NoResults():
			writeError(w, http.StatusNotFound, omdbErr.Message)
		case errors.As(err, &omdbErr) && omdbErr.TooBroad():
			writeError(w, http.StatusBadRequest, omdbErr.Message)
		default:
			h.log.Warn("Movie search failed", "error", err)
			writeError(w, http.StatusBadGateway, msgSearchFailed)
		}
		return
	}

	if err := h.collection.MarkInCollection(r.Context(), results); err != nil {
		h.log.Warn("Failed to check collection for search results", "error", err)
	}
	writeJSON(w, http.StatusOK, results)
}

// apiCategory returns the category from the path, or writes a 404.
func (h *Handler) apiCategory(w http.ResponseWriter, r *http.Request) (string, bool) {
	category := chi.URLParam(r, "category")
	if !h.isCategory(category) {
		writeError(w, http.StatusNotFound, "Unknown todo category")
		return "", false
	}
	return category, true
}

func (h *Handler) apiListTodos(w http.ResponseWriter, r *http.Request) {
	category, ok := h.apiCategory(w, r)
	if !ok {
		return
	}
	items, err := h.todos.List(r.Context(), category)
	if err != nil {
		h.apiError(w, r, err, msgTodoLoadFailed)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type addTodoRequest struct {
	Text string `json:"text"`
}

func (h *Handler) apiAddTodo(w http.ResponseWriter, r *http.Request) {
	category, ok := h.apiCategory(w, r)
	if !ok {
		return
	}

	var req addTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.todos.Add(r.Context(), category, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrEmptyTodo) {
			writeError(w, http.StatusBadRequest, "Todo text is required")
			return
		}
		h.apiError(w, r, err, msgTodoFailed)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) apiToggleTodo(w http.ResponseWriter, r *http.Request) {
	category, ok := h.apiCategory(w, r)
	if !ok {
		return
	}
	item, err := h.todos.Toggle(r.Context(), category, chi.URLParam(r, "id"))
	if err != nil {
		h.apiError(w, r, err, msgTodoFailed)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) apiDeleteTodo(w http.ResponseWriter, r *http.Request) {
	category, ok := h.apiCategory(w, r)
	if !ok {
		return
	}
	if err := h.todos.Delete(r.Context(), category, chi.URLParam(r, "id")); err != nil {
		h.apiError(w, r, err, msgTodoFailed)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
