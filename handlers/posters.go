package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"marquee/services"

	"github.com/go-chi/chi/v5"
)

// Poster serves a movie's poster from the local cache.
func (h *Handler) Poster(w http.ResponseWriter, r *http.Request) {
	movie, err := h.collection.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, services.ErrMovieNotFound) {
			http.Error(w, "Movie not found", http.StatusNotFound)
			return
		}
		h.log.Error("Database error loading poster", "error", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	poster, err := h.posters.Get(r.Context(), movie)
	switch {
	case errors.Is(err, services.ErrNoPoster):
		http.Error(w, "No poster available", http.StatusNotFound)
		return
	case errors.Is(err, services.ErrPosterHostNotAllowed):
		http.Error(w, "Poster host not allowed", http.StatusForbidden)
		return
	case err != nil:
		h.log.Warn("Failed to fetch poster", "id", movie.ID, "error", err)
		http.Error(w, "Failed to fetch poster", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", poster.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(poster.Data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(poster.Data)
}
