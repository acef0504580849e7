package handlers

import (
	"net/http"
	"strings"

	"marquee/models"

	"github.com/go-chi/chi/v5"
)

type WatchedData struct {
	PageData
	Owner     string
	Movies    []models.Movie
	LoadError string
}

// WatchedPage lists what one viewer has seen. It is read-only.
func (h *Handler) WatchedPage(w http.ResponseWriter, r *http.Request) {
	owner := strings.ToLower(chi.URLParam(r, "viewer"))
	if !h.collection.IsViewer(owner) {
		h.NotFound(w, r)
		return
	}

	data := WatchedData{
		PageData: h.pageData(w, r, "Watched by "+owner, "/watched/"+owner),
		Owner:    owner,
	}

	movies, err := h.collection.WatchedBy(r.Context(), owner)
	if err != nil {
		h.log.Error("Error getting watched movies", "viewer", owner, "error", err)
		data.LoadError = msgLoadFailed
	}
	data.Movies = movies

	h.render(w, http.StatusOK, "watched", data)
}
