package handlers

import (
	"errors"
	"net/http"
	"strings"

	"marquee/models"
	"marquee/services"
)

type SearchData struct {
	PageData
	SearchQuery string
	Results     []models.SearchResult
	SearchError string
	ReturnTo    string
}

// searchMessage turns a search failure into the text shown to the viewer.
// OMDb's own explanation is passed through unchanged.
func searchMessage(err error) string {
	var omdbErr *services.OMDbError
	if errors.As(err, &omdbErr) {
		return omdbErr.Message
	}
	return msgSearchFailed
}

func (h *Handler) SearchPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		redirect(w, r, "/movies")
		return
	}

	data := SearchData{
		PageData:    h.pageData(w, r, "Search", "/movies"),
		SearchQuery: query,
		ReturnTo:    r.URL.RequestURI(),
	}

	results, err := h.search.Search(ctx, query)
	if err != nil {
		h.log.Warn("Movie search failed", "query", query, "error", err)
		data.SearchError = searchMessage(err)
	} else {
		if err := h.collection.MarkInCollection(ctx, results); err != nil {
			h.log.Warn("Failed to check collection for search results", "error", err)
		}
		data.Results = results
	}

	// The search box on the movies page swaps only the results in.
	if r.Header.Get("HX-Target") == "search-results" {
		h.execute(w, http.StatusOK, "search", "search-results", data)
		return
	}
	h.render(w, http.StatusOK, "search", data)
}
