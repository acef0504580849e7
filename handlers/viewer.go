package handlers

import (
	"net/http"
	"strings"

	"marquee/services"
)

func (h *Handler) ViewerPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "viewer", h.pageData(w, r, "Who's watching?", "/viewer"))
}

// SelectViewer remembers who is using the app in the session cookie.
func (h *Handler) SelectViewer(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(strings.TrimSpace(r.FormValue("viewer")))
	if !h.collection.IsViewer(name) {
		h.fail(w, r, msgUnknownViewer, services.ErrUnknownViewer)
		redirect(w, r, "/viewer")
		return
	}

	if err := h.sessions.SetViewer(w, r, name); err != nil {
		h.log.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	h.log.Info("Viewer selected", "viewer", name)
	redirect(w, r, "/movies")
}
