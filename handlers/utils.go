package handlers

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"marquee/models"
)

// User-facing messages for failed operations.
const (
	msgAddFailed      = "Failed to add movie"
	msgDeleteFailed   = "Failed to delete movie"
	msgWatchFailed    = "Failed to update watch status"
	msgToWatchFailed  = "Failed to update to-watch status"
	msgLoadFailed     = "Failed to load movies"
	msgSearchFailed   = "Failed to fetch movies. Please try again."
	msgTodoFailed     = "Failed to update todos"
	msgTodoLoadFailed = "Failed to load todos"
	msgUnknownViewer  = "Pick one of the listed viewers"
)

// PageData is shared by every page rendered through the base layout.
type PageData struct {
	Title       string
	CurrentPage string
	Viewer      string
	Viewers     []string
	Categories  []string
	Flashes     []string
}

// movieActions feeds the movie-actions component.
type movieActions struct {
	Movie     models.Movie
	Viewer    string
	Viewers   []string
	ReturnTo  string
	CanDelete bool
}

func GetFuncMap() template.FuncMap {
	return template.FuncMap{
		"title": func(s string) string {
			if len(s) == 0 {
				return s
			}
			return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"actions": func(m models.Movie, viewer string, viewers []string, returnTo string, canDelete bool) movieActions {
			return movieActions{Movie: m, Viewer: viewer, Viewers: viewers, ReturnTo: returnTo, CanDelete: canDelete}
		},
	}
}

// pageData collects the layout fields and pops pending flashes, so it must
// run before anything is written to w.
func (h *Handler) pageData(w http.ResponseWriter, r *http.Request, title, current string) PageData {
	viewer := h.sessions.Viewer(r)
	if !h.collection.IsViewer(viewer) {
		viewer = ""
	}
	return PageData{
		Title:       title,
		CurrentPage: current,
		Viewer:      viewer,
		Viewers:     h.collection.Viewers(),
		Categories:  h.categories,
		Flashes:     h.sessions.Flashes(w, r),
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	h.execute(w, status, page, "base", data)
}

func (h *Handler) execute(w http.ResponseWriter, status int, page, name string, data any) {
	tmpl, ok := h.pages[page]
	if !ok {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.Error("Failed to render template", "page", page, "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

type errorData struct {
	PageData
	Heading string
	Message string
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	h.render(w, http.StatusNotFound, "error", errorData{
		PageData: h.pageData(w, r, "Not found", ""),
		Heading:  "Not found",
		Message:  "That page doesn't exist.",
	})
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirect sends the browser to target, using HX-Redirect for HTMX requests.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// returnTo reads the return_to form value, accepting only local paths.
func returnTo(r *http.Request, fallback string) string {
	target := r.FormValue("return_to")
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}

// fail logs err and queues message for the next page.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.log.Error(message, "error", err, "method", r.Method, "path", r.URL.Path)
	if serr := h.sessions.AddFlash(w, r, message); serr != nil {
		h.log.Warn("Failed to save flash message", "error", serr)
	}
}

func (h *Handler) isCategory(category string) bool {
	return slices.Contains(h.categories, category)
}

// listOptionsFromQuery reads q, sort, order and page. Bad values are left
// for Normalize to replace.
func listOptionsFromQuery(q url.Values) models.ListOptions {
	page, _ := strconv.Atoi(q.Get("page"))
	return models.ListOptions{
		Filter: strings.TrimSpace(q.Get("q")),
		SortBy: q.Get("sort"),
		Order:  q.Get("order"),
		Page:   page,
	}
}

// listURL builds a /movies link for the given list state.
func listURL(filter, sortBy, order string, page int) string {
	v := url.Values{}
	if filter != "" {
		v.Set("q", filter)
	}
	v.Set("sort", sortBy)
	v.Set("order", order)
	v.Set("page", strconv.Itoa(page))
	return "/movies?" + v.Encode()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
