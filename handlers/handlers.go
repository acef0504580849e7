package handlers

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"marquee/middleware"
	"marquee/models"
	"marquee/services"
	"marquee/web"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// MovieSearcher finds candidate movies in the external catalog.
type MovieSearcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// Deps are the services the handlers are built on.
type Deps struct {
	Collection *services.Collection
	Search     MovieSearcher
	Todos      *services.Todos
	Posters    *services.PosterCache
	Sessions   *services.Sessions
	Categories []string
	Logger     *slog.Logger
}

type Handler struct {
	collection *services.Collection
	search     MovieSearcher
	todos      *services.Todos
	posters    *services.PosterCache
	sessions   *services.Sessions
	categories []string
	log        *slog.Logger
	pages      map[string]*template.Template
}

var pageNames = []string{"movies", "search", "watched", "todos", "viewer", "error"}

func New(d Deps) (*Handler, error) {
	h := &Handler{
		collection: d.Collection,
		search:     d.Search,
		todos:      d.Todos,
		posters:    d.Posters,
		sessions:   d.Sessions,
		categories: d.Categories,
		log:        d.Logger,
		pages:      make(map[string]*template.Template, len(pageNames)),
	}

	for _, name := range pageNames {
		tmpl, err := LoadTemplate(name)
		if err != nil {
			return nil, err
		}
		h.pages[name] = tmpl
	}

	return h, nil
}

// LoadTemplate parses a page together with the layout and shared components.
func LoadTemplate(name string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(GetFuncMap()).ParseFS(web.Templates,
		"templates/layouts/base.html",
		"templates/pages/"+name+".html",
		"templates/components/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return tmpl, nil
}

// Routes builds the router for both the HTML pages and the JSON API.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(h.log))
	r.NotFound(h.NotFound)

	r.Get("/health", h.Health)
	r.Handle("/static/*", http.FileServerFS(web.Static))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/movies", http.StatusSeeOther)
	})

	r.Get("/viewer", h.ViewerPage)
	r.Post("/viewer", h.SelectViewer)

	r.Get("/posters/{id}", h.Poster)
	r.Get("/watched/{viewer}", h.WatchedPage)

	r.Get("/todos", h.TodosIndex)
	r.Get("/todos/{category}", h.TodosPage)
	r.Post("/todos/{category}", h.AddTodo)
	r.Post("/todos/{category}/{id}/toggle", h.ToggleTodo)
	r.Post("/todos/{category}/{id}/delete", h.DeleteTodo)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireViewer(h.sessions, h.collection.IsViewer))

		r.Get("/movies", h.MoviesPage)
		r.Post("/movies", h.AddMovie)
		r.Get("/search", h.SearchPage)
		r.Post("/movies/{id}/delete", h.DeleteMovie)
		r.Post("/movies/{id}/watched", h.SetWatchedBy)
		r.Post("/movies/{id}/watched/toggle", h.ToggleWatched)
		r.Post("/movies/{id}/to-watch", h.ToggleToWatch)
	})

	r.Route("/api", h.apiRoutes)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
