package handlers

import (
	"errors"
	"net/http"

	"marquee/models"
	"marquee/services"

	"github.com/go-chi/chi/v5"
)

type TodosData struct {
	PageData
	Category  string
	Items     []models.TodoItem
	LoadError string
}

func (h *Handler) TodosIndex(w http.ResponseWriter, r *http.Request) {
	if len(h.categories) == 0 {
		h.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/todos/"+h.categories[0], http.StatusSeeOther)
}

func (h *Handler) TodosPage(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if !h.isCategory(category) {
		h.NotFound(w, r)
		return
	}

	data := TodosData{
		PageData: h.pageData(w, r, "Todos", "/todos/"+category),
		Category: category,
	}

	items, err := h.todos.List(r.Context(), category)
	if err != nil {
		h.log.Error("Error loading todos", "category", category, "error", err)
		data.LoadError = msgTodoLoadFailed
	}
	data.Items = items

	h.render(w, http.StatusOK, "todos", data)
}

// AddTodo ignores blank text.
func (h *Handler) AddTodo(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if !h.isCategory(category) {
		h.NotFound(w, r)
		return
	}

	if _, err := h.todos.Add(r.Context(), category, r.FormValue("text")); err != nil && !errors.Is(err, services.ErrEmptyTodo) {
		h.fail(w, r, msgTodoFailed, err)
	}
	redirect(w, r, "/todos/"+category)
}

func (h *Handler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if !h.isCategory(category) {
		h.NotFound(w, r)
		return
	}

	if _, err := h.todos.Toggle(r.Context(), category, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, msgTodoFailed, err)
	}
	redirect(w, r, "/todos/"+category)
}

func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if !h.isCategory(category) {
		h.NotFound(w, r)
		return
	}

	if err := h.todos.Delete(r.Context(), category, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, msgTodoFailed, err)
	}
	redirect(w, r, "/todos/"+category)
}
