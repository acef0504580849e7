package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"

	"marquee/models"

	"github.com/google/uuid"
)

var categoryPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// TodoKey is the storage key for a category's list.
func TodoKey(category string) string {
	return "todos-" + category
}

// ValidCategory reports whether category can name a todo list.
func ValidCategory(category string) bool {
	return categoryPattern.MatchString(category)
}

// Todos keeps per-category lists in memory and mirrors every change to the
// key-value store. A failed write leaves the in-memory list as it was.
type Todos struct {
	mu    sync.Mutex
	store KVStore
	lists map[string][]models.TodoItem
	log   *slog.Logger
}

func NewTodos(store KVStore, log *slog.Logger) *Todos {
	return &Todos{
		store: store,
		lists: make(map[string][]models.TodoItem),
		log:   log,
	}
}

// load returns the cached list, reading it from the store on first use.
// Callers must hold t.mu.
func (t *Todos) load(ctx context.Context, category string) ([]models.TodoItem, error) {
	if !ValidCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if items, ok := t.lists[category]; ok {
		return items, nil
	}

	items := []models.TodoItem{}
	raw, err := t.store.Get(ctx, TodoKey(category))
	switch {
	case errors.Is(err, ErrKeyNotFound):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", TodoKey(category), err)
		}
	}

	t.lists[category] = items
	return items, nil
}

// save persists next and only then makes it the current list.
func (t *Todos) save(ctx context.Context, category string, next []models.TodoItem) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode todos: %w", err)
	}
	if err := t.store.Put(ctx, TodoKey(category), string(data)); err != nil {
		return err
	}
	t.lists[category] = next
	return nil
}

func (t *Todos) List(ctx context.Context, category string) ([]models.TodoItem, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	items, err := t.load(ctx, category)
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

func (t *Todos) Add(ctx context.Context, category, text string) (models.TodoItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.TodoItem{}, ErrEmptyTodo
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	items, err := t.load(ctx, category)
	if err != nil {
		return models.TodoItem{}, err
	}

	item := models.TodoItem{ID: uuid.NewString(), Text: text}
	next := append(slices.Clone(items), item)
	if err := t.save(ctx, category, next); err != nil {
		return models.TodoItem{}, err
	}

	t.log.Debug("Todo added", "category", category, "id", item.ID)
	return item, nil
}

func (t *Todos) Toggle(ctx context.Context, category, id string) (models.TodoItem, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	items, err := t.load(ctx, category)
	if err != nil {
		return models.TodoItem{}, err
	}

	i := slices.IndexFunc(items, func(it models.TodoItem) bool { return it.ID == id })
	if i < 0 {
		return models.TodoItem{}, ErrTodoNotFound
	}

	next := slices.Clone(items)
	next[i].Completed = !next[i].Completed
	if err := t.save(ctx, category, next); err != nil {
		return models.TodoItem{}, err
	}
	return next[i], nil
}

func (t *Todos) Delete(ctx context.Context, category, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	items, err := t.load(ctx, category)
	if err != nil {
		return err
	}

	i := slices.IndexFunc(items, func(it models.TodoItem) bool { return it.ID == id })
	if i < 0 {
		return ErrTodoNotFound
	}

	next := slices.Delete(slices.Clone(items), i, i+1)
	if err := t.save(ctx, category, next); err != nil {
		return err
	}

	t.log.Debug("Todo deleted", "category", category, "id", id)
	return nil
}
