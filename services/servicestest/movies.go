// Package servicestest provides in-memory doubles for the services package.
package servicestest

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"marquee/models"
	"marquee/services"
)

// MovieRepository is an in-memory services.MovieRepository. Calls can be
// made to fail with FailOn.
type MovieRepository struct {
	mu       sync.Mutex
	movies   map[string]models.Movie
	failures map[string]error
	clock    time.Time
}

var _ services.MovieRepository = (*MovieRepository)(nil)

func NewMovieRepository() *MovieRepository {
	return &MovieRepository{
		movies:   make(map[string]models.Movie),
		failures: make(map[string]error),
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// FailOn makes every later call to method return err. A nil err clears it.
func (r *MovieRepository) FailOn(method string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failures, method)
		return
	}
	r.failures[method] = err
}

// Seed stores movies as-is, stamping increasing created_at values when unset.
func (r *MovieRepository) Seed(movies ...models.Movie) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range movies {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = r.tick()
		}
		if m.WatchedBy == nil {
			m.WatchedBy = []string{}
		}
		r.movies[m.ID] = m
	}
}

// Len is the number of stored movies.
func (r *MovieRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movies)
}

func (r *MovieRepository) tick() time.Time {
	r.clock = r.clock.Add(time.Minute)
	return r.clock
}

func (r *MovieRepository) failure(method string) error {
	return r.failures[method]
}

func clone(m models.Movie) models.Movie {
	m.WatchedBy = slices.Clone(m.WatchedBy)
	return m
}

func (r *MovieRepository) sorted(keep func(models.Movie) bool, by, order string) []models.Movie {
	out := []models.Movie{}
	for _, m := range r.movies {
		if keep(m) {
			out = append(out, clone(m))
		}
	}
	slices.SortFunc(out, func(a, b models.Movie) int {
		var c int
		switch by {
		case models.SortTitle:
			c = cmp.Compare(a.Title, b.Title)
		case models.SortYear:
			c = cmp.Compare(a.Year, b.Year)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if order == models.OrderDesc {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return c
	})
	return out
}

func (r *MovieRepository) List(_ context.Context, opts models.ListOptions) ([]models.Movie, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("List"); err != nil {
		return nil, false, err
	}

	opts = opts.Normalize()
	filter := strings.ToLower(strings.TrimSpace(opts.Filter))
	year, yearErr := strconv.ParseInt(filter, 10, 32)

	all := r.sorted(func(m models.Movie) bool {
		if filter == "" {
			return true
		}
		if strings.Contains(strings.ToLower(m.Title), filter) {
			return true
		}
		return yearErr == nil && int64(m.Year) == year
	}, opts.SortBy, opts.Order)

	start := min(opts.Offset(), len(all))
	end := min(start+opts.PageSize, len(all))
	return all[start:end], end < len(all), nil
}

func (r *MovieRepository) ListToWatch(context.Context) ([]models.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("ListToWatch"); err != nil {
		return nil, err
	}
	return r.sorted(func(m models.Movie) bool { return m.ToWatch }, models.SortCreatedAt, models.OrderDesc), nil
}

func (r *MovieRepository) ListWatchedBy(_ context.Context, viewer string) ([]models.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("ListWatchedBy"); err != nil {
		return nil, err
	}
	return r.sorted(func(m models.Movie) bool { return m.WatchedByViewer(viewer) }, models.SortCreatedAt, models.OrderDesc), nil
}

func (r *MovieRepository) Get(_ context.Context, id string) (*models.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("Get"); err != nil {
		return nil, err
	}
	m, ok := r.movies[id]
	if !ok {
		return nil, services.ErrMovieNotFound
	}
	m = clone(m)
	return &m, nil
}

func (r *MovieRepository) GetByIMDbID(_ context.Context, imdbID string) (*models.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("GetByIMDbID"); err != nil {
		return nil, err
	}
	for _, m := range r.movies {
		if m.IMDbID == imdbID {
			m = clone(m)
			return &m, nil
		}
	}
	return nil, services.ErrMovieNotFound
}

func (r *MovieRepository) ExistingIMDbIDs(_ context.Context, imdbIDs []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("ExistingIMDbIDs"); err != nil {
		return nil, err
	}
	found := make(map[string]bool)
	for _, m := range r.movies {
		if slices.Contains(imdbIDs, m.IMDbID) {
			found[m.IMDbID] = true
		}
	}
	return found, nil
}

func (r *MovieRepository) Insert(_ context.Context, m models.Movie) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("Insert"); err != nil {
		return false, err
	}
	for _, existing := range r.movies {
		if existing.IMDbID == m.IMDbID {
			return false, nil
		}
	}
	m = clone(m)
	if m.WatchedBy == nil {
		m.WatchedBy = []string{}
	}
	m.CreatedAt = r.tick()
	r.movies[m.ID] = m
	return true, nil
}

func (r *MovieRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("Delete"); err != nil {
		return err
	}
	if _, ok := r.movies[id]; !ok {
		return services.ErrMovieNotFound
	}
	delete(r.movies, id)
	return nil
}

func (r *MovieRepository) UpdateWatchedBy(_ context.Context, id string, viewers []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("UpdateWatchedBy"); err != nil {
		return err
	}
	m, ok := r.movies[id]
	if !ok {
		return services.ErrMovieNotFound
	}
	m.WatchedBy = slices.Clone(viewers)
	r.movies[id] = m
	return nil
}

func (r *MovieRepository) UpdateToWatch(_ context.Context, id string, toWatch bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("UpdateToWatch"); err != nil {
		return err
	}
	m, ok := r.movies[id]
	if !ok {
		return services.ErrMovieNotFound
	}
	m.ToWatch = toWatch
	r.movies[id] = m
	return nil
}
