package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"marquee/models"
)

// Collection is the shared movie list both viewers curate.
type Collection struct {
	repo     MovieRepository
	viewers  []string
	pageSize int
	log      *slog.Logger
}

func NewCollection(repo MovieRepository, viewers []string, pageSize int, log *slog.Logger) *Collection {
	if pageSize < 1 {
		pageSize = models.DefaultPageSize
	}
	return &Collection{
		repo:     repo,
		viewers:  viewers,
		pageSize: pageSize,
		log:      log,
	}
}

// Viewers returns the configured viewer names in display order.
func (c *Collection) Viewers() []string {
	return slices.Clone(c.viewers)
}

// IsViewer reports whether name is one of the configured viewers.
func (c *Collection) IsViewer(name string) bool {
	return slices.Contains(c.viewers, name)
}

// NormalizeViewers validates names and returns them deduplicated in
// configured order.
func (c *Collection) NormalizeViewers(names []string) ([]string, error) {
	for _, n := range names {
		if !c.IsViewer(n) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownViewer, n)
		}
	}
	out := []string{}
	for _, v := range c.viewers {
		if slices.Contains(names, v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Browse returns one page of the collection.
func (c *Collection) Browse(ctx context.Context, opts models.ListOptions) (*models.MoviePage, error) {
	if opts.PageSize < 1 {
		opts.PageSize = c.pageSize
	}
	opts = opts.Normalize()

	movies, hasNext, err := c.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &models.MoviePage{
		Movies:  movies,
		Options: opts,
		HasNext: hasNext,
		HasPrev: opts.Page > 1,
	}, nil
}

func (c *Collection) ToWatch(ctx context.Context) ([]models.Movie, error) {
	return c.repo.ListToWatch(ctx)
}

// WatchedBy lists the movies one viewer has seen, newest first.
func (c *Collection) WatchedBy(ctx context.Context, viewer string) ([]models.Movie, error) {
	if !c.IsViewer(viewer) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownViewer, viewer)
	}
	return c.repo.ListWatchedBy(ctx, viewer)
}

func (c *Collection) Get(ctx context.Context, id string) (*models.Movie, error) {
	return c.repo.Get(ctx, id)
}

// AddFromSearch saves a search result. Adding an imdb id that is already
// in the collection is a no-op that returns the stored movie.
func (c *Collection) AddFromSearch(ctx context.Context, result models.SearchResult) (*models.Movie, bool, error) {
	if result.IMDbID == "" || result.Title == "" {
		return nil, false, fmt.Errorf("search result is missing imdb id or title")
	}

	if existing, err := c.repo.GetByIMDbID(ctx, result.IMDbID); err == nil {
		return existing, false, nil
	}

	movie := result.ToMovie()
	added, err := c.repo.Insert(ctx, movie)
	if err != nil {
		return nil, false, err
	}

	if !added {
		// Lost a race with the other viewer adding the same movie.
		existing, err := c.repo.GetByIMDbID(ctx, result.IMDbID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	stored, err := c.repo.Get(ctx, movie.ID)
	if err != nil {
		// The insert went through; fall back to what we sent.
		c.log.Warn("Failed to reload added movie", "id", movie.ID, "error", err)
		return &movie, true, nil
	}

	c.log.Info("Movie added", "id", movie.ID, "imdb_id", movie.IMDbID, "title", movie.Title)
	return stored, true, nil
}

func (c *Collection) Delete(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}
	c.log.Info("Movie deleted", "id", id)
	return nil
}

// SetWatchedBy replaces the set of viewers who have seen the movie.
func (c *Collection) SetWatchedBy(ctx context.Context, id string, viewers []string) (*models.Movie, error) {
	movie, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.writeWatchedBy(ctx, movie, viewers)
}

func (c *Collection) writeWatchedBy(ctx context.Context, movie *models.Movie, viewers []string) (*models.Movie, error) {
	normalized, err := c.NormalizeViewers(viewers)
	if err != nil {
		return nil, err
	}

	if err := c.repo.UpdateWatchedBy(ctx, movie.ID, normalized); err != nil {
		return nil, err
	}

	movie.WatchedBy = normalized
	return movie, nil
}

// ToggleWatched flips whether viewer has seen the movie. It reads the
// current row, flips the membership and writes the whole set back, so a
// concurrent edit by the other viewer is overwritten.
func (c *Collection) ToggleWatched(ctx context.Context, id, viewer string) (*models.Movie, error) {
	if !c.IsViewer(viewer) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownViewer, viewer)
	}

	movie, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Names no longer configured are dropped instead of blocking the toggle.
	next := slices.DeleteFunc(slices.Clone(movie.WatchedBy), func(v string) bool {
		return v == viewer || !c.IsViewer(v)
	})
	if !movie.WatchedByViewer(viewer) {
		next = append(next, viewer)
	}

	return c.writeWatchedBy(ctx, movie, next)
}

// ToggleToWatch flips the to-watch flag with the same read-modify-write.
func (c *Collection) ToggleToWatch(ctx context.Context, id string) (*models.Movie, error) {
	movie, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := !movie.ToWatch
	if err := c.repo.UpdateToWatch(ctx, id, next); err != nil {
		return nil, err
	}

	movie.ToWatch = next
	return movie, nil
}

// MarkInCollection flags the results whose imdb id is already saved.
func (c *Collection) MarkInCollection(ctx context.Context, results []models.SearchResult) error {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.IMDbID)
	}

	existing, err := c.repo.ExistingIMDbIDs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range results {
		results[i].InCollection = existing[results[i].IMDbID]
	}
	return nil
}
