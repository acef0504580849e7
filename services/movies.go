package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"marquee/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// MovieRepository is the data-access surface over the shared movies table.
type MovieRepository interface {
	List(ctx context.Context, opts models.ListOptions) ([]models.Movie, bool, error)
	ListToWatch(ctx context.Context) ([]models.Movie, error)
	ListWatchedBy(ctx context.Context, viewer string) ([]models.Movie, error)
	Get(ctx context.Context, id string) (*models.Movie, error)
	GetByIMDbID(ctx context.Context, imdbID string) (*models.Movie, error)
	ExistingIMDbIDs(ctx context.Context, imdbIDs []string) (map[string]bool, error)
	// Insert stores m unless its imdb id is already present, in which case
	// it reports false and leaves the table alone.
	Insert(ctx context.Context, m models.Movie) (bool, error)
	Delete(ctx context.Context, id string) error
	UpdateWatchedBy(ctx context.Context, id string, viewers []string) error
	UpdateToWatch(ctx context.Context, id string, toWatch bool) error
}

const movieColumns = `id, imdb_id, title, year, image_url, watched_by, runtime, director, genre, to_watch, created_at`

// PostgresMovieRepository implements MovieRepository on PostgreSQL.
type PostgresMovieRepository struct {
	db *sql.DB
}

func NewPostgresMovieRepository(db *sql.DB) *PostgresMovieRepository {
	return &PostgresMovieRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner, typeMap *pgtype.Map) (models.Movie, error) {
	var m models.Movie
	var runtime, director, genre sql.NullString
	watchedBy := []string{}

	err := row.Scan(&m.ID, &m.IMDbID, &m.Title, &m.Year, &m.ImageURL,
		typeMap.SQLScanner(&watchedBy), &runtime, &director, &genre, &m.ToWatch, &m.CreatedAt)
	if err != nil {
		return m, err
	}

	m.WatchedBy = watchedBy
	m.Runtime = nullable(runtime)
	m.Director = nullable(director)
	m.Genre = nullable(genre)
	return m, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func (r *PostgresMovieRepository) queryMovies(ctx context.Context, query string, args ...any) ([]models.Movie, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	typeMap := pgtype.NewMap()
	movies := []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows, typeMap)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// List returns one page of movies plus whether another page follows.
func (r *PostgresMovieRepository) List(ctx context.Context, opts models.ListOptions) ([]models.Movie, bool, error) {
	opts = opts.Normalize()

	var where string
	var args []any
	if f := strings.TrimSpace(opts.Filter); f != "" {
		args = append(args, "%"+escapeLike(f)+"%")
		where = "WHERE title ILIKE $1"
		if year, err := strconv.ParseInt(f, 10, 32); err == nil {
			args = append(args, year)
			where = "WHERE (title ILIKE $1 OR year = $2)"
		}
	}

	// SortBy and Order are whitelisted by Normalize.
	query := fmt.Sprintf(`SELECT %s FROM movies %s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d`,
		movieColumns, where, opts.SortBy, strings.ToUpper(opts.Order), len(args)+1, len(args)+2)
	args = append(args, opts.PageSize+1, opts.Offset())

	movies, err := r.queryMovies(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list movies: %w", err)
	}

	hasNext := len(movies) > opts.PageSize
	if hasNext {
		movies = movies[:opts.PageSize]
	}
	return movies, hasNext, nil
}

func (r *PostgresMovieRepository) ListToWatch(ctx context.Context) ([]models.Movie, error) {
	movies, err := r.queryMovies(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE to_watch = TRUE ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list to-watch movies: %w", err)
	}
	return movies, nil
}

func (r *PostgresMovieRepository) ListWatchedBy(ctx context.Context, viewer string) ([]models.Movie, error) {
	movies, err := r.queryMovies(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE watched_by @> $1 ORDER BY created_at DESC`,
		[]string{viewer})
	if err != nil {
		return nil, fmt.Errorf("failed to list movies watched by %s: %w", viewer, err)
	}
	return movies, nil
}

func (r *PostgresMovieRepository) getOne(ctx context.Context, column, value string) (*models.Movie, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE `+column+` = $1`, value)
	m, err := scanMovie(row, pgtype.NewMap())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &m, nil
}

func (r *PostgresMovieRepository) Get(ctx context.Context, id string) (*models.Movie, error) {
	if !validMovieID(id) {
		return nil, ErrMovieNotFound
	}
	return r.getOne(ctx, "id", id)
}

func (r *PostgresMovieRepository) GetByIMDbID(ctx context.Context, imdbID string) (*models.Movie, error) {
	return r.getOne(ctx, "imdb_id", imdbID)
}

func (r *PostgresMovieRepository) ExistingIMDbIDs(ctx context.Context, imdbIDs []string) (map[string]bool, error) {
	found := make(map[string]bool, len(imdbIDs))
	if len(imdbIDs) == 0 {
		return found, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT imdb_id FROM movies WHERE imdb_id = ANY($1)`, imdbIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	return found, rows.Err()
}

func (r *PostgresMovieRepository) Insert(ctx context.Context, m models.Movie) (bool, error) {
	watchedBy := m.WatchedBy
	if watchedBy == nil {
		watchedBy = []string{}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO movies (id, imdb_id, title, year, image_url, watched_by, runtime, director, genre, to_watch)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (imdb_id) DO NOTHING
	`, m.ID, m.IMDbID, m.Title, m.Year, m.ImageURL, watchedBy, m.Runtime, m.Director, m.Genre, m.ToWatch)
	if err != nil {
		return false, fmt.Errorf("failed to insert movie: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert movie: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresMovieRepository) exec(ctx context.Context, id, query string, args ...any) error {
	if !validMovieID(id) {
		return ErrMovieNotFound
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

func (r *PostgresMovieRepository) Delete(ctx context.Context, id string) error {
	if err := r.exec(ctx, id, `DELETE FROM movies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete movie %s: %w", id, err)
	}
	return nil
}

func (r *PostgresMovieRepository) UpdateWatchedBy(ctx context.Context, id string, viewers []string) error {
	if viewers == nil {
		viewers = []string{}
	}
	if err := r.exec(ctx, id, `UPDATE movies SET watched_by = $1 WHERE id = $2`, viewers, id); err != nil {
		return fmt.Errorf("failed to update watched_by for %s: %w", id, err)
	}
	return nil
}

func (r *PostgresMovieRepository) UpdateToWatch(ctx context.Context, id string, toWatch bool) error {
	if err := r.exec(ctx, id, `UPDATE movies SET to_watch = $1 WHERE id = $2`, toWatch, id); err != nil {
		return fmt.Errorf("failed to update to_watch for %s: %w", id, err)
	}
	return nil
}

// escapeLike keeps user input from acting as LIKE wildcards.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// validMovieID filters out ids the uuid column would reject with a syntax error.
func validMovieID(id string) bool {
	return uuid.Validate(id) == nil
}
