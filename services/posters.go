package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"marquee/models"
	"marquee/shared/format"
	sharedhttp "marquee/shared/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

const (
	// maxPosterSize caps a single poster download.
	maxPosterSize      = 10 << 20
	maxPosterRedirects = 5
)

// Poster is an image ready to be written to a response.
type Poster struct {
	Data        []byte
	ContentType string
}

// PosterCache downloads posters from allow-listed hosts and keeps them on
// disk keyed by movie id.
type PosterCache struct {
	fs     afero.Fs
	dir    string
	hosts  []string
	client *http.Client
	log    *slog.Logger
}

func NewPosterCache(fs afero.Fs, dir string, hosts []string, client *http.Client, log *slog.Logger) *PosterCache {
	if client == nil {
		client = sharedhttp.DefaultClient
	}
	p := &PosterCache{
		fs:    fs,
		dir:   dir,
		hosts: hosts,
		log:   log,
	}

	// Redirects must stay on allow-listed hosts too.
	c := *client
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxPosterRedirects {
			return fmt.Errorf("stopped after %d redirects", maxPosterRedirects)
		}
		if !p.Allowed(req.URL.String()) {
			return fmt.Errorf("%w: redirect to %s", ErrPosterHostNotAllowed, req.URL.Host)
		}
		return nil
	}
	p.client = &c
	return p
}

// Allowed reports whether raw is an http(s) URL on an allow-listed host.
func (p *PosterCache) Allowed(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return slices.Contains(p.hosts, strings.ToLower(u.Hostname()))
}

func (p *PosterCache) path(movieID string) string {
	return filepath.Join(p.dir, movieID)
}

// Get returns the movie's poster, fetching and caching it on first use.
func (p *PosterCache) Get(ctx context.Context, movie *models.Movie) (*Poster, error) {
	if movie.ImageURL == "" {
		return nil, ErrNoPoster
	}
	if !p.Allowed(movie.ImageURL) {
		return nil, fmt.Errorf("%w: %s", ErrPosterHostNotAllowed, movie.ImageURL)
	}

	// Movie ids are uuids; anything else never reaches the filesystem.
	if !validMovieID(movie.ID) {
		return nil, ErrMovieNotFound
	}

	if data, err := afero.ReadFile(p.fs, p.path(movie.ID)); err == nil {
		return &Poster{Data: data, ContentType: mimetype.Detect(data).String()}, nil
	}

	data, err := p.download(ctx, movie.ImageURL)
	if err != nil {
		return nil, err
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, fmt.Errorf("poster for %s is %s, not an image", movie.ID, mime.String())
	}

	if err := p.fs.MkdirAll(p.dir, 0o755); err != nil {
		p.log.Warn("Failed to create poster cache directory", "dir", p.dir, "error", err)
	} else if err := afero.WriteFile(p.fs, p.path(movie.ID), data, 0o644); err != nil {
		p.log.Warn("Failed to cache poster", "id", movie.ID, "error", err)
	} else {
		p.log.Debug("Poster cached", "id", movie.ID, "size", format.Bytes(len(data)), "type", mime.String())
	}

	return &Poster{Data: data, ContentType: mime.String()}, nil
}

func (p *PosterCache) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create poster request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download poster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &sharedhttp.StatusError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPosterSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read poster: %w", err)
	}
	if len(data) > maxPosterSize {
		return nil, fmt.Errorf("%w: over %s", ErrPosterTooLarge, format.Bytes(maxPosterSize))
	}
	return data, nil
}

// Evict drops the cached poster of a deleted movie.
func (p *PosterCache) Evict(movieID string) {
	if !validMovieID(movieID) {
		return
	}
	if err := p.fs.Remove(p.path(movieID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.log.Warn("Failed to evict poster", "id", movieID, "error", err)
	}
}
