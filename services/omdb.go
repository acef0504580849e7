package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"marquee/models"
	sharedhttp "marquee/shared/http"

	"golang.org/x/sync/errgroup"
)

// DetailConcurrency bounds the per-result detail lookups of one search.
const DetailConcurrency = 5

// NoResultsMessage is shown when OMDb reports failure without saying why.
const NoResultsMessage = "No movies found. Try another search term."

const (
	omdbNotFound = "Movie not found!"
	omdbTooMany  = "Too many results."
)

// OMDbError is a failure reported inside an OMDb response body.
type OMDbError struct {
	Message string
}

func (e *OMDbError) Error() string {
	return e.Message
}

// NoResults reports whether OMDb answered but matched nothing.
func (e *OMDbError) NoResults() bool {
	return e.Message == omdbNotFound || e.Message == NoResultsMessage
}

// TooBroad reports whether OMDb refused a query that matches too much.
func (e *OMDbError) TooBroad() bool {
	return e.Message == omdbTooMany
}

type omdbSearchResponse struct {
	Search []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		IMDbID string `json:"imdbID"`
		Type   string `json:"Type"`
		Poster string `json:"Poster"`
	} `json:"Search"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

type omdbDetailResponse struct {
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	IMDbID   string `json:"imdbID"`
	Type     string `json:"Type"`
	Poster   string `json:"Poster"`
	Runtime  string `json:"Runtime"`
	Director string `json:"Director"`
	Genre    string `json:"Genre"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// OMDb talks to the OMDb API.
type OMDb struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

func NewOMDb(baseURL, apiKey string, httpClient *http.Client, log *slog.Logger) *OMDb {
	if httpClient == nil {
		httpClient = sharedhttp.DefaultClient
	}
	return &OMDb{
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		apiKey:     apiKey,
		httpClient: httpClient,
		log:        log,
	}
}

func (o *OMDb) get(ctx context.Context, params map[string]string, v any) error {
	params["apikey"] = o.apiKey
	resp, err := sharedhttp.MakeRequest(ctx, sharedhttp.BuildQueryURL(o.baseURL, params), o.httpClient)
	if err != nil {
		return fmt.Errorf("omdb request failed: %w", err)
	}
	return sharedhttp.DecodeJSONResponse(resp, v)
}

func responseError(message string) *OMDbError {
	if message == "" {
		message = NoResultsMessage
	}
	return &OMDbError{Message: message}
}

// Search runs a title search and fills in runtime, director and genre for
// every hit. A hit whose detail lookup fails is returned without them.
func (o *OMDb) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	var sr omdbSearchResponse
	if err := o.get(ctx, map[string]string{"s": query}, &sr); err != nil {
		return nil, err
	}
	if sr.Response != "True" {
		return nil, responseError(sr.Error)
	}

	results := make([]models.SearchResult, len(sr.Search))
	for i, s := range sr.Search {
		results[i] = models.SearchResult{
			IMDbID: s.IMDbID,
			Title:  s.Title,
			Year:   s.Year,
			Type:   s.Type,
			Poster: s.Poster,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DetailConcurrency)

	var mu sync.Mutex
	for i := range results {
		g.Go(func() error {
			details, err := o.Details(gctx, results[i].IMDbID)
			if err != nil {
				o.log.Warn("Failed to fetch movie details", "imdb_id", results[i].IMDbID, "error", err)
				return nil
			}

			mu.Lock()
			results[i].Runtime = details.Runtime
			results[i].Director = details.Director
			results[i].Genre = details.Genre
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	o.log.Debug("OMDb search", "query", query, "results", len(results))
	return results, nil
}

// Details looks up a single title by imdb id.
func (o *OMDb) Details(ctx context.Context, imdbID string) (*models.SearchResult, error) {
	var dr omdbDetailResponse
	if err := o.get(ctx, map[string]string{"i": imdbID}, &dr); err != nil {
		return nil, err
	}
	if dr.Response != "True" {
		return nil, responseError(dr.Error)
	}

	return &models.SearchResult{
		IMDbID:   dr.IMDbID,
		Title:    dr.Title,
		Year:     dr.Year,
		Type:     dr.Type,
		Poster:   dr.Poster,
		Runtime:  dr.Runtime,
		Director: dr.Director,
		Genre:    dr.Genre,
	}, nil
}
