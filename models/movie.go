package models

import (
	"math"
	"slices"
	"time"
)

type Movie struct {
	ID        string    `json:"id"`
	IMDbID    string    `json:"imdb_id"`
	Title     string    `json:"title"`
	Year      int       `json:"year"`
	ImageURL  string    `json:"image_url"`
	WatchedBy []string  `json:"watched_by"`
	Runtime   *string   `json:"runtime,omitempty"`
	Director  *string   `json:"director,omitempty"`
	Genre     *string   `json:"genre,omitempty"`
	ToWatch   bool      `json:"to_watch"`
	CreatedAt time.Time `json:"created_at"`
}

// WatchedByViewer reports whether the named viewer has seen the movie.
func (m Movie) WatchedByViewer(name string) bool {
	return slices.Contains(m.WatchedBy, name)
}

// Sort fields accepted by ListOptions.
const (
	SortTitle     = "title"
	SortYear      = "year"
	SortCreatedAt = "created_at"

	OrderAsc  = "asc"
	OrderDesc = "desc"

	DefaultPageSize = 25
	MaxPageSize     = 100
)

// ListOptions describes one page of the collection.
type ListOptions struct {
	Filter   string `json:"filter"`
	SortBy   string `json:"sort_by"`
	Order    string `json:"order"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// Normalize replaces unknown or missing values with the defaults.
func (o ListOptions) Normalize() ListOptions {
	switch o.SortBy {
	case SortTitle, SortYear, SortCreatedAt:
	default:
		o.SortBy = SortCreatedAt
	}
	if o.Order != OrderAsc && o.Order != OrderDesc {
		o.Order = OrderDesc
	}
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	o.PageSize = min(o.PageSize, MaxPageSize)
	// Keeps Offset within an int32 OFFSET.
	o.Page = min(o.Page, math.MaxInt32/o.PageSize)
	return o
}

// Offset is the number of rows skipped before the page starts.
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.PageSize
}

type MoviePage struct {
	Movies  []Movie     `json:"movies"`
	Options ListOptions `json:"options"`
	HasNext bool        `json:"has_next"`
	HasPrev bool        `json:"has_prev"`
}
