package models

import (
	"strconv"

	"github.com/google/uuid"
)

// notAvailable is what OMDb puts in fields it has no value for.
const notAvailable = "N/A"

// SearchResult is a single OMDb candidate. It only lives for one search.
type SearchResult struct {
	IMDbID   string `json:"imdb_id"`
	Title    string `json:"title"`
	Year     string `json:"year"`
	Type     string `json:"type"`
	Poster   string `json:"poster"`
	Runtime  string `json:"runtime,omitempty"`
	Director string `json:"director,omitempty"`
	Genre    string `json:"genre,omitempty"`

	// InCollection is set when the imdb id is already saved.
	InCollection bool `json:"in_collection"`
}

// HasPoster reports whether OMDb returned a usable poster URL.
func (r SearchResult) HasPoster() bool {
	return r.Poster != "" && r.Poster != notAvailable
}

// ToMovie maps the result to a new collection entry flagged to watch.
func (r SearchResult) ToMovie() Movie {
	m := Movie{
		ID:        uuid.NewString(),
		IMDbID:    r.IMDbID,
		Title:     r.Title,
		Year:      ParseYear(r.Year),
		WatchedBy: []string{},
		Runtime:   optional(r.Runtime),
		Director:  optional(r.Director),
		Genre:     optional(r.Genre),
		ToWatch:   true,
	}
	if r.HasPoster() {
		m.ImageURL = r.Poster
	}
	return m
}

// ParseYear reads the leading digits of an OMDb year such as "2010–2015".
// Anything without leading digits is 0.
func ParseYear(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	year, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return year
}

func optional(s string) *string {
	if s == "" || s == notAvailable {
		return nil
	}
	return &s
}
