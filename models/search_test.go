package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2010", 2010},
		{"2010–2015", 2010},
		{"1999-", 1999},
		{"", 0},
		{"N/A", 0},
		{"abc2010", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseYear(tt.in))
		})
	}
}

func TestSearchResultToMovie(t *testing.T) {
	r := SearchResult{
		IMDbID:   "tt1375666",
		Title:    "Inception",
		Year:     "2010",
		Type:     "movie",
		Poster:   "https://m.media-amazon.com/images/M/inception.jpg",
		Runtime:  "148 min",
		Director: "Christopher Nolan",
		Genre:    "N/A",
	}

	m := r.ToMovie()

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "tt1375666", m.IMDbID)
	assert.Equal(t, "Inception", m.Title)
	assert.Equal(t, 2010, m.Year)
	assert.Equal(t, r.Poster, m.ImageURL)
	assert.Empty(t, m.WatchedBy)
	assert.NotNil(t, m.WatchedBy)
	assert.True(t, m.ToWatch)
	require.NotNil(t, m.Runtime)
	assert.Equal(t, "148 min", *m.Runtime)
	require.NotNil(t, m.Director)
	assert.Equal(t, "Christopher Nolan", *m.Director)
	assert.Nil(t, m.Genre)
}

func TestSearchResultToMovieWithoutPoster(t *testing.T) {
	m := SearchResult{IMDbID: "tt0000001", Title: "Obscure", Year: "N/A", Poster: "N/A"}.ToMovie()

	assert.Empty(t, m.ImageURL)
	assert.Zero(t, m.Year)
	assert.Nil(t, m.Runtime)
}

func TestToMovieGeneratesDistinctIDs(t *testing.T) {
	r := SearchResult{IMDbID: "tt1", Title: "Same"}
	assert.NotEqual(t, r.ToMovie().ID, r.ToMovie().ID)
}

func TestListOptionsNormalize(t *testing.T) {
	o := ListOptions{SortBy: "rating; DROP TABLE movies", Order: "sideways", Page: -3}.Normalize()

	assert.Equal(t, SortCreatedAt, o.SortBy)
	assert.Equal(t, OrderDesc, o.Order)
	assert.Equal(t, 1, o.Page)
	assert.Equal(t, DefaultPageSize, o.PageSize)
	assert.Zero(t, o.Offset())

	o = ListOptions{SortBy: SortTitle, Order: OrderAsc, Page: 3, PageSize: 10}.Normalize()
	assert.Equal(t, SortTitle, o.SortBy)
	assert.Equal(t, OrderAsc, o.Order)
	assert.Equal(t, 20, o.Offset())
}

func TestListOptionsNormalizeBoundsPaging(t *testing.T) {
	o := ListOptions{Page: 999999999999999999, PageSize: 5000}.Normalize()

	assert.Equal(t, MaxPageSize, o.PageSize)
	assert.Positive(t, o.Offset())
	assert.LessOrEqual(t, o.Offset(), math.MaxInt32)
	assert.Equal(t, (o.Page-1)*o.PageSize, o.Offset())
}

func TestWatchedByViewer(t *testing.T) {
	m := Movie{WatchedBy: []string{"kenny"}}
	assert.True(t, m.WatchedByViewer("kenny"))
	assert.False(t, m.WatchedByViewer("nicole"))
}
