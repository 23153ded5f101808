package tmdb

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Category names one of the browse rows on the home screen.
type Category string

const (
	CategoryTrending Category = "trending/movie/week"
	CategoryPopular  Category = "movie/popular"
	CategoryTopRated Category = "movie/top_rated"
)

// Categories lists the home rows in display order.
var Categories = []Category{CategoryTrending, CategoryPopular, CategoryTopRated}

// Title returns the row heading for the category.
func (c Category) Title() string {
	switch c {
	case CategoryTrending:
		return "Trending Now"
	case CategoryPopular:
		return "Popular on MovieFlix"
	case CategoryTopRated:
		return "Top Rated"
	default:
		return string(c)
	}
}

// ParseCategory maps a CLI-friendly name to a Category.
func ParseCategory(name string) (Category, bool) {
	switch name {
	case "trending":
		return CategoryTrending, true
	case "popular":
		return CategoryPopular, true
	case "top-rated", "top_rated", "toprated":
		return CategoryTopRated, true
	}
	return "", false
}

// Movie mirrors a TMDB movie list result. Field names match the API so that a
// stored record round-trips unchanged.
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Adult        bool    `json:"adult"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
}

// Year returns the release year, or N/A when the date is missing or invalid.
func (m Movie) Year() string {
	if m.ReleaseDate == "" {
		return "N/A"
	}
	t, err := time.Parse("2006-01-02", m.ReleaseDate)
	if err != nil {
		return "N/A"
	}
	return strconv.Itoa(t.Year())
}

// Rating returns vote_average rounded to one decimal place.
func (m Movie) Rating() float64 {
	return math.Round(m.VoteAverage*10) / 10
}

// Genre is a named TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetails mirrors /movie/{id}.
type MovieDetails struct {
	Movie
	Genres  []Genre `json:"genres"`
	Runtime int     `json:"runtime"`
	Tagline string  `json:"tagline"`
	Status  string  `json:"status"`
}

// Person mirrors a /search/person result.
type Person struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
}

type movieListResponse struct {
	Page    int     `json:"page"`
	Results []Movie `json:"results"`
}

type personListResponse struct {
	Results []Person `json:"results"`
}

type movieCreditsResponse struct {
	ID   int64   `json:"id"`
	Cast []Movie `json:"cast"`
}

// ActorPrefix marks a query as an actor search.
const ActorPrefix = "actor:"

// ParseQuery splits an "actor:" query from a title query. The prefix is
// case-insensitive and quotes around the name are dropped.
func ParseQuery(q string) (actor bool, term string) {
	q = strings.TrimSpace(q)
	if len(q) >= len(ActorPrefix) && strings.EqualFold(q[:len(ActorPrefix)], ActorPrefix) {
		term = strings.Trim(strings.TrimSpace(q[len(ActorPrefix):]), `"'`)
		return true, strings.TrimSpace(term)
	}
	return false, q
}
