package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Catalog defines the catalog operations movieflix relies on.
// This interface is implemented by *Client and can be used for testing.
type Catalog interface {
	FetchCategory(ctx context.Context, category Category) ([]Movie, error)
	SearchMovies(ctx context.Context, query string, includeAdult bool) ([]Movie, error)
	SearchByActor(ctx context.Context, name string, filterAdult bool) ([]Movie, error)
	Suggest(ctx context.Context, query string) ([]string, error)
	MovieDetails(ctx context.Context, id int64) (MovieDetails, error)
}

// Ensure Client implements Catalog at compile time.
var _ Catalog = (*Client)(nil)

// ErrActorNotFound is returned by SearchByActor when no person matches.
var ErrActorNotFound = errors.New("actor not found")

// Client talks to the TMDB v3 HTTP API.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	http      *http.Client
	userAgent string
}

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"

	// PlaceholderPoster stands in for movies without artwork.
	PlaceholderPoster = "https://placehold.co/150x225/808080/FFFFFF.png?text=No+Image"

	defaultUserAgent = "movieflix/0.1"
	requestTimeout   = 10 * time.Second
	suggestionLimit  = 10
)

// Options configure a Client.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a Client for the given API key and base URLs.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		baseURL:   base,
		apiKey:    strings.TrimSpace(opts.APIKey),
		http:      httpClient,
		userAgent: defaultUserAgent,
	}, nil
}

// FetchCategory retrieves the first page of a browse row.
func (c *Client) FetchCategory(ctx context.Context, category Category) ([]Movie, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload movieListResponse
	if err := c.get(ctx, string(category), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// SearchMovies runs a title search.
func (c *Client) SearchMovies(ctx context.Context, query string, includeAdult bool) ([]Movie, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("query", query)
	values.Set("include_adult", strconv.FormatBool(includeAdult))
	var payload movieListResponse
	if err := c.get(ctx, "search/movie", values, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// SearchPeople looks up people by name.
func (c *Client) SearchPeople(ctx context.Context, name string) ([]Person, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("query", name)
	var payload personListResponse
	if err := c.get(ctx, "search/person", values, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// PersonMovieCredits returns the movies a person was cast in.
func (c *Client) PersonMovieCredits(ctx context.Context, personID int64) ([]Movie, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if personID <= 0 {
		return nil, fmt.Errorf("person id required")
	}
	var payload movieCreditsResponse
	path := "person/" + strconv.FormatInt(personID, 10) + "/movie_credits"
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Cast, nil
}

// SearchByActor resolves name to the best matching person and returns their
// movie credits. Adult credits are dropped when filterAdult is set.
func (c *Client) SearchByActor(ctx context.Context, name string, filterAdult bool) ([]Movie, error) {
	people, err := c.SearchPeople(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(people) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrActorNotFound, name)
	}
	movies, err := c.PersonMovieCredits(ctx, people[0].ID)
	if err != nil {
		return nil, err
	}
	if !filterAdult {
		return movies, nil
	}
	kept := movies[:0]
	for _, m := range movies {
		if !m.Adult {
			kept = append(kept, m)
		}
	}
	return kept, nil
}

// Suggest returns up to ten title suggestions for an autocomplete prefix.
func (c *Client) Suggest(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("query", query)
	var payload movieListResponse
	if err := c.get(ctx, "search/movie", values, &payload); err != nil {
		return nil, err
	}
	results := payload.Results
	if len(results) > suggestionLimit {
		results = results[:suggestionLimit]
	}
	titles := make([]string, 0, len(results))
	for _, m := range results {
		titles = append(titles, m.Title)
	}
	return titles, nil
}

// MovieDetails fetches the full record for a movie.
func (c *Client) MovieDetails(ctx context.Context, id int64) (MovieDetails, error) {
	if c == nil {
		return MovieDetails{}, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return MovieDetails{}, fmt.Errorf("movie id required")
	}
	var payload MovieDetails
	if err := c.get(ctx, "movie/"+strconv.FormatInt(id, 10), nil, &payload); err != nil {
		return MovieDetails{}, err
	}
	return payload, nil
}

// ImageURL joins an image base and a TMDB image path, substituting the
// placeholder when path is empty.
func ImageURL(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return PlaceholderPoster
	}
	if base == "" {
		base = DefaultImageBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) get(ctx context.Context, path string, values url.Values, dest any) error {
	if values == nil {
		values = url.Values{}
	}
	values.Set("api_key", c.apiKey)

	// Keep the /3 prefix of the base URL when resolving.
	rel := &url.URL{Path: strings.TrimLeft(path, "/"), RawQuery: values.Encode()}
	reqURL := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", raw, err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
